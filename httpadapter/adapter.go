// Package httpadapter bridges net/http servers onto the router.
package httpadapter

import (
	"io"
	"net/http"

	"github.com/kidylee/cloudworker-router/router"
)

// Handler adapts a router to the standard http.Handler interface. The
// env value is shared by every request; per-request state belongs in
// the routing context.
func Handler[Env any](rt *router.Router[Env], env Env) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := &router.Request{
			Method: r.Method,
			URL:    r.RequestURI,
			Header: r.Header,
		}

		if r.Body != nil {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "failed to read request body", http.StatusBadRequest)
				return
			}
			req.Body = body
		}

		resp := rt.Handle(r.Context(), req, env, nil)

		for key, values := range resp.Header {
			for _, v := range values {
				w.Header().Add(key, v)
			}
		}
		w.WriteHeader(resp.Status)
		if len(resp.Body) > 0 {
			_, _ = w.Write(resp.Body)
		}
	})
}
