package middleware

import (
	"context"

	"github.com/kidylee/cloudworker-router/router"
)

// Headers returns a middleware that sets the given headers on every
// response during finalization. Existing values are overwritten.
func Headers[Env any](set map[string]string) router.Handler[Env] {
	return func(_ context.Context, _ *router.Context[Env]) (router.Result, error) {
		return router.Callback(func(_ context.Context, resp *router.Response, _ error) (*router.Response, error) {
			for name, value := range set {
				resp.Header.Set(name, value)
			}
			return resp, nil
		}), nil
	}
}

// SecurityHeaders returns a middleware that applies a conservative set
// of security response headers.
func SecurityHeaders[Env any]() router.Handler[Env] {
	return Headers[Env](map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	})
}
