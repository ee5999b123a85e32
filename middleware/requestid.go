package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/kidylee/cloudworker-router/router"
)

// RequestID returns a middleware that assigns each request an ID. An
// inbound X-Request-ID header is honored; otherwise a fresh UUID is
// generated. The ID is stored in the request state for downstream
// handlers and echoed on the response.
func RequestID[Env any]() router.Handler[Env] {
	return RequestIDWithGenerator[Env](func() string {
		return uuid.New().String()
	})
}

// RequestIDWithGenerator returns a request ID middleware that uses a
// custom ID generator.
func RequestIDWithGenerator[Env any](generator func() string) router.Handler[Env] {
	return func(_ context.Context, c *router.Context[Env]) (router.Result, error) {
		id := c.Request.Header.Get(HeaderRequestID)
		if id == "" {
			id = generator()
		}

		c.State[StateKeyRequestID] = id

		return router.Callback(func(_ context.Context, resp *router.Response, _ error) (*router.Response, error) {
			resp.Header.Set(HeaderRequestID, id)
			return resp, nil
		}), nil
	}
}

// RequestIDFromState extracts the assigned request ID, if any.
func RequestIDFromState[Env any](c *router.Context[Env]) string {
	id, _ := c.State[StateKeyRequestID].(string)
	return id
}
