package middleware

import (
	"context"
	"time"

	"github.com/kidylee/cloudworker-router/observability"
	"github.com/kidylee/cloudworker-router/router"
)

// Logging returns a middleware that logs every request it sees. The
// entry is written during finalization so it carries the final status,
// response size, and total duration.
func Logging[Env any](logger observability.Logger) router.Handler[Env] {
	return func(_ context.Context, c *router.Context[Env]) (router.Result, error) {
		start := time.Now()
		method := c.Request.Method
		path := c.Path

		return router.Callback(func(_ context.Context, resp *router.Response, err error) (*router.Response, error) {
			fields := []observability.Field{
				observability.String("method", method),
				observability.String("path", path),
				observability.Int("status", resp.Status),
				observability.Int("size", len(resp.Body)),
				observability.Duration("duration", time.Since(start)),
			}
			if id := RequestIDFromState(c); id != "" {
				fields = append(fields, observability.String("request_id", id))
			}

			if err != nil {
				fields = append(fields, observability.Error(err))
				logger.Error("request failed", fields...)
			} else {
				logger.Info("request handled", fields...)
			}

			return resp, nil
		}), nil
	}
}
