package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kidylee/cloudworker-router/router"
)

// Tracing returns a middleware that opens a server span per request
// and closes it during finalization with the final status. A nil
// tracer uses the globally registered tracer provider.
func Tracing[Env any](tracer trace.Tracer) router.Handler[Env] {
	if tracer == nil {
		tracer = otel.Tracer("cloudworker-router/middleware")
	}

	return func(ctx context.Context, c *router.Context[Env]) (router.Result, error) {
		_, span := tracer.Start(ctx, c.Request.Method+" "+c.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("url.path", c.Path),
			),
		)
		c.State[StateKeySpan] = span

		return router.Callback(func(_ context.Context, resp *router.Response, err error) (*router.Response, error) {
			span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else if resp.Status >= 500 {
				span.SetStatus(codes.Error, "")
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
			return resp, nil
		}), nil
	}
}

// SpanFromState extracts the active request span, if any. Handlers can
// use it to add domain attributes or start child spans.
func SpanFromState[Env any](c *router.Context[Env]) trace.Span {
	span, _ := c.State[StateKeySpan].(trace.Span)
	return span
}
