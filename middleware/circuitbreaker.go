package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kidylee/cloudworker-router/observability"
	"github.com/kidylee/cloudworker-router/router"
)

// CircuitBreaker wraps a two-step breaker so the decision to admit a
// request and the report of its outcome can live on opposite sides of
// the handler pipeline.
type CircuitBreaker struct {
	cb     *gobreaker.TwoStepCircuitBreaker
	logger observability.Logger
}

// CircuitBreakerOption is a functional option for the circuit breaker.
type CircuitBreakerOption func(*CircuitBreaker)

// WithCircuitBreakerLogger sets the logger for the circuit breaker.
func WithCircuitBreakerLogger(logger observability.Logger) CircuitBreakerOption {
	return func(cb *CircuitBreaker) {
		cb.logger = logger
	}
}

// NewCircuitBreaker creates a circuit breaker that trips when at least
// threshold requests have been seen in the current interval and half
// of them failed.
func NewCircuitBreaker(name string, threshold uint32, timeout time.Duration, opts ...CircuitBreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(cb)
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: threshold,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= threshold && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cb.logger.Info("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
		},
	}

	cb.cb = gobreaker.NewTwoStepCircuitBreaker(settings)
	return cb
}

// Break returns a middleware guarding downstream handlers with the
// circuit breaker. While the breaker is open it answers 503
// immediately; otherwise the outcome is reported from the final
// response status during finalization.
func Break[Env any](cb *CircuitBreaker) router.Handler[Env] {
	return func(_ context.Context, c *router.Context[Env]) (router.Result, error) {
		done, err := cb.cb.Allow()
		if err != nil {
			cb.logger.Warn("circuit breaker rejected request",
				observability.String("path", c.Path),
				observability.Error(err),
			)
			return router.Text(http.StatusServiceUnavailable, bodyCircuitOpen), nil
		}

		return router.Callback(func(_ context.Context, resp *router.Response, dispatchErr error) (*router.Response, error) {
			done(dispatchErr == nil && resp.Status < http.StatusInternalServerError)
			return resp, nil
		}), nil
	}
}
