package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kidylee/cloudworker-router/router"
)

func TestBreak_PassesHealthyRequests(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("healthy", 2, time.Minute)
	r := newTestRouter(Break[env](cb), okHandler("ok"))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		resp := r.Handle(ctx, router.NewRequest("GET", "/test"), env{}, nil)
		assert.Equal(t, http.StatusOK, resp.Status)
	}
}

func TestBreak_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("failing", 2, time.Minute)
	r := newTestRouter(Break[env](cb), okHandler("ok"))
	r.Get("/broken", func(_ context.Context, _ *router.Context[env]) (router.Result, error) {
		return router.Text(http.StatusInternalServerError, "boom"), nil
	})

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp := r.Handle(ctx, router.NewRequest("GET", "/broken"), env{}, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
	}

	// The breaker is open now; even the healthy route is short-circuited.
	resp := r.Handle(ctx, router.NewRequest("GET", "/test"), env{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, bodyCircuitOpen, string(resp.Body))
}

func TestBreak_HandlerErrorCountsAsFailure(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("erroring", 2, time.Minute)
	r := newTestRouter(Break[env](cb), func(_ context.Context, _ *router.Context[env]) (router.Result, error) {
		return nil, assert.AnError
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		resp := r.Handle(ctx, router.NewRequest("GET", "/test"), env{}, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
	}

	resp := r.Handle(ctx, router.NewRequest("GET", "/test"), env{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
}
