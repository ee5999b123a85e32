package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kidylee/cloudworker-router/router"
)

func TestTracing_PassesResponseThrough(t *testing.T) {
	t.Parallel()

	r := newTestRouter(Tracing[env](nil), okHandler("traced"))

	resp := r.Handle(context.Background(), router.NewRequest("GET", "/test"), env{}, nil)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "traced", string(resp.Body))
}

func TestTracing_SpanVisibleToHandlers(t *testing.T) {
	t.Parallel()

	var sawSpan bool
	r := newTestRouter(Tracing[env](nil), func(_ context.Context, c *router.Context[env]) (router.Result, error) {
		sawSpan = SpanFromState(c) != nil
		return router.Text(http.StatusOK, "ok"), nil
	})

	r.Handle(context.Background(), router.NewRequest("GET", "/test"), env{}, nil)
	assert.True(t, sawSpan)
}

func TestTracing_SurvivesHandlerError(t *testing.T) {
	t.Parallel()

	r := newTestRouter(Tracing[env](nil), func(_ context.Context, _ *router.Context[env]) (router.Result, error) {
		return nil, assert.AnError
	})

	resp := r.Handle(context.Background(), router.NewRequest("GET", "/test"), env{}, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
}
