package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kidylee/cloudworker-router/router"
)

func TestHeaders_SetOnResponse(t *testing.T) {
	t.Parallel()

	r := newTestRouter(Headers[env](map[string]string{
		"X-Service": "edge",
		"Server":    "cloudworker",
	}), okHandler("ok"))

	resp := r.Handle(context.Background(), router.NewRequest("GET", "/test"), env{}, nil)

	assert.Equal(t, "edge", resp.Header.Get("X-Service"))
	assert.Equal(t, "cloudworker", resp.Header.Get("Server"))
}

func TestHeaders_AppliedToNotFoundBypassed(t *testing.T) {
	t.Parallel()

	r := router.New[env]()
	r.Use(Headers[env](map[string]string{"X-Service": "edge"}))
	r.Get("/known", okHandler("ok"))

	// No route terminates the request, so finalization never runs and
	// the header middleware does not touch the fixed 404.
	resp := r.Handle(context.Background(), router.NewRequest("GET", "/missing"), env{}, nil)
	assert.Empty(t, resp.Header.Get("X-Service"))
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	r := newTestRouter(SecurityHeaders[env](), okHandler("ok"))

	resp := r.Handle(context.Background(), router.NewRequest("GET", "/test"), env{}, nil)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", resp.Header.Get("Referrer-Policy"))
}
