package httpadapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidylee/cloudworker-router/router"
)

type testEnv struct {
	Service string
}

func TestHandler_ServesRoute(t *testing.T) {
	t.Parallel()

	rt := router.New[testEnv]()
	rt.Get("/items/:id", func(_ context.Context, c *router.Context[testEnv]) (router.Result, error) {
		resp := router.Text(http.StatusOK, c.Env.Service+" item "+c.Param("id"))
		resp.Header.Set("X-Query", c.Query.Encode())
		return resp, nil
	})

	srv := httptest.NewServer(Handler(rt, testEnv{Service: "edge"}))
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL + "/items/42?full=1")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "edge item 42", string(body))
	assert.Equal(t, "full=1", res.Header.Get("X-Query"))
	assert.Equal(t, "text/plain; charset=utf-8", res.Header.Get("Content-Type"))
}

func TestHandler_NotFound(t *testing.T) {
	t.Parallel()

	rt := router.New[testEnv]()
	rt.Get("/known", func(_ context.Context, _ *router.Context[testEnv]) (router.Result, error) {
		return router.Text(http.StatusOK, "ok"), nil
	})

	srv := httptest.NewServer(Handler(rt, testEnv{}))
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHandler_ForwardsRequestBody(t *testing.T) {
	t.Parallel()

	rt := router.New[testEnv]()
	rt.Post("/echo", func(_ context.Context, c *router.Context[testEnv]) (router.Result, error) {
		return router.Text(http.StatusOK, string(c.Request.Body)), nil
	})

	srv := httptest.NewServer(Handler(rt, testEnv{}))
	t.Cleanup(srv.Close)

	res, err := http.Post(srv.URL+"/echo", "text/plain", strings.NewReader("payload"))
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
}

func TestHandler_HEADHasNoBody(t *testing.T) {
	t.Parallel()

	rt := router.New[testEnv]()
	rt.Get("/doc", func(_ context.Context, _ *router.Context[testEnv]) (router.Result, error) {
		return router.Text(http.StatusOK, "full body"), nil
	})

	srv := httptest.NewServer(Handler(rt, testEnv{}))
	t.Cleanup(srv.Close)

	res, err := http.Head(srv.URL + "/doc")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, body)
}
