package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kidylee/cloudworker-router/cache"
	"github.com/kidylee/cloudworker-router/observability"
	"github.com/kidylee/cloudworker-router/router"
)

// cachedResponse is the serialized form of a cached response.
type cachedResponse struct {
	Status int                 `json:"status"`
	Header map[string][]string `json:"header"`
	Body   []byte              `json:"body"`
}

// responseCache holds the state for the caching middleware.
type responseCache struct {
	store  cache.Cache
	ttl    time.Duration
	logger observability.Logger
}

// ResponseCacheOption is a functional option for ResponseCache.
type ResponseCacheOption func(*responseCache)

// WithCacheLogger sets the logger used for cache serialization
// failures.
func WithCacheLogger(logger observability.Logger) ResponseCacheOption {
	return func(rc *responseCache) {
		rc.logger = logger
	}
}

// ResponseCache returns a middleware that serves GET responses from
// the given cache. On a hit it terminates the request with the stored
// response; on a miss it returns a callback that stores successful
// responses for ttl. Cache-Control no-store and no-cache on the
// request bypass the cache entirely.
func ResponseCache[Env any](store cache.Cache, ttl time.Duration, opts ...ResponseCacheOption) router.Handler[Env] {
	rc := &responseCache{
		store:  store,
		ttl:    ttl,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(rc)
	}

	return func(ctx context.Context, c *router.Context[Env]) (router.Result, error) {
		if !cacheable(c.Request) {
			return nil, nil
		}

		key := c.Request.Method + " " + c.Request.URL

		if resp, ok := rc.lookup(ctx, key); ok {
			return resp, nil
		}

		return router.Callback(func(ctx context.Context, resp *router.Response, err error) (*router.Response, error) {
			if err == nil && resp.Status >= 200 && resp.Status < 300 {
				rc.persist(ctx, key, resp)
			}
			return resp, nil
		}), nil
	}
}

// cacheable reports whether the request is eligible for caching.
func cacheable(req *router.Request) bool {
	if !strings.EqualFold(req.Method, http.MethodGet) {
		return false
	}
	cc := req.Header.Get("Cache-Control")
	return !strings.Contains(cc, "no-store") && !strings.Contains(cc, "no-cache")
}

// lookup fetches and deserializes a cached response.
func (rc *responseCache) lookup(ctx context.Context, key string) (*router.Response, bool) {
	data, err := rc.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		rc.logger.Debug("cache deserialization failed, treating as miss",
			observability.String("key", key),
		)
		return nil, false
	}

	resp := router.NewResponse(cached.Status, cached.Body)
	if len(cached.Header) > 0 {
		resp.Header = http.Header(cached.Header).Clone()
	}
	resp.Header.Set(HeaderCacheStatus, "HIT")
	return resp, true
}

// store_ serializes and stores a response, logging failures instead of
// surfacing them to the client.
func (rc *responseCache) persist(ctx context.Context, key string, resp *router.Response) {
	data, err := json.Marshal(cachedResponse{
		Status: resp.Status,
		Header: resp.Header,
		Body:   resp.Body,
	})
	if err != nil {
		rc.logger.Debug("cache serialization failed",
			observability.String("key", key),
		)
		return
	}

	if err := rc.store.Set(ctx, key, data, rc.ttl); err != nil {
		rc.logger.Warn("cache write failed",
			observability.String("key", key),
			observability.Error(err),
		)
	}
}
