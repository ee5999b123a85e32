package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kidylee/cloudworker-router/observability"
	"github.com/kidylee/cloudworker-router/router"
)

// Rate limiter defaults.
const (
	// DefaultClientTTL is how long an idle per-client limiter is kept.
	DefaultClientTTL = 10 * time.Minute

	// clientCleanupInterval is how often idle limiters are swept.
	clientCleanupInterval = time.Minute
)

// clientEntry holds a per-client limiter and its last access time.
type clientEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a token-bucket limit, either globally or per
// client key.
type RateLimiter struct {
	limiter   *rate.Limiter
	perClient bool
	clients   map[string]*clientEntry
	mu        sync.Mutex
	rps       int
	burst     int
	logger    observability.Logger
	clientTTL time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// RateLimiterOption is a functional option for the rate limiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterLogger sets the logger for the rate limiter.
func WithRateLimiterLogger(logger observability.Logger) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.logger = logger
	}
}

// WithClientTTL sets how long idle per-client limiters are retained.
func WithClientTTL(ttl time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.clientTTL = ttl
	}
}

// NewRateLimiter creates a rate limiter. With perClient set, each
// distinct client key gets its own bucket; idle buckets are swept in
// the background and the caller should Stop the limiter on shutdown.
func NewRateLimiter(rps, burst int, perClient bool, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		perClient: perClient,
		clients:   make(map[string]*clientEntry),
		rps:       rps,
		burst:     burst,
		logger:    observability.NopLogger(),
		clientTTL: DefaultClientTTL,
		stopCh:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(rl)
	}

	if perClient {
		go rl.cleanupLoop()
	}

	return rl
}

// Allow checks whether one request for the given client key may pass.
func (rl *RateLimiter) Allow(clientKey string) bool {
	if !rl.perClient {
		return rl.limiter.Allow()
	}

	now := time.Now()

	rl.mu.Lock()
	entry, ok := rl.clients[clientKey]
	if !ok {
		entry = &clientEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.rps), rl.burst),
		}
		rl.clients[clientKey] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// Stop terminates the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// cleanupLoop sweeps idle per-client limiters.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(clientCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, entry := range rl.clients {
				if now.Sub(entry.lastAccess) > rl.clientTTL {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// KeyFunc derives the rate-limit bucket key from the request context.
type KeyFunc[Env any] func(c *router.Context[Env]) string

// ClientIPKey keys buckets by the client address advertised in proxy
// headers.
func ClientIPKey[Env any]() KeyFunc[Env] {
	return func(c *router.Context[Env]) string {
		if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
			return ip
		}
		return c.Request.Header.Get("X-Forwarded-For")
	}
}

// RateLimit returns a middleware that rejects requests exceeding the
// limit with 429 and a Retry-After hint. key may be nil for a global
// limiter.
func RateLimit[Env any](rl *RateLimiter, key KeyFunc[Env]) router.Handler[Env] {
	return func(_ context.Context, c *router.Context[Env]) (router.Result, error) {
		clientKey := ""
		if key != nil {
			clientKey = key(c)
		}

		if rl.Allow(clientKey) {
			return nil, nil
		}

		rl.logger.Warn("rate limit exceeded",
			observability.String("client", clientKey),
			observability.String("path", c.Path),
		)

		resp := router.Text(http.StatusTooManyRequests, bodyRateLimited)
		resp.Header.Set(HeaderRetryAfter, "1")
		return resp, nil
	}
}
