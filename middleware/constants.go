// Package middleware provides handlers for the router's callback
// pipeline. Each middleware either terminates the request with a
// response, passes to the next candidate, or returns a callback that
// post-processes the eventual response.
package middleware

// Header names used by the middlewares.
const (
	HeaderRequestID   = "X-Request-ID"
	HeaderRetryAfter  = "Retry-After"
	HeaderCacheStatus = "X-Cache"
	HeaderContentType = "Content-Type"
)

// State keys used for inter-handler communication.
const (
	StateKeyRequestID = "middleware.request_id"
	StateKeySpan      = "middleware.span"
)

// Fixed bodies for middleware-synthesized responses.
const (
	bodyRateLimited = "Too Many Requests"
	bodyCircuitOpen = "Service Unavailable"
)
