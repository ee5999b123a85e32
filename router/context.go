package router

import (
	"net/url"
)

// Context is the per-request state threaded through every handler
// invocation. It is exclusively owned by one request's execution and
// must not be shared across requests.
//
// Env carries the hosting runtime's bindings and Exec its execution
// context handle; both are opaque to the router and passed through
// unchanged.
type Context[Env any] struct {
	Request *Request

	// Path and Query are parsed from the request URL once, before
	// matching begins.
	Path  string
	Query url.Values

	// Params holds the capture values of the most recently attempted
	// match. It is replaced on every match attempt.
	Params map[string]string

	// State is a free-form container for inter-handler communication
	// within a single request.
	State map[string]any

	Env  Env
	Exec any
}

// newContext builds the request context, parsing path and query from
// the request URL. An unparseable URL is treated as a bare path.
func newContext[Env any](req *Request, env Env, exec any) *Context[Env] {
	c := &Context[Env]{
		Request: req,
		Path:    req.URL,
		Params:  map[string]string{},
		State:   map[string]any{},
		Env:     env,
		Exec:    exec,
	}

	if u, err := url.Parse(req.URL); err == nil {
		c.Path = u.Path
		c.Query = u.Query()
	}

	return c
}

// Param returns the named capture value from the current match.
func (c *Context[Env]) Param(name string) string {
	return c.Params[name]
}
