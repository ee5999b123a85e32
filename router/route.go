package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kidylee/cloudworker-router/pattern"
)

// Route binds a method and a compiled path template to a handler.
// Routes are immutable once registered; their position in the table is
// their match priority.
type Route[Env any] struct {
	Method  Method
	Path    string
	Pattern *pattern.Pattern
	Keys    []string
	Options pattern.Options
	Handler Handler[Env]

	// headAlias marks the HEAD route implicitly registered alongside a
	// GET route. Alias routes are skipped by AllowedMethods.
	headAlias bool
}

// Router matches requests against its route table in registration
// order and dispatches them through the handler pipeline.
//
// Registration must complete before request handling begins; the table
// is read-only under dispatch and safe for concurrent matching.
type Router[Env any] struct {
	routes []*Route[Env]
}

// New creates an empty router.
func New[Env any]() *Router[Env] {
	return &Router[Env]{}
}

// RouteOption adjusts the pattern compile options for one registration.
type RouteOption func(*pattern.Options)

// WithPrefix makes the route match any path its template prefixes,
// instead of terminal paths only.
func WithPrefix() RouteOption {
	return func(o *pattern.Options) { o.End = false }
}

// WithStrict disallows the optional trailing slash.
func WithStrict() RouteOption {
	return func(o *pattern.Options) { o.Strict = true }
}

// WithCaseSensitive makes path matching case-sensitive.
func WithCaseSensitive() RouteOption {
	return func(o *pattern.Options) { o.Sensitive = true }
}

// Register compiles path and appends a route to the table. The
// wildcard sentinel "*" is rewritten to the catch-all template before
// compilation. A malformed template fails here and adds no route.
//
// Registering a GET route additionally registers an identical HEAD
// route so HEAD requests reuse GET handlers.
func (r *Router[Env]) Register(method Method, path string, h Handler[Env], opts ...RouteOption) error {
	if method != All && !methods[method] {
		return fmt.Errorf("register %s %s: unsupported method", method, path)
	}
	if h == nil {
		return fmt.Errorf("register %s %s: nil handler", method, path)
	}

	if path == "*" {
		path = pattern.CatchAll
	}

	o := pattern.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p, err := pattern.Compile(path, o)
	if err != nil {
		return fmt.Errorf("register %s %s: %w", method, path, err)
	}

	r.routes = append(r.routes, &Route[Env]{
		Method:  method,
		Path:    path,
		Pattern: p,
		Keys:    p.Keys(),
		Options: o,
		Handler: h,
	})

	if method == GET {
		r.routes = append(r.routes, &Route[Env]{
			Method:    HEAD,
			Path:      path,
			Pattern:   p,
			Keys:      p.Keys(),
			Options:   o,
			Handler:   h,
			headAlias: true,
		})
	}

	return nil
}

// mustRegister backs the chainable shorthands. Routes are registered at
// initialization time, so a malformed template is a programming error.
func (r *Router[Env]) mustRegister(method Method, path string, h Handler[Env], opts []RouteOption) *Router[Env] {
	if err := r.Register(method, path, h, opts...); err != nil {
		panic(err)
	}
	return r
}

// Get registers a GET route (and its HEAD alias).
func (r *Router[Env]) Get(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(GET, path, h, opts)
}

// Post registers a POST route.
func (r *Router[Env]) Post(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(POST, path, h, opts)
}

// Put registers a PUT route.
func (r *Router[Env]) Put(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(PUT, path, h, opts)
}

// Patch registers a PATCH route.
func (r *Router[Env]) Patch(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(PATCH, path, h, opts)
}

// Delete registers a DELETE route.
func (r *Router[Env]) Delete(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(DELETE, path, h, opts)
}

// Head registers a HEAD route.
func (r *Router[Env]) Head(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(HEAD, path, h, opts)
}

// Options registers an OPTIONS route.
func (r *Router[Env]) Options(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(OPTIONS, path, h, opts)
}

// All registers a route matching every method at the given path.
func (r *Router[Env]) All(path string, h Handler[Env], opts ...RouteOption) *Router[Env] {
	return r.mustRegister(All, path, h, opts)
}

// Use registers each handler as an any-method catch-all, the usual
// shape for middleware.
func (r *Router[Env]) Use(handlers ...Handler[Env]) *Router[Env] {
	for _, h := range handlers {
		r.mustRegister(All, pattern.CatchAll, h, nil)
	}
	return r
}

// Routes returns a copy of the route table in registration order.
func (r *Router[Env]) Routes() []*Route[Env] {
	routes := make([]*Route[Env], len(r.routes))
	copy(routes, r.routes)
	return routes
}

// AllowedMethods returns a handler that answers with the concrete
// methods registered for the request path. It scans the whole table,
// skipping any-method routes and implicit HEAD aliases, and responds
// 204 with an Allow header listing OPTIONS plus every method whose
// matcher accepts the path, in table order with duplicates suppressed.
func (r *Router[Env]) AllowedMethods() Handler[Env] {
	return func(_ context.Context, c *Context[Env]) (Result, error) {
		allow := []string{string(OPTIONS)}
		seen := map[Method]bool{OPTIONS: true}

		for _, rt := range r.routes {
			if rt.Method == All || rt.headAlias || seen[rt.Method] {
				continue
			}
			if _, ok := rt.Pattern.Exec(c.Path); ok {
				seen[rt.Method] = true
				allow = append(allow, string(rt.Method))
			}
		}

		resp := NewResponse(http.StatusNoContent, nil)
		resp.Header.Set("Allow", strings.Join(allow, ", "))
		return resp, nil
	}
}
