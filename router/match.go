package router

import (
	"github.com/kidylee/cloudworker-router/pattern"
)

// RouteMatch is one candidate produced during matching: the route, the
// named parameter values, and the raw ordered captures.
type RouteMatch[Env any] struct {
	Route    *Route[Env]
	Params   map[string]string
	Captures []string
}

// matchCursor walks the route table lazily, yielding candidates in
// registration order. It is single-pass: once exhausted it cannot be
// restarted, and matching the same table again requires a new cursor.
type matchCursor[Env any] struct {
	routes []*Route[Env]
	method Method
	path   string
	index  int

	// pending holds the full-matcher yield queued behind a fast-path
	// yield for the same route.
	pending *RouteMatch[Env]
}

// matches starts a candidate sequence for the given request method and
// path. The table itself is never mutated by matching, so concurrent
// cursors over one router are safe.
func (r *Router[Env]) matches(method Method, path string) *matchCursor[Env] {
	return &matchCursor[Env]{
		routes: r.routes,
		method: method,
		path:   path,
	}
}

// Next yields the next candidate, or ok=false at end of sequence.
func (c *matchCursor[Env]) Next() (*RouteMatch[Env], bool) {
	if c.pending != nil {
		m := c.pending
		c.pending = nil
		return m, true
	}

	for c.index < len(c.routes) {
		rt := c.routes[c.index]
		c.index++

		// Method filter is cheap; apply it before any regex work.
		if !rt.Method.Matches(c.method) {
			continue
		}

		// Catch-all fast path: skip the regex entirely and expose the
		// full request path as the single positional parameter.
		if pattern.IsCatchAll(rt.Path) {
			return &RouteMatch[Env]{
				Route:    rt,
				Params:   map[string]string{"0": c.path},
				Captures: []string{c.path},
			}, true
		}

		// Bare-root fast path for prefix-mode roots. This shortcut is
		// additive: the full matcher below may yield the same route a
		// second time for one request.
		var fast *RouteMatch[Env]
		if rt.Path == "/" && !rt.Options.End {
			fast = &RouteMatch[Env]{
				Route:  rt,
				Params: map[string]string{},
			}
		}

		full := execRoute(rt, c.path)

		switch {
		case fast != nil && full != nil:
			c.pending = full
			return fast, true
		case fast != nil:
			return fast, true
		case full != nil:
			return full, true
		}
	}

	return nil, false
}

// execRoute runs the compiled matcher and converts the ordered capture
// list into named parameters. Captures bind to keys by index; an empty
// capture is omitted from the parameter map rather than stored.
func execRoute[Env any](rt *Route[Env], path string) *RouteMatch[Env] {
	captures, ok := rt.Pattern.Exec(path)
	if !ok {
		return nil
	}

	params := make(map[string]string, len(rt.Keys))
	for i, key := range rt.Keys {
		if i < len(captures) && captures[i] != "" {
			params[key] = captures[i]
		}
	}

	return &RouteMatch[Env]{
		Route:    rt,
		Params:   params,
		Captures: captures,
	}
}
