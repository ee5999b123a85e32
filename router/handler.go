package router

import "context"

// Result is what a handler produces. A *Response terminates the
// request, a Callback defers to finalization, and nil passes control
// to the next matching route.
type Result interface {
	routeResult()
}

// Handler processes a matched request. It may perform blocking work
// using ctx; the dispatcher waits for it to return before moving to
// the next candidate or callback.
type Handler[Env any] func(ctx context.Context, c *Context[Env]) (Result, error)

// Callback post-processes the eventual response. It receives the
// current response and the current error, if any, and may replace the
// response. Callbacks run in registration order during finalization.
type Callback func(ctx context.Context, resp *Response, err error) (*Response, error)

func (*Response) routeResult() {}
func (Callback) routeResult()  {}
