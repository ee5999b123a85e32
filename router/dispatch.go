package router

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Fixed bodies for the dispatcher's synthesized responses.
const (
	notFoundBody    = "Not Found"
	serverErrorBody = "Server Error"
)

// Handle drives a request through the match sequence and handler
// pipeline and always produces a response: handler and callback
// failures are contained and converted into response-level signals,
// and an empty match sequence yields the fixed 404.
//
// env and exec are the hosting runtime's bindings and execution
// context handle; the router passes them through unchanged.
func (r *Router[Env]) Handle(ctx context.Context, req *Request, env Env, exec any) *Response {
	c := newContext(req, env, exec)
	method := Method(strings.ToUpper(req.Method))

	cursor := r.matches(method, c.Path)
	m := getDispatchMetrics()

	var (
		resp        *Response
		dispatchErr error
		callbacks   []Callback
	)

	for resp == nil {
		match, ok := cursor.Next()
		if !ok {
			m.notFoundTotal.Inc()
			m.requestsTotal.WithLabelValues(string(method), strconv.Itoa(http.StatusNotFound)).Inc()
			return Text(http.StatusNotFound, notFoundBody)
		}

		// Params always reflect the most recently attempted match.
		c.Params = match.Params

		result, err := invokeHandler(ctx, match.Route.Handler, c)
		if err != nil {
			// Contain the failure and proceed as if the handler had
			// returned the default error response.
			m.handlerFailures.Inc()
			dispatchErr = err
			resp = Text(http.StatusInternalServerError, serverErrorBody)
			break
		}

		switch v := result.(type) {
		case *Response:
			resp = v
		case Callback:
			callbacks = append(callbacks, v)
		case nil:
			// Handler deferred without a callback; try the next
			// candidate.
		}
	}

	for _, cb := range callbacks {
		next, err := invokeCallback(ctx, cb, resp, dispatchErr)
		if err != nil {
			// Record the failure, keep the previous response, and let
			// the remaining callbacks run.
			m.callbackFailures.Inc()
			dispatchErr = err
			continue
		}
		if next != nil {
			resp = next
		}
	}

	if method == HEAD {
		resp = resp.WithoutBody()
	}

	m.requestsTotal.WithLabelValues(string(method), strconv.Itoa(resp.Status)).Inc()
	return resp
}

// invokeHandler runs a handler with panic containment. A panic is
// reported as an ordinary handler error.
func invokeHandler[Env any](ctx context.Context, h Handler[Env], c *Context[Env]) (result Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return h(ctx, c)
}

// invokeCallback runs a finalization callback with panic containment.
func invokeCallback(ctx context.Context, cb Callback, resp *Response, dispatchErr error) (next *Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			next = nil
			err = fmt.Errorf("callback panic: %v", p)
		}
	}()
	return cb(ctx, resp, dispatchErr)
}
