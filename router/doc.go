// Package router implements ordered-match request routing and dispatch
// for edge-compute runtimes.
//
// Routes are matched in registration order: the first registered route
// whose method and path accept the request wins, with no priority
// scoring. Handlers either terminate the request with a response,
// defer by returning a post-processing callback, or pass to the next
// candidate by returning nothing.
//
// # Features
//
//   - Path templates with named captures, wildcards, and raw regex groups
//   - Method filtering with an any-method wildcard
//   - Implicit HEAD support for GET routes, with body stripping
//   - Callback middleware run in order during response finalization
//   - Contained handler and callback failures; a response is always produced
//   - Allowed-methods introspection for OPTIONS handling
//
// # Usage
//
// Register routes, then hand requests to Handle:
//
//	r := router.New[MyBindings]()
//	r.Get("/users/:id", getUser).
//		Post("/users", createUser).
//		Use(logging)
//
//	resp := r.Handle(ctx, req, bindings, execCtx)
//
// Registration must complete before serving begins. The route table is
// read-only during dispatch and safe for concurrent request handling.
package router
