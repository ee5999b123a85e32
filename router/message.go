package router

import (
	"encoding/json"
	"net/http"
)

// Request is the inbound request abstraction the dispatcher consumes.
// It carries only what matching and dispatch need; transport concerns
// stay with the hosting runtime.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// NewRequest creates a request with an empty header set.
func NewRequest(method, url string) *Request {
	return &Request{
		Method: method,
		URL:    url,
		Header: make(http.Header),
	}
}

// Response is the outbound response abstraction handlers produce.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewResponse creates a response with the given status and body.
func NewResponse(status int, body []byte) *Response {
	return &Response{
		Status: status,
		Header: make(http.Header),
		Body:   body,
	}
}

// Text creates a plain-text response.
func Text(status int, body string) *Response {
	r := NewResponse(status, []byte(body))
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	return r
}

// JSON creates an application/json response from v.
func JSON(status int, v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	r := NewResponse(status, data)
	r.Header.Set("Content-Type", "application/json")
	return r, nil
}

// WithoutBody returns a copy of the response with the same status and
// headers but an empty body. Used to answer HEAD requests.
func (r *Response) WithoutBody() *Response {
	return &Response{
		Status: r.Status,
		Header: r.Header.Clone(),
		Body:   nil,
	}
}
