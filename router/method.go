package router

import (
	"fmt"
	"strings"
)

// Method is an HTTP method restriction on a route. The zero value is
// not valid; use one of the enumerated constants or All.
type Method string

// Enumerated methods plus the wildcard.
const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"

	// All matches any request method.
	All Method = "*"
)

// methods is the closed set of concrete methods a route may declare.
var methods = map[Method]bool{
	GET:     true,
	POST:    true,
	PUT:     true,
	PATCH:   true,
	DELETE:  true,
	HEAD:    true,
	OPTIONS: true,
}

// ParseMethod normalizes s and validates it against the method set.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(s))
	if m == All || methods[m] {
		return m, nil
	}
	return "", fmt.Errorf("unsupported method %q", s)
}

// Matches reports whether the route method accepts the request method.
func (m Method) Matches(request Method) bool {
	return m == All || m == request
}
