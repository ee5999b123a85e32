// Package pattern compiles path templates into matchers for the router.
//
// A template is an absolute path whose segments may contain named
// captures (":id"), wildcards ("*"), or raw parenthesized regular
// expression groups ("(.*)"). Compilation produces an anchored regular
// expression plus the ordered list of capture key names; execution
// returns the ordered capture values for a concrete request path.
package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CatchAll is the template that matches every path. Registering the
// wildcard sentinel "*" rewrites to this template before compilation.
const CatchAll = "(.*)"

// IsCatchAll reports whether the template is the catch-all pattern.
func IsCatchAll(path string) bool {
	return path == CatchAll
}

// Options controls how a template is compiled.
type Options struct {
	// Sensitive makes matching case-sensitive. Matching is
	// case-insensitive by default.
	Sensitive bool

	// Strict disallows an optional trailing slash on terminal matches.
	Strict bool

	// End anchors the pattern at the end of the path. When false the
	// pattern matches any path it prefixes at a segment boundary.
	End bool
}

// DefaultOptions returns the options applied when none are given.
func DefaultOptions() Options {
	return Options{End: true}
}

// CompileError reports a malformed path template. It is returned
// synchronously from Compile so that registration fails immediately.
type CompileError struct {
	Template string
	Reason   string
	Cause    error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid path template %q: %s", e.Template, e.Reason)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Pattern is a compiled path template.
type Pattern struct {
	source string
	opts   Options
	keys   []string
	regex  *regexp.Regexp
}

// Compile turns a path template and options into a Pattern. Malformed
// templates fail here, never at match time.
func Compile(path string, opts Options) (*Pattern, error) {
	body, keys, err := buildRegexBody(path)
	if err != nil {
		return nil, err
	}

	src := assembleRegex(body, opts)

	regex, err := compileCached(src)
	if err != nil {
		return nil, &CompileError{Template: path, Reason: "invalid capture group", Cause: err}
	}

	return &Pattern{
		source: path,
		opts:   opts,
		keys:   keys,
		regex:  regex,
	}, nil
}

// MustCompile is Compile that panics on a malformed template.
func MustCompile(path string, opts Options) *Pattern {
	p, err := Compile(path, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// buildRegexBody translates the template into an unanchored regex body
// and collects the ordered capture keys. Unnamed captures (wildcards
// and raw groups) are keyed by their position in the key list.
func buildRegexBody(path string) (string, []string, error) {
	var b strings.Builder
	keys := make([]string, 0, 4)

	i := 0
	for i < len(path) {
		switch c := path[i]; {
		case c == ':':
			j := i + 1
			for j < len(path) && isKeyByte(path[j]) {
				j++
			}
			name := path[i+1 : j]
			if name == "" {
				return "", nil, &CompileError{Template: path, Reason: "empty parameter name"}
			}
			b.WriteString("([^/]+)")
			keys = append(keys, name)
			i = j
			// ":name?" makes the capture optional; a missing value is
			// simply absent from the match parameters.
			if i < len(path) && path[i] == '?' {
				b.WriteString("?")
				i++
			}

		case c == '(':
			end, err := closingParen(path, i)
			if err != nil {
				return "", nil, err
			}
			b.WriteString(path[i : end+1])
			keys = append(keys, strconv.Itoa(len(keys)))
			i = end + 1
			if i < len(path) && path[i] == '?' {
				b.WriteString("?")
				i++
			}

		case c == '*':
			b.WriteString("(.*)")
			keys = append(keys, strconv.Itoa(len(keys)))
			i++

		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}

	return b.String(), keys, nil
}

// assembleRegex anchors the body according to the compile options.
func assembleRegex(body string, opts Options) string {
	var b strings.Builder
	if !opts.Sensitive {
		b.WriteString("(?i)")
	}
	b.WriteString("^")

	if opts.End {
		b.WriteString(body)
		if opts.Strict {
			b.WriteString("$")
		} else {
			b.WriteString("/?$")
		}
		return b.String()
	}

	// Non-terminal: match any path the template prefixes at a segment
	// boundary. RE2 has no lookahead, so consume the rest explicitly.
	b.WriteString(strings.TrimSuffix(body, "/"))
	b.WriteString("(?:/.*)?$")
	return b.String()
}

// closingParen finds the index of the parenthesis closing the group
// that opens at start.
func closingParen(path string, start int) (int, error) {
	depth := 0
	for i := start; i < len(path); i++ {
		switch path[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &CompileError{Template: path, Reason: "unbalanced capture group"}
}

// isKeyByte reports whether b may appear in a parameter name.
func isKeyByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// Exec tests the path against the pattern. On a match it returns the
// ordered capture values, index-aligned with Keys.
func (p *Pattern) Exec(path string) ([]string, bool) {
	m := p.regex.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// Keys returns the ordered capture key names.
func (p *Pattern) Keys() []string {
	return p.keys
}

// Source returns the original template string.
func (p *Pattern) Source() string {
	return p.source
}

// Options returns the options the pattern was compiled with.
func (p *Pattern) Options() Options {
	return p.opts
}

// String returns the compiled regular expression source.
func (p *Pattern) String() string {
	return p.regex.String()
}
