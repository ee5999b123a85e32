package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Keys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		keys     []string
	}{
		{
			name:     "no captures",
			template: "/health",
			keys:     []string{},
		},
		{
			name:     "single named capture",
			template: "/users/:id",
			keys:     []string{"id"},
		},
		{
			name:     "multiple named captures",
			template: "/users/:uid/posts/:pid",
			keys:     []string{"uid", "pid"},
		},
		{
			name:     "wildcard is positional",
			template: "/files/*",
			keys:     []string{"0"},
		},
		{
			name:     "catch-all is positional",
			template: CatchAll,
			keys:     []string{"0"},
		},
		{
			name:     "mixed named and positional",
			template: "/api/:version/*",
			keys:     []string{"version", "1"},
		},
		{
			name:     "raw group is positional",
			template: "/report/(\\d+)",
			keys:     []string{"0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Compile(tt.template, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.keys, p.Keys())
			assert.Equal(t, tt.template, p.Source())
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
	}{
		{name: "empty parameter name", template: "/users/:"},
		{name: "empty parameter name mid path", template: "/users/:/posts"},
		{name: "unbalanced group", template: "/bad("},
		{name: "invalid raw group", template: "/bad(*)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compile(tt.template, DefaultOptions())
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.template, ce.Template)
		})
	}
}

func TestPattern_Exec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		opts     Options
		path     string
		matched  bool
		captures []string
	}{
		{
			name:     "literal match",
			template: "/health",
			opts:     DefaultOptions(),
			path:     "/health",
			matched:  true,
			captures: []string{},
		},
		{
			name:     "literal mismatch",
			template: "/health",
			opts:     DefaultOptions(),
			path:     "/metrics",
			matched:  false,
		},
		{
			name:     "named capture",
			template: "/users/:id",
			opts:     DefaultOptions(),
			path:     "/users/42",
			matched:  true,
			captures: []string{"42"},
		},
		{
			name:     "named capture does not span segments",
			template: "/users/:id",
			opts:     DefaultOptions(),
			path:     "/users/42/posts",
			matched:  false,
		},
		{
			name:     "wildcard spans segments",
			template: "/files/*",
			opts:     DefaultOptions(),
			path:     "/files/a/b/c.txt",
			matched:  true,
			captures: []string{"a/b/c.txt"},
		},
		{
			name:     "catch-all matches everything",
			template: CatchAll,
			opts:     DefaultOptions(),
			path:     "/any/path/at/all",
			matched:  true,
			captures: []string{"/any/path/at/all"},
		},
		{
			name:     "trailing slash tolerated by default",
			template: "/users/:id",
			opts:     DefaultOptions(),
			path:     "/users/42/",
			matched:  true,
			captures: []string{"42"},
		},
		{
			name:     "trailing slash rejected in strict mode",
			template: "/users/:id",
			opts:     Options{End: true, Strict: true},
			path:     "/users/42/",
			matched:  false,
		},
		{
			name:     "case-insensitive by default",
			template: "/Users/:id",
			opts:     DefaultOptions(),
			path:     "/users/7",
			matched:  true,
			captures: []string{"7"},
		},
		{
			name:     "case-sensitive when requested",
			template: "/Users/:id",
			opts:     Options{End: true, Sensitive: true},
			path:     "/users/7",
			matched:  false,
		},
		{
			name:     "non-terminal root matches any path",
			template: "/",
			opts:     Options{},
			path:     "/users/42",
			matched:  true,
			captures: []string{},
		},
		{
			name:     "non-terminal prefix matches at segment boundary",
			template: "/api",
			opts:     Options{},
			path:     "/api/v1/users",
			matched:  true,
			captures: []string{},
		},
		{
			name:     "non-terminal prefix matches itself",
			template: "/api",
			opts:     Options{},
			path:     "/api",
			matched:  true,
			captures: []string{},
		},
		{
			name:     "non-terminal prefix rejects partial segment",
			template: "/api",
			opts:     Options{},
			path:     "/apix",
			matched:  false,
		},
		{
			name:     "raw group constrains capture",
			template: "/report/(\\d+)",
			opts:     DefaultOptions(),
			path:     "/report/abc",
			matched:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Compile(tt.template, tt.opts)
			require.NoError(t, err)

			captures, ok := p.Exec(tt.path)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, tt.captures, captures)
			}
		})
	}
}

func TestMustCompile_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustCompile("/users/:", DefaultOptions())
	})
}

func TestCompileCache_Reuse(t *testing.T) {
	t.Parallel()

	first, err := Compile("/cached/:id", DefaultOptions())
	require.NoError(t, err)

	second, err := Compile("/cached/:id", DefaultOptions())
	require.NoError(t, err)

	// Both compilations share one cached expression.
	assert.Same(t, first.regex, second.regex)
}

func TestIsCatchAll(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCatchAll("(.*)"))
	assert.False(t, IsCatchAll("/users"))
	assert.False(t, IsCatchAll("*"))
}
