package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileTestRoute(t *testing.T, method, path string) *Route {
	t.Helper()
	route, err := compileRoute("test", RouteDecl{
		Method:  method,
		Path:    path,
		Name:    "handler",
		Handler: func(args []any) (any, error) { return nil, nil },
	})
	require.NoError(t, err)
	return route
}

func TestCompileRoute(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		matches  bool
		captures map[string]string
	}{
		{
			name:     "static path",
			pattern:  "/health",
			path:     "/health",
			matches:  true,
			captures: map[string]string{},
		},
		{
			name:     "single placeholder",
			pattern:  "/users/{id}",
			path:     "/users/42",
			matches:  true,
			captures: map[string]string{"id": "42"},
		},
		{
			name:     "multiple placeholders",
			pattern:  "/users/{id}/posts/{postId}",
			path:     "/users/42/posts/7",
			matches:  true,
			captures: map[string]string{"id": "42", "postId": "7"},
		},
		{
			name:    "placeholder does not span separators",
			pattern: "/users/{id}",
			path:    "/users/42/posts",
			matches: false,
		},
		{
			name:    "anchored at start",
			pattern: "/users/{id}",
			path:    "/api/users/42",
			matches: false,
		},
		{
			name:    "empty segment does not match",
			pattern: "/users/{id}",
			path:    "/users/",
			matches: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := compileTestRoute(t, "GET", tt.pattern)

			assert.Equal(t, tt.matches, route.Matches("GET", tt.path))
			if tt.matches {
				assert.Equal(t, tt.captures, route.Captures(tt.path))
			}
		})
	}
}

func TestRouteMatchesVerb(t *testing.T) {
	route := compileTestRoute(t, "GET", "/users/{id}")

	assert.True(t, route.Matches("GET", "/users/1"))
	assert.False(t, route.Matches("POST", "/users/1"))
}

func TestCaptureNames(t *testing.T) {
	route := compileTestRoute(t, "GET", "/users/{id}/posts/{postId}")
	assert.Equal(t, []string{"id", "postId"}, route.CaptureNames())
}

func TestCapturesOnNonMatchingPath(t *testing.T) {
	route := compileTestRoute(t, "GET", "/users/{id}")
	assert.Empty(t, route.Captures("/posts/1"))
}
