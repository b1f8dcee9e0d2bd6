package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableController is a minimal controller built from a literal declaration
// table, used throughout the package tests.
type tableController struct {
	name string
	base string
	decl []RouteDecl
}

func (c *tableController) Name() string        { return c.name }
func (c *tableController) BasePath() string    { return c.base }
func (c *tableController) Routes() []RouteDecl { return c.decl }

func noopHandler(args []any) (any, error) { return nil, nil }

func TestRegistryRegisterAppliesBasePath(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.Register(&tableController{
		name: "users",
		base: "/api",
		decl: []RouteDecl{
			{Method: "GET", Path: "/users/{id}", Name: "show", Handler: noopHandler},
		},
	})
	require.NoError(t, err)

	route, ok := reg.Resolve("GET", "/api/users/9")
	require.True(t, ok)
	assert.Equal(t, "/api/users/{id}", route.Pattern)
	assert.Equal(t, "users", route.Controller)
}

func TestRegistryResolveFirstMatchWins(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.Register(&tableController{
		name: "first",
		decl: []RouteDecl{
			{Method: "GET", Path: "/items/{id}", Name: "byID", Handler: noopHandler},
		},
	})
	require.NoError(t, err)

	err = reg.Register(&tableController{
		name: "second",
		decl: []RouteDecl{
			{Method: "GET", Path: "/items/{slug}", Name: "bySlug", Handler: noopHandler},
		},
	})
	require.NoError(t, err)

	// Both patterns match; registration order decides, deterministically.
	for i := 0; i < 10; i++ {
		route, ok := reg.Resolve("GET", "/items/anything")
		require.True(t, ok)
		assert.Equal(t, "first", route.Controller)
	}
}

func TestRegistryResolveNotFound(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.Register(&tableController{
		name: "health",
		decl: []RouteDecl{
			{Method: "GET", Path: "/health", Name: "health", Handler: noopHandler},
		},
	})
	require.NoError(t, err)

	_, ok := reg.Resolve("GET", "/missing")
	assert.False(t, ok)

	// Verb mismatch is also a miss.
	_, ok = reg.Resolve("POST", "/health")
	assert.False(t, ok)
}

func TestRegistryRegisterInvalidPattern(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.Register(&tableController{
		name: "bad",
		decl: []RouteDecl{
			{Method: "GET", Path: "/items/{id", Name: "broken", Handler: noopHandler},
		},
	})
	// An unterminated placeholder is treated as a literal segment, so this
	// registers cleanly; a genuinely invalid regex cannot be produced from
	// the placeholder syntax.
	require.NoError(t, err)

	_, ok := reg.Resolve("GET", "/items/{id")
	assert.True(t, ok)
}

func TestRegistryRoutesReturnsCopy(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.Register(&tableController{
		name: "health",
		decl: []RouteDecl{
			{Method: "GET", Path: "/health", Name: "health", Handler: noopHandler},
		},
	})
	require.NoError(t, err)

	routes := reg.Routes()
	require.Len(t, routes, 1)
	routes[0] = nil

	assert.Equal(t, 1, reg.Len())
	assert.NotNil(t, reg.Routes()[0])
}
