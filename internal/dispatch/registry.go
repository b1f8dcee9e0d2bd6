package dispatch

import (
	"fmt"

	"go.uber.org/zap"
)

// RouteDecl declares a single route on a controller. It is the explicit
// replacement for method-level route annotations: the controller states its
// verb, path template, and parameter resolution rules up front, and the
// registry compiles them once.
type RouteDecl struct {
	Method  string
	Path    string
	Name    string
	Params  []ParamSpec
	Handler HandlerFunc
}

// Controller supplies a declaration table of routes. BasePath is prefixed
// to every declared path, mirroring a class-level path annotation.
type Controller interface {
	// Name identifies the controller in logs and route listings.
	Name() string
	// BasePath is prefixed to each declared route path. May be empty.
	BasePath() string
	// Routes returns the controller's route declarations in order.
	Routes() []RouteDecl
}

// Registry holds compiled routes in registration order. Resolution is a
// linear scan; when two patterns overlap, the first registered wins. That
// ambiguity is accepted, not rejected.
type Registry struct {
	routes []*Route
	log    *zap.Logger
}

// NewRegistry creates an empty route registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log}
}

// Register compiles every route the controller declares and appends them to
// the ordered collection. Declarations are processed in table order so the
// controller controls precedence among its own routes.
func (reg *Registry) Register(ctrl Controller) error {
	base := ctrl.BasePath()
	for _, decl := range ctrl.Routes() {
		decl.Path = base + decl.Path
		route, err := compileRoute(ctrl.Name(), decl)
		if err != nil {
			return fmt.Errorf("controller %s: %w", ctrl.Name(), err)
		}
		reg.routes = append(reg.routes, route)
		reg.log.Debug("registered route",
			zap.String("controller", ctrl.Name()),
			zap.String("method", route.Method),
			zap.String("pattern", route.Pattern))
	}
	return nil
}

// Resolve scans routes in registration order and returns the first whose
// verb matches exactly and whose pattern matches the full path. The second
// return value is false when no route matches.
func (reg *Registry) Resolve(method, path string) (*Route, bool) {
	for _, route := range reg.routes {
		if route.Matches(method, path) {
			return route, true
		}
	}
	return nil, false
}

// Routes returns the compiled routes in registration order. The slice is a
// copy; the routes themselves are immutable.
func (reg *Registry) Routes() []*Route {
	out := make([]*Route, len(reg.routes))
	copy(out, reg.routes)
	return out
}

// Len returns the number of registered routes.
func (reg *Registry) Len() int {
	return len(reg.routes)
}
