// Package dispatch implements a miniature front-controller request
// dispatcher. Routes are registered from declaration tables supplied by
// controllers, compiled once into anchored patterns, and resolved by a
// linear first-match scan, the same mechanism a full web framework hides
// behind annotation scanning.
package dispatch

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches {name} segments in a path template.
var placeholderPattern = regexp.MustCompile(`\{([^/{}]+)\}`)

// Route is a compiled route descriptor. It is created once at registration
// time and never mutated afterward.
type Route struct {
	Method     string         // GET, POST, etc.
	Pattern    string         // original template, e.g. /api/users/{id}
	Name       string         // handler name for logs and introspection
	Controller string         // owning controller name
	Params     []ParamSpec    // parameter resolution rules, in argument order
	Handler    HandlerFunc    // target callable
	regex      *regexp.Regexp // anchored pattern compiled from the template
	captures   []string       // placeholder names in template order
}

// HandlerFunc is the target callable for a route. Arguments arrive in the
// order of the route's ParamSpecs; unresolved parameters are nil.
type HandlerFunc func(args []any) (any, error)

// compileRoute builds a Route from a declaration, converting each {name}
// segment into a named capture that matches one or more non-separator
// characters. The pattern is anchored at both ends.
func compileRoute(controller string, decl RouteDecl) (*Route, error) {
	var captures []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(decl.Path, -1) {
		captures = append(captures, m[1])
	}

	expr := placeholderPattern.ReplaceAllStringFunc(decl.Path, func(seg string) string {
		name := strings.Trim(seg, "{}")
		return fmt.Sprintf("(?P<%s>[^/]+)", name)
	})

	regex, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, fmt.Errorf("invalid route pattern %q: %w", decl.Path, err)
	}

	return &Route{
		Method:     decl.Method,
		Pattern:    decl.Path,
		Name:       decl.Name,
		Controller: controller,
		Params:     decl.Params,
		Handler:    decl.Handler,
		regex:      regex,
		captures:   captures,
	}, nil
}

// Matches reports whether the route's verb and compiled pattern both match
// the given call. The pattern match is full, not partial.
func (r *Route) Matches(method, path string) bool {
	return r.Method == method && r.regex.MatchString(path)
}

// Captures extracts the named placeholder values from a literal path.
// The path must have been checked with Matches first; a non-matching path
// yields an empty map.
func (r *Route) Captures(path string) map[string]string {
	vars := make(map[string]string, len(r.captures))
	match := r.regex.FindStringSubmatch(path)
	if match == nil {
		return vars
	}
	for i, name := range r.regex.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		vars[name] = match[i]
	}
	return vars
}

// CaptureNames returns the placeholder names in template order.
func (r *Route) CaptureNames() []string {
	names := make([]string, len(r.captures))
	copy(names, r.captures)
	return names
}
