package dispatch

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Request is one simulated call into the dispatcher: a verb, a literal
// path, and an optional raw body.
type Request struct {
	Method string
	Path   string
	Body   string
}

// WithBody returns a copy of the request with the body set.
func (r Request) WithBody(body string) Request {
	r.Body = body
	return r
}

// Response is the uniform result of a dispatch: a status code and a body.
type Response struct {
	Status int
	Body   string
}

// Dispatcher is the single entry point tying route resolution and handler
// invocation together. Every call runs one linear resolve/invoke sequence
// and is converted into a uniform Response; nothing is retried.
type Dispatcher struct {
	registry *Registry
	log      *zap.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{registry: registry, log: log}
}

// Register registers a controller's routes with the dispatcher's registry.
func (d *Dispatcher) Register(ctrl Controller) error {
	return d.registry.Register(ctrl)
}

// Registry returns the dispatcher's route registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves a route for the request, resolves arguments, invokes
// the handler, and wraps the outcome. A miss yields 404; any failure during
// resolution or invocation yields 500 with the failure's message appended.
func (d *Dispatcher) Dispatch(req Request) Response {
	d.log.Debug("dispatching",
		zap.String("method", req.Method),
		zap.String("path", req.Path))

	route, ok := d.registry.Resolve(req.Method, req.Path)
	if !ok {
		d.log.Debug("no route matched",
			zap.String("method", req.Method),
			zap.String("path", req.Path))
		return Response{Status: http.StatusNotFound, Body: "404 Not Found"}
	}

	d.log.Debug("resolved route",
		zap.String("controller", route.Controller),
		zap.String("handler", route.Name),
		zap.String("pattern", route.Pattern))

	result, err := d.invoke(route, &req)
	if err != nil {
		var failure *Failure
		if !errors.As(err, &failure) {
			failure = invocationFailure(err.Error())
		}
		d.log.Debug("dispatch failed",
			zap.String("kind", failure.Kind.String()),
			zap.String("message", failure.Message))
		return Response{
			Status: http.StatusInternalServerError,
			Body:   "500 Internal Server Error: " + failure.Message,
		}
	}

	return Response{Status: http.StatusOK, Body: stringify(result)}
}

// invoke resolves arguments and calls the handler, converting a panic in
// either step into an invocation failure.
func (d *Dispatcher) invoke(route *Route, req *Request) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = invocationFailure(fmt.Sprint(p))
		}
	}()

	args, err := ResolveArgs(route, req)
	if err != nil {
		return nil, err
	}

	return route.Handler(args)
}

// stringify converts a handler return value to response-body text. An
// absent value becomes empty text.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
