package dispatch

import (
	"fmt"
	"strconv"
)

// ParamKind is the declared primitive kind of a path parameter.
type ParamKind int

const (
	// KindString passes the capture through unchanged.
	KindString ParamKind = iota
	// KindInt converts the capture with strconv.Atoi.
	KindInt
	// KindInt64 converts the capture with strconv.ParseInt.
	KindInt64
	// KindBool converts the capture with strconv.ParseBool.
	KindBool
)

// String returns the string representation of the param kind.
func (k ParamKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParamSource indicates where a handler parameter is resolved from.
type ParamSource int

const (
	// SourceNone leaves the parameter unresolved (nil). This mirrors the
	// silent-null behavior of untagged parameters in annotation-driven
	// frameworks and is deliberate, not an error.
	SourceNone ParamSource = iota
	// SourcePath resolves the parameter from a named path capture.
	SourcePath
	// SourceBody supplies the call's raw body text verbatim.
	SourceBody
	// SourceRequest injects the call record itself.
	SourceRequest
)

// String returns the string representation of the param source.
func (s ParamSource) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourcePath:
		return "path"
	case SourceBody:
		return "body"
	case SourceRequest:
		return "request"
	default:
		return "unknown"
	}
}

// ParamSpec declares how one handler parameter is resolved. It replaces the
// per-parameter annotations of the original mechanism with an explicit
// declaration.
type ParamSpec struct {
	Source ParamSource
	Name   string    // capture name, for SourcePath
	Kind   ParamKind // conversion target, for SourcePath
}

// PathParam declares a parameter resolved from the named path capture and
// converted to the given kind.
func PathParam(name string, kind ParamKind) ParamSpec {
	return ParamSpec{Source: SourcePath, Name: name, Kind: kind}
}

// BodyParam declares a parameter that receives the raw request body.
func BodyParam() ParamSpec {
	return ParamSpec{Source: SourceBody}
}

// RequestParam declares a parameter that receives the request itself.
func RequestParam() ParamSpec {
	return ParamSpec{Source: SourceRequest}
}

// ResolveArgs resolves each of the route's parameters independently against
// the incoming request. A failed conversion aborts resolution; an
// unresolvable parameter (SourceNone) is left nil.
func ResolveArgs(route *Route, req *Request) ([]any, error) {
	captures := route.Captures(req.Path)
	args := make([]any, len(route.Params))

	for i, spec := range route.Params {
		switch spec.Source {
		case SourcePath:
			raw, ok := captures[spec.Name]
			if !ok {
				return nil, resolutionFailure("no path capture named %q in pattern %s", spec.Name, route.Pattern)
			}
			value, err := convertCapture(spec.Name, raw, spec.Kind)
			if err != nil {
				return nil, err
			}
			args[i] = value
		case SourceBody:
			args[i] = req.Body
		case SourceRequest:
			args[i] = req
		case SourceNone:
			// Silent gap: the parameter stays nil.
		}
	}

	return args, nil
}

// convertCapture converts a path capture from text to the declared kind.
// Unsupported kinds pass the raw text through unchanged.
func convertCapture(name, raw string, kind ParamKind) (any, error) {
	switch kind {
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, resolutionFailure("invalid integer for parameter %s: %q", name, raw)
		}
		return v, nil
	case KindInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, resolutionFailure("invalid int64 for parameter %s: %q", name, raw)
		}
		return v, nil
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, resolutionFailure("invalid bool for parameter %s: %q", name, raw)
		}
		return v, nil
	case KindString:
		return raw, nil
	default:
		return raw, nil
	}
}

// resolutionFailure builds a Failure tagged as a resolution error.
func resolutionFailure(format string, args ...any) *Failure {
	return &Failure{Kind: FailureResolution, Message: fmt.Sprintf(format, args...)}
}
