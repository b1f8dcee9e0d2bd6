package dispatch

import "fmt"

// FailureKind tags a failure with its place in the error taxonomy.
type FailureKind int

const (
	// FailureNotFound means no route matched the call.
	FailureNotFound FailureKind = iota
	// FailureResolution means an argument could not be converted.
	FailureResolution
	// FailureInvocation means the invoked handler itself failed.
	FailureInvocation
	// FailureStorage means a storage collaborator failed.
	FailureStorage
)

// String returns the string representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not_found"
	case FailureResolution:
		return "resolution"
	case FailureInvocation:
		return "invocation"
	case FailureStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Failure is a tagged error carried across layer boundaries in place of a
// broad catch-all. The kind classifies the failure; the message is what
// reaches the caller's result body.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// invocationFailure wraps a handler error or recovered panic.
func invocationFailure(message string) *Failure {
	return &Failure{Kind: FailureInvocation, Message: message}
}
