package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrConfigNotFound is returned when no metro.yaml can be found walking up
	// from the working directory.
	ErrConfigNotFound = zerr.New("could not find metro.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrMissingEntryParameter is returned when a client connects without the
	// bundleEntry parameter.
	ErrMissingEntryParameter = zerr.New("missing bundleEntry parameter")

	// ErrUnknownPlatform is returned when a client requests a platform the
	// config does not allow.
	ErrUnknownPlatform = zerr.New("unknown platform")

	// ErrCalculatorEnded is returned when a delta is requested from a
	// calculator after End.
	ErrCalculatorEnded = zerr.New("delta calculator has ended")

	// ErrGraphInconsistent indicates the graph was left partially mutated by
	// a failed traversal and has been discarded.
	ErrGraphInconsistent = zerr.New("graph inconsistent after failed traversal, discarding")

	// ErrFileReadFailed is returned when a module source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read module source")

	// ErrTraversalFailed is returned when a graph traversal aborts.
	ErrTraversalFailed = zerr.New("dependency traversal failed")
)

// TransformError is the user-actionable failure produced by the transform
// step: the source failed to compile, or one of its dependencies could not
// be resolved. It carries the fields the live-update protocol reports
// verbatim. Type discriminates the taxonomy kind ("TransformError" or
// "ResolutionError"); resolution failures use the transform shape on the
// wire.
type TransformError struct {
	Type       string
	Message    string
	Filename   string
	LineNumber int
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	if e.Filename == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Message)
}

// NewResolutionError creates a TransformError for a dependency that could
// not be resolved from the given file.
func NewResolutionError(filename, specifier string) *TransformError {
	return &TransformError{
		Type:     "ResolutionError",
		Message:  fmt.Sprintf("unable to resolve module '%s' from '%s'", specifier, filename),
		Filename: filename,
	}
}
