package ports

import "context"

// Span represents a single traced operation.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error on the span.
	RecordError(err error)
	// SetAttribute attaches a key/value attribute to the span.
	SetAttribute(key string, value any)
}

// Tracer creates spans around build operations.
type Tracer interface {
	// Start begins a new span and returns the context carrying it.
	Start(ctx context.Context, name string) (context.Context, Span)
}
