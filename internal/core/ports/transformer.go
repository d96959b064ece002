package ports

import (
	"context"

	"github.com/prajithkb/metro/internal/core/domain"
)

// Transformer resolves and compiles a single module: given its absolute path
// it returns the module's dependency list (literal specifiers resolved to
// absolute paths, in source order) and its compiled output. Failures that
// are the user's to fix are reported as *domain.TransformError.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	TransformFile(ctx context.Context, path string, options domain.TransformOptions) (*domain.TransformResult, error)
}
