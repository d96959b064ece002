package ports

import (
	"context"

	"github.com/prajithkb/metro/internal/core/domain"
)

// OptionSource derives the effective transform options for an entry file:
// the global defaults plus any entry-specific override from the config.
// Derivation may be expensive; callers memoize the result per calculator.
//
//go:generate mockgen -source=options.go -destination=mocks/mock_options.go -package=mocks
type OptionSource interface {
	TransformOptionsFor(ctx context.Context, entryFile string, base domain.TransformOptions) (domain.TransformOptions, error)
}

// ModuleIDFactory assigns a client-facing identifier to a module path.
// Stability of ids across calls is the caller's contract: the live-update
// server records one factory per connection and reuses it for every delta.
type ModuleIDFactory func(path string) string
