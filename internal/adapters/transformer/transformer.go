// Package transformer implements the development transformer: it extracts a
// module's dependency specifiers in source order, resolves them to absolute
// paths, and passes the source through as the compiled output. Full module
// resolution semantics are intentionally out of scope; this adapter covers
// relative specifiers and flat node_modules lookups, which is what the dev
// server needs.
package transformer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
)

var _ ports.Transformer = (*Transformer)(nil)

// dependencyPattern matches require calls and static import declarations.
// The first non-empty capture group holds the specifier; match order is
// source order, which the graph preserves.
var dependencyPattern = regexp.MustCompile(
	`require\(\s*['"]([^'"]+)['"]\s*\)` +
		`|import\s+(?:[^'";]+\s+from\s+)?['"]([^'"]+)['"]`)

// Transformer resolves and compiles modules from disk.
type Transformer struct {
	root   string
	logger ports.Logger
}

// New creates a transformer rooted at the given project root.
func New(root string, logger ports.Logger) *Transformer {
	return &Transformer{root: root, logger: logger}
}

// TransformFile reads the module at path, extracts its dependencies and
// returns its output. Missing files and unresolvable specifiers are
// reported as *domain.TransformError so the protocol layer can surface them
// verbatim.
func (t *Transformer) TransformFile(ctx context.Context, path string, options domain.TransformOptions) (*domain.TransformResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.TransformError{
				Type:     "TransformError",
				Message:  fmt.Sprintf("module does not exist: %s", path),
				Filename: path,
			}
		}
		return nil, &domain.TransformError{
			Type:     "TransformError",
			Message:  err.Error(),
			Filename: path,
		}
	}

	deps, err := t.extractDependencies(path, string(source))
	if err != nil {
		return nil, err
	}

	out := domain.Output{
		Code: string(source),
		Type: "js/module",
	}
	if options.Dev {
		out.SourceURL = "file://" + path
	}
	if _, statErr := os.Stat(path + ".map"); statErr == nil {
		out.SourceMappingURL = "file://" + path + ".map"
	}

	return &domain.TransformResult{Dependencies: deps, Output: out}, nil
}

// extractDependencies returns the resolved dependency list in source order.
// Duplicate specifiers collapse to the first occurrence, mirroring the
// specifier-keyed dependency map clients see.
func (t *Transformer) extractDependencies(fromFile, source string) ([]domain.Dependency, error) {
	matches := dependencyPattern.FindAllStringSubmatch(source, -1)
	deps := make([]domain.Dependency, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, match := range matches {
		specifier := match[1]
		if specifier == "" {
			specifier = match[2]
		}
		if _, dup := seen[specifier]; dup {
			continue
		}
		seen[specifier] = struct{}{}

		resolved, err := t.resolve(fromFile, specifier)
		if err != nil {
			return nil, err
		}
		deps = append(deps, domain.Dependency{Specifier: specifier, Path: resolved})
	}
	return deps, nil
}

// resolve maps a literal specifier to an absolute path. Relative specifiers
// resolve against the importing file's directory, bare specifiers against
// the project's node_modules.
func (t *Transformer) resolve(fromFile, specifier string) (string, error) {
	var base string
	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		base = filepath.Join(filepath.Dir(fromFile), specifier)
	case filepath.IsAbs(specifier):
		base = specifier
	default:
		base = filepath.Join(t.root, "node_modules", specifier)
	}

	for _, candidate := range []string{base, base + ".js", filepath.Join(base, "index.js")} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	t.logger.Warn(fmt.Sprintf("unable to resolve '%s' from %s", specifier, fromFile))
	return "", domain.NewResolutionError(fromFile, specifier)
}
