// Package domain contains the core domain models for the incremental
// dependency graph.
package domain

// Dependency is a single edge out of a module: the literal specifier as it
// appears in source, and the absolute path it resolved to. The order of
// dependencies within a module matches source order, which is observable in
// the reordered graph and in the client-facing dependency maps.
type Dependency struct {
	// Specifier is the literal import/require string from the source.
	Specifier string
	// Path is the absolute path the specifier resolved to.
	Path string
}

// Output is the compiled artifact for a module. It is produced by the
// transformer and carried through the graph opaquely.
type Output struct {
	// Code is the compiled module body.
	Code string
	// Type is the output kind (e.g. "js/module").
	Type string
	// SourceURL is an optional per-module debug annotation.
	SourceURL string
	// SourceMappingURL is an optional per-module source map annotation.
	SourceMappingURL string
}

// Module is the edge record for a single path in the dependency graph.
// Dependencies and inverse dependencies store paths, not module handles, so
// liveness is decided explicitly by reachability during traversal rather
// than by ownership.
type Module struct {
	// Path is the unique key of the module, an absolute path.
	Path string
	// Dependencies maps literal specifiers to resolved paths, in source order.
	Dependencies []Dependency
	// InverseDependencies is the set of paths that depend on this module.
	InverseDependencies map[string]struct{}
	// Output is the compiled artifact for this module.
	Output Output
}

// NewModule creates an empty edge record for the given path.
func NewModule(path string) *Module {
	return &Module{
		Path:                path,
		InverseDependencies: make(map[string]struct{}),
	}
}

// DependsOn reports whether the module has a dependency resolving to path.
func (m *Module) DependsOn(path string) bool {
	for _, dep := range m.Dependencies {
		if dep.Path == path {
			return true
		}
	}
	return false
}

// TransformResult is what the transformer returns for a single module: its
// resolved dependency list in source order, and its compiled output.
type TransformResult struct {
	Dependencies []Dependency
	Output       Output
}
