package domain

import (
	"iter"
	"slices"
)

// Graph is the mutable dependency graph: a fixed, ordered list of entry
// points plus a path-keyed table of edge records with an explicit iteration
// order. Every path reachable from an entry point has a record in the table,
// and every record that is not an entry point has at least one inverse
// dependency; a record violating that invariant is dead and must be pruned
// by the traversal.
type Graph struct {
	entryPoints []string
	modules     map[string]*Module
	order       []string
}

// NewGraph creates an empty graph with the given entry points.
func NewGraph(entryPoints ...string) *Graph {
	return &Graph{
		entryPoints: slices.Clone(entryPoints),
		modules:     make(map[string]*Module),
	}
}

// EntryPoints returns the entry point paths in construction order.
func (g *Graph) EntryPoints() []string {
	return g.entryPoints
}

// IsEntryPoint reports whether path is one of the graph's entry points.
func (g *Graph) IsEntryPoint(path string) bool {
	return slices.Contains(g.entryPoints, path)
}

// Module returns the edge record for path, if tracked.
func (g *Graph) Module(path string) (*Module, bool) {
	m, ok := g.modules[path]
	return m, ok
}

// Add inserts a new edge record, appending it to the iteration order.
// Adding an already-tracked path is a no-op.
func (g *Graph) Add(m *Module) {
	if _, exists := g.modules[m.Path]; exists {
		return
	}
	g.modules[m.Path] = m
	g.order = append(g.order, m.Path)
}

// Remove deletes the edge record for path, preserving the relative order of
// the surviving modules.
func (g *Graph) Remove(path string) {
	if _, exists := g.modules[path]; !exists {
		return
	}
	delete(g.modules, path)
	if i := slices.Index(g.order, path); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
}

// Len returns the number of tracked modules.
func (g *Graph) Len() int {
	return len(g.modules)
}

// Order returns the current iteration order of module paths.
func (g *Graph) Order() []string {
	return g.order
}

// SetOrder rewrites the iteration order. Paths not tracked by the graph are
// dropped; tracked paths missing from the argument keep their previous
// relative order at the end.
func (g *Graph) SetOrder(order []string) {
	next := make([]string, 0, len(g.modules))
	seen := make(map[string]struct{}, len(g.modules))
	for _, path := range order {
		if _, ok := g.modules[path]; !ok {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		next = append(next, path)
	}
	for _, path := range g.order {
		if _, ok := seen[path]; !ok {
			next = append(next, path)
		}
	}
	g.order = next
}

// Modules returns an iterator over edge records in iteration order.
func (g *Graph) Modules() iter.Seq[*Module] {
	return func(yield func(*Module) bool) {
		for _, path := range g.order {
			if m, ok := g.modules[path]; ok {
				if !yield(m) {
					return
				}
			}
		}
	}
}

// Clear resets the graph to empty, keeping its entry points.
func (g *Graph) Clear() {
	g.modules = make(map[string]*Module)
	g.order = nil
}
