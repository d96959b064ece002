package traversal

import "github.com/prajithkb/metro/internal/core/domain"

// Reorder rewrites the graph's iteration order to a deterministic traversal
// order: entry points first, then each module immediately followed by its
// dependency subtree, pre-order, skipping paths already visited. Reordering
// an already-ordered graph is a no-op, so sequential delivery of the full
// graph is reproducible across runs with identical inputs.
func Reorder(g *domain.Graph) {
	order := make([]string, 0, g.Len())
	visited := make(map[string]struct{}, g.Len())

	var visit func(path string)
	visit = func(path string) {
		m, tracked := g.Module(path)
		if !tracked {
			return
		}
		if _, seen := visited[path]; seen {
			return
		}
		visited[path] = struct{}{}
		order = append(order, path)
		for _, dep := range m.Dependencies {
			visit(dep.Path)
		}
	}

	for _, entry := range g.EntryPoints() {
		visit(entry)
	}
	g.SetOrder(order)
}
