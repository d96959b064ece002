// Package traversal implements the graph traversal algorithms: the initial
// full traversal from the entry points, the partial re-traversal seeded from
// changed paths, and the deterministic reorder of the whole graph. The
// package is stateless between calls; all state lives in the graph it
// mutates.
package traversal

import (
	"context"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
	"go.trai.ch/zerr"
)

// Progress is invoked after each module resolves during an initial
// traversal. total grows as new dependencies are discovered; it is not known
// up front.
type Progress func(done, total int)

// Options configure a single traversal.
type Options struct {
	// Transformer resolves and compiles modules.
	Transformer ports.Transformer
	// Transform is the transform configuration passed through to every module.
	Transform domain.TransformOptions
	// OnProgress, when set, receives progress updates during traversal.
	OnProgress Progress
}

// Result is the outcome of a partial traversal.
type Result struct {
	// Added holds every edge record newly created or whose content changed,
	// in discovery order.
	Added []*domain.Module
	// Deleted holds the paths pruned from the graph, cascade included, in
	// post-order (a module appears only after everything it exclusively
	// kept alive).
	Deleted []string
}

// Initial performs a full traversal of an empty graph from its entry points,
// creating an edge record for every reachable module and wiring dependencies
// and inverse dependencies both ways. It returns every created record in
// discovery order.
func Initial(ctx context.Context, g *domain.Graph, opts Options) ([]*domain.Module, error) {
	t := newTraversal(g, opts)
	t.total = len(g.EntryPoints())
	for _, entry := range g.EntryPoints() {
		if _, tracked := g.Module(entry); tracked {
			continue
		}
		if _, err := t.create(ctx, entry); err != nil {
			return nil, err
		}
	}
	return t.added, nil
}

// Traverse re-resolves the dependency lists of the changed paths already
// tracked by the graph. Reused dependencies are reported in Added (their
// content may have changed), newly appearing dependencies are created
// recursively, and dependencies that disappeared have their back-references
// removed and are cascaded into Deleted once unreachable.
func Traverse(ctx context.Context, g *domain.Graph, changed []string, opts Options) (*Result, error) {
	t := newTraversal(g, opts)
	for _, path := range changed {
		m, tracked := g.Module(path)
		if !tracked {
			continue
		}
		if err := t.update(ctx, m); err != nil {
			return nil, err
		}
	}
	return &Result{Added: t.added, Deleted: t.deleted}, nil
}

type traversal struct {
	g    *domain.Graph
	opts Options

	added    []*domain.Module
	addedSet map[string]struct{}
	deleted  []string
	pruning  map[string]struct{}

	done  int
	total int
}

func newTraversal(g *domain.Graph, opts Options) *traversal {
	return &traversal{
		g:        g,
		opts:     opts,
		addedSet: make(map[string]struct{}),
		pruning:  make(map[string]struct{}),
	}
}

func (t *traversal) transform(ctx context.Context, path string) (*domain.TransformResult, error) {
	res, err := t.opts.Transformer.TransformFile(ctx, path, t.opts.Transform)
	if err != nil {
		return nil, zerr.With(err, "module", path)
	}
	t.done++
	if t.opts.OnProgress != nil {
		t.opts.OnProgress(t.done, t.total)
	}
	return res, nil
}

// create builds a fresh edge record for path and recursively resolves its
// subtree. The record is added to the graph before its dependencies are
// processed so dependency cycles terminate.
func (t *traversal) create(ctx context.Context, path string) (*domain.Module, error) {
	m := domain.NewModule(path)
	t.g.Add(m)
	t.markAdded(m)

	res, err := t.transform(ctx, path)
	if err != nil {
		return nil, err
	}
	m.Output = res.Output

	for _, dep := range res.Dependencies {
		if err := t.link(ctx, m, dep); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// update re-resolves an already-tracked module after a change.
func (t *traversal) update(ctx context.Context, m *domain.Module) error {
	res, err := t.transform(ctx, m.Path)
	if err != nil {
		return err
	}

	previous := m.Dependencies
	m.Output = res.Output
	m.Dependencies = nil
	t.markAdded(m)

	current := make(map[string]struct{}, len(res.Dependencies))
	for _, dep := range res.Dependencies {
		current[dep.Path] = struct{}{}
		if err := t.link(ctx, m, dep); err != nil {
			return err
		}
	}

	// Dependencies that disappeared from the module's list lose their
	// back-reference; anything left unreachable is pruned.
	for _, dep := range previous {
		if _, still := current[dep.Path]; still {
			continue
		}
		t.unlink(dep.Path, m.Path)
	}
	return nil
}

// link wires one dependency edge from parent, creating the target module if
// it is not tracked yet. Existing targets are reported in Added because
// their content may have changed since the last delta.
func (t *traversal) link(ctx context.Context, parent *domain.Module, dep domain.Dependency) error {
	child, tracked := t.g.Module(dep.Path)
	if !tracked {
		t.total++
		created, err := t.create(ctx, dep.Path)
		if err != nil {
			return err
		}
		child = created
	} else {
		t.markAdded(child)
	}
	child.InverseDependencies[parent.Path] = struct{}{}
	parent.Dependencies = append(parent.Dependencies, dep)
	return nil
}

// unlink removes the parent back-reference from path and prunes the module
// if that removal left it unreachable.
func (t *traversal) unlink(path, parent string) {
	child, tracked := t.g.Module(path)
	if !tracked {
		return
	}
	delete(child.InverseDependencies, parent)
	if len(child.InverseDependencies) == 0 && !t.g.IsEntryPoint(path) {
		t.prune(child)
	}
}

// prune removes an unreachable module and cascades through its dependency
// subtree. The cascade is post-order: a module is deleted only after every
// reference to it is gone, so a module kept alive by a second parent
// survives until that parent drops it too.
func (t *traversal) prune(m *domain.Module) {
	if _, inProgress := t.pruning[m.Path]; inProgress {
		return
	}
	t.pruning[m.Path] = struct{}{}

	for _, dep := range m.Dependencies {
		t.unlink(dep.Path, m.Path)
	}

	t.g.Remove(m.Path)
	t.deleted = append(t.deleted, m.Path)
	t.unmarkAdded(m.Path)
}

func (t *traversal) markAdded(m *domain.Module) {
	if _, present := t.addedSet[m.Path]; present {
		return
	}
	t.addedSet[m.Path] = struct{}{}
	t.added = append(t.added, m)
}

func (t *traversal) unmarkAdded(path string) {
	if _, present := t.addedSet[path]; !present {
		return
	}
	delete(t.addedSet, path)
	for i, m := range t.added {
		if m.Path == path {
			t.added = append(t.added[:i], t.added[i+1:]...)
			break
		}
	}
}
