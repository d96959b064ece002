package delta

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
	"github.com/prajithkb/metro/internal/engine/traversal"
	"go.trai.ch/zerr"
)

// Calculator maintains the dependency graph for one bundle and computes the
// minimal delta since the previous request. Builds are serialized: a call to
// GetDelta queues behind any in-flight build, then swaps and processes
// whatever pending changes exist at that later point. The build mutex is the
// sole mutual-exclusion mechanism; the graph is never touched by two
// traversals at once.
type Calculator struct {
	options     domain.BuildOptions
	transformer ports.Transformer
	source      ports.OptionSource
	tracer      ports.Tracer
	logger      ports.Logger

	buildMu          sync.Mutex
	graph            *domain.Graph
	transformOptions *domain.TransformOptions
	ended            bool

	tracker *Tracker

	subMu       sync.Mutex
	subscribers map[uint64]func()
	nextSubID   uint64
	detach      func()
}

// NewCalculator creates a calculator for the given bundle options.
func NewCalculator(
	options domain.BuildOptions,
	transformer ports.Transformer,
	source ports.OptionSource,
	tracer ports.Tracer,
	logger ports.Logger,
) *Calculator {
	return &Calculator{
		options:     options,
		transformer: transformer,
		source:      source,
		tracer:      tracer,
		logger:      logger,
		graph:       domain.NewGraph(options.EntryFile),
		tracker:     NewTracker(),
		subscribers: make(map[uint64]func()),
	}
}

// Options returns the bundle options this calculator was created for.
func (c *Calculator) Options() domain.BuildOptions {
	return c.options
}

// OnFileChange buffers a batch of watch events and fires the change signal.
// Buffering is synchronous; the signal carries no payload and only tells
// subscribers to schedule a future GetDelta call.
func (c *Calculator) OnFileChange(events ...ports.WatchEvent) {
	for _, ev := range events {
		c.tracker.Record(ev)
	}

	c.subMu.Lock()
	subs := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribe registers a change listener and returns its unsubscribe
// function. Listeners are invoked synchronously from OnFileChange.
func (c *Calculator) Subscribe(fn func()) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subscribers, id)
	}
}

// SetDetach records the function End calls to detach the calculator from
// its change-notification source.
func (c *Calculator) SetDetach(fn func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.detach = fn
}

// Graph returns the current graph. The caller must not mutate it; the
// accessor waits for any in-flight build per the queueing contract.
func (c *Calculator) Graph() *domain.Graph {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	return c.graph
}

// TransformerOptions lazily derives and memoizes the effective transform
// configuration for this bundle. The derivation runs under the same
// single-builder-at-a-time discipline as builds.
func (c *Calculator) TransformerOptions(ctx context.Context) (domain.TransformOptions, error) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	return c.transformerOptionsLocked(ctx)
}

func (c *Calculator) transformerOptionsLocked(ctx context.Context) (domain.TransformOptions, error) {
	if c.transformOptions != nil {
		return *c.transformOptions, nil
	}
	opts, err := c.source.TransformOptionsFor(ctx, c.options.EntryFile, c.options.TransformOptions())
	if err != nil {
		return domain.TransformOptions{}, zerr.Wrap(err, "failed to derive transformer options")
	}
	c.transformOptions = &opts
	return opts, nil
}

// GetDelta computes the delta since the previous call. If a build is in
// flight the call waits for it, then independently swaps and processes the
// pending changes existing at that point. With reset=true, pending changes
// are applied first and the full reordered graph is returned.
func (c *Calculator) GetDelta(ctx context.Context, reset bool) (domain.Delta, error) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	if c.ended {
		return domain.Delta{}, domain.ErrCalculatorEnded
	}

	ctx, span := c.tracer.Start(ctx, "delta.build")
	defer span.End()
	span.SetAttribute("bundle.entry", c.options.EntryFile)
	span.SetAttribute("delta.reset", reset)

	modified, deleted := c.tracker.Swap()
	countBefore := c.graph.Len()

	delta, err := c.computeLocked(ctx, modified, deleted)
	if err != nil {
		span.RecordError(err)
		// Nothing is lost: the consumed changes go back into the pending
		// sets before the error propagates.
		c.tracker.Restore(modified, deleted)
		if c.graph.Len() != countBefore {
			inconsistent := zerr.With(domain.ErrGraphInconsistent, "before", countBefore)
			inconsistent = zerr.With(inconsistent, "after", c.graph.Len())
			c.logger.Error(inconsistent)
			c.graph = domain.NewGraph(c.options.EntryFile)
		}
		return domain.Delta{}, err
	}

	if reset && !delta.Reset {
		traversal.Reorder(c.graph)
		delta = domain.Delta{
			Modified: slices.Collect(c.graph.Modules()),
			Reset:    true,
		}
	}

	span.SetAttribute("delta.modified", len(delta.Modified))
	span.SetAttribute("delta.deleted", len(delta.Deleted))
	return delta, nil
}

func (c *Calculator) computeLocked(ctx context.Context, modified, deleted map[string]struct{}) (domain.Delta, error) {
	transform, err := c.transformerOptionsLocked(ctx)
	if err != nil {
		return domain.Delta{}, err
	}
	opts := traversal.Options{
		Transformer: c.transformer,
		Transform:   transform,
	}

	if c.graph.Len() == 0 {
		var processed int
		opts.OnProgress = func(done, _ int) { processed = done }
		added, err := traversal.Initial(ctx, c.graph, opts)
		if err != nil {
			return domain.Delta{}, zerr.Wrap(err, domain.ErrTraversalFailed.Error())
		}
		c.logger.Info(fmt.Sprintf("initial graph built: %d modules", processed))
		return domain.Delta{Modified: added, Reset: true}, nil
	}

	// A module cannot be validly "modified" if something it required
	// vanished: expand deletions into their dependents.
	for path := range deleted {
		if m, tracked := c.graph.Module(path); tracked {
			for inverse := range m.InverseDependencies {
				modified[inverse] = struct{}{}
			}
		}
	}

	// Only tracked, non-deleted paths reach the traversal; anything else is
	// an untracked file.
	changed := make([]string, 0, len(modified))
	for path := range modified {
		if _, gone := deleted[path]; gone {
			continue
		}
		if _, tracked := c.graph.Module(path); tracked {
			changed = append(changed, path)
		}
	}
	slices.Sort(changed)

	if len(changed) == 0 {
		return domain.Delta{}, nil
	}

	res, err := traversal.Traverse(ctx, c.graph, changed, opts)
	if err != nil {
		return domain.Delta{}, zerr.Wrap(err, domain.ErrTraversalFailed.Error())
	}
	return domain.Delta{Modified: res.Added, Deleted: res.Deleted}, nil
}

// End detaches the calculator from change notifications, clears all
// listeners and resets the graph and pending sets. No partial state
// survives.
func (c *Calculator) End() {
	c.subMu.Lock()
	detach := c.detach
	c.detach = nil
	c.subscribers = make(map[uint64]func())
	c.subMu.Unlock()

	if detach != nil {
		detach()
	}

	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	c.ended = true
	c.graph = domain.NewGraph(c.options.EntryFile)
	c.tracker.Reset()
	c.transformOptions = nil
}
