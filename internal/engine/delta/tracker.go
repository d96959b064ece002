// Package delta implements the incremental build engine: the change tracker
// that buffers watcher events between builds, the delta calculator that
// serializes builds and drives the traversal, and the bundler that shares
// calculators between clients requesting the same bundle.
package delta

import (
	"sync"

	"github.com/prajithkb/metro/internal/core/ports"
)

// Tracker accumulates raw file-system change notifications into two pending
// sets between delta requests. Membership is mutually exclusive: recording a
// path in one set removes it from the other. Buffering is synchronous, so
// watcher callbacks can interleave with an in-progress build without
// corrupting the sets; a build only ever consumes a snapshot taken by Swap.
type Tracker struct {
	mu       sync.Mutex
	modified map[string]struct{}
	deleted  map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		modified: make(map[string]struct{}),
		deleted:  make(map[string]struct{}),
	}
}

// Record buffers a single watch event.
func (t *Tracker) Record(ev ports.WatchEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.IsDelete() {
		t.deleted[ev.Path] = struct{}{}
		delete(t.modified, ev.Path)
	} else {
		t.modified[ev.Path] = struct{}{}
		delete(t.deleted, ev.Path)
	}
}

// Swap atomically replaces both pending sets with empty ones and returns the
// previous contents. Changes arriving after the swap are buffered for the
// next delta, never mixed into the current one.
func (t *Tracker) Swap() (modified, deleted map[string]struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	modified, deleted = t.modified, t.deleted
	t.modified = make(map[string]struct{})
	t.deleted = make(map[string]struct{})
	return modified, deleted
}

// Restore re-inserts sets consumed by a failed build so no change is lost.
// Events recorded since the failed swap win over the restored ones.
func (t *Tracker) Restore(modified, deleted map[string]struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for path := range modified {
		if _, newer := t.deleted[path]; newer {
			continue
		}
		t.modified[path] = struct{}{}
	}
	for path := range deleted {
		if _, newer := t.modified[path]; newer {
			continue
		}
		t.deleted[path] = struct{}{}
	}
}

// Reset discards all pending changes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modified = make(map[string]struct{})
	t.deleted = make(map[string]struct{})
}
