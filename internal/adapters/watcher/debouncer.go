package watcher

import (
	"sync"
	"time"

	"github.com/prajithkb/metro/internal/core/ports"
)

// Debouncer coalesces rapid file system events into batched invalidations.
// Events are deduplicated per path; when a path changes kind within the
// window the latest event wins, matching the change tracker's mutually
// exclusive pending sets.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]ports.WatchEvent
	timer    *time.Timer
	window   time.Duration
	callback func(events []ports.WatchEvent)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(events []ports.WatchEvent)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]ports.WatchEvent),
		window:   window,
		callback: callback,
	}
}

// Add adds an event to the pending batch.
func (d *Debouncer) Add(ev ports.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[ev.Path] = ev

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()

	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	events := make([]ports.WatchEvent, 0, len(d.pending))
	for _, ev := range d.pending {
		events = append(events, ev)
	}

	d.pending = make(map[string]ports.WatchEvent)
	d.timer = nil
	d.mu.Unlock()

	// Asynchronous to match Flush behavior.
	if len(events) > 0 && d.callback != nil {
		go d.callback(events)
	}
}

// Flush immediately triggers the debounce callback with all pending events.
// This method blocks until the callback completes, making it suitable for
// graceful shutdown scenarios where work must finish before proceeding.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	events := make([]ports.WatchEvent, 0, len(d.pending))
	for _, ev := range d.pending {
		events = append(events, ev)
	}
	d.pending = make(map[string]ports.WatchEvent)
	d.mu.Unlock()

	if len(events) > 0 && d.callback != nil {
		d.callback(events)
	}
}

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond
