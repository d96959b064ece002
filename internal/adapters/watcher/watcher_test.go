package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prajithkb/metro/internal/adapters/watcher"
	"github.com/prajithkb/metro/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(w *watcher.Watcher, out chan<- ports.WatchEvent) {
	for ev := range w.Events() {
		out <- ev
	}
}

func waitFor(t *testing.T, events <-chan ports.WatchEvent, match func(ports.WatchEvent) bool) ports.WatchEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for watch event")
		}
	}
}

func TestWatcher_DetectsWriteAndRemove(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a.js")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	events := make(chan ports.WatchEvent, 64)
	go collectEvents(w, events)

	require.NoError(t, os.WriteFile(target, []byte("xy"), 0o600))
	ev := waitFor(t, events, func(ev ports.WatchEvent) bool {
		return ev.Path == target && !ev.IsDelete()
	})
	assert.False(t, ev.IsDelete())

	require.NoError(t, os.Remove(target))
	ev = waitFor(t, events, func(ev ports.WatchEvent) bool {
		return ev.Path == target && ev.IsDelete()
	})
	assert.Equal(t, ports.OpRemove, ev.Operation)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))

	events := make(chan ports.WatchEvent, 64)
	go collectEvents(w, events)

	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// The new directory gets added to the watch set; a file created inside
	// it afterwards must produce an event.
	target := filepath.Join(sub, "b.js")
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
		select {
		case ev := <-events:
			if ev.Path == target {
				return
			}
		case <-time.After(100 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("no event for file inside newly created directory")
		}
		_ = os.Remove(target)
	}
}
