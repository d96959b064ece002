package domain

// Delta is the minimal diff between two graph snapshots. Modified is ordered
// because delivery order to clients is observable: traversal discovery order
// for incremental deltas, reorder order for reset deltas.
type Delta struct {
	// Modified holds every edge record created or re-transformed since the
	// previous delta. For a reset delta it is the complete graph.
	Modified []*Module
	// Deleted holds the paths pruned from the graph, cascade included.
	Deleted []string
	// Reset indicates the receiver must discard prior state and treat
	// Modified as the whole graph.
	Reset bool
}

// Empty reports whether the delta carries no changes.
func (d Delta) Empty() bool {
	return !d.Reset && len(d.Modified) == 0 && len(d.Deleted) == 0
}
