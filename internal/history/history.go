// Package history provides undo/redo for the manual whitelist mask.
package history

import "scan-cleaner/internal/stain"

// History is an append-only list of immutable mask snapshots with a
// cursor. Pushing while undone truncates the redo tail; the pipeline
// only ever sees the single current mask.
type History struct {
	snapshots []*stain.Mask
	cursor    int // index of the current snapshot
}

// New creates a history seeded with an initial snapshot, typically the
// empty mask for a freshly loaded image.
func New(initial *stain.Mask) *History {
	return &History{snapshots: []*stain.Mask{initial.Clone()}}
}

// Current returns a copy of the snapshot at the cursor. Callers may
// mutate the copy freely; stored snapshots never change.
func (h *History) Current() *stain.Mask {
	return h.snapshots[h.cursor].Clone()
}

// Push records a new snapshot and moves the cursor to it, discarding
// any snapshots that had been undone.
func (h *History) Push(m *stain.Mask) {
	h.snapshots = append(h.snapshots[:h.cursor+1], m.Clone())
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back one snapshot. Returns false at the start.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one snapshot. Returns false at the end.
func (h *History) Redo() bool {
	if h.cursor == len(h.snapshots)-1 {
		return false
	}
	h.cursor++
	return true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }
