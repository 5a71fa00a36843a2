// Package history keeps a bounded, linear undo history of document
// snapshots.
//
// The history is a sequence of snapshots and a cursor. Pushing drops every
// snapshot after the cursor, appends, and evicts the oldest entries once the
// bound is exceeded. Undo never moves the cursor below the first entry: the
// oldest snapshot is the baseline that the document returns to.
package history

import "github.com/gogpu/ggedit/internal/logging"

// DefaultMax is the default number of retained snapshots.
const DefaultMax = 50

// Option configures a History.
type Option func(*History)

// WithMax sets the number of retained snapshots. Values below 1 are
// treated as 1.
func WithMax(n int) Option {
	return func(h *History) {
		h.max = max(1, n)
	}
}

// History is a bounded undo history. It is not safe for concurrent use.
type History struct {
	entries []*Snapshot
	index   int
	max     int
}

// New returns an empty history.
func New(opts ...Option) *History {
	h := &History{index: -1, max: DefaultMax}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor, -1 when empty.
func (h *History) Index() int { return h.index }

// Max returns the bound.
func (h *History) Max() int { return h.max }

// Entries returns the snapshots, oldest first. Snapshots must be treated as
// read-only.
func (h *History) Entries() []*Snapshot {
	return append([]*Snapshot(nil), h.entries...)
}

// Push appends snap after the cursor, discarding the redo tail.
func (h *History) Push(snap *Snapshot) {
	if snap == nil {
		return
	}
	clear(h.entries[h.index+1:])
	h.entries = append(h.entries[:h.index+1], snap)
	h.trim()
	h.index = len(h.entries) - 1
	logging.Logger().Debug("history: push", "type", snap.Type, "name", snap.Name, "len", len(h.entries))
}

// trim evicts the oldest snapshots beyond the bound.
func (h *History) trim() {
	n := len(h.entries) - h.max
	if n <= 0 {
		return
	}
	clear(h.entries[:n])
	h.entries = append(h.entries[:0], h.entries[n:]...)
	h.index = max(h.index-n, 0)
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Undo steps back and returns the snapshot to restore.
func (h *History) Undo() (*Snapshot, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo steps forward and returns the snapshot to restore.
func (h *History) Redo() (*Snapshot, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return h.entries[h.index], true
}

// JumpTo moves the cursor to i.
func (h *History) JumpTo(i int) (*Snapshot, bool) {
	if i < 0 || i >= len(h.entries) {
		return nil, false
	}
	h.index = i
	return h.entries[i], true
}

// Current returns the snapshot under the cursor.
func (h *History) Current() (*Snapshot, bool) {
	if h.index < 0 {
		return nil, false
	}
	return h.entries[h.index], true
}

// Clear drops every snapshot.
func (h *History) Clear() {
	clear(h.entries)
	h.entries = h.entries[:0]
	h.index = -1
}

// SetMax changes the bound, evicting the oldest snapshots if needed.
func (h *History) SetMax(n int) {
	h.max = max(1, n)
	h.trim()
	if h.index >= len(h.entries) {
		h.index = len(h.entries) - 1
	}
}
