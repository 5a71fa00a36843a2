package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/ggedit/internal/logging"
	"github.com/gogpu/ggedit/layer"
)

// ErrSizeMismatch is returned when a snapshot's pixels no longer fit the
// destination buffers.
var ErrSizeMismatch = errors.New("history: pixel data does not match buffer size")

// Snapshot is a full copy of the document at one point in time.
type Snapshot struct {
	ID        string
	Type      string // machine-readable action, e.g. "brush" or "add-layer"
	Name      string // label shown to the user
	Timestamp time.Time
	State     layer.State
	// Pixels holds the buffer of every layer that had one, keyed by id.
	Pixels map[string]*Blob
}

// PixelSource is the read side of a buffer store.
type PixelSource interface {
	Version(id string) uint64
	Pixels(id string) ([]byte, bool)
}

// PixelStore is a buffer store a snapshot can be restored into.
type PixelStore interface {
	PixelSource
	SetPixels(id string, data []byte) bool
	Dispose(id string)
	IDs() []string
}

// Capture builds a snapshot of st and the buffers in src. Buffers whose
// version matches the one recorded by the current snapshot share its
// compressed data instead of being compressed again.
func (h *History) Capture(typ, name string, st layer.State, src PixelSource) (*Snapshot, error) {
	var prev map[string]*Blob
	if cur, ok := h.Current(); ok {
		prev = cur.Pixels
	}
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Type:      typ,
		Name:      name,
		Timestamp: time.Now(),
		State:     st.Clone(),
		Pixels:    make(map[string]*Blob),
	}
	shared := 0
	for id, l := range snap.State.Layers {
		if !l.Kind.HasPixels() {
			continue
		}
		v := src.Version(id)
		if v == 0 {
			continue
		}
		if b := prev[id]; b != nil && b.version == v {
			snap.Pixels[id] = b
			shared++
			continue
		}
		raw, ok := src.Pixels(id)
		if !ok {
			continue
		}
		b, err := newBlob(v, raw)
		if err != nil {
			return nil, fmt.Errorf("history: capture %s: %w", id, err)
		}
		snap.Pixels[id] = b
	}
	logging.Logger().Debug("history: capture", "type", typ,
		"buffers", len(snap.Pixels), "shared", shared)
	return snap, nil
}

// Record captures a snapshot and pushes it.
func (h *History) Record(typ, name string, st layer.State, src PixelSource) (*Snapshot, error) {
	snap, err := h.Capture(typ, name, st, src)
	if err != nil {
		return nil, err
	}
	h.Push(snap)
	return snap, nil
}

// Restore writes the buffers of snap into dst. Buffers that are unchanged
// since the snapshot was taken are left alone. Buffers of layers that are
// absent from snap, or that had no pixels when it was taken, are disposed.
func (snap *Snapshot) Restore(dst PixelStore) error {
	for _, id := range dst.IDs() {
		if snap.Pixels[id] == nil {
			dst.Dispose(id)
		}
	}
	var errs []error
	for id := range snap.Pixels {
		if err := snap.restore(dst, id); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logging.Logger().Warn("history: restore incomplete", "snapshot", snap.ID, "error", err)
		return err
	}
	return nil
}

// RestoreLayer restores the buffer of a single layer.
func (snap *Snapshot) RestoreLayer(dst PixelStore, id string) error {
	if snap.Pixels[id] == nil {
		dst.Dispose(id)
		return nil
	}
	return snap.restore(dst, id)
}

func (snap *Snapshot) restore(dst PixelStore, id string) error {
	b := snap.Pixels[id]
	if b.version == dst.Version(id) {
		return nil
	}
	raw, err := b.Bytes()
	if err != nil {
		return fmt.Errorf("history: restore %s: %w", id, err)
	}
	if !dst.SetPixels(id, raw) {
		return fmt.Errorf("history: restore %s: %w", id, ErrSizeMismatch)
	}
	// The buffer now holds exactly this blob, so later captures and
	// restores can recognize it.
	b.version = dst.Version(id)
	return nil
}
