package history

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/gogpu/ggedit/layer"
)

// memStore is a minimal PixelStore.
type memStore struct {
	size     int
	clock    uint64
	pix      map[string][]byte
	versions map[string]uint64
	reads    int
}

func newMemStore(size int) *memStore {
	return &memStore{size: size, pix: map[string][]byte{}, versions: map[string]uint64{}}
}

func (m *memStore) Version(id string) uint64 { return m.versions[id] }

func (m *memStore) Pixels(id string) ([]byte, bool) {
	p, ok := m.pix[id]
	if ok {
		m.reads++
	}
	return slices.Clone(p), ok
}

func (m *memStore) SetPixels(id string, data []byte) bool {
	if len(data) != m.size {
		return false
	}
	m.pix[id] = slices.Clone(data)
	m.clock++
	m.versions[id] = m.clock
	return true
}

func (m *memStore) Dispose(id string) {
	delete(m.pix, id)
	delete(m.versions, id)
}

func (m *memStore) IDs() []string { return slices.Sorted(maps.Keys(m.pix)) }

func snap(name string) *Snapshot { return &Snapshot{Name: name} }

func names(h *History) []string {
	var out []string
	for _, s := range h.Entries() {
		out = append(out, s.Name)
	}
	return out
}

func TestNew(t *testing.T) {
	h := New()
	if h.Len() != 0 || h.Index() != -1 || h.Max() != DefaultMax {
		t.Errorf("New() = len %d index %d max %d", h.Len(), h.Index(), h.Max())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history cannot undo or redo")
	}
	if _, ok := h.Current(); ok {
		t.Error("empty history has no current snapshot")
	}
	if New(WithMax(0)).Max() != 1 {
		t.Error("WithMax(0) should clamp to 1")
	}
}

func TestBound(t *testing.T) {
	h := New(WithMax(3))
	for i := range 5 {
		h.Push(snap(fmt.Sprint(i)))
	}
	if got, want := names(h), []string{"2", "3", "4"}; !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
	if h.Index() != 2 {
		t.Errorf("Index() = %d, want 2", h.Index())
	}
}

func TestBoundDefault(t *testing.T) {
	h := New()
	for i := range DefaultMax + 10 {
		h.Push(snap(fmt.Sprint(i)))
	}
	if h.Len() != DefaultMax {
		t.Errorf("Len() = %d, want %d", h.Len(), DefaultMax)
	}
	if h.Index() != DefaultMax-1 {
		t.Errorf("Index() = %d, want %d", h.Index(), DefaultMax-1)
	}
}

func TestUndoRedo(t *testing.T) {
	h := New()
	h.Push(snap("a"))
	if h.CanUndo() {
		t.Error("a single snapshot is the baseline and cannot be undone")
	}
	h.Push(snap("b"))
	h.Push(snap("c"))

	s, ok := h.Undo()
	if !ok || s.Name != "b" {
		t.Fatalf("Undo() = %v, %v, want b", s, ok)
	}
	s, ok = h.Undo()
	if !ok || s.Name != "a" {
		t.Fatalf("Undo() = %v, %v, want a", s, ok)
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo below the first entry should fail")
	}
	s, ok = h.Redo()
	if !ok || s.Name != "b" {
		t.Fatalf("Redo() = %v, %v, want b", s, ok)
	}
	s, _ = h.Redo()
	if s.Name != "c" || h.CanRedo() {
		t.Errorf("Redo() = %v, CanRedo = %v", s.Name, h.CanRedo())
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo at the end should fail")
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	h := New()
	h.Push(snap("a"))
	h.Push(snap("b"))
	h.Push(snap("c"))
	h.Undo()
	h.Undo()
	h.Push(snap("d"))
	if got, want := names(h), []string{"a", "d"}; !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
	if h.CanRedo() {
		t.Error("push should drop the redo tail")
	}
}

func TestJumpTo(t *testing.T) {
	h := New()
	for _, n := range []string{"a", "b", "c"} {
		h.Push(snap(n))
	}
	s, ok := h.JumpTo(0)
	if !ok || s.Name != "a" || h.Index() != 0 {
		t.Errorf("JumpTo(0) = %v, %v, index %d", s, ok, h.Index())
	}
	for _, i := range []int{-1, 3} {
		if _, ok := h.JumpTo(i); ok {
			t.Errorf("JumpTo(%d) should fail", i)
		}
	}
	if h.Index() != 0 {
		t.Errorf("failed JumpTo moved the cursor to %d", h.Index())
	}
}

func TestClearAndSetMax(t *testing.T) {
	h := New()
	for i := range 6 {
		h.Push(snap(fmt.Sprint(i)))
	}
	h.JumpTo(1)
	h.SetMax(2)
	if got, want := names(h), []string{"4", "5"}; !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
	if h.Index() != 0 {
		t.Errorf("Index() = %d, want 0", h.Index())
	}
	h.Clear()
	if h.Len() != 0 || h.Index() != -1 {
		t.Errorf("after Clear len %d index %d", h.Len(), h.Index())
	}
	h.Push(nil)
	if h.Len() != 0 {
		t.Error("Push(nil) should be ignored")
	}
}

func newDoc(t *testing.T) (*layer.Set, *memStore, string) {
	t.Helper()
	set := layer.NewSet()
	l := layer.New(layer.Raster, "Background")
	set.Add(l)
	st := newMemStore(4)
	st.SetPixels(l.ID, []byte{1, 2, 3, 4})
	return set, st, l.ID
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	set, st, id := newDoc(t)
	h := New()
	if _, err := h.Record("initial", "Initial", set.State(), st); err != nil {
		t.Fatalf("Record: %v", err)
	}

	st.SetPixels(id, []byte{9, 9, 9, 9})
	set.SetOpacity(id, 40)
	if _, err := h.Record("brush", "Brush", set.State(), st); err != nil {
		t.Fatalf("Record: %v", err)
	}

	s, ok := h.Undo()
	if !ok {
		t.Fatal("Undo failed")
	}
	if err := set.Restore(s.State); err != nil {
		t.Fatalf("Set.Restore: %v", err)
	}
	if err := s.Restore(st); err != nil {
		t.Fatalf("Snapshot.Restore: %v", err)
	}
	if got, _ := st.Pixels(id); !slices.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("pixels after undo = %v, want [1 2 3 4]", got)
	}
	if got := set.Get(id).Opacity; got != 100 {
		t.Errorf("opacity after undo = %d, want 100", got)
	}

	s, _ = h.Redo()
	set.Restore(s.State)
	if err := s.Restore(st); err != nil {
		t.Fatalf("Snapshot.Restore: %v", err)
	}
	if got, _ := st.Pixels(id); !slices.Equal(got, []byte{9, 9, 9, 9}) {
		t.Errorf("pixels after redo = %v, want [9 9 9 9]", got)
	}
	if got := set.Get(id).Opacity; got != 40 {
		t.Errorf("opacity after redo = %d, want 40", got)
	}
}

func TestCaptureSharesUnchangedBuffers(t *testing.T) {
	set, st, id := newDoc(t)
	h := New()
	a, _ := h.Record("initial", "Initial", set.State(), st)
	set.SetOpacity(id, 10)
	reads := st.reads
	b, _ := h.Record("opacity", "Opacity", set.State(), st)
	if a.Pixels[id] != b.Pixels[id] {
		t.Error("unchanged buffer should share its blob")
	}
	if st.reads != reads {
		t.Error("unchanged buffer should not be read again")
	}

	// Restoring a blob rebinds it to the restored buffer, so the next
	// capture still shares.
	h.Undo()
	st.SetPixels(id, []byte{7, 7, 7, 7})
	if err := a.Restore(st); err != nil {
		t.Fatal(err)
	}
	c, _ := h.Record("noop", "Noop", set.State(), st)
	if c.Pixels[id] != a.Pixels[id] {
		t.Error("restored buffer should share the restored blob")
	}
}

func TestRestoreDisposesExtraBuffers(t *testing.T) {
	set, st, _ := newDoc(t)
	h := New()
	s, _ := h.Record("initial", "Initial", set.State(), st)
	st.SetPixels("stray", []byte{1, 1, 1, 1})
	if err := s.Restore(st); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Pixels("stray"); ok {
		t.Error("buffer absent from the snapshot should be disposed")
	}
}

func TestRestoreSizeMismatch(t *testing.T) {
	set, st, _ := newDoc(t)
	h := New()
	s, _ := h.Record("initial", "Initial", set.State(), st)
	other := newMemStore(8)
	if err := s.Restore(other); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Restore into wrong size = %v, want ErrSizeMismatch", err)
	}
}

func TestSkipsLayersWithoutPixels(t *testing.T) {
	set, st, _ := newDoc(t)
	txt := layer.New(layer.Text, "Title")
	set.Add(txt)
	empty := layer.New(layer.Raster, "Empty")
	set.Add(empty)
	s, err := New().Capture("add", "Add", set.State(), st)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Pixels) != 1 {
		t.Errorf("captured %d buffers, want 1", len(s.Pixels))
	}
	if s.ID == "" || s.Timestamp.IsZero() {
		t.Error("snapshot should carry an id and a timestamp")
	}
}

func TestBlob(t *testing.T) {
	raw := make([]byte, 4096)
	for i := range raw {
		raw[i] = byte(i % 7)
	}
	b, err := newBlob(1, raw)
	if err != nil {
		t.Fatal(err)
	}
	if b.Size() != len(raw) || b.CompressedSize() >= len(raw) {
		t.Errorf("Size = %d, CompressedSize = %d", b.Size(), b.CompressedSize())
	}
	got, err := b.Bytes()
	if err != nil || !slices.Equal(got, raw) {
		t.Errorf("Bytes() mismatch, err = %v", err)
	}
	b.size++
	if _, err := b.Bytes(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Bytes() with wrong size = %v, want ErrCorrupt", err)
	}
}

func BenchmarkCapture(b *testing.B) {
	set := layer.NewSet()
	l := layer.New(layer.Raster, "Background")
	set.Add(l)
	st := newMemStore(512 * 512 * 4)
	st.SetPixels(l.ID, make([]byte, 512*512*4))
	h := New()
	b.ResetTimer()
	for b.Loop() {
		st.versions[l.ID]++
		if _, err := h.Capture("brush", "Brush", set.State(), st); err != nil {
			b.Fatal(err)
		}
	}
}

func TestRestoreLayer(t *testing.T) {
	set, st, id := newDoc(t)
	h := New()
	s, _ := h.Record("initial", "Initial", set.State(), st)
	st.SetPixels(id, []byte{5, 5, 5, 5})
	st.SetPixels("other", []byte{6, 6, 6, 6})
	if err := s.RestoreLayer(st, id); err != nil {
		t.Fatal(err)
	}
	if got, _ := st.Pixels(id); !slices.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("pixels = %v, want [1 2 3 4]", got)
	}
	if _, ok := st.Pixels("other"); !ok {
		t.Error("RestoreLayer must not touch other buffers")
	}
	if err := s.RestoreLayer(st, "other"); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Pixels("other"); ok {
		t.Error("layer without pixels in the snapshot should be disposed")
	}
}
