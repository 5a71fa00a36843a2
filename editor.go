package ggedit

import (
	"fmt"
	"image"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ggedit/compositor"
	"github.com/gogpu/ggedit/history"
	"github.com/gogpu/ggedit/internal/logging"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/store"
	"github.com/gogpu/ggedit/tool"
	"github.com/gogpu/ggedit/view"
)

// Editor is one editing session: a document of layers with their pixel
// buffers, the tools that edit them, the undo history and the viewport.
//
// An Editor is not safe for concurrent use. Image loads complete in the
// background and swap their finished buffer in under the store's lock.
type Editor struct {
	width, height int

	layers *layer.Set
	store  *store.Store
	comp   *compositor.Compositor
	hist   *history.History
	tools  *tool.Pipeline
	view   *view.View

	// user holds the callbacks passed with WithCallbacks.
	user tool.Callbacks
	g    gesture
}

// gesture tracks the pointer interaction in flight.
type gesture struct {
	active bool
	kind   tool.Kind
	ctx    tool.Context
	// before holds the target layer's pixels as they were when a painting
	// gesture started.
	before []byte
}

// New creates an editor with a single empty layer named "Background" and a
// baseline history entry.
func New(opts ...Option) *Editor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sopts := []store.Option{store.WithMaxPixels(o.maxPixels)}
	if o.decoder != nil {
		sopts = append(sopts, store.WithDecoder(o.decoder))
	}
	e := &Editor{
		width:  o.width,
		height: o.height,
		layers: layer.NewSet(),
		store:  store.New(o.width, o.height, sopts...),
		hist:   history.New(history.WithMax(o.maxHistory)),
		view:   view.New(),
		user:   o.callbacks,
	}
	e.comp = compositor.New(e.store, compositor.WithBackground(o.background))
	e.tools = tool.NewPipeline(e.callbacks())

	bg := layer.New(layer.Raster, "Background")
	e.layers.Add(bg)
	e.store.Buffer(bg.ID)
	e.seed("new", "New document")
	return e
}

// seed replaces the history with a single baseline snapshot.
func (e *Editor) seed(typ, name string) {
	e.hist.Clear()
	if err := e.Commit(typ, name); err != nil {
		logging.Logger().Warn("ggedit: baseline snapshot failed", "error", err)
	}
}

// Size returns the document size in pixels.
func (e *Editor) Size() (width, height int) { return e.width, e.height }

// Tools returns the tool pipeline: active tool, settings and colors.
func (e *Editor) Tools() *tool.Pipeline { return e.tools }

// View returns the viewport.
func (e *Editor) View() *view.View { return e.view }

// Render composites the document and returns the output image. The image
// is owned by the editor and overwritten by the next Render.
func (e *Editor) Render() *image.RGBA {
	return e.comp.Render(e.layers.Layers(), e.layers.Order())
}

// Export renders the document and encodes it to w.
func (e *Editor) Export(w io.Writer, f compositor.Format, quality int) error {
	e.Render()
	if err := e.comp.Encode(w, f, quality); err != nil {
		return fmt.Errorf("ggedit: export: %w", err)
	}
	return nil
}

// ExportBytes renders the document and returns it encoded.
func (e *Editor) ExportBytes(f compositor.Format, quality int) ([]byte, error) {
	e.Render()
	b, err := e.comp.Bytes(f, quality)
	if err != nil {
		return nil, fmt.Errorf("ggedit: export: %w", err)
	}
	return b, nil
}

// Resize changes the document size. Layer buffers are dropped, layers keep
// their settings and the history restarts from the resized document.
func (e *Editor) Resize(width, height int) {
	e.PointerCancel()
	e.width, e.height = width, height
	e.comp.Resize(width, height)
	e.seed("resize", "Resize")
}

// Close releases all buffers. The editor must not be used afterwards.
func (e *Editor) Close() {
	e.tools.Cancel()
	e.g = gesture{}
	e.comp.Close()
	e.store.Close()
	e.hist.Clear()
}

// Commit records the current document as a history entry. typ is a
// machine-readable action name, name the label shown to the user.
func (e *Editor) Commit(typ, name string) error {
	if _, err := e.hist.Record(typ, name, e.layers.State(), e.store); err != nil {
		return fmt.Errorf("ggedit: commit %q: %w", typ, err)
	}
	return nil
}

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Undo restores the previous history entry.
func (e *Editor) Undo() bool {
	s, ok := e.hist.Undo()
	return ok && e.restore(s)
}

// Redo restores the next history entry.
func (e *Editor) Redo() bool {
	s, ok := e.hist.Redo()
	return ok && e.restore(s)
}

// JumpTo restores history entry i.
func (e *Editor) JumpTo(i int) bool {
	s, ok := e.hist.JumpTo(i)
	return ok && e.restore(s)
}

// History returns the history entries, oldest first.
func (e *Editor) History() []*history.Snapshot { return e.hist.Entries() }

// HistoryIndex returns the position of the current entry.
func (e *Editor) HistoryIndex() int { return e.hist.Index() }

func (e *Editor) restore(s *history.Snapshot) bool {
	e.tools.Cancel()
	e.g = gesture{}
	if err := e.layers.Restore(s.State); err != nil {
		logging.Logger().Warn("ggedit: snapshot has invalid layers", "snapshot", s.ID, "error", err)
		return false
	}
	// Layers the snapshot does not know lose their buffers and any load
	// still in flight for them.
	e.store.Retain(func(id string) bool {
		_, ok := s.State.Layers[id]
		return ok
	})
	if err := s.Restore(e.store); err != nil {
		return false
	}
	return true
}

// sample returns a straight-alpha copy of the composite for the
// eyedropper.
func (e *Editor) sample() *image.NRGBA {
	out := e.Render()
	img := image.NewNRGBA(out.Rect)
	xdraw.Copy(img, image.Point{}, out, out.Rect, xdraw.Src, nil)
	return img
}
