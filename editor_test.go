package ggedit

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"slices"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/gogpu/ggedit/compositor"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/store"
	"github.com/gogpu/ggedit/tool"
)

func at(x, y float64) tool.Event { return tool.Event{X: x, Y: y, ClientX: x, ClientY: y} }

func newEditor(t *testing.T, w, h int, opts ...Option) *Editor {
	t.Helper()
	e := New(append([]Option{WithSize(w, h)}, opts...)...)
	t.Cleanup(e.Close)
	return e
}

func stroke(e *Editor, pts ...tool.Event) {
	e.PointerDown(pts[0])
	for _, p := range pts[1:] {
		e.PointerMove(p)
	}
	e.PointerUp(pts[len(pts)-1])
}

func pixel(t *testing.T, e *Editor, id string, x, y int) color.NRGBA {
	t.Helper()
	pix, ok := e.LayerPixels(id)
	if !ok {
		t.Fatalf("layer %s has no pixels", id)
	}
	w, _ := e.Size()
	i := (y*w + x) * 4
	return color.NRGBA{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}

func TestNewEditor(t *testing.T) {
	e := newEditor(t, 32, 16)
	if got := len(e.Order()); got != 1 {
		t.Fatalf("len(Order()) = %d, want 1", got)
	}
	l, ok := e.Layer(e.ActiveLayer())
	if !ok || l.Name != "Background" || l.Kind != layer.Raster {
		t.Errorf("initial layer = %+v", l)
	}
	if len(e.History()) != 1 || e.CanUndo() {
		t.Errorf("history = %d entries, CanUndo %v", len(e.History()), e.CanUndo())
	}
	if c := e.Render().RGBAAt(5, 5); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("empty document renders %v, want white", c)
	}
}

func TestBrushStrokeUndoRedo(t *testing.T) {
	e := newEditor(t, 64, 64)
	id := e.ActiveLayer()
	e.Tools().SetTool(tool.Brush)
	e.Tools().Config().Brush.Size = 5

	stroke(e, at(10, 10), at(20, 10), at(20, 20))
	if err := e.Commit("brush", "Brush"); err != nil {
		t.Fatal(err)
	}
	if c := pixel(t, e, id, 15, 10); c.A == 0 {
		t.Fatal("stroke did not paint")
	}
	if c := e.Render().RGBAAt(15, 10); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("composite at stroke = %v, want black", c)
	}

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if c := pixel(t, e, id, 15, 10); c.A != 0 {
		t.Errorf("after undo pixel = %v, want transparent", c)
	}
	if !e.Redo() {
		t.Fatal("Redo failed")
	}
	if c := pixel(t, e, id, 15, 10); c.A == 0 {
		t.Error("after redo the stroke should be back")
	}
	if e.Redo() {
		t.Error("Redo at the end should fail")
	}
}

func TestCommitInvalidatesRedo(t *testing.T) {
	e := newEditor(t, 8, 8)
	a := e.AddLayer("A")
	e.Commit("add-layer", "Add A")
	e.AddLayer("B")
	e.Commit("add-layer", "Add B")
	e.Undo()
	e.SetOpacity(a, 30)
	e.Commit("opacity", "Opacity")
	if e.CanRedo() {
		t.Error("commit after undo should drop the redo tail")
	}
	if got := len(e.Order()); got != 2 {
		t.Errorf("len(Order()) = %d, want 2", got)
	}
	if !e.JumpTo(0) || len(e.Order()) != 1 {
		t.Errorf("JumpTo(0) order = %v", e.Order())
	}
	if e.JumpTo(10) {
		t.Error("JumpTo out of range should fail")
	}
	if e.HistoryIndex() != 0 {
		t.Errorf("HistoryIndex() = %d, want 0", e.HistoryIndex())
	}
}

func TestPaintRejectedOnLockedAndTextLayers(t *testing.T) {
	e := newEditor(t, 32, 32)
	id := e.ActiveLayer()
	e.Tools().SetTool(tool.Brush)
	e.ToggleLock(id)
	if e.PointerDown(at(5, 5)) {
		t.Error("brush on a locked layer should be rejected")
	}
	e.ToggleLock(id)

	txt, ok := e.AddTextLayer(0, 0, layer.DefaultTextStyle())
	if !ok {
		t.Fatal("AddTextLayer failed")
	}
	e.Tools().SetTool(tool.Eraser)
	if e.PointerDown(at(5, 5)) {
		t.Errorf("eraser on text layer %s should be rejected", txt)
	}

	e.Tools().SetTool(tool.Move)
	if !e.PointerDown(at(5, 5)) {
		t.Error("move should work on any layer")
	}
}

func TestMoveToolTranslatesActiveLayer(t *testing.T) {
	e := newEditor(t, 32, 32)
	id := e.ActiveLayer()
	stroke(e, at(0, 0), at(3, 4), at(5, 5))
	l, _ := e.Layer(id)
	if l.Transform.X != 5 || l.Transform.Y != 5 {
		t.Errorf("transform = %+v, want X 5 Y 5", l.Transform)
	}

	e.ToggleLock(id)
	stroke(e, at(0, 0), at(10, 10))
	l, _ = e.Layer(id)
	if l.Transform.X != 5 {
		t.Errorf("locked layer moved to %v", l.Transform.X)
	}
}

func TestEyedropperSetsPrimary(t *testing.T) {
	e := newEditor(t, 16, 16)
	id := e.ActiveLayer()
	pix := make([]byte, 16*16*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 10, 20, 30, 255
	}
	if !e.SetLayerPixels(id, pix) {
		t.Fatal("SetLayerPixels failed")
	}
	e.Tools().SetTool(tool.Eyedropper)
	stroke(e, at(4.5, 7.2))
	if got := e.Tools().Primary(); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("Primary() = %v, want #0a141e", got)
	}
	if got := e.Tools().Config().Brush.Color; got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("brush color = %v", got)
	}
}

func TestUserCallbacksOverride(t *testing.T) {
	var picked string
	var panned bool
	e := newEditor(t, 8, 8, WithCallbacks(tool.Callbacks{
		OnColorPick: func(h string) { picked = h },
		OnPan:       func(dx, dy float64) { panned = true },
	}))
	e.Tools().SetTool(tool.Eyedropper)
	stroke(e, at(1, 1))
	if picked != "#ffffff" {
		t.Errorf("picked = %q, want #ffffff", picked)
	}
	if e.Tools().Primary() != (color.NRGBA{A: 255}) {
		t.Error("user callback should replace the default handling")
	}
	e.Tools().SetTool(tool.Hand)
	stroke(e, at(0, 0), at(10, 0))
	if !panned {
		t.Error("user OnPan not called")
	}
	if x, _ := e.View().Pan(); x != 0 {
		t.Errorf("view pan = %v, want untouched", x)
	}
}

func TestHandAndZoomDriveView(t *testing.T) {
	e := newEditor(t, 8, 8)
	e.Tools().SetTool(tool.Hand)
	stroke(e, at(0, 0), at(10, 5))
	if x, y := e.View().Pan(); x != 10 || y != 5 {
		t.Errorf("Pan() = %v, %v, want 10, 5", x, y)
	}
	e.Tools().SetTool(tool.Zoom)
	stroke(e, at(1, 1))
	if e.View().Zoom() != 1.5 {
		t.Errorf("Zoom() = %v, want 1.5", e.View().Zoom())
	}
	stroke(e, tool.Event{Modifiers: key.ModAlt})
	if e.View().Zoom() != 1 {
		t.Errorf("Zoom() = %v, want 1", e.View().Zoom())
	}
}

func TestPointerCancelRestoresPixels(t *testing.T) {
	e := newEditor(t, 32, 32)
	id := e.ActiveLayer()
	e.Tools().SetTool(tool.Brush)
	e.PointerDown(at(10, 10))
	e.PointerMove(at(20, 10))
	if c := pixel(t, e, id, 15, 10); c.A == 0 {
		t.Fatal("stroke did not paint")
	}
	if !e.PointerCancel() {
		t.Fatal("PointerCancel returned false")
	}
	if c := pixel(t, e, id, 15, 10); c.A != 0 {
		t.Errorf("after cancel pixel = %v, want transparent", c)
	}
	if e.PointerMove(at(25, 10)) || e.PointerCancel() {
		t.Error("no gesture should be in flight")
	}
}

func TestPointerCancelKeepsEarlierStrokes(t *testing.T) {
	e := newEditor(t, 32, 32)
	id := e.ActiveLayer()
	e.Tools().SetTool(tool.Brush)
	stroke(e, at(5, 5), at(25, 5))
	first := pixel(t, e, id, 15, 5)
	if first.A == 0 {
		t.Fatal("first stroke did not paint")
	}

	e.PointerDown(at(5, 20))
	e.PointerMove(at(25, 20))
	if !e.PointerCancel() {
		t.Fatal("PointerCancel returned false")
	}
	if got := pixel(t, e, id, 15, 5); got != first {
		t.Errorf("uncommitted stroke after cancel = %v, want %v", got, first)
	}
	if got := pixel(t, e, id, 15, 20); got.A != 0 {
		t.Errorf("cancelled stroke left %v", got)
	}
}

func TestSingleGesture(t *testing.T) {
	e := newEditor(t, 8, 8)
	if !e.PointerDown(at(1, 1)) {
		t.Fatal("first PointerDown failed")
	}
	if e.PointerDown(at(2, 2)) {
		t.Error("second PointerDown should be rejected")
	}
	e.PointerUp(at(2, 2))
	if e.PointerUp(at(2, 2)) {
		t.Error("PointerUp without gesture should return false")
	}
}

func TestLayerOperations(t *testing.T) {
	e := newEditor(t, 4, 4)
	bg := e.ActiveLayer()
	a := e.AddLayer("")
	if l, _ := e.Layer(a); l.Name != "Layer 2" {
		t.Errorf("default name = %q, want Layer 2", l.Name)
	}
	if e.Order()[0] != a || e.ActiveLayer() != a {
		t.Errorf("new layer should be on top and active, order %v", e.Order())
	}

	fill := bytes.Repeat([]byte{1, 2, 3, 255}, 16)
	e.SetLayerPixels(a, fill)
	dup, ok := e.DuplicateLayer(a)
	if !ok {
		t.Fatal("DuplicateLayer failed")
	}
	if got, _ := e.LayerPixels(dup); !bytes.Equal(got, fill) {
		t.Error("duplicate should copy pixels")
	}
	if got := e.Order(); !slices.Equal(got, []string{dup, a, bg}) {
		t.Errorf("order = %v", got)
	}

	if !e.ReorderLayers(0, 2) {
		t.Error("ReorderLayers failed")
	}
	if !e.SetBlendMode(a, layer.Multiply) || e.SetBlendMode(a, layer.BlendMode(200)) {
		t.Error("SetBlendMode result mismatch")
	}
	if !e.ToggleVisibility(a) {
		t.Error("ToggleVisibility failed")
	}
	if l, _ := e.Layer(a); l.Visible {
		t.Error("layer should be hidden")
	}

	g, ok := e.GroupLayers([]string{a, dup}, "")
	if !ok {
		t.Fatal("GroupLayers failed")
	}
	if !e.UngroupLayers(g) {
		t.Error("UngroupLayers failed")
	}

	if !e.RemoveLayer(dup) {
		t.Error("RemoveLayer failed")
	}
	if _, ok := e.LayerPixels(dup); ok {
		t.Error("removed layer should lose its buffer")
	}
	e.RemoveLayer(a)
	if e.RemoveLayer(bg) {
		t.Error("the last layer cannot be removed")
	}
	if !e.SetActiveLayer(bg) || e.SetActiveLayer("missing") {
		t.Error("SetActiveLayer result mismatch")
	}
	e.SelectLayers([]string{bg}, false)
	if !slices.Equal(e.Selected(), []string{bg}) {
		t.Errorf("Selected() = %v", e.Selected())
	}
}

func TestTextLayer(t *testing.T) {
	e := newEditor(t, 200, 60)
	st := layer.DefaultTextStyle()
	st.Content = "Hello\nworld"
	st.Color = color.NRGBA{B: 255, A: 255}
	id, ok := e.AddTextLayer(20, 10, st)
	if !ok {
		t.Fatal("AddTextLayer failed")
	}
	l, _ := e.Layer(id)
	if l.Name != "Hello" || l.Kind != layer.Text || l.Transform.X != 20 {
		t.Errorf("text layer = %+v", l)
	}

	pix, _ := e.LayerPixels(id)
	if !slices.ContainsFunc(chunk(pix), func(p []byte) bool { return p[3] != 0 }) {
		t.Fatal("text layer has no visible pixels")
	}

	st.Content = ""
	if !e.SetText(id, st) {
		t.Fatal("SetText failed")
	}
	pix, _ = e.LayerPixels(id)
	if slices.ContainsFunc(chunk(pix), func(p []byte) bool { return p[3] != 0 }) {
		t.Error("empty text should leave the buffer clear")
	}
	if e.SetText(e.Order()[1], st) {
		t.Error("SetText on a raster layer should fail")
	}
}

func chunk(pix []byte) [][]byte {
	var out [][]byte
	for i := 0; i+4 <= len(pix); i += 4 {
		out = append(out, pix[i:i+4])
	}
	return out
}

func TestTextLayerName(t *testing.T) {
	tests := map[string]string{
		"":                           "Text",
		"  Title\nsub":              "Title",
		"abcdefghijklmnopqrstuvwxyz": "abcdefghijklmnopqrst",
	}
	for in, want := range tests {
		if got := textLayerName(in); got != want {
			t.Errorf("textLayerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAddImageLayer(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	e := newEditor(t, 4, 4)
	id, load := e.AddImageLayer(context.Background(), store.FromBytes(buf.Bytes()), "photo")
	if !load.Wait() {
		t.Fatal("load failed")
	}
	if c := pixel(t, e, id, 1, 1); c.A != 255 {
		t.Errorf("centered pixel = %v, want opaque", c)
	}
	if c := pixel(t, e, id, 0, 0); c.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", c)
	}
	if err := e.Commit("add-image", "Add image"); err != nil {
		t.Fatal(err)
	}
}

func TestUndoDropsPendingLoad(t *testing.T) {
	release := make(chan struct{})
	dec := store.DecoderFunc(func(ctx context.Context, _ store.Source) (image.Image, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		return img, nil
	})
	e := newEditor(t, 4, 4, WithDecoder(dec))
	id, load := e.AddImageLayer(context.Background(), store.FromBytes([]byte{1}), "photo")
	if err := e.Commit("add-image", "Add image"); err != nil {
		t.Fatal(err)
	}
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	close(release)

	if load.Wait() {
		t.Error("load of an undone layer should report false")
	}
	if _, ok := e.Layer(id); ok {
		t.Error("undone layer is still in the set")
	}
	if _, ok := e.LayerPixels(id); ok {
		t.Error("undone layer still owns a buffer")
	}
	if len(e.Order()) != 1 {
		t.Errorf("len(Order()) = %d, want 1", len(e.Order()))
	}
}

func TestResize(t *testing.T) {
	e := newEditor(t, 8, 8)
	id := e.ActiveLayer()
	e.AddLayer("top")
	e.Commit("add-layer", "Add")
	e.Resize(16, 4)
	if w, h := e.Size(); w != 16 || h != 4 {
		t.Errorf("Size() = %d x %d", w, h)
	}
	if len(e.Order()) != 2 {
		t.Error("layers should survive a resize")
	}
	if e.CanUndo() || len(e.History()) != 1 {
		t.Error("history should restart after a resize")
	}
	if b := e.Render().Bounds(); b.Dx() != 16 || b.Dy() != 4 {
		t.Errorf("output bounds = %v", b)
	}
	e.Tools().SetTool(tool.Brush)
	e.SetActiveLayer(id)
	if !e.PointerDown(at(2, 2)) {
		t.Error("painting after resize should work")
	}
}

func TestExport(t *testing.T) {
	e := newEditor(t, 6, 3)
	var buf bytes.Buffer
	if err := e.Export(&buf, compositor.PNG, 0); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Errorf("exported bounds = %v", b)
	}
	b, err := e.ExportBytes(compositor.JPEG, 80)
	if err != nil || len(b) == 0 {
		t.Errorf("ExportBytes = %d bytes, %v", len(b), err)
	}
}

func TestHandleMouse(t *testing.T) {
	e := newEditor(t, 100, 100)
	id := e.ActiveLayer()
	bounds := tool.Rect{W: 50, H: 50}
	events := []mouse.Event{
		{X: 0, Y: 0, Button: mouse.ButtonLeft, Direction: mouse.DirPress},
		{X: 10, Y: 5, Button: mouse.ButtonLeft, Direction: mouse.DirNone},
		{X: 10, Y: 5, Button: mouse.ButtonLeft, Direction: mouse.DirRelease},
	}
	for _, m := range events {
		e.HandleMouse(m, bounds)
	}
	l, _ := e.Layer(id)
	if l.Transform.X != 20 || l.Transform.Y != 10 {
		t.Errorf("transform = %+v, want X 20 Y 10", l.Transform)
	}
	if e.HandleMouse(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, bounds) {
		t.Error("wheel events should be ignored")
	}
}
