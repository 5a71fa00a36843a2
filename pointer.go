package ggedit

import (
	"slices"

	"golang.org/x/mobile/event/mouse"

	"github.com/gogpu/ggedit/internal/logging"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/tool"
)

// callbacks wires tool results into the editor. Callbacks given with
// WithCallbacks take precedence.
func (e *Editor) callbacks() tool.Callbacks {
	cb := e.user
	if cb.OnTransformChange == nil {
		cb.OnTransformChange = e.moveActive
	}
	if cb.OnPan == nil {
		cb.OnPan = e.view.AddPan
	}
	if cb.OnZoom == nil {
		cb.OnZoom = func(in bool, _, _ float64) {
			if in {
				e.view.ZoomIn()
			} else {
				e.view.ZoomOut()
			}
		}
	}
	if cb.OnColorPick == nil {
		cb.OnColorPick = func(hex string) {
			if c, ok := tool.ParseHex(hex); ok {
				e.tools.SetPrimaryColor(c)
			}
		}
	}
	return cb
}

func (e *Editor) moveActive(dx, dy float64) {
	l := e.layers.ActiveLayer()
	if l == nil || l.Locked {
		return
	}
	e.layers.Translate(l.ID, dx, dy)
}

// PointerDown starts a gesture with the active tool on the active layer.
// ev is in canvas pixels. Painting tools are rejected on locked layers and
// on layers that are not rasters.
func (e *Editor) PointerDown(ev tool.Event) bool {
	if e.g.active {
		return false
	}
	kind := e.tools.Active()
	ctx := tool.Context{LayerID: e.layers.Active()}
	var before []byte
	switch {
	case kind.Mutates():
		l := e.layers.ActiveLayer()
		if l == nil || l.Locked || l.Kind != layer.Raster {
			logging.Logger().Debug("ggedit: layer rejects painting", "tool", kind, "layer", ctx.LayerID)
			return false
		}
		buf, ok := e.store.Buffer(l.ID)
		if !ok {
			return false
		}
		ctx.Target = buf
		before = slices.Clone(buf.Pix)
	case kind == tool.Eyedropper:
		ctx.Target = e.sample()
	}
	e.g = gesture{active: true, kind: kind, ctx: ctx, before: before}
	if !e.tools.Down(&e.g.ctx, ev) {
		e.g = gesture{}
		return false
	}
	e.touch()
	return true
}

// PointerMove continues the gesture.
func (e *Editor) PointerMove(ev tool.Event) bool {
	if !e.g.active {
		return false
	}
	ok := e.tools.Move(&e.g.ctx, ev)
	e.touch()
	return ok
}

// PointerUp ends the gesture. Call Commit afterwards to make it undoable.
func (e *Editor) PointerUp(ev tool.Event) bool {
	if !e.g.active {
		return false
	}
	ok := e.tools.Up(&e.g.ctx, ev)
	e.touch()
	e.g = gesture{}
	return ok
}

// PointerCancel abandons the gesture. The layer gets back the pixels it had
// when the gesture started; earlier uncommitted edits survive.
func (e *Editor) PointerCancel() bool {
	if !e.g.active {
		return false
	}
	g := e.g
	e.g = gesture{}
	e.tools.Cancel()
	if g.kind.Mutates() && !g.ctx.Dirty.Empty() && g.before != nil {
		if !e.store.SetPixels(g.ctx.LayerID, g.before) {
			logging.Logger().Warn("ggedit: cancel could not restore layer", "layer", g.ctx.LayerID)
		}
	}
	return true
}

// HandleMouse feeds a window-system mouse event to the editor. bounds is
// where the canvas is displayed on screen.
func (e *Editor) HandleMouse(m mouse.Event, bounds tool.Rect) bool {
	if m.Button.IsWheel() {
		return false
	}
	ev := tool.FromMouse(m, bounds, e.width, e.height)
	switch m.Direction {
	case mouse.DirPress:
		return e.PointerDown(ev)
	case mouse.DirRelease:
		return e.PointerUp(ev)
	case mouse.DirNone:
		return e.PointerMove(ev)
	}
	return false
}

// touch bumps the buffer version after a painting tool wrote to it.
func (e *Editor) touch() {
	if e.g.kind.Mutates() && !e.g.ctx.Dirty.Empty() {
		e.store.Touch(e.g.ctx.LayerID)
	}
}
