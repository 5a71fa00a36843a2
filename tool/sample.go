package tool

import (
	"image"
	"math"
)

// eyedropperTool samples the target buffer on press.
type eyedropperTool struct {
	*env
}

func (t *eyedropperTool) Kind() Kind { return Eyedropper }

func (t *eyedropperTool) PointerDown(ctx *Context, ev Event) {
	if ctx.Target == nil || t.cb.OnColorPick == nil {
		return
	}
	p := image.Pt(int(math.Floor(ev.X)), int(math.Floor(ev.Y)))
	if !p.In(ctx.Target.Rect) {
		return
	}
	t.cb.OnColorPick(Hex(ctx.Target.NRGBAAt(p.X, p.Y)))
}

func (t *eyedropperTool) PointerMove(*Context, Event) {}
func (t *eyedropperTool) PointerUp(*Context, Event)   {}
func (t *eyedropperTool) reset()                      {}

// textTool asks the host to start text entry at the pressed position.
type textTool struct {
	*env
}

func (t *textTool) Kind() Kind { return Text }

func (t *textTool) PointerDown(_ *Context, ev Event) {
	if t.cb.OnTextInput != nil {
		t.cb.OnTextInput(ev.X, ev.Y, t.cfg.Text)
	}
}

func (t *textTool) PointerMove(*Context, Event) {}
func (t *textTool) PointerUp(*Context, Event)   {}
func (t *textTool) reset()                      {}
