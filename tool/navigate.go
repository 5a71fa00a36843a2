package tool

import "golang.org/x/mobile/event/key"

// moveTool reports layer translation deltas.
type moveTool struct {
	*env
	g gesture
}

func (t *moveTool) Kind() Kind { return Move }

func (t *moveTool) PointerDown(_ *Context, ev Event) { t.g.begin(ev.Point()) }

func (t *moveTool) PointerMove(_ *Context, ev Event) {
	if !t.g.active {
		return
	}
	p := ev.Point()
	d := p.Sub(t.g.last)
	t.g.last = p
	if t.cb.OnTransformChange != nil && (d.X != 0 || d.Y != 0) {
		t.cb.OnTransformChange(d.X, d.Y)
	}
}

func (t *moveTool) PointerUp(*Context, Event) { t.g.reset() }

func (t *moveTool) reset() { t.g.reset() }

// handTool reports view pan deltas in screen space.
type handTool struct {
	*env
	g gesture
}

func (t *handTool) Kind() Kind { return Hand }

func (t *handTool) PointerDown(_ *Context, ev Event) { t.g.begin(ev.client()) }

func (t *handTool) PointerMove(_ *Context, ev Event) {
	if !t.g.active {
		return
	}
	p := ev.client()
	d := p.Sub(t.g.last)
	t.g.last = p
	if t.cb.OnPan != nil && (d.X != 0 || d.Y != 0) {
		t.cb.OnPan(d.X, d.Y)
	}
}

func (t *handTool) PointerUp(*Context, Event) { t.g.reset() }

func (t *handTool) reset() { t.g.reset() }

// zoomTool zooms on press. Holding Alt inverts the configured direction.
type zoomTool struct {
	*env
}

func (t *zoomTool) Kind() Kind { return Zoom }

func (t *zoomTool) PointerDown(_ *Context, ev Event) {
	in := t.cfg.Zoom.Mode == ZoomIn
	if ev.Modifiers&key.ModAlt != 0 {
		in = !in
	}
	if t.cb.OnZoom != nil {
		t.cb.OnZoom(in, ev.X, ev.Y)
	}
}

func (t *zoomTool) PointerMove(*Context, Event) {}
func (t *zoomTool) PointerUp(*Context, Event)   {}
func (t *zoomTool) reset()                      {}
