package tool

import "slices"

// marqueeTool drags out an axis-aligned box. It serves both the selection
// and the crop tool. A box whose width or height does not exceed minSize is
// discarded on release.
type marqueeTool struct {
	*env
	kind    Kind
	minSize float64
	g       gesture
}

func (t *marqueeTool) Kind() Kind { return t.kind }

func (t *marqueeTool) PointerDown(_ *Context, ev Event) { t.g.begin(ev.Point()) }

func (t *marqueeTool) PointerMove(_ *Context, ev Event) {
	if !t.g.active {
		return
	}
	t.emit(rectFrom(t.g.start, ev.Point()))
}

func (t *marqueeTool) PointerUp(_ *Context, ev Event) {
	if !t.g.active {
		return
	}
	r := rectFrom(t.g.start, ev.Point())
	t.g.reset()
	if r.W > t.minSize && r.H > t.minSize {
		t.emit(r)
	}
}

func (t *marqueeTool) reset() { t.g.reset() }

func (t *marqueeTool) emit(r Rect) {
	if t.kind == Crop {
		if t.cb.OnCropChange != nil {
			t.cb.OnCropChange(r)
		}
		return
	}
	if t.cb.OnSelectionChange != nil {
		t.cb.OnSelectionChange(t.cfg.Selection.Mode, r)
	}
}

// lassoTool collects a freehand polyline. Releasing with fewer than three
// points discards it.
type lassoTool struct {
	*env
	points []Point
}

func (t *lassoTool) Kind() Kind { return Lasso }

func (t *lassoTool) PointerDown(_ *Context, ev Event) {
	t.points = append(t.points[:0], ev.Point())
}

func (t *lassoTool) PointerMove(_ *Context, ev Event) {
	if len(t.points) == 0 {
		return
	}
	t.points = append(t.points, ev.Point())
	if t.cb.OnSelectionPath != nil {
		t.cb.OnSelectionPath(slices.Clone(t.points), false)
	}
}

func (t *lassoTool) PointerUp(*Context, Event) {
	defer t.reset()
	if len(t.points) < 3 {
		return
	}
	path := append(slices.Clone(t.points), t.points[0])
	if t.cb.OnSelectionPath != nil {
		t.cb.OnSelectionPath(path, true)
	}
}

func (t *lassoTool) reset() { t.points = t.points[:0] }
