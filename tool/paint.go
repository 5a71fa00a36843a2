package tool

import (
	"image/color"

	"github.com/gogpu/ggedit/internal/blend"
	"github.com/gogpu/ggedit/internal/stroke"
)

// paintTool is the brush or the eraser. Each pointer event rasterizes one
// round-capped segment from the previous position, so a stroke is a chain
// of overlapping segments. The first event paints a dot.
type paintTool struct {
	*env
	kind Kind
	g    gesture
}

func (t *paintTool) Kind() Kind { return t.kind }

func (t *paintTool) PointerDown(ctx *Context, ev Event) {
	p := ev.Point()
	t.g.begin(p)
	t.segment(ctx, p, p)
}

func (t *paintTool) PointerMove(ctx *Context, ev Event) {
	if !t.g.active {
		return
	}
	p := ev.Point()
	t.segment(ctx, t.g.last, p)
	t.g.last = p
}

func (t *paintTool) PointerUp(*Context, Event) { t.g.reset() }

func (t *paintTool) reset() { t.g.reset() }

func (t *paintTool) segment(ctx *Context, a, b Point) {
	if ctx.Target == nil {
		return
	}
	st, c, alpha, fn := t.brush()
	mask := stroke.Segment(a.X, a.Y, b.X, b.Y, st, ctx.Target.Rect)
	ctx.markDirty(stroke.Paint(ctx.Target, mask, c, alpha, fn))
}

// brush resolves the current settings into stroke parameters.
func (t *paintTool) brush() (stroke.Style, color.NRGBA, byte, blend.Func) {
	if t.kind == Eraser {
		e := t.cfg.Eraser
		return style(e.Size, e.Hardness), color.NRGBA{A: 255}, percentAlpha(e.Opacity, 100), blend.DestinationOut
	}
	b := t.cfg.Brush
	return style(b.Size, b.Hardness), b.Color, percentAlpha(b.Opacity, b.Flow), blend.SourceOver
}

// style maps size and hardness to a stroke. Soft brushes blur their edge by
// up to half the size.
func style(size float64, hardness int) stroke.Style {
	soft := float64(100-percent(hardness)) / 100
	return stroke.Style{Width: size, Blur: soft * size / 2}
}

// percentAlpha converts the product of two percentages to a byte alpha.
func percentAlpha(a, b int) byte {
	return byte((percent(a)*percent(b)*255 + 5000) / 10000)
}
