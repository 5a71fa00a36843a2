package compositor

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/ggedit/layer"
)

// affine is a 2D affine transform:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
type affine struct {
	a, b, c float64
	d, e, f float64
}

func identity() affine { return affine{a: 1, e: 1} }

func translate(tx, ty float64) affine { return affine{a: 1, c: tx, e: 1, f: ty} }

func scale(sx, sy float64) affine { return affine{a: sx, e: sy} }

// rotate rotates by deg degrees. With y pointing down, positive angles turn
// clockwise on screen.
func rotate(deg float64) affine {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return affine{a: cos, b: -sin, d: sin, e: cos}
}

// mul returns m * o: o is applied first.
func (m affine) mul(o affine) affine {
	return affine{
		a: m.a*o.a + m.b*o.d,
		b: m.a*o.b + m.b*o.e,
		c: m.a*o.c + m.b*o.f + m.c,
		d: m.d*o.a + m.e*o.d,
		e: m.d*o.b + m.e*o.e,
		f: m.d*o.c + m.e*o.f + m.f,
	}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.c, m.d*x + m.e*y + m.f
}

func (m affine) aff3() f64.Aff3 {
	return f64.Aff3{m.a, m.b, m.c, m.d, m.e, m.f}
}

// offset reports whether m is a pure whole-pixel translation.
func (m affine) offset() (image.Point, bool) {
	if m.a != 1 || m.b != 0 || m.d != 0 || m.e != 1 {
		return image.Point{}, false
	}
	if m.c != math.Trunc(m.c) || m.f != math.Trunc(m.f) {
		return image.Point{}, false
	}
	return image.Pt(int(m.c), int(m.f)), true
}

// bounds returns the integer bounding box of r mapped through m.
func (m affine) bounds(r image.Rectangle) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
	} {
		x, y := m.apply(p[0], p[1])
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// layerMatrix maps layer buffer coordinates to canvas coordinates: scale
// and rotate around the canvas center, then offset by the layer position.
func layerMatrix(t layer.Transform, width, height int) affine {
	cx, cy := float64(width)/2, float64(height)/2
	return translate(cx+t.X, cy+t.Y).
		mul(rotate(t.Rotation)).
		mul(scale(t.ScaleX, t.ScaleY)).
		mul(translate(-cx, -cy))
}
