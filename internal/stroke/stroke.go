// Package stroke rasterizes brush segments into coverage masks and paints
// them onto straight-alpha layer buffers.
//
// Segments are stroked with round caps and joins through rasterx. A zero
// length segment becomes a filled disc, which is how a brush paints its
// first dab.
package stroke

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ggedit/internal/blend"
)

// Style controls the shape of a segment.
type Style struct {
	Width float64 // stroke diameter in pixels
	Blur  float64 // edge softness radius in pixels; 0 is hard
}

// margin is the extra room kept around a segment for antialiasing.
const margin = 2

// Segment rasterizes the segment (x0, y0)-(x1, y1) into a coverage mask.
// The mask bounds are in canvas coordinates and clipped to clip. A nil mask
// means nothing would be painted.
func Segment(x0, y0, x1, y1 float64, st Style, clip image.Rectangle) *image.Alpha {
	if st.Width <= 0 || !finite(x0, y0, x1, y1) || clip.Empty() {
		return nil
	}
	half := st.Width / 2
	pad := half + 3*math.Max(st.Blur, 0) + margin

	// Coverage farther than pad from clip cannot reach it, even blurred, so
	// the segment is cut to the padded clip before anything is allocated.
	reach := clip.Inset(-int(math.Ceil(pad)))
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, reach)
	if !ok {
		return nil
	}
	full := image.Rect(
		int(math.Floor(math.Min(x0, x1)-pad)),
		int(math.Floor(math.Min(y0, y1)-pad)),
		int(math.Ceil(math.Max(x0, x1)+pad)),
		int(math.Ceil(math.Max(y0, y1)+pad)),
	).Intersect(reach)
	if full.Intersect(clip).Empty() {
		return nil
	}

	// Rasterize over the padded box so that the blur sees every pixel that
	// feeds into clip, then cut the result down to clip.
	mask := image.NewAlpha(full)
	w, h := full.Dx(), full.Dy()
	sc := rasterx.NewScannerGV(w, h, mask, mask.Bounds())
	sc.SetColor(color.White)

	ox, oy := float64(full.Min.X), float64(full.Min.Y)
	if x0 == x1 && y0 == y1 {
		f := rasterx.NewFiller(w, h, sc)
		rasterx.AddCircle(x0-ox, y0-oy, half, f)
		f.Draw()
	} else {
		s := rasterx.NewStroker(w, h, sc)
		s.SetStroke(fixed.Int26_6(st.Width*64), 4*64, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round)
		s.Start(rasterx.ToFixedP(x0-ox, y0-oy))
		s.Line(rasterx.ToFixedP(x1-ox, y1-oy))
		s.Stop(false)
		s.Draw()
	}

	if r := int(math.Round(st.Blur)); r > 0 {
		boxBlur(mask, r)
	}
	sub, ok := mask.SubImage(full.Intersect(clip)).(*image.Alpha)
	if !ok {
		return nil
	}
	return sub
}

// Paint composites c through mask onto dst. Coverage is scaled by
// alpha/255 and combined with fn (for example blend.SourceOver to paint or
// blend.DestinationOut to erase). It returns the rectangle it touched.
func Paint(dst *image.NRGBA, mask *image.Alpha, c color.NRGBA, alpha byte, fn blend.Func) image.Rectangle {
	if mask == nil || alpha == 0 {
		return image.Rectangle{}
	}
	r := mask.Rect.Intersect(dst.Rect)
	cr, cg, cb, ca := blend.Premultiply(c.R, c.G, c.B, c.A)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := mask.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, mi, di = x+1, mi+1, di+4 {
			cov := mask.Pix[mi]
			if cov == 0 {
				continue
			}
			if alpha != 255 {
				cov = scale(cov, alpha)
			}
			sr, sg, sb, sa := blend.Scale(cr, cg, cb, ca, cov)
			if sa == 0 {
				continue
			}
			p := dst.Pix[di : di+4 : di+4]
			dr, dg, db, da := blend.Premultiply(p[0], p[1], p[2], p[3])
			p[0], p[1], p[2], p[3] = blend.Unpremultiply(fn(sr, sg, sb, sa, dr, dg, db, da))
		}
	}
	return r
}

// clipLine cuts the segment to r (Liang-Barsky). It reports false when the
// segment misses r entirely.
func clipLine(x0, y0, x1, y1 float64, r image.Rectangle) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - float64(r.Min.X)},
		{dx, float64(r.Max.X) - x0},
		{-dy, y0 - float64(r.Min.Y)},
		{dy, float64(r.Max.Y) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func finite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func scale(a, b byte) byte {
	_, _, _, v := blend.Scale(0, 0, 0, a, b)
	return v
}
