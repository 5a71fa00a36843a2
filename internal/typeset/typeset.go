// Package typeset lays out and rasterizes the content of text layers.
//
// Text is shaped line by line with the HarfBuzz port from go-text, using the
// Go font family bundled with x/image. Glyph outlines are filled with
// x/image/vector and composited in the text color.
package typeset

import (
	"image"
	"math"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/ggedit/internal/blend"
	"github.com/gogpu/ggedit/internal/logging"
	"github.com/gogpu/ggedit/internal/stroke"
	"github.com/gogpu/ggedit/layer"
)

// Glyph is a positioned glyph. X is the pen position on the line, Y the
// baseline, both relative to the layout origin.
type Glyph struct {
	ID   font.GID
	X, Y float64
}

// Line is one shaped line of text.
type Line struct {
	Text     string
	RTL      bool
	Width    float64
	Baseline float64
	Glyphs   []Glyph
}

// Layout is shaped text ready to draw.
type Layout struct {
	Lines      []Line
	Width      float64
	Height     float64
	Ascent     float64
	LineHeight float64

	size float64
	face *font.Face
}

// Shape lays out st. Lines are separated by '\n' and stacked top to bottom
// starting at y = 0. An empty content or a non-positive size yields an
// empty layout.
func Shape(st layer.TextStyle) (*Layout, error) {
	l := &Layout{size: st.FontSize}
	if st.Content == "" || !(st.FontSize > 0) {
		return l, nil
	}
	f, err := loadFont(styleFor(st.Family, st.Bold, st.Italic))
	if err != nil {
		return nil, err
	}
	l.face = font.NewFace(f)

	var sh shaping.HarfbuzzShaper
	size := fixed.Int26_6(math.Round(st.FontSize * 64))
	for i, text := range strings.Split(st.Content, "\n") {
		runes := []rune(text)
		rtl := isRTL(text)
		dir := di.DirectionLTR
		if rtl {
			dir = di.DirectionRTL
		}
		out := sh.Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: dir,
			Face:      l.face,
			Size:      size,
			Script:    detectScript(runes),
			Language:  language.NewLanguage("en"),
		})
		if i == 0 {
			b := out.LineBounds
			l.Ascent = toFloat(b.Ascent)
			l.LineHeight = toFloat(b.Ascent) - toFloat(b.Descent) + toFloat(b.Gap)
			if l.LineHeight <= 0 {
				l.LineHeight = st.FontSize * 1.2
				l.Ascent = st.FontSize
			}
		}
		line := Line{
			Text:     text,
			RTL:      rtl,
			Baseline: l.Ascent + float64(i)*l.LineHeight,
		}
		var pen float64
		for _, g := range out.Glyphs {
			line.Glyphs = append(line.Glyphs, Glyph{
				ID: g.GlyphID,
				X:  pen + toFloat(g.XOffset),
				Y:  line.Baseline - toFloat(g.YOffset),
			})
			pen += toFloat(g.Advance)
		}
		line.Width = pen
		l.Width = max(l.Width, pen)
		l.Lines = append(l.Lines, line)
	}
	l.Height = float64(len(l.Lines)) * l.LineHeight
	return l, nil
}

// Bounds returns the pixel box covered by the layout when drawn at (x, y).
// It is padded so italic overhang and antialiasing stay inside.
func (l *Layout) Bounds(x, y float64) image.Rectangle {
	if len(l.Lines) == 0 {
		return image.Rectangle{}
	}
	pad := math.Ceil(l.size/4) + 2
	return image.Rect(
		int(math.Floor(x-pad)),
		int(math.Floor(y-pad)),
		int(math.Ceil(x+l.Width+pad)),
		int(math.Ceil(y+l.Height+pad)),
	)
}

// Mask rasterizes the glyph outlines with the layout origin at (x, y). The
// mask bounds are in the same coordinates and clipped to clip.
func (l *Layout) Mask(x, y float64, clip image.Rectangle) *image.Alpha {
	r := l.Bounds(x, y).Intersect(clip)
	if r.Empty() || l.face == nil {
		return nil
	}
	scale := l.size / float64(l.face.Upem())
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	ox, oy := x-float64(r.Min.X), y-float64(r.Min.Y)
	for _, line := range l.Lines {
		for _, g := range line.Glyphs {
			outline, ok := l.face.GlyphData(g.ID).(font.GlyphOutline)
			if !ok {
				continue
			}
			addOutline(z, outline.Segments, ox+g.X, oy+g.Y, scale)
		}
	}
	mask := image.NewAlpha(r)
	z.Draw(mask, r, image.Opaque, image.Point{})
	return mask
}

// addOutline appends glyph contours in font units to z. The glyph origin is
// at (px, py) and font Y grows upward.
func addOutline(z *vector.Rasterizer, segs []ot.Segment, px, py, scale float64) {
	pt := func(p ot.SegmentPoint) (float32, float32) {
		return float32(px + float64(p.X)*scale), float32(py - float64(p.Y)*scale)
	}
	open := false
	for _, s := range segs {
		switch s.Op {
		case ot.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(s.Args[0]))
			open = true
		case ot.SegmentOpLineTo:
			z.LineTo(pt(s.Args[0]))
		case ot.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case ot.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			dx, dy := pt(s.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		z.ClosePath()
	}
}

// Draw renders st onto dst with the first line's top-left corner at (x, y)
// and returns the rectangle it touched.
func Draw(dst *image.NRGBA, st layer.TextStyle, x, y float64) image.Rectangle {
	l, err := Shape(st)
	if err != nil {
		logging.Logger().Warn("typeset: shape failed", "error", err)
		return image.Rectangle{}
	}
	return stroke.Paint(dst, l.Mask(x, y, dst.Rect), st.Color, 255, blend.SourceOver)
}

// Measure returns the size of the laid-out text.
func Measure(st layer.TextStyle) (w, h float64) {
	l, err := Shape(st)
	if err != nil {
		return 0, 0
	}
	return l.Width, l.Height
}

// isRTL reports whether every directional run of text is right-to-left.
// Mixed lines are shaped left-to-right.
func isRTL(text string) bool {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return false
	}
	ord, err := p.Order()
	if err != nil {
		return false
	}
	rtl := false
	for i := range ord.NumRuns() {
		run := ord.Run(i)
		switch run.Direction() {
		case bidi.RightToLeft:
			rtl = true
		case bidi.LeftToRight, bidi.Mixed:
			return false
		}
	}
	return rtl
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
