// Package compositor flattens a layer stack into a single premultiplied
// RGBA image.
//
// Layers are painted bottom to top over an opaque background. Each layer
// buffer is placed with its transform, scaled by its opacity and combined
// with the output through the operator of its blend mode. Rendering is
// deterministic: the same layers, order and buffers always produce the same
// bytes.
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ggedit/internal/blend"
	"github.com/gogpu/ggedit/internal/imageio"
	"github.com/gogpu/ggedit/internal/logging"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/store"
)

// Option configures a Compositor.
type Option func(*Compositor)

// WithBackground sets the color the output is cleared to.
func WithBackground(c color.Color) Option {
	return func(cp *Compositor) { cp.background = c }
}

// WithInterpolator sets the resampling kernel used for transformed layers.
// The default is bilinear.
func WithInterpolator(k xdraw.Interpolator) Option {
	return func(cp *Compositor) {
		if k != nil {
			cp.kernel = k
		}
	}
}

// Compositor renders layer stacks read from a buffer store.
// It is not safe for concurrent use.
type Compositor struct {
	store      *store.Store
	background color.Color
	kernel     xdraw.Interpolator

	out     *image.RGBA
	scratch *image.RGBA
}

// New returns a compositor reading buffers from st. The output matches the
// store size.
func New(st *store.Store, opts ...Option) *Compositor {
	c := &Compositor{
		store:      st,
		background: color.White,
		kernel:     xdraw.BiLinear,
	}
	for _, opt := range opts {
		opt(c)
	}
	w, h := st.Size()
	c.alloc(w, h)
	return c
}

func (c *Compositor) alloc(w, h int) {
	w, h = max(w, 0), max(h, 0)
	r := image.Rect(0, 0, w, h)
	c.out = image.NewRGBA(r)
	c.scratch = image.NewRGBA(r)
}

// Size returns the output dimensions.
func (c *Compositor) Size() (width, height int) {
	return c.out.Rect.Dx(), c.out.Rect.Dy()
}

// Resize resizes the output and the store. Store buffers are dropped.
func (c *Compositor) Resize(width, height int) {
	c.store.Resize(width, height)
	c.alloc(width, height)
}

// Output returns the output of the last Render. The image is reused by the
// next Render; use ToBuffer for a stable copy.
func (c *Compositor) Output() *image.RGBA { return c.out }

// ToBuffer returns a copy of the output.
func (c *Compositor) ToBuffer() *image.RGBA {
	cp := image.NewRGBA(c.out.Rect)
	copy(cp.Pix, c.out.Pix)
	return cp
}

// Render paints the layers named by order into the output and returns it.
// order lists ids top to bottom. Ids missing from layers, hidden layers,
// groups, layers with zero opacity and layers without a buffer are
// skipped.
func (c *Compositor) Render(layers map[string]*layer.Layer, order []string) *image.RGBA {
	draw.Draw(c.out, c.out.Rect, image.NewUniform(c.background), image.Point{}, draw.Src)

	w, h := c.Size()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		l, ok := layers[id]
		if !ok {
			logging.Logger().Warn("compositor: order references a missing layer", "id", id)
			continue
		}
		if !l.Visible || !l.Kind.HasPixels() || l.Opacity <= 0 {
			continue
		}
		buf, ok := c.store.Lookup(id)
		if !ok {
			continue
		}
		r := c.place(buf, layerMatrix(l.Transform, w, h))
		if r.Empty() {
			continue
		}
		c.composite(r, opacityAlpha(l.Opacity), blend.For(operator(l.Blend)))
	}
	return c.out
}

// place draws buf into the cleared scratch image through m and returns the
// affected rectangle.
func (c *Compositor) place(buf *image.NRGBA, m affine) image.Rectangle {
	clear(c.scratch.Pix)
	if p, ok := m.offset(); ok {
		r := buf.Rect.Add(p).Intersect(c.scratch.Rect)
		xdraw.Copy(c.scratch, p, buf, buf.Rect, xdraw.Src, nil)
		return r
	}
	r := m.bounds(buf.Rect).Intersect(c.scratch.Rect)
	if r.Empty() {
		return r
	}
	c.kernel.Transform(c.scratch, m.aff3(), buf, buf.Rect, xdraw.Src, nil)
	return r
}

// composite combines the scratch image with the output inside r.
func (c *Compositor) composite(r image.Rectangle, alpha byte, fn blend.Func) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := c.out.PixOffset(r.Min.X, y)
		n := r.Dx() * 4
		blend.Span(c.out.Pix[o:o+n], c.scratch.Pix[o:o+n], alpha, fn)
	}
}

// opacityAlpha converts a 0..100 opacity to a 0..255 multiplier.
func opacityAlpha(opacity int) byte {
	opacity = layer.ClampOpacity(opacity)
	return byte((opacity*255 + 50) / 100)
}

var operators = [...]blend.Mode{
	layer.Normal:     blend.ModeNormal,
	layer.Multiply:   blend.ModeMultiply,
	layer.Screen:     blend.ModeScreen,
	layer.Overlay:    blend.ModeOverlay,
	layer.Darken:     blend.ModeDarken,
	layer.Lighten:    blend.ModeLighten,
	layer.ColorDodge: blend.ModeColorDodge,
	layer.ColorBurn:  blend.ModeColorBurn,
	layer.HardLight:  blend.ModeHardLight,
	layer.SoftLight:  blend.ModeSoftLight,
	layer.Difference: blend.ModeDifference,
	layer.Exclusion:  blend.ModeExclusion,
	layer.Hue:        blend.ModeHue,
	layer.Saturation: blend.ModeSaturation,
	layer.Color:      blend.ModeColor,
	layer.Luminosity: blend.ModeLuminosity,
}

// operator maps a layer blend mode to its compositing operator. Unknown
// modes composite as normal.
func operator(m layer.BlendMode) blend.Mode {
	if int(m) < len(operators) {
		return operators[m]
	}
	return blend.ModeNormal
}

// RenderLayer returns a copy of the raw buffer of id.
func (c *Compositor) RenderLayer(id string) (*image.NRGBA, bool) {
	buf, ok := c.store.Lookup(id)
	if !ok {
		return nil, false
	}
	cp := image.NewNRGBA(buf.Rect)
	copy(cp.Pix, buf.Pix)
	return cp, true
}

// Encode writes the output to w.
func (c *Compositor) Encode(w io.Writer, f Format, quality int) error {
	return imageio.Encode(w, c.out, f, quality)
}

// Bytes encodes the output into a new byte slice.
func (c *Compositor) Bytes(f Format, quality int) ([]byte, error) {
	return imageio.EncodeBytes(c.out, f, quality)
}

// Close releases the output images.
func (c *Compositor) Close() {
	c.alloc(0, 0)
}
