// Package blend implements the per-pixel compositing operators used to
// combine layer buffers.
//
// All operators work on premultiplied alpha values in the range 0-255.
// Separable and non-separable modes follow the W3C Compositing and
// Blending Level 1 formulas:
//
//	co = cs*(1-ab) + cb*(1-as) + as*ab*B(Cb, Cs)
//	ao = as + ab*(1-as)
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode selects a compositing operator.
type Mode uint8

const (
	ModeNormal         Mode = iota // source-over
	ModeMultiply                   // S * D
	ModeScreen                     // 1 - (1-S)*(1-D)
	ModeOverlay                    // HardLight with swapped layers
	ModeDarken                     // min(S, D)
	ModeLighten                    // max(S, D)
	ModeColorDodge                 // D / (1 - S)
	ModeColorBurn                  // 1 - (1 - D) / S
	ModeHardLight                  // Multiply or Screen depending on source
	ModeSoftLight                  // soft version of HardLight
	ModeDifference                 // |S - D|
	ModeExclusion                  // S + D - 2*S*D
	ModeHue                        // hue of S, saturation and luminosity of D
	ModeSaturation                 // saturation of S, hue and luminosity of D
	ModeColor                      // hue and saturation of S, luminosity of D
	ModeLuminosity                 // luminosity of S, hue and saturation of D
	ModeDestinationOut             // D * (1 - Sa)
	ModeSource                     // S
)

// Func is the signature of a compositing operator.
// All values are premultiplied alpha, 0-255.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

var funcs = [...]Func{
	ModeNormal:         SourceOver,
	ModeMultiply:       blendMultiply,
	ModeScreen:         blendScreen,
	ModeOverlay:        blendOverlay,
	ModeDarken:         blendDarken,
	ModeLighten:        blendLighten,
	ModeColorDodge:     blendColorDodge,
	ModeColorBurn:      blendColorBurn,
	ModeHardLight:      blendHardLight,
	ModeSoftLight:      blendSoftLight,
	ModeDifference:     blendDifference,
	ModeExclusion:      blendExclusion,
	ModeHue:            blendHue,
	ModeSaturation:     blendSaturation,
	ModeColor:          blendColor,
	ModeLuminosity:     blendLuminosity,
	ModeDestinationOut: DestinationOut,
	ModeSource:         Source,
}

// For returns the operator for mode. Unknown modes fall back to SourceOver.
func For(mode Mode) Func {
	if int(mode) < len(funcs) {
		return funcs[mode]
	}
	return SourceOver
}

// Span composites n premultiplied RGBA pixels of src onto dst with fn.
// Every source pixel is first scaled by alpha (255 leaves it unchanged).
// Fully transparent source pixels are skipped.
func Span(dst, src []byte, alpha byte, fn Func) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i+3 < n; i += 4 {
		sr, sg, sb, sa := src[i], src[i+1], src[i+2], src[i+3]
		if alpha != 255 {
			sr = mulDiv255(sr, alpha)
			sg = mulDiv255(sg, alpha)
			sb = mulDiv255(sb, alpha)
			sa = mulDiv255(sa, alpha)
		}
		if sa == 0 {
			continue
		}
		dst[i], dst[i+1], dst[i+2], dst[i+3] = fn(sr, sg, sb, sa, dst[i], dst[i+1], dst[i+2], dst[i+3])
	}
}

// Premultiply converts a straight-alpha color to premultiplied form.
func Premultiply(r, g, b, a byte) (byte, byte, byte, byte) {
	if a == 255 {
		return r, g, b, a
	}
	return mulDiv255Exact(r, a), mulDiv255Exact(g, a), mulDiv255Exact(b, a), a
}

// Unpremultiply converts a premultiplied color to straight alpha.
func Unpremultiply(r, g, b, a byte) (byte, byte, byte, byte) {
	switch a {
	case 0:
		return 0, 0, 0, 0
	case 255:
		return r, g, b, a
	}
	return unpremul(r, a), unpremul(g, a), unpremul(b, a), a
}

// unpremul divides a premultiplied channel by alpha with rounding.
// Channels larger than alpha (invalid input) clamp to 255.
func unpremul(c, a byte) byte {
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		return 255
	}
	return byte(v)
}

// Scale multiplies a premultiplied color by alpha/255.
func Scale(r, g, b, a, alpha byte) (byte, byte, byte, byte) {
	return mulDiv255(r, alpha), mulDiv255(g, alpha), mulDiv255(b, alpha), mulDiv255(a, alpha)
}
