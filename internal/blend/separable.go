package blend

import "math"

// separable applies a per-channel blend function B(s, d) that operates on
// unpremultiplied channels, then composites the result with
// (1 - Sa)*D + (1 - Da)*S + Sa*Da*B.
func separable(sr, sg, sb, sa, dr, dg, db, da byte, fn func(s, d byte) byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	sur, sug, sub := unpremul(sr, sa), unpremul(sg, sa), unpremul(sb, sa)
	dur, dug, dub := unpremul(dr, da), unpremul(dg, da), unpremul(db, da)

	invSa := 255 - sa
	invDa := 255 - da
	saDa := mulDiv255(sa, da)

	r := addClamp(addClamp(mulDiv255(dr, invSa), mulDiv255(sr, invDa)), mulDiv255(saDa, fn(sur, dur)))
	g := addClamp(addClamp(mulDiv255(dg, invSa), mulDiv255(sg, invDa)), mulDiv255(saDa, fn(sug, dug)))
	b := addClamp(addClamp(mulDiv255(db, invSa), mulDiv255(sb, invDa)), mulDiv255(saDa, fn(sub, dub)))
	a := addClamp(sa, mulDiv255(da, invSa))
	return r, g, b, a
}

func blendMultiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

func blendScreen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, screen)
}

func screen(s, d byte) byte {
	return 255 - mulDiv255(255-s, 255-d)
}

// hardLight is Multiply(d, 2s) for s <= 0.5 and Screen(d, 2s-1) otherwise.
// The doubled operand is kept in uint16 to avoid byte overflow.
func hardLight(s, d byte) byte {
	if s <= 127 {
		return byte(div255(2 * uint16(s) * uint16(d)))
	}
	s2 := 2*uint16(s) - 255
	return byte(255 - div255((255-s2)*(255-uint16(d))))
}

func blendOverlay(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return hardLight(d, s)
	})
}

func blendHardLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, hardLight)
}

func blendDarken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, minByte)
}

func blendLighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, maxByte)
}

// Formula: if Cb == 0: 0, if Cs == 1: 1, else min(1, Cb / (1 - Cs))
func blendColorDodge(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 0 {
			return 0
		}
		if s == 255 {
			return 255
		}
		v := uint32(d) * 255 / uint32(255-s)
		if v > 255 {
			return 255
		}
		return byte(v)
	})
}

// Formula: if Cb == 1: 1, if Cs == 0: 0, else 1 - min(1, (1 - Cb) / Cs)
func blendColorBurn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 255 {
			return 255
		}
		if s == 0 {
			return 0
		}
		v := uint32(255-d) * 255 / uint32(s)
		if v > 255 {
			return 0
		}
		return 255 - byte(v)
	})
}

func blendSoftLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		sf := float64(s) / 255
		df := float64(d) / 255

		var v float64
		if sf <= 0.5 {
			v = df - (1-2*sf)*df*(1-df)
		} else {
			var dx float64
			if df <= 0.25 {
				dx = ((16*df-12)*df + 4) * df
			} else {
				dx = math.Sqrt(df)
			}
			v = df + (2*sf-1)*(dx-df)
		}
		return unit(v)
	})
}

func blendDifference(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if s > d {
			return s - d
		}
		return d - s
	})
}

func blendExclusion(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		v := uint16(s) + uint16(d) - 2*uint16(mulDiv255Exact(s, d))
		if v > 255 {
			return 255
		}
		return byte(v)
	})
}

// unit converts a [0, 1] float to a byte with rounding and clamping.
func unit(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return byte(math.Round(v * 255))
}
