package blend

// Non-separable modes operate on the whole RGB triplet in float32.

// lum returns the BT.601 luminance of a color in [0, 1].
func lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// sat returns max - min of a color.
func sat(r, g, b float32) float32 {
	return max(r, g, b) - min(r, g, b)
}

// clipColor pulls out-of-range components back toward the luminance.
func clipColor(r, g, b float32) (float32, float32, float32) {
	l := lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)
	if n < 0 && l-n > 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 && x-l > 0 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

func setLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

// setSat rescales the color so that max - min equals s, keeping the order
// of components. Gray input yields black.
func setSat(r, g, b, s float32) (float32, float32, float32) {
	c := [3]float32{r, g, b}
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}

	var out [3]float32
	if c[hi] > c[lo] {
		out[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		out[hi] = s
	}
	return out[0], out[1], out[2]
}

func hslHue(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	r, g, b := setSat(sr, sg, sb, sat(dr, dg, db))
	return setLum(r, g, b, lum(dr, dg, db))
}

func hslSaturation(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	r, g, b := setSat(dr, dg, db, sat(sr, sg, sb))
	return setLum(r, g, b, lum(dr, dg, db))
}

func hslColor(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	return setLum(sr, sg, sb, lum(dr, dg, db))
}

func hslLuminosity(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	return setLum(dr, dg, db, lum(sr, sg, sb))
}

func blendHue(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, hslHue)
}

func blendSaturation(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, hslSaturation)
}

func blendColor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, hslColor)
}

func blendLuminosity(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, hslLuminosity)
}

func nonSeparable(
	sr, sg, sb, sa, dr, dg, db, da byte,
	fn func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32),
) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	saf := float32(sa) / 255
	daf := float32(da) / 255
	br, bg, bb := fn(
		float32(sr)/float32(sa), float32(sg)/float32(sa), float32(sb)/float32(sa),
		float32(dr)/float32(da), float32(dg)/float32(da), float32(db)/float32(da),
	)

	invSa := 255 - sa
	invDa := 255 - da
	saDa := saf * daf
	r := addClamp(addClamp(mulDiv255(dr, invSa), mulDiv255(sr, invDa)), unit(float64(br*saDa)))
	g := addClamp(addClamp(mulDiv255(dg, invSa), mulDiv255(sg, invDa)), unit(float64(bg*saDa)))
	b := addClamp(addClamp(mulDiv255(db, invSa), mulDiv255(sb, invDa)), unit(float64(bb*saDa)))
	a := addClamp(sa, mulDiv255(da, invSa))
	return r, g, b, a
}
