package stroke

import "image"

// boxBlur approximates a gaussian of standard deviation ~r with three box
// passes in each direction.
func boxBlur(m *image.Alpha, r int) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if w == 0 || h == 0 || r <= 0 {
		return
	}
	tmp := make([]byte, max(w, h))
	for pass := 0; pass < 3; pass++ {
		for y := 0; y < h; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w]
			boxLine(row, 1, w, r, tmp)
		}
		for x := 0; x < w; x++ {
			boxLine(m.Pix[x:], m.Stride, h, r, tmp)
		}
	}
}

// boxLine blurs n samples spaced by step in place. Samples outside the
// line count as zero.
func boxLine(p []byte, step, n, r int, tmp []byte) {
	for i := 0; i < n; i++ {
		tmp[i] = p[i*step]
	}
	div := 2*r + 1
	sum := 0
	for i := 0; i <= r && i < n; i++ {
		sum += int(tmp[i])
	}
	for i := 0; i < n; i++ {
		p[i*step] = byte((sum + div/2) / div)
		if j := i + r + 1; j < n {
			sum += int(tmp[j])
		}
		if j := i - r; j >= 0 {
			sum -= int(tmp[j])
		}
	}
}
