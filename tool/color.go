package tool

import "image/color"

const hexDigits = "0123456789abcdef"

// Hex formats the color part of c as lowercase "#rrggbb".
func Hex(c color.NRGBA) string {
	b := [7]byte{'#'}
	for i, v := range [3]uint8{c.R, c.G, c.B} {
		b[1+2*i] = hexDigits[v>>4]
		b[2+2*i] = hexDigits[v&0x0f]
	}
	return string(b[:])
}

// ParseHex parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa". The leading
// '#' is optional.
func ParseHex(s string) (color.NRGBA, bool) {
	if s != "" && s[0] == '#' {
		s = s[1:]
	}
	var v [4]uint8
	v[3] = 255
	switch len(s) {
	case 3, 4:
		for i := range len(s) {
			d, ok := hexNibble(s[i])
			if !ok {
				return color.NRGBA{}, false
			}
			v[i] = d * 17
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			hi, ok1 := hexNibble(s[i])
			lo, ok2 := hexNibble(s[i+1])
			if !ok1 || !ok2 {
				return color.NRGBA{}, false
			}
			v[i/2] = hi<<4 | lo
		}
	default:
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
