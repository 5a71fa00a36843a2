package layer

import "fmt"

// BlendMode is the closed set of layer blend modes.
type BlendMode uint8

const (
	Normal BlendMode = iota
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion
	Hue
	Saturation
	Color
	Luminosity

	numBlendModes
)

var blendNames = [numBlendModes]string{
	Normal:     "normal",
	Multiply:   "multiply",
	Screen:     "screen",
	Overlay:    "overlay",
	Darken:     "darken",
	Lighten:    "lighten",
	ColorDodge: "color-dodge",
	ColorBurn:  "color-burn",
	HardLight:  "hard-light",
	SoftLight:  "soft-light",
	Difference: "difference",
	Exclusion:  "exclusion",
	Hue:        "hue",
	Saturation: "saturation",
	Color:      "color",
	Luminosity: "luminosity",
}

// BlendModes returns every blend mode in menu order.
func BlendModes() []BlendMode {
	modes := make([]BlendMode, numBlendModes)
	for i := range modes {
		modes[i] = BlendMode(i)
	}
	return modes
}

// Valid reports whether m is one of the defined modes.
func (m BlendMode) Valid() bool {
	return m < numBlendModes
}

// String returns the mode name as used in documents and menus.
func (m BlendMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("BlendMode(%d)", uint8(m))
	}
	return blendNames[m]
}

// Operator returns the canvas composite operation name for m.
// Normal maps to "source-over"; every other mode shares its name.
func (m BlendMode) Operator() string {
	if m == Normal {
		return "source-over"
	}
	return m.String()
}

// ParseBlendMode converts a mode name (or "source-over") to a BlendMode.
func ParseBlendMode(s string) (BlendMode, error) {
	if s == "source-over" {
		return Normal, nil
	}
	for i, name := range blendNames {
		if name == s {
			return BlendMode(i), nil
		}
	}
	return Normal, fmt.Errorf("layer: unknown blend mode %q", s)
}
