package layer

import (
	"image/color"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Kind is the closed set of layer kinds.
type Kind uint8

const (
	// Raster layers own a pixel buffer.
	Raster Kind = iota
	// Text layers own a pixel buffer rendered from their TextStyle.
	Text
	// Group layers own no pixels and are skipped by the compositor.
	Group
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Raster:
		return "raster"
	case Text:
		return "text"
	case Group:
		return "group"
	default:
		return "unknown"
	}
}

// HasPixels reports whether layers of this kind own a pixel buffer.
func (k Kind) HasPixels() bool {
	return k == Raster || k == Text
}

// Transform positions a layer buffer on the canvas. Scale and rotation are
// applied around the canvas center, then the layer is offset by (X, Y).
type Transform struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64 // degrees, clockwise in screen space
}

// Identity returns the transform that leaves a layer in place.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// IsIdentity reports whether t leaves a layer in place.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// TextStyle describes the content of a text layer.
type TextStyle struct {
	Content  string
	FontSize float64
	Family   string
	Color    color.NRGBA
	Bold     bool
	Italic   bool
}

// DefaultTextStyle returns the style used for new text.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontSize: 24,
		Family:   "Go",
		Color:    color.NRGBA{A: 255},
	}
}

// Layer is one entry of the layer stack.
type Layer struct {
	ID        string
	Name      string
	Kind      Kind
	Visible   bool
	Locked    bool
	Opacity   int // 0..100
	Blend     BlendMode
	Transform Transform
	Text      *TextStyle

	// Group bookkeeping.
	Children []string
	ParentID string
	Expanded bool

	CreatedAt  time.Time
	ModifiedAt time.Time
}

// New returns a visible, fully opaque layer with a fresh id.
func New(kind Kind, name string) *Layer {
	now := time.Now()
	l := &Layer{
		ID:         uuid.NewString(),
		Name:       name,
		Kind:       kind,
		Visible:    true,
		Opacity:    100,
		Blend:      Normal,
		Transform:  Identity(),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	switch kind {
	case Text:
		s := DefaultTextStyle()
		l.Text = &s
	case Group:
		l.Expanded = true
	}
	return l
}

// Clone returns a deep copy of l.
func (l *Layer) Clone() *Layer {
	if l == nil {
		return nil
	}
	c := *l
	if l.Text != nil {
		s := *l.Text
		c.Text = &s
	}
	c.Children = slices.Clone(l.Children)
	return &c
}

// ClampOpacity limits v to 0..100.
func ClampOpacity(v int) int {
	return min(max(v, 0), 100)
}
