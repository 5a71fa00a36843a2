package tool

import (
	"image"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned box with its top-left corner at X, Y.
type Rect struct {
	X, Y, W, H float64
}

// rectFrom returns the box spanned by two corners.
func rectFrom(a, b Point) Rect {
	return Rect{
		X: min(a.X, b.X),
		Y: min(a.Y, b.Y),
		W: abs(b.X - a.X),
		H: abs(b.Y - a.Y),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Event is one pointer sample.
type Event struct {
	// X and Y are in canvas pixel space.
	X, Y float64
	// ClientX and ClientY are the untransformed screen position. The hand
	// tool pans in this space so that the moving view does not feed back
	// into the deltas it reports.
	ClientX, ClientY float64
	Pressure         float64
	Button           mouse.Button
	Modifiers        key.Modifiers
}

// Point returns the canvas position of e.
func (e Event) Point() Point { return Point{e.X, e.Y} }

func (e Event) client() Point { return Point{e.ClientX, e.ClientY} }

// Context is what a tool operates on during a gesture.
type Context struct {
	// Target is the active layer's buffer. It is nil when the layer has no
	// pixels or is locked.
	Target  *image.NRGBA
	LayerID string

	// Dirty accumulates the region written by the tool.
	Dirty image.Rectangle
}

func (c *Context) markDirty(r image.Rectangle) {
	if r.Empty() {
		return
	}
	c.Dirty = c.Dirty.Union(r)
}
