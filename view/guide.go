package view

import (
	"math"
	"slices"

	"github.com/google/uuid"
)

// Orientation of a guide line.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Guide is a ruler line at a canvas position. Horizontal guides sit at a Y
// coordinate, vertical ones at an X coordinate.
type Guide struct {
	ID          string
	Orientation Orientation
	Position    float64
}

// Grid holds the display and snapping switches of the viewport.
type Grid struct {
	Size         float64
	ShowGrid     bool
	ShowGuides   bool
	ShowRulers   bool
	SnapToGrid   bool
	SnapToGuides bool
}

// SnapDistance is how close, in screen pixels, a point must be to a guide
// to snap onto it.
const SnapDistance = 5

// Grid returns the grid settings.
func (v *View) Grid() Grid { return v.grid }

// SetGrid replaces the grid settings. The size is at least 1.
func (v *View) SetGrid(g Grid) {
	g.Size = max(1, g.Size)
	v.grid = g
}

// Guides returns the guides in creation order.
func (v *View) Guides() []Guide { return slices.Clone(v.guides) }

// AddGuide adds a guide and returns its id.
func (v *View) AddGuide(o Orientation, pos float64) string {
	g := Guide{ID: uuid.NewString(), Orientation: o, Position: pos}
	v.guides = append(v.guides, g)
	return g.ID
}

// MoveGuide repositions a guide.
func (v *View) MoveGuide(id string, pos float64) bool {
	i := slices.IndexFunc(v.guides, func(g Guide) bool { return g.ID == id })
	if i < 0 {
		return false
	}
	v.guides[i].Position = pos
	return true
}

// RemoveGuide deletes a guide.
func (v *View) RemoveGuide(id string) bool {
	n := len(v.guides)
	v.guides = slices.DeleteFunc(v.guides, func(g Guide) bool { return g.ID == id })
	return len(v.guides) < n
}

// ClearGuides deletes all guides.
func (v *View) ClearGuides() { v.guides = v.guides[:0] }

// Snap moves a canvas point onto the nearest guide within SnapDistance
// screen pixels, then onto the grid. Each axis snaps independently and
// guides win over the grid.
func (v *View) Snap(x, y float64) (float64, float64) {
	sx, okx := v.snapAxis(x, Vertical)
	sy, oky := v.snapAxis(y, Horizontal)
	if v.grid.SnapToGrid && v.grid.Size > 0 {
		if !okx {
			sx = math.Round(x/v.grid.Size) * v.grid.Size
		}
		if !oky {
			sy = math.Round(y/v.grid.Size) * v.grid.Size
		}
	}
	return sx, sy
}

func (v *View) snapAxis(p float64, o Orientation) (float64, bool) {
	if !v.grid.SnapToGuides {
		return p, false
	}
	best, found := p, false
	limit := SnapDistance / v.zoom
	for _, g := range v.guides {
		if g.Orientation != o {
			continue
		}
		if d := math.Abs(g.Position - p); d <= limit {
			best, found, limit = g.Position, true, d
		}
	}
	return best, found
}
