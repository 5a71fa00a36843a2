// Package view holds the zoom and pan of the canvas viewport and maps
// between screen and canvas coordinates.
//
// The canvas is drawn centered in the viewport, scaled by Zoom and shifted
// by the pan offset in screen pixels.
package view

import (
	"math"
	"slices"
)

const (
	MinZoom = 0.1
	MaxZoom = 32

	// FitPadding is the screen margin kept around the canvas by
	// FitToScreen.
	FitPadding = 50
)

// steps are the zoom levels visited by ZoomIn and ZoomOut.
var steps = []float64{0.1, 0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4, 6, 8, 12, 16, 24, 32}

// Steps returns the zoom ladder.
func Steps() []float64 { return slices.Clone(steps) }

// View is the viewport state. The zero value is not ready for use; call New.
type View struct {
	zoom       float64
	panX, panY float64

	grid   Grid
	guides []Guide
}

// New returns a view at 100% with no pan.
func New() *View {
	return &View{zoom: 1, grid: Grid{Size: 10, ShowGuides: true, SnapToGuides: true}}
}

// Zoom returns the scale factor.
func (v *View) Zoom() float64 { return v.zoom }

// Pan returns the offset in screen pixels.
func (v *View) Pan() (x, y float64) { return v.panX, v.panY }

// SetZoom sets the scale, clamped to [MinZoom, MaxZoom].
func (v *View) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.zoom = clampZoom(z)
}

func clampZoom(z float64) float64 { return max(MinZoom, min(MaxZoom, z)) }

// ZoomIn moves to the next larger step.
func (v *View) ZoomIn() {
	for _, s := range steps {
		if s > v.zoom {
			v.zoom = s
			return
		}
	}
	v.zoom = MaxZoom
}

// ZoomOut moves to the next smaller step.
func (v *View) ZoomOut() {
	for _, s := range slices.Backward(steps) {
		if s < v.zoom {
			v.zoom = s
			return
		}
	}
	v.zoom = MinZoom
}

// FitToScreen picks the largest zoom, never above 1, that shows the whole
// canvas inside the viewport with FitPadding on every side, and clears the
// pan.
func (v *View) FitToScreen(canvasW, canvasH, viewW, viewH float64) {
	if canvasW <= 0 || canvasH <= 0 {
		return
	}
	sx := (viewW - 2*FitPadding) / canvasW
	sy := (viewH - 2*FitPadding) / canvasH
	v.zoom = max(MinZoom, min(sx, sy, 1))
	v.ResetPan()
}

// ActualSize shows the canvas at 100% with no pan.
func (v *View) ActualSize() {
	v.zoom = 1
	v.ResetPan()
}

// SetPan sets the offset.
func (v *View) SetPan(x, y float64) { v.panX, v.panY = x, y }

// AddPan shifts the offset.
func (v *View) AddPan(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

// ResetPan clears the offset.
func (v *View) ResetPan() { v.panX, v.panY = 0, 0 }

// ScreenToCanvas maps a viewport position to canvas pixels.
func (v *View) ScreenToCanvas(sx, sy, viewW, viewH, canvasW, canvasH float64) (x, y float64) {
	x = (sx-viewW/2-v.panX)/v.zoom + canvasW/2
	y = (sy-viewH/2-v.panY)/v.zoom + canvasH/2
	return x, y
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (v *View) CanvasToScreen(x, y, viewW, viewH, canvasW, canvasH float64) (sx, sy float64) {
	sx = (x-canvasW/2)*v.zoom + viewW/2 + v.panX
	sy = (y-canvasH/2)*v.zoom + viewH/2 + v.panY
	return sx, sy
}

// Bounds returns where the canvas is displayed inside the viewport.
func (v *View) Bounds(viewW, viewH, canvasW, canvasH float64) (x, y, w, h float64) {
	x, y = v.CanvasToScreen(0, 0, viewW, viewH, canvasW, canvasH)
	return x, y, canvasW * v.zoom, canvasH * v.zoom
}
