package tool

import "github.com/gogpu/ggedit/layer"

// Callbacks receive the non-pixel results of tools. Any field may be nil.
type Callbacks struct {
	// OnColorPick receives a lowercase "#rrggbb" color.
	OnColorPick func(hex string)
	// OnTransformChange receives the move delta since the previous event.
	OnTransformChange func(dx, dy float64)
	// OnPan receives the pan delta since the previous event.
	OnPan func(dx, dy float64)
	// OnSelectionChange receives the marquee box while dragging and once
	// more on release.
	OnSelectionChange func(mode SelectionMode, r Rect)
	OnCropChange      func(r Rect)
	// OnSelectionPath receives the lasso polyline. closed is true for the
	// final path, whose last point repeats the first.
	OnSelectionPath func(path []Point, closed bool)
	OnTextInput     func(x, y float64, style layer.TextStyle)
	OnZoom          func(in bool, x, y float64)
}
