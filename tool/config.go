package tool

import (
	"image/color"

	"github.com/gogpu/ggedit/layer"
)

// BrushConfig controls the brush tool. Hardness, Opacity and Flow are
// percentages.
type BrushConfig struct {
	Size     float64
	Hardness int
	Opacity  int
	Color    color.NRGBA
	Flow     int
}

// EraserConfig controls the eraser tool.
type EraserConfig struct {
	Size     float64
	Hardness int
	Opacity  int
}

// SelectionMode is the shape of a marquee selection.
type SelectionMode uint8

const (
	SelectRectangle SelectionMode = iota
	SelectEllipse
)

func (m SelectionMode) String() string {
	if m == SelectEllipse {
		return "ellipse"
	}
	return "rectangle"
}

// SelectionConfig controls the selection tool.
type SelectionConfig struct {
	Mode      SelectionMode
	Feather   int
	AntiAlias bool
}

// ZoomMode is the default direction of the zoom tool.
type ZoomMode uint8

const (
	ZoomIn ZoomMode = iota
	ZoomOut
)

// ZoomConfig controls the zoom tool.
type ZoomConfig struct {
	Mode ZoomMode
}

// Config holds the settings of every tool.
type Config struct {
	Brush     BrushConfig
	Eraser    EraserConfig
	Text      layer.TextStyle
	Selection SelectionConfig
	Zoom      ZoomConfig
}

// DefaultConfig returns the settings a new session starts with.
func DefaultConfig() Config {
	return Config{
		Brush: BrushConfig{
			Size:     20,
			Hardness: 100,
			Opacity:  100,
			Color:    color.NRGBA{A: 255},
			Flow:     100,
		},
		Eraser: EraserConfig{
			Size:     20,
			Hardness: 100,
			Opacity:  100,
		},
		Text:      layer.DefaultTextStyle(),
		Selection: SelectionConfig{Mode: SelectRectangle, AntiAlias: true},
		Zoom:      ZoomConfig{Mode: ZoomIn},
	}
}

func percent(v int) int {
	return max(0, min(100, v))
}
