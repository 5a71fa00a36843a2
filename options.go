package ggedit

import (
	"image/color"

	"github.com/gogpu/ggedit/history"
	"github.com/gogpu/ggedit/store"
	"github.com/gogpu/ggedit/tool"
)

// Default document settings.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Option configures an Editor during creation.
//
// Example:
//
//	// Default 1920x1080 document on white
//	ed := ggedit.New()
//
//	// Square document on a transparent background
//	ed := ggedit.New(ggedit.WithSize(1024, 1024), ggedit.WithBackground(color.Transparent))
type Option func(*options)

// options holds optional configuration for Editor creation.
type options struct {
	width, height int
	background    color.Color
	maxHistory    int
	decoder       store.Decoder
	maxPixels     int
	callbacks     tool.Callbacks
}

// defaultOptions returns the default editor options.
func defaultOptions() options {
	return options{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: color.White,
		maxHistory: history.DefaultMax,
		maxPixels:  store.DefaultMaxPixels,
	}
}

// WithSize sets the document size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithBackground sets the color the composite is painted on.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.background = c
		}
	}
}

// WithMaxHistory sets how many snapshots are kept for undo.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		o.maxHistory = n
	}
}

// WithDecoder replaces the image decoder used by AddImageLayer. Use this
// to plug in a remote service or a test double.
func WithDecoder(d store.Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// WithMaxPixels bounds the document area. Larger documents get no layer
// buffers.
func WithMaxPixels(n int) Option {
	return func(o *options) {
		o.maxPixels = n
	}
}

// WithCallbacks sets tool callbacks. A non-nil OnTransformChange, OnPan,
// OnZoom or OnColorPick replaces the editor's own handling of that event:
// moving the active layer, panning or zooming the view, and setting the
// primary color.
func WithCallbacks(cb tool.Callbacks) Option {
	return func(o *options) {
		o.callbacks = cb
	}
}
