// Package tool turns pointer gestures into edits.
//
// Every tool follows the same three-step contract: PointerDown starts a
// gesture, PointerMove continues it and PointerUp ends it. Brush and eraser
// write into the target buffer. The other tools report what they did through
// Callbacks and leave pixels alone.
//
// A Pipeline owns one instance of each tool together with their settings, the
// active tool and the current colors. It enforces that only one gesture is
// in flight at a time.
package tool

// Tool is implemented by the tools in this package only.
type Tool interface {
	Kind() Kind
	PointerDown(ctx *Context, ev Event)
	PointerMove(ctx *Context, ev Event)
	PointerUp(ctx *Context, ev Event)

	// reset drops any gesture state without emitting results.
	reset()
}

// env is shared by the tools of one pipeline.
type env struct {
	cfg *Config
	cb  *Callbacks
}

// gesture is the common drag state.
type gesture struct {
	active bool
	start  Point
	last   Point
}

func (g *gesture) begin(p Point) {
	g.active = true
	g.start = p
	g.last = p
}

func (g *gesture) reset() { *g = gesture{} }

func newTools(e *env) [numKinds]Tool {
	return [numKinds]Tool{
		Move:       &moveTool{env: e},
		Selection:  &marqueeTool{env: e, kind: Selection, minSize: 2},
		Lasso:      &lassoTool{env: e},
		Brush:      &paintTool{env: e, kind: Brush},
		Eraser:     &paintTool{env: e, kind: Eraser},
		Text:       &textTool{env: e},
		Crop:       &marqueeTool{env: e, kind: Crop, minSize: 10},
		Eyedropper: &eyedropperTool{env: e},
		Zoom:       &zoomTool{env: e},
		Hand:       &handTool{env: e},
	}
}
