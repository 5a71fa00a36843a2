package tool

import (
	"image/color"

	"github.com/gogpu/ggedit/internal/logging"
)

// Pipeline routes pointer gestures to the active tool.
//
// A Pipeline is not safe for concurrent use.
type Pipeline struct {
	cfg   Config
	cb    Callbacks
	tools [numKinds]Tool

	active    Kind
	previous  Kind
	temporary bool
	inGesture bool

	primary   color.NRGBA
	secondary color.NRGBA
}

// NewPipeline returns a pipeline with default settings, the move tool
// active, black as primary and white as secondary color.
func NewPipeline(cb Callbacks) *Pipeline {
	p := &Pipeline{
		cfg:       DefaultConfig(),
		cb:        cb,
		active:    Move,
		primary:   color.NRGBA{A: 255},
		secondary: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	p.tools = newTools(&env{cfg: &p.cfg, cb: &p.cb})
	return p
}

// Config returns the live tool settings. Changes apply to the next event.
func (p *Pipeline) Config() *Config { return &p.cfg }

// Callbacks returns the live callback set.
func (p *Pipeline) Callbacks() *Callbacks { return &p.cb }

// SetCallbacks replaces all callbacks.
func (p *Pipeline) SetCallbacks(cb Callbacks) { p.cb = cb }

// Active returns the active tool kind.
func (p *Pipeline) Active() Kind { return p.active }

// Tool returns the tool instance for k.
func (p *Pipeline) Tool(k Kind) Tool {
	if !k.Valid() {
		return nil
	}
	return p.tools[k]
}

// InGesture reports whether a gesture is in flight.
func (p *Pipeline) InGesture() bool { return p.inGesture }

// SetTool makes k the active tool and forgets any temporary switch. A
// gesture in flight is cancelled.
func (p *Pipeline) SetTool(k Kind) bool {
	if !k.Valid() {
		return false
	}
	p.Cancel()
	p.active = k
	p.temporary = false
	return true
}

// SetTemporaryTool switches to k until RestorePreviousTool is called, as
// when holding space for the hand tool.
func (p *Pipeline) SetTemporaryTool(k Kind) bool {
	if !k.Valid() {
		return false
	}
	if k == p.active {
		return true
	}
	p.Cancel()
	if !p.temporary {
		p.previous = p.active
	}
	p.active = k
	p.temporary = true
	return true
}

// RestorePreviousTool undoes SetTemporaryTool.
func (p *Pipeline) RestorePreviousTool() bool {
	if !p.temporary {
		return false
	}
	p.Cancel()
	p.active = p.previous
	p.temporary = false
	return true
}

// Primary returns the primary color.
func (p *Pipeline) Primary() color.NRGBA { return p.primary }

// Secondary returns the secondary color.
func (p *Pipeline) Secondary() color.NRGBA { return p.secondary }

// SetPrimaryColor sets the primary color and the brush color.
func (p *Pipeline) SetPrimaryColor(c color.NRGBA) {
	p.primary = c
	p.cfg.Brush.Color = c
}

// SetSecondaryColor sets the secondary color.
func (p *Pipeline) SetSecondaryColor(c color.NRGBA) { p.secondary = c }

// SwapColors exchanges primary and secondary. The brush follows the new
// primary.
func (p *Pipeline) SwapColors() {
	p.primary, p.secondary = p.secondary, p.primary
	p.cfg.Brush.Color = p.primary
}

// Down starts a gesture with the active tool. It returns false if a gesture
// is already in flight or if the tool paints and ctx has no target.
func (p *Pipeline) Down(ctx *Context, ev Event) bool {
	if p.inGesture {
		logging.Logger().Debug("tool: pointer down during gesture", "tool", p.active)
		return false
	}
	if p.active.Mutates() && ctx.Target == nil {
		return false
	}
	p.inGesture = true
	p.tools[p.active].PointerDown(ctx, ev)
	return true
}

// Move continues the current gesture. Moves outside a gesture are ignored.
func (p *Pipeline) Move(ctx *Context, ev Event) bool {
	if !p.inGesture {
		return false
	}
	p.tools[p.active].PointerMove(ctx, ev)
	return true
}

// Up ends the current gesture.
func (p *Pipeline) Up(ctx *Context, ev Event) bool {
	if !p.inGesture {
		return false
	}
	p.inGesture = false
	p.tools[p.active].PointerUp(ctx, ev)
	return true
}

// Cancel abandons the current gesture without emitting its final result.
// Pixels already painted stay painted.
func (p *Pipeline) Cancel() bool {
	if !p.inGesture {
		return false
	}
	p.inGesture = false
	p.tools[p.active].reset()
	return true
}
