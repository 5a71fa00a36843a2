package tool

import "golang.org/x/mobile/event/mouse"

// MapPointer converts a screen position to buffer pixels. bounds is where
// the buffer is displayed on screen; the buffer may be shown scaled.
func MapPointer(clientX, clientY float64, bounds Rect, bufW, bufH int) Point {
	if bounds.W <= 0 || bounds.H <= 0 {
		return Point{}
	}
	return Point{
		X: (clientX - bounds.X) * float64(bufW) / bounds.W,
		Y: (clientY - bounds.Y) * float64(bufH) / bounds.H,
	}
}

// FromMouse converts a window-system mouse event to a tool event. bounds
// and the buffer size are passed to MapPointer.
func FromMouse(e mouse.Event, bounds Rect, bufW, bufH int) Event {
	cx, cy := float64(e.X), float64(e.Y)
	at := MapPointer(cx, cy, bounds, bufW, bufH)
	ev := Event{
		X:         at.X,
		Y:         at.Y,
		ClientX:   cx,
		ClientY:   cy,
		Button:    e.Button,
		Modifiers: e.Modifiers,
	}
	if e.Direction == mouse.DirPress || e.Button != mouse.ButtonNone {
		ev.Pressure = 1
	}
	return ev
}

// HandleMouse feeds a window-system mouse event through the pipeline.
// Presses start a gesture, releases end it and plain motion moves. Wheel
// steps are ignored.
func (p *Pipeline) HandleMouse(ctx *Context, e mouse.Event, bounds Rect, bufW, bufH int) bool {
	if e.Button.IsWheel() {
		return false
	}
	ev := FromMouse(e, bounds, bufW, bufH)
	switch e.Direction {
	case mouse.DirPress:
		return p.Down(ctx, ev)
	case mouse.DirRelease:
		return p.Up(ctx, ev)
	case mouse.DirNone:
		return p.Move(ctx, ev)
	}
	return false
}
