// Package ggedit is the core of a layered raster image editor.
//
// # Overview
//
// An [Editor] owns one document: an ordered stack of layers, a pixel buffer
// per raster or text layer, the tools that edit them, a bounded undo
// history and the viewport. The host application forwards pointer events
// and layer commands, calls [Editor.Commit] at action boundaries and shows
// the image returned by [Editor.Render].
//
// # Quick Start
//
//	import "github.com/gogpu/ggedit"
//
//	ed := ggedit.New(ggedit.WithSize(800, 600))
//	defer ed.Close()
//
//	// Paint a red stroke on the background layer.
//	ed.Tools().SetTool(tool.Brush)
//	ed.Tools().SetPrimaryColor(color.NRGBA{R: 255, A: 255})
//	ed.PointerDown(tool.Event{X: 100, Y: 100})
//	ed.PointerMove(tool.Event{X: 300, Y: 120})
//	ed.PointerUp(tool.Event{X: 300, Y: 120})
//	ed.Commit("brush", "Brush")
//
//	// Save the composite.
//	f, _ := os.Create("out.png")
//	defer f.Close()
//	ed.Export(f, compositor.PNG, 0)
//
// # Architecture
//
// The library is organized into:
//   - layer: layer metadata, the layer set and its order invariant
//   - store: per-layer pixel buffers and asynchronous image loading
//   - compositor: flattening the stack with opacity, blend modes and
//     transforms
//   - tool: the pointer tools and the pipeline that drives them
//   - history: bounded snapshots with compressed, shared pixel payloads
//   - view: zoom, pan, guides and coordinate mapping
//
// # Coordinate System
//
// Canvas coordinates are pixels with the origin at the top-left, X to the
// right and Y down. Layer rotation is in degrees, clockwise on screen, around
// the canvas center.
//
// # Layer Order
//
// Index 0 of the order is the topmost layer. The compositor paints from the
// last index to the first.
package ggedit
