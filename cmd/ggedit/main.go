// Command ggedit demonstrates the ggedit editor core. It builds a small
// document with painted, loaded and text layers, exercises undo and writes
// the composite to an image file.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/compositor"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/store"
	"github.com/gogpu/ggedit/tool"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "ggedit.png", "output file")
		format  = flag.String("format", "png", "output format: png or jpeg")
		quality = flag.Int("quality", 90, "jpeg quality")
		image   = flag.String("image", "", "optional image (path, URL or data URI) placed as a layer")
		text    = flag.String("text", "Hello, ggedit", "text layer content")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		ggedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	f, err := compositor.ParseFormat(*format)
	if err != nil {
		log.Fatalf("Bad format: %v", err)
	}

	ed := ggedit.New(ggedit.WithSize(*width, *height))
	defer ed.Close()

	if *image != "" {
		loadImage(ed, *image)
	}
	paintWave(ed, *width, *height)
	addText(ed, *text)
	eraseAndUndo(ed, *width, *height)

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	if err := ed.Export(out, f, *quality); err != nil {
		out.Close()
		log.Fatalf("Failed to export: %v", err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Saved %s (%dx%d, %d layers, %d history entries)\n",
		*output, *width, *height, len(ed.Order()), len(ed.History()))
}

func loadImage(ed *ggedit.Editor, ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, load := ed.AddImageLayer(ctx, store.FromRef(ref), "Image")
	if !load.Wait() {
		log.Printf("Could not load %s, continuing without it", ref)
		return
	}
	if err := ed.Commit("add-image", "Add image"); err != nil {
		log.Printf("Commit failed: %v", err)
	}
}

// paintWave draws a soft sine stroke on a new layer in multiply mode.
func paintWave(ed *ggedit.Editor, w, h int) {
	id := ed.AddLayer("Wave")
	ed.SetBlendMode(id, layer.Multiply)

	tools := ed.Tools()
	tools.SetTool(tool.Brush)
	tools.SetPrimaryColor(color.NRGBA{R: 30, G: 110, B: 220, A: 255})
	tools.Config().Brush.Size = 24
	tools.Config().Brush.Hardness = 40

	const steps = 60
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		ev := tool.Event{
			X: 40 + t*float64(w-80),
			Y: float64(h)/2 + math.Sin(t*4*math.Pi)*float64(h)/5,
		}
		switch i {
		case 0:
			ed.PointerDown(ev)
		case steps:
			ed.PointerUp(ev)
		default:
			ed.PointerMove(ev)
		}
	}
	if err := ed.Commit("brush", "Brush"); err != nil {
		log.Printf("Commit failed: %v", err)
	}
}

func addText(ed *ggedit.Editor, content string) {
	st := layer.DefaultTextStyle()
	st.Content = content
	st.FontSize = 48
	st.Bold = true
	st.Color = color.NRGBA{R: 220, G: 60, B: 40, A: 255}
	id, ok := ed.AddTextLayer(40, 40, st)
	if !ok {
		log.Printf("Text layer has no buffer")
		return
	}
	ed.SetOpacity(id, 85)
	if err := ed.Commit("add-text", "Add text"); err != nil {
		log.Printf("Commit failed: %v", err)
	}
}

// eraseAndUndo erases across the wave layer and then takes it back, so the
// output shows the state before the erase.
func eraseAndUndo(ed *ggedit.Editor, w, h int) {
	for _, id := range ed.Order() {
		if l, _ := ed.Layer(id); l.Name == "Wave" {
			ed.SetActiveLayer(id)
		}
	}
	ed.Tools().SetTool(tool.Eraser)
	ed.PointerDown(tool.Event{X: 0, Y: float64(h) / 2})
	ed.PointerUp(tool.Event{X: float64(w), Y: float64(h) / 2})
	if err := ed.Commit("eraser", "Eraser"); err != nil {
		log.Printf("Commit failed: %v", err)
	}
	if !ed.Undo() {
		log.Printf("Undo failed")
	}
}
