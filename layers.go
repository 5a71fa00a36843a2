package ggedit

import (
	"context"
	"strings"

	"github.com/gogpu/ggedit/internal/typeset"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/store"
)

// Layer returns a copy of layer id.
func (e *Editor) Layer(id string) (*layer.Layer, bool) {
	l := e.layers.Get(id)
	if l == nil {
		return nil, false
	}
	return l.Clone(), true
}

// Order returns the layer ids, topmost first.
func (e *Editor) Order() []string { return e.layers.Order() }

// ActiveLayer returns the id of the active layer.
func (e *Editor) ActiveLayer() string { return e.layers.Active() }

// Selected returns the selected layer ids.
func (e *Editor) Selected() []string { return e.layers.Selected() }

// AddLayer adds an empty raster layer on top and makes it active. An empty
// name is replaced by "Layer N".
func (e *Editor) AddLayer(name string) string {
	l := layer.New(layer.Raster, name)
	e.layers.Add(l)
	return l.ID
}

// AddImageLayer adds a raster layer and starts loading src into it. The
// image is drawn centered without scaling once decoded. Wait on the
// returned load before committing to include the pixels in history.
func (e *Editor) AddImageLayer(ctx context.Context, src store.Source, name string) (string, *store.Load) {
	id := e.AddLayer(name)
	return id, e.store.LoadImage(ctx, id, src)
}

// AddTextLayer adds a text layer whose first line starts at (x, y).
func (e *Editor) AddTextLayer(x, y float64, st layer.TextStyle) (string, bool) {
	l := layer.New(layer.Text, textLayerName(st.Content))
	l.Text = &st
	l.Transform.X, l.Transform.Y = x, y
	e.layers.Add(l)
	return l.ID, e.renderText(l.ID)
}

// SetText replaces the style and content of text layer id and renders it
// again.
func (e *Editor) SetText(id string, st layer.TextStyle) bool {
	l := e.layers.Get(id)
	if l == nil || l.Kind != layer.Text || l.Locked {
		return false
	}
	e.layers.Update(id, func(l *layer.Layer) { l.Text = &st })
	return e.renderText(id)
}

func (e *Editor) renderText(id string) bool {
	l := e.layers.Get(id)
	buf, ok := e.store.Buffer(id)
	if !ok || l.Text == nil {
		return false
	}
	clear(buf.Pix)
	typeset.Draw(buf, *l.Text, 0, 0)
	e.store.Touch(id)
	return true
}

// textLayerName derives a layer name from the first line of text.
func textLayerName(content string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	if r := []rune(name); len(r) > 20 {
		name = string(r[:20])
	}
	if name == "" {
		return "Text"
	}
	return name
}

// RemoveLayer deletes layer id and its buffer. The last layer cannot be
// removed.
func (e *Editor) RemoveLayer(id string) bool {
	if e.g.active && e.g.ctx.LayerID == id {
		e.PointerCancel()
	}
	if !e.layers.Remove(id) {
		return false
	}
	e.store.Dispose(id)
	return true
}

// DuplicateLayer copies layer id, pixels included, directly above it.
func (e *Editor) DuplicateLayer(id string) (string, bool) {
	nid, ok := e.layers.Duplicate(id)
	if !ok {
		return "", false
	}
	if e.store.Has(id) {
		if _, ok := e.store.Buffer(nid); ok {
			e.store.Duplicate(id, nid)
		}
	}
	return nid, true
}

// ReorderLayers moves the layer at position from to position to.
func (e *Editor) ReorderLayers(from, to int) bool { return e.layers.Reorder(from, to) }

// GroupLayers puts ids into a new group.
func (e *Editor) GroupLayers(ids []string, name string) (string, bool) {
	return e.layers.Group(ids, name)
}

// UngroupLayers dissolves group id.
func (e *Editor) UngroupLayers(id string) bool { return e.layers.Ungroup(id) }

// SetOpacity sets the opacity of id in percent.
func (e *Editor) SetOpacity(id string, opacity int) bool { return e.layers.SetOpacity(id, opacity) }

// SetBlendMode sets the blend mode of id.
func (e *Editor) SetBlendMode(id string, m layer.BlendMode) bool {
	return e.layers.SetBlendMode(id, m)
}

// SetTransform replaces the transform of id.
func (e *Editor) SetTransform(id string, t layer.Transform) bool {
	return e.layers.SetTransform(id, t)
}

// ToggleVisibility shows or hides id.
func (e *Editor) ToggleVisibility(id string) bool { return e.layers.ToggleVisibility(id) }

// ToggleLock locks or unlocks id.
func (e *Editor) ToggleLock(id string) bool { return e.layers.ToggleLock(id) }

// SetActiveLayer makes id the layer tools operate on.
func (e *Editor) SetActiveLayer(id string) bool { return e.layers.SetActive(id) }

// SelectLayers selects ids, adding to the selection if additive.
func (e *Editor) SelectLayers(ids []string, additive bool) { e.layers.Select(ids, additive) }

// LayerPixels returns a copy of the raw RGBA bytes of id.
func (e *Editor) LayerPixels(id string) ([]byte, bool) { return e.store.Pixels(id) }

// SetLayerPixels overwrites the buffer of id with raw RGBA bytes of length
// width*height*4.
func (e *Editor) SetLayerPixels(id string, data []byte) bool {
	l := e.layers.Get(id)
	if l == nil || !l.Kind.HasPixels() {
		return false
	}
	return e.store.SetPixels(id, data)
}
