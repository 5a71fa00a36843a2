package layer

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Set owns the layers of one document, their order, the active layer and
// the selection. The zero value is not usable; call NewSet.
//
// Set is not safe for concurrent use.
type Set struct {
	layers   map[string]*Layer
	order    []string // top to bottom
	active   string
	selected []string

	now func() time.Time
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		layers: make(map[string]*Layer),
		now:    time.Now,
	}
}

// Len returns the number of layers, groups included.
func (s *Set) Len() int { return len(s.order) }

// Get returns the layer with id, or nil. The returned layer is owned by the
// set; mutate it through Update.
func (s *Set) Get(id string) *Layer { return s.layers[id] }

// Active returns the active layer id ("" when the set is empty).
func (s *Set) Active() string { return s.active }

// ActiveLayer returns the active layer, or nil.
func (s *Set) ActiveLayer() *Layer { return s.layers[s.active] }

// Order returns a copy of the layer order, top to bottom.
func (s *Set) Order() []string { return slices.Clone(s.order) }

// Ordered returns the layers top to bottom.
func (s *Set) Ordered() []*Layer {
	out := make([]*Layer, 0, len(s.order))
	for _, id := range s.order {
		if l := s.layers[id]; l != nil {
			out = append(out, l)
		}
	}
	return out
}

// Layers returns the backing map. Callers must not mutate it.
func (s *Set) Layers() map[string]*Layer { return s.layers }

// Selected returns a copy of the selected ids.
func (s *Set) Selected() []string { return slices.Clone(s.selected) }

// Index returns the order position of id, or -1.
func (s *Set) Index(id string) int { return slices.Index(s.order, id) }

// Add inserts l at the top of the stack and makes it active and the sole
// selection. Missing ids and names are filled in. Add returns false when
// the id is already present.
func (s *Set) Add(l *Layer) bool {
	if l == nil {
		return false
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if _, dup := s.layers[l.ID]; dup {
		return false
	}
	if l.Name == "" {
		l.Name = "Layer " + strconv.Itoa(len(s.order)+1)
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
		l.ModifiedAt = l.CreatedAt
	}
	l.Opacity = ClampOpacity(l.Opacity)

	s.layers[l.ID] = l
	s.order = slices.Insert(s.order, 0, l.ID)
	s.active = l.ID
	s.selected = []string{l.ID}
	return true
}

// Remove deletes the layer with id. Removing the last layer that holds
// pixels or an unknown id is rejected. When the active layer is removed, the layer that
// takes its position in the order becomes active (clamped to the bottom).
// Removing a group releases its members.
func (s *Set) Remove(id string) bool {
	l, ok := s.layers[id]
	if !ok || len(s.layers) <= 1 || (l.Kind.HasPixels() && s.pixelLayers() <= 1) {
		return false
	}
	idx := s.Index(id)

	if l.Kind == Group {
		for _, cid := range l.Children {
			if c := s.layers[cid]; c != nil {
				c.ParentID = ""
			}
		}
	}
	if p := s.layers[l.ParentID]; p != nil {
		p.Children = slices.DeleteFunc(p.Children, func(c string) bool { return c == id })
	}

	delete(s.layers, id)
	if idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
	s.selected = slices.DeleteFunc(s.selected, func(c string) bool { return c == id })

	if s.active == id {
		s.active = ""
		if len(s.order) > 0 {
			s.active = s.order[min(max(idx, 0), len(s.order)-1)]
		}
	}
	return true
}

// Update applies fn to the layer with id and stamps ModifiedAt. The id
// cannot be changed through fn.
func (s *Set) Update(id string, fn func(*Layer)) bool {
	l, ok := s.layers[id]
	if !ok {
		return false
	}
	fn(l)
	l.ID = id
	l.Opacity = ClampOpacity(l.Opacity)
	l.ModifiedAt = s.now()
	return true
}

func (s *Set) pixelLayers() int {
	n := 0
	for _, l := range s.layers {
		if l.Kind.HasPixels() {
			n++
		}
	}
	return n
}

// Reorder moves the layer at position from to position to.
func (s *Set) Reorder(from, to int) bool {
	n := len(s.order)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	id := s.order[from]
	s.order = slices.Delete(s.order, from, from+1)
	s.order = slices.Insert(s.order, to, id)
	return true
}

// SetActive makes id the active layer.
func (s *Set) SetActive(id string) bool {
	if _, ok := s.layers[id]; !ok {
		return false
	}
	s.active = id
	return true
}

// Select replaces the selection with ids, or extends it when additive.
// Unknown ids are ignored.
func (s *Set) Select(ids []string, additive bool) {
	if !additive {
		s.selected = s.selected[:0]
	}
	for _, id := range ids {
		if _, ok := s.layers[id]; ok && !slices.Contains(s.selected, id) {
			s.selected = append(s.selected, id)
		}
	}
}

// Duplicate copies the metadata of a raster or text layer. The copy is
// inserted directly above the source and becomes active and selected.
func (s *Set) Duplicate(id string) (string, bool) {
	src, ok := s.layers[id]
	if !ok || src.Kind == Group {
		return "", false
	}
	c := src.Clone()
	c.ID = uuid.NewString()
	c.Name = src.Name + " copy"
	c.CreatedAt = s.now()
	c.ModifiedAt = c.CreatedAt
	if p := s.layers[c.ParentID]; p != nil {
		p.Children = append(p.Children, c.ID)
	}

	s.layers[c.ID] = c
	s.order = slices.Insert(s.order, max(s.Index(id), 0), c.ID)
	s.active = c.ID
	s.selected = []string{c.ID}
	return c.ID, true
}

// ToggleVisibility flips the visibility of id.
func (s *Set) ToggleVisibility(id string) bool {
	return s.Update(id, func(l *Layer) { l.Visible = !l.Visible })
}

// ToggleLock flips the lock of id.
func (s *Set) ToggleLock(id string) bool {
	return s.Update(id, func(l *Layer) { l.Locked = !l.Locked })
}

// SetOpacity sets the opacity of id, clamped to 0..100.
func (s *Set) SetOpacity(id string, opacity int) bool {
	return s.Update(id, func(l *Layer) { l.Opacity = opacity })
}

// SetBlendMode sets the blend mode of id.
func (s *Set) SetBlendMode(id string, m BlendMode) bool {
	if !m.Valid() {
		return false
	}
	return s.Update(id, func(l *Layer) { l.Blend = m })
}

// SetTransform replaces the transform of id.
func (s *Set) SetTransform(id string, t Transform) bool {
	return s.Update(id, func(l *Layer) { l.Transform = t })
}

// Translate offsets the transform of id.
func (s *Set) Translate(id string, dx, dy float64) bool {
	return s.Update(id, func(l *Layer) {
		l.Transform.X += dx
		l.Transform.Y += dy
	})
}

// Group creates a group layer over ids. The group is inserted directly above
// the topmost member and becomes active and selected. Unknown ids, groups
// and layers that already belong to a group are skipped; Group fails when
// nothing is left.
func (s *Set) Group(ids []string, name string) (string, bool) {
	var members []string
	top := len(s.order)
	for _, id := range ids {
		l := s.layers[id]
		if l == nil || l.Kind == Group || l.ParentID != "" || slices.Contains(members, id) {
			continue
		}
		members = append(members, id)
		top = min(top, s.Index(id))
	}
	if len(members) == 0 {
		return "", false
	}
	if name == "" {
		name = "Group"
	}

	g := New(Group, name)
	g.CreatedAt = s.now()
	g.ModifiedAt = g.CreatedAt
	g.Children = members
	for _, id := range members {
		s.layers[id].ParentID = g.ID
	}

	s.layers[g.ID] = g
	s.order = slices.Insert(s.order, top, g.ID)
	s.active = g.ID
	s.selected = []string{g.ID}
	return g.ID, true
}

// Ungroup dissolves group id. Members keep their positions; the first
// member becomes active and all members are selected.
func (s *Set) Ungroup(id string) bool {
	g, ok := s.layers[id]
	if !ok || g.Kind != Group {
		return false
	}
	for _, cid := range g.Children {
		if c := s.layers[cid]; c != nil {
			c.ParentID = ""
		}
	}
	delete(s.layers, id)
	if idx := s.Index(id); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}

	s.selected = s.selected[:0]
	s.Select(g.Children, false)
	s.active = ""
	if len(s.selected) > 0 {
		s.active = s.selected[0]
	} else if len(s.order) > 0 {
		s.active = s.order[0]
	}
	return true
}

// Clear removes every layer. It is meant for starting a new document and
// is the only way to go below one layer.
func (s *Set) Clear() {
	s.layers = make(map[string]*Layer)
	s.order = nil
	s.active = ""
	s.selected = nil
}

// ErrInvalidOrder is wrapped by Validate when the order is not a
// permutation of the layer ids.
var ErrInvalidOrder = errors.New("layer: invalid order")

// Validate checks the order invariant: every id in the order exists, no id
// repeats, and every layer appears in the order. It also checks that the
// active layer exists.
func (s *Set) Validate() error {
	return validate(s.layers, s.order, s.active)
}

func validate(layers map[string]*Layer, order []string, active string) error {
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := layers[id]; !ok {
			return fmt.Errorf("%w: %q is not a layer", ErrInvalidOrder, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %q appears twice", ErrInvalidOrder, id)
		}
		seen[id] = true
	}
	if len(seen) != len(layers) {
		return fmt.Errorf("%w: %d layers but %d ordered", ErrInvalidOrder, len(layers), len(seen))
	}
	if active != "" {
		if _, ok := layers[active]; !ok {
			return fmt.Errorf("%w: active layer %q is missing", ErrInvalidOrder, active)
		}
	}
	return nil
}
