package layer

import (
	"maps"
	"slices"
)

// State is a deep copy of a Set: the layer map, the order and the active
// layer. It is the structural half of a history snapshot.
type State struct {
	Layers map[string]*Layer
	Order  []string
	Active string
}

// Clone returns a deep copy of st.
func (st State) Clone() State {
	c := State{
		Layers: make(map[string]*Layer, len(st.Layers)),
		Order:  slices.Clone(st.Order),
		Active: st.Active,
	}
	for id, l := range st.Layers {
		c.Layers[id] = l.Clone()
	}
	return c
}

// IDs returns the layer ids of st in no particular order.
func (st State) IDs() []string {
	return slices.Collect(maps.Keys(st.Layers))
}

// State captures a deep copy of s.
func (s *Set) State() State {
	return State{Layers: s.layers, Order: s.order, Active: s.active}.Clone()
}

// Restore replaces the contents of s with a deep copy of st. The selection
// collapses to the active layer.
func (s *Set) Restore(st State) error {
	if err := validate(st.Layers, st.Order, st.Active); err != nil {
		return err
	}
	c := st.Clone()
	s.layers = c.Layers
	s.order = c.Order
	s.active = c.Active
	s.selected = s.selected[:0]
	if s.active != "" {
		s.selected = append(s.selected, s.active)
	}
	return nil
}
