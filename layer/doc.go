// Package layer defines the editor's layer data model: layers with their
// compositing attributes, and Set, which owns the layer map, the z-order,
// the active layer and the selection.
//
// # Order
//
// Set.Order returns layer ids top to bottom: index 0 is the topmost layer
// and is painted last. The order is always a duplicate-free permutation of
// the ids held by the set.
//
// # Groups
//
// A group layer carries no pixels. Its members stay in the order
// individually; the group id sits directly above its topmost member and
// members point back to it through ParentID.
package layer
