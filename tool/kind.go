package tool

import "strings"

// Kind identifies one of the editor tools.
type Kind uint8

const (
	Move Kind = iota
	Selection
	Lasso
	Brush
	Eraser
	Text
	Crop
	Eyedropper
	Zoom
	Hand

	numKinds
)

type kindInfo struct {
	name     string
	shortcut rune
	cursor   string
}

var kinds = [numKinds]kindInfo{
	Move:       {"move", 'v', "move"},
	Selection:  {"selection", 'm', "crosshair"},
	Lasso:      {"lasso", 'l', "crosshair"},
	Brush:      {"brush", 'b', "crosshair"},
	Eraser:     {"eraser", 'e', "crosshair"},
	Text:       {"text", 't', "text"},
	Crop:       {"crop", 'c', "crosshair"},
	Eyedropper: {"eyedropper", 'i', "crosshair"},
	Zoom:       {"zoom", 'z', "zoom-in"},
	Hand:       {"hand", 'h', "grab"},
}

// Kinds returns every tool in toolbar order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k names a tool.
func (k Kind) Valid() bool { return k < numKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kinds[k].name
}

// Shortcut returns the single-key shortcut that selects k, in upper case.
func (k Kind) Shortcut() rune {
	if !k.Valid() {
		return 0
	}
	return kinds[k].shortcut - 'a' + 'A'
}

// Cursor returns the CSS cursor name a front end should show for k.
func (k Kind) Cursor() string {
	if !k.Valid() {
		return "default"
	}
	return kinds[k].cursor
}

// Mutates reports whether the tool writes to the target layer's pixels.
func (k Kind) Mutates() bool {
	return k == Brush || k == Eraser
}

// ForShortcut returns the tool bound to key r. Case is ignored.
func ForShortcut(r rune) (Kind, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	for i, info := range kinds {
		if info.shortcut == r {
			return Kind(i), true
		}
	}
	return 0, false
}

// ParseKind returns the tool with the given name.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, info := range kinds {
		if info.name == s {
			return Kind(i), true
		}
	}
	return 0, false
}
