package typeset

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// style indexes the bundled faces: bit 0 is bold, bit 1 italic, bit 2
// monospace.
type style uint8

const (
	bold style = 1 << iota
	italic
	mono

	numStyles = 8
)

var ttf = [numStyles][]byte{
	0:                    goregular.TTF,
	bold:                 gobold.TTF,
	italic:               goitalic.TTF,
	bold | italic:        gobolditalic.TTF,
	mono:                 gomono.TTF,
	mono | bold:          gomonobold.TTF,
	mono | italic:        gomonoitalic.TTF,
	mono | bold | italic: gomonobolditalic.TTF,
}

// fonts caches parsed fonts. font.Font is read-only and may be shared; a
// font.Face is created per layout because it is not safe for concurrent use.
var fonts [numStyles]struct {
	once sync.Once
	f    *font.Font
	err  error
}

func styleFor(family string, b, i bool) style {
	var s style
	if b {
		s |= bold
	}
	if i {
		s |= italic
	}
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "go mono", "mono", "monospace":
		s |= mono
	}
	return s
}

func loadFont(s style) (*font.Font, error) {
	slot := &fonts[s]
	slot.once.Do(func() {
		face, err := font.ParseTTF(bytes.NewReader(ttf[s]))
		if err != nil {
			slot.err = fmt.Errorf("typeset: parse bundled font %d: %w", s, err)
			return
		}
		slot.f = face.Font
	})
	return slot.f, slot.err
}
