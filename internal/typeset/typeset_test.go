package typeset

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/ggedit/layer"
)

func textStyle(content string) layer.TextStyle {
	st := layer.DefaultTextStyle()
	st.Content = content
	return st
}

func TestShapeEmpty(t *testing.T) {
	for _, st := range []layer.TextStyle{textStyle(""), {Content: "x", FontSize: 0}} {
		l, err := Shape(st)
		if err != nil {
			t.Fatal(err)
		}
		if len(l.Lines) != 0 || !l.Bounds(0, 0).Empty() {
			t.Errorf("Shape(%+v) = %d lines", st, len(l.Lines))
		}
		if l.Mask(0, 0, image.Rect(0, 0, 10, 10)) != nil {
			t.Error("empty layout should have no mask")
		}
	}
}

func TestShapeLines(t *testing.T) {
	one, err := Shape(textStyle("Hello"))
	if err != nil {
		t.Fatal(err)
	}
	if len(one.Lines) != 1 || len(one.Lines[0].Glyphs) != 5 {
		t.Fatalf("lines = %+v", one.Lines)
	}
	if one.Width <= 0 || one.Ascent <= 0 || one.LineHeight < one.Ascent {
		t.Errorf("Width %v Ascent %v LineHeight %v", one.Width, one.Ascent, one.LineHeight)
	}
	if one.Lines[0].Baseline != one.Ascent {
		t.Errorf("Baseline = %v, want %v", one.Lines[0].Baseline, one.Ascent)
	}

	two, _ := Shape(textStyle("Hello\nHello"))
	if len(two.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(two.Lines))
	}
	if math.Abs(two.Height-2*one.Height) > 1e-9 {
		t.Errorf("Height = %v, want %v", two.Height, 2*one.Height)
	}
	if two.Lines[1].Baseline != one.Ascent+one.LineHeight {
		t.Errorf("second baseline = %v", two.Lines[1].Baseline)
	}
}

func TestFontSizeScales(t *testing.T) {
	small := textStyle("Scale")
	big := small
	big.FontSize = small.FontSize * 2
	ws, _ := Measure(small)
	wb, _ := Measure(big)
	if r := wb / ws; r < 1.9 || r > 2.1 {
		t.Errorf("width ratio = %v, want about 2", r)
	}
}

func TestMonospace(t *testing.T) {
	narrow := textStyle("iiii")
	wide := textStyle("mmmm")
	wn, _ := Measure(narrow)
	ww, _ := Measure(wide)
	if wn >= ww {
		t.Errorf("proportional: iiii = %v, mmmm = %v", wn, ww)
	}
	narrow.Family, wide.Family = "Go Mono", "Go Mono"
	wn, _ = Measure(narrow)
	ww, _ = Measure(wide)
	if wn != ww {
		t.Errorf("monospace: iiii = %v, mmmm = %v", wn, ww)
	}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		family string
		b, i   bool
		want   style
	}{
		{"Go", false, false, 0},
		{"Inter", true, false, bold},
		{"go mono", false, true, mono | italic},
		{"monospace", true, true, mono | bold | italic},
	}
	for _, tt := range tests {
		if got := styleFor(tt.family, tt.b, tt.i); got != tt.want {
			t.Errorf("styleFor(%q, %v, %v) = %d, want %d", tt.family, tt.b, tt.i, got, tt.want)
		}
	}
	for s := range style(numStyles) {
		if _, err := loadFont(s); err != nil {
			t.Errorf("loadFont(%d): %v", s, err)
		}
	}
}

func TestDraw(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 200, 60))
	st := textStyle("Hello")
	st.Color = color.NRGBA{R: 200, A: 255}
	r := Draw(dst, st, 10, 10)
	if r.Empty() {
		t.Fatal("Draw touched nothing")
	}
	var painted int
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			c := dst.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			painted++
			if c.R == 0 || c.G != 0 || c.B != 0 {
				t.Fatalf("pixel (%d,%d) = %v, want text color", x, y, c)
			}
			if c.A == 255 && c.R != 200 {
				t.Fatalf("opaque pixel (%d,%d) = %v, want R 200", x, y, c)
			}
			if !image.Pt(x, y).In(r) {
				t.Fatalf("pixel (%d,%d) outside reported bounds %v", x, y, r)
			}
		}
	}
	if painted < 50 {
		t.Errorf("painted %d pixels, want a visible word", painted)
	}
	for x := 0; x < 200; x++ {
		if dst.NRGBAAt(x, 2).A != 0 {
			t.Fatalf("pixel (%d,2) painted above the text origin", x)
		}
	}
}

func TestDrawClipped(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	if r := Draw(dst, textStyle("Hello"), 500, 500); !r.Empty() {
		t.Errorf("off-canvas Draw = %v, want empty", r)
	}
}

func TestIsRTL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hello", false},
		{"", false},
		{"שלום", true},
		{"مرحبا", true},
		{"hello שלום", false},
	}
	for _, tt := range tests {
		if got := isRTL(tt.in); got != tt.want {
			t.Errorf("isRTL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func BenchmarkDraw(b *testing.B) {
	dst := image.NewNRGBA(image.Rect(0, 0, 512, 128))
	st := textStyle("The quick brown fox")
	for b.Loop() {
		Draw(dst, st, 0, 0)
	}
}
