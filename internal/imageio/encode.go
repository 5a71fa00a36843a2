package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
)

// ErrUnsupportedFormat is returned for output formats other than PNG and JPEG.
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// Format is an output encoding.
type Format uint8

const (
	PNG Format = iota
	JPEG
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// MIME returns the media type of the format.
func (f Format) MIME() string {
	return "image/" + f.String()
}

// ParseFormat accepts "png", "jpeg" and "jpg" (case-insensitive, with or
// without a leading dot or "image/" prefix).
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(s, "image/"), "."))
	switch s {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Encode writes img to w. Quality (1-100) applies to JPEG only.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("imageio: encode PNG: %w", err)
		}
		return nil
	case JPEG:
		quality = min(max(quality, 1), 100)
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("imageio: encode JPEG: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

// EncodeBytes encodes img into a new byte slice.
func EncodeBytes(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
