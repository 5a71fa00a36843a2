// Package imageio decodes the image sources accepted by the layer store and
// encodes composited output.
//
// A source is either raw encoded bytes or a reference string. References
// are resolved in this order: data URI, http(s) URL, bare base64 payload,
// file path.
package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode errors.
var (
	// ErrEmptySource is returned when a source carries no data.
	ErrEmptySource = errors.New("imageio: empty source")

	// ErrTooLarge is returned when a source exceeds the decoder's size or
	// dimension limit.
	ErrTooLarge = errors.New("imageio: source too large")

	// ErrBadStatus is returned when a remote source answers with a non-2xx status.
	ErrBadStatus = errors.New("imageio: unexpected http status")
)

const (
	// DefaultMaxBytes limits how much encoded data a Decoder reads.
	DefaultMaxBytes = 64 << 20

	// DefaultMaxPixels limits the declared area of a decoded image.
	DefaultMaxPixels = 8192 * 8192
)

// Source identifies encoded image data.
type Source struct {
	// Data holds encoded bytes. When set, Ref is ignored.
	Data []byte
	// Ref is a data URI, an http(s) URL, a bare base64 payload or a file path.
	Ref string
}

// FromBytes wraps encoded bytes.
func FromBytes(b []byte) Source { return Source{Data: b} }

// FromRef wraps a reference string.
func FromRef(ref string) Source { return Source{Ref: ref} }

// String describes the source without dumping its payload.
func (s Source) String() string {
	if s.Data != nil {
		return fmt.Sprintf("bytes(%d)", len(s.Data))
	}
	if len(s.Ref) > 48 {
		return s.Ref[:48] + "..."
	}
	return s.Ref
}

// Decoder resolves and decodes sources. The zero value uses
// http.DefaultClient, DefaultMaxBytes and DefaultMaxPixels.
type Decoder struct {
	Client    *http.Client
	MaxBytes  int64
	MaxPixels int
}

// Decode resolves src and decodes it with the registered image formats.
func (d *Decoder) Decode(ctx context.Context, src Source) (image.Image, error) {
	data, err := d.read(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", src, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > d.maxPixels()/cfg.Height {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrTooLarge, src, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", src, err)
	}
	return img, nil
}

func (d *Decoder) limit() int64 {
	if d == nil || d.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return d.MaxBytes
}

func (d *Decoder) maxPixels() int {
	if d == nil || d.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return d.MaxPixels
}

func (d *Decoder) read(ctx context.Context, src Source) ([]byte, error) {
	if src.Data != nil {
		if len(src.Data) == 0 {
			return nil, ErrEmptySource
		}
		return src.Data, nil
	}

	ref := strings.TrimSpace(src.Ref)
	switch {
	case ref == "":
		return nil, ErrEmptySource
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return d.fetch(ctx, ref)
	}
	if b, err := decodeBase64(ref); err == nil {
		return b, nil
	}
	return d.readFile(ref)
}

// decodeDataURI extracts the payload of a base64 data URI.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("imageio: malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("imageio: data URI is not base64 encoded")
	}
	b, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("imageio: data URI payload: %w", err)
	}
	return b, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, ErrEmptySource
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func (d *Decoder) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("imageio: build request: %w", err)
	}
	client := http.DefaultClient
	if d != nil && d.Client != nil {
		client = d.Client
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imageio: fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s from %s", ErrBadStatus, resp.Status, url)
	}
	return readLimited(resp.Body, d.limit())
}

func (d *Decoder) readFile(path string) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, d.limit())
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("imageio: read: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, ErrTooLarge
	}
	if len(b) == 0 {
		return nil, ErrEmptySource
	}
	return b, nil
}
