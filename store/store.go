// Package store owns the per-layer pixel buffers of a document.
//
// Buffers are straight-alpha *image.NRGBA surfaces sized to the document and
// keyed by layer id. They live in a dense arena indexed by id; disposing a
// buffer swaps the last slot into its place.
//
// Every mutation made through the store bumps the buffer's version. Callers
// that write into a buffer directly must call Touch so that history
// snapshots notice the change.
package store

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/ggedit/internal/imageio"
	"github.com/gogpu/ggedit/internal/logging"
)

// DefaultMaxPixels bounds the area of a single buffer.
const DefaultMaxPixels = 8192 * 8192

// Source is an encoded image accepted by LoadImage.
type Source = imageio.Source

// FromBytes wraps encoded image bytes.
func FromBytes(b []byte) Source { return imageio.FromBytes(b) }

// FromRef wraps a data URI, an http(s) URL, bare base64 or a file path.
func FromRef(ref string) Source { return imageio.FromRef(ref) }

// Decoder turns a Source into an image. *imageio.Decoder implements it.
type Decoder interface {
	Decode(ctx context.Context, src Source) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, src Source) (image.Image, error)

// Decode calls f(ctx, src).
func (f DecoderFunc) Decode(ctx context.Context, src Source) (image.Image, error) {
	return f(ctx, src)
}

// Option configures a Store.
type Option func(*Store)

// WithDecoder sets the decoder used by LoadImage.
func WithDecoder(d Decoder) Option {
	return func(s *Store) {
		if d != nil {
			s.decoder = d
		}
	}
}

// WithMaxPixels bounds the area of a single buffer.
func WithMaxPixels(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

type slot struct {
	id      string
	img     *image.NRGBA
	version uint64
}

// Store is the layer buffer store. Its methods are safe for concurrent use.
// Pixels reached through a returned *image.NRGBA belong to the caller's
// goroutine: an image load completing in the background never writes into
// an existing buffer, it replaces it.
type Store struct {
	mu        sync.Mutex
	width     int
	height    int
	maxPixels int
	decoder   Decoder

	slots []slot
	index map[string]int
	loads map[string]*Load
	clock uint64
	// closed stores refuse to create buffers.
	closed bool
}

// New returns a store for width x height buffers.
func New(width, height int, opts ...Option) *Store {
	s := &Store{
		width:     width,
		height:    height,
		maxPixels: DefaultMaxPixels,
		decoder:   &imageio.Decoder{},
		index:     make(map[string]int),
		loads:     make(map[string]*Load),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Size returns the buffer dimensions.
func (s *Store) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Len returns the number of allocated buffers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Buffer returns the buffer of id, creating a transparent one on first
// access. It reports false when no buffer can be acquired: the store is
// closed or the document size is empty or too large.
func (s *Store) Buffer(id string) (*image.NRGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer(id)
}

func (s *Store) buffer(id string) (*image.NRGBA, bool) {
	if i, ok := s.index[id]; ok {
		return s.slots[i].img, true
	}
	if s.closed || !s.fits(s.width, s.height) {
		logging.Logger().Debug("store: cannot acquire buffer",
			"id", id, "width", s.width, "height", s.height, "closed", s.closed)
		return nil, false
	}
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	s.index[id] = len(s.slots)
	s.slots = append(s.slots, slot{id: id, img: img, version: s.tick()})
	logging.Logger().Debug("store: buffer created", "id", id, "width", s.width, "height", s.height)
	return img, true
}

func (s *Store) fits(w, h int) bool {
	return w > 0 && h > 0 && w <= s.maxPixels/h
}

// Lookup returns the buffer of id without creating it.
func (s *Store) Lookup(id string) (*image.NRGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[id]; ok {
		return s.slots[i].img, true
	}
	return nil, false
}

// Has reports whether id has a buffer.
func (s *Store) Has(id string) bool {
	_, ok := s.Lookup(id)
	return ok
}

func (s *Store) tick() uint64 {
	s.clock++
	return s.clock
}

func (s *Store) touch(id string) {
	if i, ok := s.index[id]; ok {
		s.slots[i].version = s.tick()
	}
}

// Touch marks the buffer of id as modified.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(id)
}

// Version returns the modification stamp of id, or 0 when id has no buffer.
// Stamps are unique across the store: two equal non-zero versions mean the
// same, unmodified buffer.
func (s *Store) Version(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[id]; ok {
		return s.slots[i].version
	}
	return 0
}

// Clear makes the buffer of id fully transparent, creating it if needed.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.buffer(id)
	if !ok {
		return false
	}
	clear(img.Pix)
	s.touch(id)
	return true
}

// Pixels returns a copy of the raw RGBA bytes of id (straight alpha,
// row-major, width*height*4 bytes).
func (s *Store) Pixels(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), s.slots[i].img.Pix...), true
}

// SetPixels overwrites the buffer of id with raw RGBA bytes. The length
// must be exactly width*height*4.
func (s *Store) SetPixels(id string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(data) != s.width*s.height*4 {
		return false
	}
	img, ok := s.buffer(id)
	if !ok {
		return false
	}
	copy(img.Pix, data)
	s.touch(id)
	return true
}

// Pixel returns the color at (x, y) of id.
func (s *Store) Pixel(id string, x, y int) (color.NRGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok || !(image.Point{x, y}).In(s.slots[i].img.Rect) {
		return color.NRGBA{}, false
	}
	return s.slots[i].img.NRGBAAt(x, y), true
}

// Duplicate copies the pixels of src into dst. Both buffers must already
// exist.
func (s *Store) Duplicate(src, dst string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[src]
	j, ok2 := s.index[dst]
	if !ok || !ok2 || i == j {
		return false
	}
	copy(s.slots[j].img.Pix, s.slots[i].img.Pix)
	s.touch(dst)
	return true
}

// Resize changes the document size. All buffers are dropped and pending
// loads are cancelled; buffers are recreated lazily at the new size.
func (s *Store) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.dropAll()
	logging.Logger().Info("store: resized", "width", width, "height", height)
}

// Dispose releases the buffer of id and cancels its pending load.
func (s *Store) Dispose(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispose(id)
}

func (s *Store) dispose(id string) {
	s.cancelLoad(id)
	i, ok := s.index[id]
	if !ok {
		return
	}
	last := len(s.slots) - 1
	if i != last {
		s.slots[i] = s.slots[last]
		s.index[s.slots[i].id] = i
	}
	s.slots[last] = slot{}
	s.slots = s.slots[:last]
	delete(s.index, id)
}

// DisposeAll releases every buffer and cancels every pending load.
func (s *Store) DisposeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropAll()
}

// Close releases everything. A closed store no longer creates buffers.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropAll()
	s.closed = true
}

func (s *Store) dropAll() {
	for id := range s.loads {
		s.cancelLoad(id)
	}
	clear(s.slots)
	s.slots = s.slots[:0]
	clear(s.index)
}

// Retain disposes every buffer and pending load whose id keep rejects.
func (s *Store) Retain(keep func(id string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.loads {
		if !keep(id) {
			s.cancelLoad(id)
		}
	}
	for i := len(s.slots) - 1; i >= 0; i-- {
		if !keep(s.slots[i].id) {
			s.dispose(s.slots[i].id)
		}
	}
}

// IDs returns the ids that currently own a buffer.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.slots))
	for i, sl := range s.slots {
		ids[i] = sl.id
	}
	return ids
}
