package store

import (
	"context"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggedit/internal/logging"
)

// Load is the pending result of LoadImage.
//
// A load is superseded by a newer load for the same layer and invalidated
// by Dispose, Resize, DisposeAll, Close or cancellation of its context. An
// invalidated load never touches the buffer and reports false.
type Load struct {
	id     string
	done   chan struct{}
	cancel context.CancelFunc
	ok     bool
}

// ID returns the layer id the load targets.
func (l *Load) ID() string { return l.id }

// Done is closed when the load has finished, successfully or not.
func (l *Load) Done() <-chan struct{} { return l.done }

// Wait blocks until the load finishes and reports whether the image was
// drawn into the buffer.
func (l *Load) Wait() bool {
	<-l.done
	return l.ok
}

// Cancel invalidates the load. It is safe to call more than once and after
// completion.
func (l *Load) Cancel() { l.cancel() }

func finishedLoad(id string) *Load {
	l := &Load{id: id, done: make(chan struct{}), cancel: func() {}}
	close(l.done)
	return l
}

// LoadImage decodes src in the background and draws it into the buffer of
// id: the buffer is replaced by a transparent one holding the image unscaled
// and centered. On decode failure the buffer is left untouched.
//
// The image is composed off to the side and swapped in under the store lock,
// so a buffer obtained before the load completes is never written by it.
func (s *Store) LoadImage(ctx context.Context, id string, src Source) *Load {
	s.mu.Lock()
	if s.closed || !s.fits(s.width, s.height) {
		s.mu.Unlock()
		return finishedLoad(id)
	}
	s.cancelLoad(id)
	lctx, cancel := context.WithCancel(ctx)
	l := &Load{id: id, done: make(chan struct{}), cancel: cancel}
	s.loads[id] = l
	dec := s.decoder
	w, h := s.width, s.height
	s.mu.Unlock()

	go func() {
		defer close(l.done)
		defer cancel()

		img, err := dec.Decode(lctx, src)
		var staged *image.NRGBA
		if err == nil && lctx.Err() == nil {
			staged = centered(img, w, h)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		current := s.loads[id] == l
		if current {
			delete(s.loads, id)
		}
		switch {
		case err != nil:
			logging.Logger().Warn("store: image load failed", "id", id, "source", src.String(), "err", err)
			return
		case !current || lctx.Err() != nil || s.closed || s.width != w || s.height != h:
			logging.Logger().Debug("store: image load superseded", "id", id)
			return
		}
		s.put(id, staged)
		l.ok = true
	}()
	return l
}

// cancelLoad invalidates the pending load of id. Callers hold s.mu.
func (s *Store) cancelLoad(id string) {
	if l, ok := s.loads[id]; ok {
		l.cancel()
		delete(s.loads, id)
	}
}

// Pending reports whether id has a load in flight.
func (s *Store) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.loads[id]
	return ok
}

// centered returns a w x h transparent image with img copied into it, its
// center on the image center.
func centered(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sr := img.Bounds()
	dp := image.Pt((w-sr.Dx())/2, (h-sr.Dy())/2)
	draw.Copy(dst, dp, img, sr, draw.Src, nil)
	return dst
}

// put installs img as the buffer of id, replacing any existing one.
// Callers hold s.mu.
func (s *Store) put(id string, img *image.NRGBA) {
	if i, ok := s.index[id]; ok {
		s.slots[i].img = img
		s.slots[i].version = s.tick()
		return
	}
	s.index[id] = len(s.slots)
	s.slots = append(s.slots, slot{id: id, img: img, version: s.tick()})
}
