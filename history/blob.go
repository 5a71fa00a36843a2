package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ErrCorrupt is returned when a blob decompresses to the wrong size.
var ErrCorrupt = errors.New("history: corrupt pixel blob")

// Blob is a zstd-compressed copy of one layer buffer. Snapshots share a
// blob for as long as the buffer it was taken from stays unmodified.
type Blob struct {
	version uint64
	size    int
	data    []byte
}

// Size returns the uncompressed length in bytes.
func (b *Blob) Size() int { return b.size }

// CompressedSize returns the stored length in bytes.
func (b *Blob) CompressedSize() int { return len(b.data) }

// Bytes decompresses the blob.
func (b *Blob) Bytes() ([]byte, error) {
	dec, err := decoder()
	if err != nil {
		return nil, err
	}
	raw, err := dec.DecodeAll(b.data, make([]byte, 0, b.size))
	if err != nil {
		return nil, fmt.Errorf("history: decompress: %w", err)
	}
	if len(raw) != b.size {
		return nil, ErrCorrupt
	}
	return raw, nil
}

func newBlob(version uint64, raw []byte) (*Blob, error) {
	enc, err := encoder()
	if err != nil {
		return nil, err
	}
	return &Blob{
		version: version,
		size:    len(raw),
		data:    enc.EncodeAll(raw, nil),
	}, nil
}

// Process-wide codec. EncodeAll and DecodeAll are safe for concurrent use.
var (
	codecOnce sync.Once
	zenc      *zstd.Encoder
	zdec      *zstd.Decoder
	codecErr  error
)

func initCodec() {
	zenc, codecErr = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderConcurrency(1))
	if codecErr != nil {
		codecErr = fmt.Errorf("history: zstd encoder: %w", codecErr)
		return
	}
	zdec, codecErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if codecErr != nil {
		codecErr = fmt.Errorf("history: zstd decoder: %w", codecErr)
	}
}

func encoder() (*zstd.Encoder, error) {
	codecOnce.Do(initCodec)
	return zenc, codecErr
}

func decoder() (*zstd.Decoder, error) {
	codecOnce.Do(initCodec)
	return zdec, codecErr
}
