// Package extract turns decoded images into the encoded byte buffers handed
// to the rendering engine.
package extract

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"regexp"
	"sync/atomic"
)

// ErrExtract is returned when rasterizing or encoding an image fails.
var ErrExtract = errors.New("image extraction failed")

var dataURLPrefix = regexp.MustCompile(`^data:image/(png|jpg|jpeg);base64,`)

// Buffer is an immutable encoded image.
type Buffer struct {
	data []byte
}

// NewBuffer copies data into a new Buffer.
func NewBuffer(data []byte) Buffer {
	if len(data) == 0 {
		return Buffer{}
	}
	b := make([]byte, len(data))
	copy(b, data)
	return Buffer{data: b}
}

// Bytes returns the encoded bytes. Callers must not modify them.
func (b Buffer) Bytes() []byte { return b.data }

// Len returns the number of encoded bytes.
func (b Buffer) Len() int { return len(b.data) }

// IsZero reports whether the buffer holds no data.
func (b Buffer) IsZero() bool { return len(b.data) == 0 }

// Resource is a decoded visual resource.
type Resource interface {
	NaturalSize() (width, height int)
	Pixels() image.Image
}

// Extractor rasterizes resources and encodes them as PNG byte buffers.
type Extractor struct {
	mime string
	runs atomic.Int64
}

// New creates an extractor producing lossless PNG buffers.
func New() *Extractor {
	return &Extractor{mime: MimePNG}
}

// Extract draws res onto a surface of its natural size and returns the
// encoded bytes. Every failure wraps ErrExtract.
func (e *Extractor) Extract(res Resource) (Buffer, error) {
	e.runs.Add(1)

	if res == nil || res.Pixels() == nil {
		return Buffer{}, fmt.Errorf("%w: no pixel content", ErrExtract)
	}

	width, height := res.NaturalSize()
	surface, err := NewSurface(width, height)
	if err != nil {
		return Buffer{}, fmt.Errorf("%w: %w", ErrExtract, err)
	}
	surface.DrawImage(res.Pixels())

	dataURL, err := surface.DataURL(e.mime)
	if err != nil {
		return Buffer{}, fmt.Errorf("%w: %w", ErrExtract, err)
	}

	return DecodeDataURL(dataURL)
}

// Runs returns how many times Extract has been called.
func (e *Extractor) Runs() int64 { return e.runs.Load() }

// DecodeDataURL strips the image data URL header and decodes the base64
// payload into a Buffer.
func DecodeDataURL(dataURL string) (Buffer, error) {
	loc := dataURLPrefix.FindStringIndex(dataURL)
	if loc == nil {
		return Buffer{}, fmt.Errorf("%w: not a base64 image data url", ErrExtract)
	}

	data, err := base64.StdEncoding.DecodeString(dataURL[loc[1]:])
	if err != nil {
		return Buffer{}, fmt.Errorf("%w: decode payload: %w", ErrExtract, err)
	}
	if len(data) == 0 {
		return Buffer{}, fmt.Errorf("%w: empty payload", ErrExtract)
	}

	return Buffer{data: data}, nil
}
