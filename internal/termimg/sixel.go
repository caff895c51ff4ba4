package termimg

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-sixel"
)

// placeCounter makes every Sixel placement unique so Bubble Tea's diff
// renderer never skips re-sending image data.
var placeCounter atomic.Uint64

// Sixel implements Protocol with Sixel graphics. The image is emitted in
// full on every placement at its prepared pixel size.
type Sixel struct {
	mu     sync.RWMutex
	images map[uint32]string
}

// NewSixel creates a Sixel protocol.
func NewSixel() *Sixel {
	return &Sixel{images: make(map[uint32]string)}
}

func (s *Sixel) Name() string { return "sixel" }

func (s *Sixel) Prepare(img image.Image, id uint32) (string, error) {
	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = true

	if err := enc.Encode(img); err != nil {
		return "", fmt.Errorf("encode sixel: %w", err)
	}

	s.mu.Lock()
	s.images[id] = buf.String()
	s.mu.Unlock()

	return "", nil
}

func (s *Sixel) Place(id uint32, row, col, _, _ int) string {
	s.mu.RLock()
	data, ok := s.images[id]
	s.mu.RUnlock()

	if !ok {
		return ""
	}

	// The trailing no-op SGR carries a counter so the output always differs.
	seq := placeCounter.Add(1)
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	sb.WriteString(data)
	fmt.Fprintf(&sb, "\x1b[u\x1b[%dm\x1b[0m", seq%255+1)

	return sb.String()
}

func (s *Sixel) Delete(id uint32) string {
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()
	return ""
}

func (s *Sixel) Placeholder(width, height int) string {
	return BlankPlaceholder(width, height)
}
