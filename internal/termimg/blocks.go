package termimg

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, giving two pixels per cell.
const upperHalf = "▀"

// Blocks implements Protocol with truecolor half-block characters. It works
// in any terminal with 24-bit colour at a resolution of one by two pixels
// per cell.
type Blocks struct {
	mu       sync.Mutex
	images   map[uint32]image.Image
	rendered map[uint32]blockRender
}

type blockRender struct {
	width, height int
	lines         []string
}

// NewBlocks creates a half-block protocol.
func NewBlocks() *Blocks {
	return &Blocks{
		images:   make(map[uint32]image.Image),
		rendered: make(map[uint32]blockRender),
	}
}

func (b *Blocks) Name() string { return "blocks" }

func (b *Blocks) Prepare(img image.Image, id uint32) (string, error) {
	if img == nil {
		return "", errors.New("no image")
	}

	b.mu.Lock()
	b.images[id] = img
	delete(b.rendered, id)
	b.mu.Unlock()

	return "", nil
}

func (b *Blocks) Place(id uint32, row, col, width, height int) string {
	lines := b.lines(id, width, height)
	if lines == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\x1b[s")
	for i, line := range lines {
		fmt.Fprintf(&sb, "\x1b[%d;%dH", row+i, col)
		sb.WriteString(line)
	}
	sb.WriteString("\x1b[0m\x1b[u")
	return sb.String()
}

// lines returns the rendered rows for id at the given cell size, reusing
// the previous render when the size is unchanged.
func (b *Blocks) lines(id uint32, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if r, ok := b.rendered[id]; ok && r.width == width && r.height == height {
		return r.lines
	}
	img, ok := b.images[id]
	if !ok {
		return nil
	}

	lines := RenderBlocks(img, width, height)
	b.rendered[id] = blockRender{width: width, height: height, lines: lines}
	return lines
}

func (b *Blocks) Delete(id uint32) string {
	b.mu.Lock()
	delete(b.images, id)
	delete(b.rendered, id)
	b.mu.Unlock()
	return ""
}

func (b *Blocks) Placeholder(width, height int) string {
	return BlankPlaceholder(width, height)
}

// RenderBlocks scales img to width x 2*height pixels and renders each pair
// of pixel rows as one line of half blocks.
func RenderBlocks(img image.Image, width, height int) []string {
	//nolint:gosec // cell dimensions are small and positive
	scaled := resize.Resize(uint(width), uint(height*2), img, resize.Bilinear)
	bounds := scaled.Bounds()

	lines := make([]string, height)
	for y := range height {
		var sb strings.Builder
		for x := range width {
			top := blockColor(scaled, bounds.Min.X+x, bounds.Min.Y+2*y)
			bottom := blockColor(scaled, bounds.Min.X+x, bounds.Min.Y+2*y+1)
			tr, tg, tb := top.RGB255()
			br, bg, bb := bottom.RGB255()
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s", tr, tg, tb, br, bg, bb, upperHalf)
		}
		sb.WriteString("\x1b[0m")
		lines[y] = sb.String()
	}
	return lines
}

// blockColor returns the colour at (x, y); fully transparent pixels are
// black.
func blockColor(img image.Image, x, y int) colorful.Color {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return colorful.Color{}
	}
	return c.Clamped()
}
