package termimg

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func halves(top, bottom color.Color, w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		c := top
		if y >= h/2 {
			c = bottom
		}
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderBlocks(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	lines := RenderBlocks(halves(red, blue, 4, 4), 4, 2)

	require.Len(t, lines, 2)
	assert.Equal(t, 4, strings.Count(lines[0], upperHalf))
	assert.Contains(t, lines[0], "\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m")
	assert.Contains(t, lines[1], "\x1b[38;2;0;0;255m\x1b[48;2;0;0;255m")
	assert.True(t, strings.HasSuffix(lines[0], "\x1b[0m"))
}

func TestBlocks_PlaceCachesRender(t *testing.T) {
	b := NewBlocks()
	_, err := b.Prepare(halves(color.White, color.Black, 4, 4), 1)
	require.NoError(t, err)

	out := b.Place(1, 3, 5, 2, 2)
	assert.Contains(t, out, "\x1b[3;5H")
	assert.Contains(t, out, "\x1b[4;5H")
	assert.Len(t, b.rendered, 1)

	assert.Equal(t, out, b.Place(1, 3, 5, 2, 2))

	b.Delete(1)
	assert.Empty(t, b.Place(1, 3, 5, 2, 2))
	assert.Empty(t, b.rendered)
}

func TestBlocks_PlaceUnknownOrEmpty(t *testing.T) {
	b := NewBlocks()
	assert.Empty(t, b.Place(9, 1, 1, 4, 4))

	_, err := b.Prepare(nil, 2)
	assert.Error(t, err)

	_, err = b.Prepare(halves(color.White, color.Black, 2, 2), 3)
	require.NoError(t, err)
	assert.Empty(t, b.Place(3, 1, 1, 0, 4))
}

func TestSixel_PrepareAndPlace(t *testing.T) {
	s := NewSixel()
	_, err := s.Prepare(halves(color.White, color.Black, 4, 4), 7)
	require.NoError(t, err)

	first := s.Place(7, 2, 3, 0, 0)
	assert.Contains(t, first, "\x1b[2;3H")
	assert.Contains(t, first, "\x1bP", "sixel data starts with DCS")
	assert.NotEqual(t, first, s.Place(7, 2, 3, 0, 0), "placements are unique")

	s.Delete(7)
	assert.Empty(t, s.Place(7, 2, 3, 0, 0))
}
