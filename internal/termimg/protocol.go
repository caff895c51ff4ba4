// Package termimg draws images in the terminal using the Kitty graphics
// protocol, Sixel, or truecolor half blocks.
package termimg

import (
	"image"
	"strings"
)

// Protocol abstracts the terminal image display protocol.
type Protocol interface {
	// Name returns the protocol identifier used in configuration.
	Name() string

	// Prepare encodes the image and returns any one-time terminal command.
	// Kitty transmits to terminal memory; Sixel and Blocks encode and cache
	// internally and return "".
	Prepare(img image.Image, id uint32) (string, error)

	// Place returns the escape sequence that displays the image at the
	// 1-based cell (row, col), spanning width x height cells.
	Place(id uint32, row, col, width, height int) string

	// Delete returns the escape sequence that removes the image, if any, and
	// drops cached data.
	Delete(id uint32) string

	// Placeholder returns blank space for lipgloss layout measurement.
	Placeholder(width, height int) string
}

// BlankPlaceholder returns a block of spaces width x height cells.
func BlankPlaceholder(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
