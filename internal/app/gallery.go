package app

import "slices"

// Gallery is the ordered list of locators given on the command line and the
// position of the one on screen. Moving past either end wraps around.
type Gallery struct {
	locators []string
	pos      int
}

// NewGallery creates a gallery positioned at pos, clamped to the list.
func NewGallery(locators []string, pos int) Gallery {
	g := Gallery{locators: append([]string(nil), locators...)}
	g.pos = g.clamp(pos)
	return g
}

func (g Gallery) clamp(pos int) int {
	if len(g.locators) == 0 || pos < 0 {
		return 0
	}
	return min(pos, len(g.locators)-1)
}

// Len returns the number of locators.
func (g Gallery) Len() int { return len(g.locators) }

// Pos returns the zero-based position of the current locator.
func (g Gallery) Pos() int { return g.pos }

// Locators returns a copy of the list.
func (g Gallery) Locators() []string {
	return append([]string(nil), g.locators...)
}

// Current returns the current locator, or "" for an empty gallery.
func (g Gallery) Current() string {
	if len(g.locators) == 0 {
		return ""
	}
	return g.locators[g.pos]
}

// Next moves to the following locator.
func (g Gallery) Next() Gallery { return g.move(g.pos + 1) }

// Prev moves to the preceding locator.
func (g Gallery) Prev() Gallery { return g.move(g.pos - 1) }

// First moves to the first locator.
func (g Gallery) First() Gallery { return g.move(0) }

// Last moves to the last locator.
func (g Gallery) Last() Gallery { return g.move(len(g.locators) - 1) }

// Open moves to locator, inserting it after the current position when the
// gallery does not hold it yet.
func (g Gallery) Open(locator string) Gallery {
	if i := slices.Index(g.locators, locator); i >= 0 {
		g.pos = i
		return g
	}
	if len(g.locators) == 0 {
		g.locators = []string{locator}
		g.pos = 0
		return g
	}
	g.locators = slices.Insert(slices.Clone(g.locators), g.pos+1, locator)
	g.pos++
	return g
}

func (g Gallery) move(pos int) Gallery {
	n := len(g.locators)
	if n == 0 {
		return g
	}
	g.pos = ((pos % n) + n) % n
	return g
}
