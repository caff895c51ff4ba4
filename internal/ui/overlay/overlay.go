// Package overlay draws boxes over already rendered text.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Center draws box in the middle of a base view of width x height cells.
func Center(base, box string, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	top := max((height-len(boxLines))/2, 0)
	left := max((width-boxWidth)/2, 0)
	return Place(base, box, top, left, width)
}

// Place draws box over base with its top-left corner at row, col.
// Lines of box are written whole, including their spaces. The base is
// ANSI-aware: styled text on either side of the box is kept intact.
func Place(base, box string, row, col, width int) string {
	baseLines := strings.Split(base, "\n")
	for i, boxLine := range strings.Split(box, "\n") {
		y := row + i
		if y < 0 || y >= len(baseLines) {
			continue
		}

		line := baseLines[y]
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}

		boxLine = ansi.Truncate(boxLine, max(width-col, 0), "")
		end := col + ansi.StringWidth(boxLine)

		result := ansi.Cut(line, 0, col) + boxLine
		if end < width {
			result += ansi.Cut(line, end, width)
		}
		baseLines[y] = result
	}
	return strings.Join(baseLines, "\n")
}
