// Package helpbindings renders a scrollable box listing the key bindings.
package helpbindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/imgview/internal/keymap"
	"github.com/llehouerou/imgview/internal/ui/render"
	"github.com/llehouerou/imgview/internal/ui/styles"
)

// categoryOrder defines the display order of binding categories.
var categoryOrder = []string{"global", "gallery", "canvas"}

// categoryLabels maps context names to display labels.
var categoryLabels = map[string]string{
	"global":  "General",
	"gallery": "Gallery",
	"canvas":  "Canvas",
}

// chrome is the number of box lines around the bindings: borders, title,
// footer and the blank lines after the title and before the footer.
const chrome = 6

// Model holds the state for the help box.
type Model struct {
	bindings     []keymap.Binding
	width        int
	height       int
	scrollOffset int
}

// New creates a help box listing bindings grouped by context.
func New(bindings []keymap.Binding) Model {
	var ordered []keymap.Binding
	for _, ctx := range categoryOrder {
		for _, b := range bindings {
			if b.Context == ctx {
				ordered = append(ordered, b)
			}
		}
	}
	return Model{bindings: ordered}
}

// SetSize sets the area the box is drawn in.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.scrollOffset = min(m.scrollOffset, m.maxScroll())
	return m
}

// Update scrolls on j/k and arrow keys. Any other key closes the box.
func (m Model) Update(msg tea.KeyMsg) (Model, bool) {
	switch msg.String() {
	case "j", "down":
		if m.scrollOffset < m.maxScroll() {
			m.scrollOffset++
		}
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	default:
		return m, true
	}
	return m, false
}

// View renders the box.
func (m Model) View() string {
	s := styles.T().S()
	lines := m.lines()

	// Max width over all lines keeps the box steady while scrolling
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}

	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleHeight(), len(lines))
	visible := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		if w := lipgloss.Width(line); w < maxWidth {
			line += strings.Repeat(" ", maxWidth-w)
		}
		visible = append(visible, line)
	}

	var b strings.Builder
	b.WriteString(styles.T().TitleGradient("imgview") + s.Muted.Render(" keys"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(visible, "\n"))
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render(m.footer()))
	return s.Help.Render(b.String())
}

func (m Model) lines() []string {
	s := styles.T().S()

	keyWidth := 0
	for _, b := range m.bindings {
		keyWidth = max(keyWidth, lipgloss.Width(keyNames(b.Keys)))
	}

	var lines []string
	current := ""
	for _, b := range m.bindings {
		if b.Context != current {
			if current != "" {
				lines = append(lines, "")
			}
			lines = append(lines, s.Warning.Bold(true).Render(categoryLabels[b.Context]))
			current = b.Context
		}
		key := s.Key.Render(render.Pad(keyNames(b.Keys), keyWidth))
		lines = append(lines, key+"  "+s.Base.Render(b.Description))
	}
	return lines
}

func keyNames(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, ", ")
}

func (m Model) footer() string {
	if m.maxScroll() == 0 {
		return "any key closes"
	}
	return "j/k scroll · any other key closes"
}

func (m Model) visibleHeight() int {
	if m.height <= 0 {
		return len(m.lines())
	}
	return max(m.height-chrome, 3)
}

func (m Model) maxScroll() int {
	return max(len(m.lines())-m.visibleHeight(), 0)
}
