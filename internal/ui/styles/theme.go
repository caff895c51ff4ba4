// Package styles holds the viewer colour palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the viewer.
type Theme struct {
	// Accent colors, used for the title gradient
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Status bar background
	BgBar lipgloss.Color

	Border lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color // help category headings

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Bar     lipgloss.Style // status bar line
	Key     lipgloss.Style // key names in the help view
	Help    lipgloss.Style // help box and open prompt
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgBar: lipgloss.Color("#1a1a1a"),

	Border: lipgloss.Color("#585858"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		Base:   fg(t.FgBase),
		Muted:  fg(t.FgMuted),
		Subtle: fg(t.FgSubtle),
		Bar: lipgloss.NewStyle().
			Background(t.BgBar).
			Foreground(t.FgBase),
		Key: fg(t.Primary).Bold(true),
		Help: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Error:   fg(t.Error),
		Warning: fg(t.Warning),
	}
}
