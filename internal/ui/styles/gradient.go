package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// neutral stands in for palette colours that are not #rrggbb.
var neutral = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// Gradient colours each grapheme of text along an HCL blend from one colour
// to the other. Whitespace is left unstyled.
func Gradient(text string, from, to lipgloss.Color, bold bool) string {
	clusters := graphemes(text)
	if len(clusters) == 0 {
		return ""
	}

	start, end := toColorful(from), toColorful(to)
	base := lipgloss.NewStyle().Bold(bold)

	var b strings.Builder
	for i, cluster := range clusters {
		if strings.TrimSpace(cluster) == "" {
			b.WriteString(cluster)
			continue
		}
		c := blend(start, end, i, len(clusters))
		b.WriteString(base.Foreground(lipgloss.Color(c.Hex())).Render(cluster))
	}
	return b.String()
}

// TitleGradient renders a title in bold along the theme accents.
func (t *Theme) TitleGradient(text string) string {
	return Gradient(text, t.Primary, t.Secondary, true)
}

// blend returns the colour of step i out of n.
func blend(from, to colorful.Color, i, n int) colorful.Color {
	if n < 2 {
		return from
	}
	return from.BlendHcl(to, float64(i)/float64(n-1)).Clamped()
}

func graphemes(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

func toColorful(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return neutral
	}
	return col
}
