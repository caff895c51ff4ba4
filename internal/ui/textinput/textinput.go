// Package textinput provides the one-line prompt used to open a locator.
package textinput

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/imgview/internal/ui/styles"
)

const (
	maxBoxWidth = 72
	boxChrome   = 4 // border and padding
)

// Result is returned when the prompt closes.
type Result struct {
	Text     string
	Canceled bool // True if user pressed Escape or submitted nothing
}

// Model is a prompt box. The zero value is inactive.
type Model struct {
	input  textinput.Model
	title  string
	width  int
	active bool
}

// New creates an inactive prompt.
func New() Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "path, URL or data: URI"
	in.CharLimit = 0
	return Model{input: in}
}

// Start opens the prompt with the given title and initial text, sized for
// a terminal width columns wide.
func (m Model) Start(title, initial string, width int) (Model, tea.Cmd) {
	m.title = title
	m.active = true
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m = m.SetWidth(width)
	cmd := m.input.Cursor.SetMode(cursor.CursorStatic)
	return m, tea.Batch(cmd, m.input.Focus())
}

// Active reports whether the prompt is open.
func (m Model) Active() bool { return m.active }

// Value returns the current text.
func (m Model) Value() string { return m.input.Value() }

// SetWidth sizes the box for a terminal width columns wide.
func (m Model) SetWidth(width int) Model {
	box := min(width-2, maxBoxWidth)
	m.width = max(box, 20)
	m.input.Width = max(m.width-boxChrome-len(m.input.Prompt)-1, 1)
	return m
}

// Update handles a message while the prompt is open. A non-nil Result means
// the prompt closed.
func (m Model) Update(msg tea.Msg) (Model, *Result, tea.Cmd) {
	if !m.active {
		return m, nil, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			m = m.close()
			return m, &Result{Canceled: true}, nil
		case "enter":
			text := clean(m.input.Value())
			m = m.close()
			return m, &Result{Text: text, Canceled: text == ""}, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, nil, cmd
}

func (m Model) close() Model {
	m.active = false
	m.input.Blur()
	m.input.Reset()
	return m
}

// View renders the prompt box, or "" when inactive.
func (m Model) View() string {
	if !m.active {
		return ""
	}
	s := styles.T().S()

	title := styles.T().TitleGradient(m.title)
	hint := s.Subtle.Render("enter opens · esc cancels")
	content := title + "\n\n" + m.input.View() + "\n\n" + hint

	return s.Help.Width(m.width - 2).Render(content)
}

// clean trims whitespace and the quotes terminals add around dropped paths.
func clean(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if first == last && (first == '\'' || first == '"') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}
