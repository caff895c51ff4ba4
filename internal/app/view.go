package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/imgview/internal/engine"
	"github.com/llehouerou/imgview/internal/icons"
	"github.com/llehouerou/imgview/internal/ui/overlay"
	"github.com/llehouerou/imgview/internal/ui/render"
	"github.com/llehouerou/imgview/internal/ui/styles"
)

const appTitle = "imgview"

// View renders the application UI.
func (m Model) View() string {
	// Can't render before we know terminal size
	if m.width == 0 || m.height == 0 {
		return ""
	}

	snap := m.canvas.Snapshot()
	rows := m.height
	status := m.statusVisible(snap.FullScreen)
	if status {
		rows--
	}

	view := render.Blank(m.width, rows)
	switch {
	case m.open.Active():
		view = overlay.Center(view, m.open.View(), m.width, rows)
	case m.showHelp:
		view = overlay.Center(view, m.help.SetSize(m.width, rows).View(), m.width, rows)
	}
	if status {
		if rows > 0 {
			view += "\n"
		}
		view += m.renderStatus(snap)
	}

	// Ensure view is exactly terminal height (pad or truncate if needed)
	view = enforceHeight(view, m.height)

	// Frame transmission, written once
	if m.pendingTransmit != "" {
		view = m.pendingTransmit + view
	}

	if !m.covered() {
		view += m.canvas.Place(1, 1)
	}
	return view
}

// renderStatus renders the one-line status bar.
func (m Model) renderStatus(snap engine.View) string {
	s := styles.T().S()
	sep := s.Subtle.Render(" · ")

	var parts []string
	if m.loading > 0 {
		parts = append(parts, m.spinner.View())
	}
	if m.gallery.Len() > 1 {
		parts = append(parts, s.Base.Render(fmt.Sprintf("%d/%d", m.gallery.Pos()+1, m.gallery.Len())))
	}
	if snap.HasImage {
		parts = append(parts,
			s.Base.Render(fmt.Sprintf("%d×%d", snap.ImageSize.X, snap.ImageSize.Y)),
			s.Muted.Render(fmt.Sprintf("%.0f%%", snap.Zoom*100)),
		)
	}
	if m.current.Size > 0 {
		parts = append(parts, s.Muted.Render(humanize.IBytes(uint64(m.current.Size))))
	}
	parts = append(parts, s.Subtle.Render(snap.Protocol))
	right := strings.Join(parts, sep) + " "

	title := " " + styles.T().TitleGradient(appTitle) + " "
	room := m.width - ansi.StringWidth(title) - ansi.StringWidth(right) - 1

	var left string
	switch {
	case m.errMsg != "":
		left = title + s.Error.Render(render.Truncate(icons.FormatError(m.errMsg), room))
	case !m.ready:
		left = title + s.Muted.Render(render.Truncate("starting…", room))
	default:
		loc := m.gallery.Current()
		icon := icons.ForLocator(loc)
		left = title + s.Muted.Render(icon) +
			s.Base.Render(render.TruncateLeft(loc, room-ansi.StringWidth(icon)))
	}

	return s.Bar.Render(render.Row(left, right, m.width))
}

// enforceHeight ensures the view has exactly the specified number of lines.
func enforceHeight(view string, targetHeight int) string {
	lines := strings.Split(view, "\n")
	currentHeight := len(lines)

	if currentHeight == targetHeight {
		return view
	}

	if currentHeight < targetHeight {
		for i := currentHeight; i < targetHeight; i++ {
			lines = append(lines, "")
		}
	} else {
		lines = lines[:targetHeight]
	}

	return strings.Join(lines, "\n")
}
