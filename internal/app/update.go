package app

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/imgview/internal/errmsg"
	"github.com/llehouerou/imgview/internal/keymap"
	"github.com/llehouerou/imgview/internal/source"
	"github.com/llehouerou/imgview/internal/state"
	"github.com/llehouerou/imgview/internal/ui/textinput"
	"github.com/llehouerou/imgview/internal/viewer"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ViewerMessage:
		return m.handleViewerMessage(msg)

	case CanvasMessage:
		return m.handleCanvasMessage(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case spinner.TickMsg:
		if m.loading == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case HistoryRecordedMsg:
		if msg.Err != nil {
			m.logger.Warn().Err(msg.Err).Msg(errmsg.Format(errmsg.OpHistorySave, msg.Err))
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleViewerMessage(msg ViewerMessage) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case ViewerClosedMsg:
		return m, tea.Quit

	case DeliveredMsg:
		m.current = viewer.Delivered(msg)
		m.errMsg = ""
		m.SaveState()
		cmd = tea.Batch(
			m.refresh(),
			RecordViewCmd(m.state, state.HistoryEntry{
				Key:        msg.Key.String(),
				Locator:    msg.Locator,
				Bytes:      int64(msg.Size),
				LastViewed: time.Now(),
			}),
		)

	case LoadStateMsg:
		wasIdle := m.loading == 0
		m.loading = msg.InFlight
		if wasIdle && m.loading > 0 {
			cmd = m.spinner.Tick
		}

	case EngineReadyMsg:
		m.ready = true
		m.resizeCanvas()
		if m.startFullScreen {
			m.startFullScreen = false
			m.viewer.FullScreen()
		}
		cmd = m.refresh()

	case LoadErrorMsg:
		if m.staleError(msg.Err) {
			m.logger.Debug().Err(msg.Err).Msg("ignoring error for superseded image")
			break
		}
		m.errMsg = msg.Err.Error()
	}

	return m, tea.Batch(cmd, WatchViewer(m.sub))
}

func (m Model) handleCanvasMessage(msg CanvasMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CanvasChangedMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, WatchCanvas(m.canvas.Changed()))

	case TransmitFlushedMsg:
		if msg.Seq == m.transmitSeq {
			m.pendingTransmit = ""
		}
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help = m.help.SetSize(msg.Width, m.canvasRows())
	m.open = m.open.SetWidth(msg.Width)
	m.resizeCanvas()
	return m, m.refresh()
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	action := m.keys.Resolve(key)

	if m.open.Active() {
		return m.handleOpenKey(msg)
	}

	if m.showHelp {
		if action == keymap.ActionQuit && key != "esc" {
			m.SaveState()
			return m, tea.Quit
		}
		var closed bool
		if m.help, closed = m.help.Update(msg); closed {
			m.showHelp = false
			return m, m.refresh()
		}
		return m, nil
	}

	switch action {
	case keymap.ActionQuit:
		m.SaveState()
		return m, tea.Quit

	case keymap.ActionHelp:
		m.showHelp = true
		m.help = m.help.SetSize(m.width, m.canvasRows())
		return m, m.queueTransmit(m.canvas.Hide())

	case keymap.ActionToggleStatus:
		m.showStatus = !m.showStatus
		m.resizeCanvas()

	case keymap.ActionNextImage:
		return m.goTo(m.gallery.Next())
	case keymap.ActionPrevImage:
		return m.goTo(m.gallery.Prev())
	case keymap.ActionFirstImage:
		return m.goTo(m.gallery.First())
	case keymap.ActionLastImage:
		return m.goTo(m.gallery.Last())
	case keymap.ActionReload:
		m.show()
	case keymap.ActionOpen:
		var cmd tea.Cmd
		m.open, cmd = m.open.Start("Open", "", m.width)
		return m, tea.Batch(cmd, m.queueTransmit(m.canvas.Hide()))

	case keymap.ActionZoomIn:
		x, y := m.canvasCenter()
		m.canvas.ZoomIn(x, y)
	case keymap.ActionZoomOut:
		x, y := m.canvasCenter()
		m.canvas.ZoomOut(x, y)
	case keymap.ActionFit:
		m.canvas.ResetFit()
	case keymap.ActionFullScreen:
		m.viewer.FullScreen()
		m.SaveState()

	case keymap.ActionPanLeft:
		m.pan(1, 0)
	case keymap.ActionPanRight:
		m.pan(-1, 0)
	case keymap.ActionPanUp:
		m.pan(0, 1)
	case keymap.ActionPanDown:
		m.pan(0, -1)

	default:
		return m, nil
	}

	return m, m.refresh()
}

// handleOpenKey feeds the open prompt and shows the submitted locator.
func (m Model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		res *textinput.Result
		cmd tea.Cmd
	)
	m.open, res, cmd = m.open.Update(msg)
	if res == nil {
		return m, cmd
	}
	if !res.Canceled {
		m.gallery = m.gallery.Open(res.Text)
		m.show()
		m.SaveState()
	}
	return m, tea.Batch(cmd, m.refresh())
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.covered() {
		return m, nil
	}

	snap := m.canvas.Snapshot()
	if msg.Action == tea.MouseActionPress && msg.Y >= snap.Cells.Y {
		// status bar
		return m, nil
	}

	cw, ch := m.canvas.CellSize()
	x, y := msg.X*cw+cw/2, msg.Y*ch+ch/2

	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.canvas.ZoomIn(x, y)
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.canvas.ZoomOut(x, y)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
		return m, nil
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.canvas.Pan((msg.X-m.dragX)*cw, (msg.Y-m.dragY)*ch)
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
		return m, nil
	default:
		return m, nil
	}

	return m, m.refresh()
}

// goTo makes g the gallery and requests its current locator if it moved.
func (m Model) goTo(g Gallery) (tea.Model, tea.Cmd) {
	if g.Pos() == m.gallery.Pos() {
		return m, nil
	}
	m.gallery = g
	m.show()
	m.SaveState()
	return m, nil
}

// staleError reports whether err belongs to an image that is no longer
// requested or that is already on screen.
func (m Model) staleError(err error) bool {
	var lerr *viewer.LoadError
	if !errors.As(err, &lerr) || lerr.Key == "" {
		return false
	}
	if lerr.Key == m.current.Key {
		return true
	}
	return lerr.Key != source.ResolveKey(m.gallery.Current())
}

// show requests the current gallery locator.
func (m *Model) show() {
	loc := m.gallery.Current()
	if loc == "" {
		return
	}
	m.errMsg = ""
	m.viewer.ChangeImage(source.Locator(loc))
}

// pan moves the image by panStep cells in the direction (dx, dy).
func (m Model) pan(dx, dy int) {
	cw, ch := m.canvas.CellSize()
	m.canvas.Pan(dx*m.panStep*cw, dy*m.panStep*ch)
}

func (m Model) canvasCenter() (x, y int) {
	c := m.canvas.Snapshot().Canvas
	return c.X / 2, c.Y / 2
}
