package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/imgview/internal/engine"
	"github.com/llehouerou/imgview/internal/keymap"
	"github.com/llehouerou/imgview/internal/source"
	"github.com/llehouerou/imgview/internal/state"
	"github.com/llehouerou/imgview/internal/ui/helpbindings"
	"github.com/llehouerou/imgview/internal/ui/styles"
	"github.com/llehouerou/imgview/internal/ui/textinput"
	"github.com/llehouerou/imgview/internal/viewer"
)

const defaultPanStep = 4

// Viewer is the part of viewer.Viewer the model drives.
type Viewer interface {
	ChangeImage(req source.Request)
	FullScreen()
}

// Canvas is the part of engine.Engine the model drives.
type Canvas interface {
	ZoomIn(x, y int)
	ZoomOut(x, y int)
	Pan(dx, dy int)
	ResetFit()
	SetScreenSize(width, height int)
	Resize(width, height int)
	Render() (string, error)
	Place(row, col int) string
	Hide() string
	Snapshot() engine.View
	CellSize() (width, height int)
	Changed() <-chan struct{}
}

// Options holds the dependencies of a Model.
type Options struct {
	Viewer       Viewer
	Subscription *viewer.Subscription
	Canvas       Canvas
	State        state.Interface // may be nil
	Gallery      Gallery
	Bindings     []keymap.Binding // default: keymap.All
	Logger       zerolog.Logger
	PanStep      int // cells moved per pan key (default: 4)

	// StartFullScreen switches to fullscreen once the engine is ready.
	StartFullScreen bool
}

// Model is the bubbletea model of the viewer.
type Model struct {
	viewer  Viewer
	sub     *viewer.Subscription
	canvas  Canvas
	state   state.Interface
	keys    *keymap.Resolver
	logger  zerolog.Logger
	panStep int

	gallery Gallery
	width   int // terminal size in cells
	height  int

	showStatus      bool
	showHelp        bool
	help            helpbindings.Model
	open            textinput.Model
	ready           bool
	startFullScreen bool

	current viewer.Delivered
	loading int
	spinner spinner.Model
	errMsg  string

	pendingTransmit string
	transmitSeq     int

	dragging bool
	dragX    int
	dragY    int
}

// New creates the model. The viewer is expected to have been created with
// the gallery's current locator as its initial request.
func New(opts Options) Model {
	bindings := opts.Bindings
	if bindings == nil {
		bindings = keymap.All
	}
	panStep := opts.PanStep
	if panStep <= 0 {
		panStep = defaultPanStep
	}

	return Model{
		viewer:          opts.Viewer,
		sub:             opts.Subscription,
		canvas:          opts.Canvas,
		state:           opts.State,
		keys:            keymap.NewResolver(bindings),
		logger:          opts.Logger,
		panStep:         panStep,
		gallery:         opts.Gallery,
		help:            helpbindings.New(bindings),
		open:            textinput.New(),
		showStatus:      true,
		startFullScreen: opts.StartFullScreen,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(styles.T().S().Muted),
		),
	}
}

// Init starts watching the viewer and the canvas.
func (m Model) Init() tea.Cmd {
	return tea.Batch(WatchViewer(m.sub), WatchCanvas(m.canvas.Changed()))
}

// Gallery returns the gallery.
func (m Model) Gallery() Gallery { return m.gallery }

// SaveState stores the gallery position and fullscreen flag.
func (m Model) SaveState() {
	if m.state == nil || m.gallery.Len() == 0 {
		return
	}
	m.state.SaveViewer(state.ViewerState{
		Locator:    m.gallery.Current(),
		Gallery:    m.gallery.Locators(),
		Position:   m.gallery.Pos(),
		FullScreen: m.canvas.Snapshot().FullScreen,
	})
}

// statusVisible reports whether the status bar takes a row.
func (m Model) statusVisible(fullscreen bool) bool {
	return m.showStatus && !fullscreen && m.height > 1
}

// canvasRows is the height in cells of the non-fullscreen canvas.
func (m Model) canvasRows() int {
	if m.showStatus && m.height > 1 {
		return m.height - 1
	}
	return m.height
}

// resizeCanvas gives the engine the terminal and canvas sizes in pixels.
func (m Model) resizeCanvas() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	cw, ch := m.canvas.CellSize()
	m.canvas.SetScreenSize(m.width*cw, m.height*ch)
	m.canvas.Resize(m.width*cw, m.canvasRows()*ch)
}

// covered reports whether a box hides the canvas.
func (m Model) covered() bool {
	return m.showHelp || m.open.Active()
}

// refresh renders the canvas and queues the resulting transmission.
func (m *Model) refresh() tea.Cmd {
	if m.covered() {
		return nil
	}
	out, err := m.canvas.Render()
	if err != nil {
		m.logger.Warn().Err(err).Msg("canvas render failed")
		m.errMsg = err.Error()
	}
	return m.queueTransmit(out)
}

func (m *Model) queueTransmit(out string) tea.Cmd {
	if out == "" {
		return nil
	}
	m.pendingTransmit += out
	m.transmitSeq++
	return TransmitFlushedCmd(m.transmitSeq)
}
