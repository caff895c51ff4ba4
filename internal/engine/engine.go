// Package engine renders one image into a fixed-size canvas with pan, zoom
// and fullscreen, and draws the result in the terminal.
//
// Engine implements bridge.Engine. Canvas, pointer and destination
// coordinates are in pixels.
package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg" // accepted image formats
	_ "image/png"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/llehouerou/imgview/internal/bridge"
	"github.com/llehouerou/imgview/internal/errmsg"
	"github.com/llehouerou/imgview/internal/termimg"
)

// ErrStarted is returned when Start is called more than once.
var ErrStarted = errors.New("engine already started")

// Config holds the zoom limits and canvas background.
type Config struct {
	MinZoom    float64
	MaxZoom    float64
	ZoomStep   float64
	Background color.Color
	// Protocol forces a terminal graphics protocol; see termimg.Detect.
	Protocol string
}

// DefaultConfig returns the default zoom limits on a white background.
func DefaultConfig() Config {
	return Config{
		MinZoom:    0.2,
		MaxZoom:    1.4,
		ZoomStep:   1.1,
		Background: color.White,
	}
}

// Rect is a destination rectangle on the canvas.
type Rect struct {
	X, Y, W, H int
}

// View is a snapshot of the engine state.
type View struct {
	Protocol   string
	Canvas     image.Point
	Cells      image.Point
	ImageSize  image.Point
	Dest       Rect
	Zoom       float64
	FullScreen bool
	HasImage   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDetector replaces terminal protocol detection.
func WithDetector(detect func(override string) termimg.Protocol) Option {
	return func(e *Engine) { e.detect = detect }
}

// WithCellSize replaces the terminal cell size query.
func WithCellSize(query func() (width, height int)) Option {
	return func(e *Engine) { e.cellSize = query }
}

// Engine is a terminal image canvas.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	logger   zerolog.Logger
	detect   func(string) termimg.Protocol
	cellSize func() (int, int)

	started bool
	proto   termimg.Protocol
	cellW   int
	cellH   int

	ready      bool
	canvas     image.Point
	nonFS      image.Point
	screen     image.Point
	img        image.Image
	orig       image.Point
	dest       Rect
	zoom       float64
	fullscreen bool

	dirty   bool
	imageID uint32
	nextID  uint32

	changed chan struct{}
}

// New creates an engine. Zero values in cfg fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.MinZoom <= 0 {
		cfg.MinZoom = def.MinZoom
	}
	if cfg.MaxZoom <= cfg.MinZoom {
		cfg.MaxZoom = def.MaxZoom
	}
	if cfg.ZoomStep <= 1 {
		cfg.ZoomStep = def.ZoomStep
	}
	if cfg.Background == nil {
		cfg.Background = def.Background
	}

	e := &Engine{
		cfg:      cfg,
		logger:   zerolog.Nop(),
		detect:   termimg.Detect,
		cellSize: termimg.CellSize,
		zoom:     1,
		changed:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start resolves the terminal graphics protocol and cell size in the
// background, then calls ready once unless ctx is done first.
func (e *Engine) Start(ctx context.Context, ready func()) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return ErrStarted
	}
	e.started = true
	e.mu.Unlock()

	go func() {
		proto := e.detect(e.cfg.Protocol)
		cw, ch := e.cellSize()
		if cw <= 0 || ch <= 0 {
			cw, ch = termimg.DefaultCellWidth, termimg.DefaultCellHeight
		}

		e.mu.Lock()
		e.proto = proto
		e.cellW, e.cellH = cw, ch
		e.dirty = true
		e.mu.Unlock()

		e.logger.Info().
			Str("protocol", protocolName(proto)).
			Int("cell_width", cw).
			Int("cell_height", ch).
			Msg("terminal graphics ready")

		if ctx.Err() != nil {
			return
		}
		ready()
	}()
	return nil
}

// Setup creates the canvas at width x height pixels and resets the zoom.
func (e *Engine) Setup(width, height int) {
	e.mu.Lock()
	e.ready = true
	e.zoom = 1
	e.nonFS = image.Pt(width, height)
	e.createCanvas(width, height)
	e.mu.Unlock()

	e.notify()
}

// LoadImage decodes the first size bytes of data and shows the image
// scaled to fit the canvas. The data is not retained.
func (e *Engine) LoadImage(data []byte, size int) {
	if size < 0 || size > len(data) {
		size = len(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data[:size]))
	if err != nil {
		e.logger.Error().Err(err).Int("bytes", size).Msg(errmsg.Format(errmsg.OpEngineDraw, err))
		return
	}

	e.mu.Lock()
	e.img = img
	e.orig = image.Pt(img.Bounds().Dx(), img.Bounds().Dy())
	e.dest.W, e.dest.H = e.orig.X, e.orig.Y
	e.scaleToCanvas()
	e.dirty = true
	e.mu.Unlock()

	e.notify()
}

// RequestFullScreen toggles between the screen size and the size passed to
// Setup. It is ignored until the screen size is known.
func (e *Engine) RequestFullScreen() {
	e.mu.Lock()
	if !e.ready || e.screen.X <= 0 || e.screen.Y <= 0 {
		e.mu.Unlock()
		e.logger.Debug().Msg("fullscreen ignored, screen size unknown")
		return
	}

	e.fullscreen = !e.fullscreen
	if e.fullscreen {
		e.createCanvas(e.screen.X, e.screen.Y)
	} else {
		e.createCanvas(e.nonFS.X, e.nonFS.Y)
	}
	e.mu.Unlock()

	e.notify()
}

// SetScreenSize sets the full terminal size in pixels. A fullscreen canvas
// follows it.
func (e *Engine) SetScreenSize(width, height int) {
	e.mu.Lock()
	e.screen = image.Pt(width, height)
	resized := e.ready && e.fullscreen && e.canvas != e.screen
	if resized {
		e.createCanvas(width, height)
	}
	e.mu.Unlock()

	if resized {
		e.notify()
	}
}

// Resize changes the non-fullscreen canvas size after Setup.
func (e *Engine) Resize(width, height int) {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return
	}
	e.nonFS = image.Pt(width, height)
	resized := !e.fullscreen && e.canvas != e.nonFS
	if resized {
		e.createCanvas(width, height)
	}
	e.mu.Unlock()

	if resized {
		e.notify()
	}
}

// Changed receives a value whenever the engine changed outside of the
// host's own calls and needs to be rendered again.
func (e *Engine) Changed() <-chan struct{} { return e.changed }

func (e *Engine) notify() {
	select {
	case e.changed <- struct{}{}:
	default:
	}
}

// createCanvas must be called with mu held.
func (e *Engine) createCanvas(width, height int) {
	e.canvas = image.Pt(max(width, 0), max(height, 0))
	if e.img != nil {
		e.dest.W, e.dest.H = e.orig.X, e.orig.Y
		e.scaleToCanvas()
	}
	e.dirty = true
}

// scaleToCanvas fits the image inside the canvas, centered.
// It must be called with mu held.
func (e *Engine) scaleToCanvas() {
	if e.orig.X <= 0 || e.orig.Y <= 0 || e.canvas.X <= 0 || e.canvas.Y <= 0 {
		return
	}

	scaleX := float64(e.canvas.X) / float64(e.orig.X)
	scaleY := float64(e.canvas.Y) / float64(e.orig.Y)
	e.zoom = min(scaleX, scaleY)

	e.applyZoom()
	e.dest.X = (e.canvas.X - e.dest.W) / 2
	e.dest.Y = (e.canvas.Y - e.dest.H) / 2
}

func (e *Engine) applyZoom() {
	e.dest.W = int(float64(e.orig.X) * e.zoom)
	e.dest.H = int(float64(e.orig.Y) * e.zoom)
}

// Snapshot returns the current engine state.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	return View{
		Protocol:   protocolName(e.proto),
		Canvas:     e.canvas,
		Cells:      e.cells(),
		ImageSize:  e.orig,
		Dest:       e.dest,
		Zoom:       e.zoom,
		FullScreen: e.fullscreen,
		HasImage:   e.img != nil,
	}
}

// CellSize returns the pixel size of one terminal cell once started.
func (e *Engine) CellSize() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cellW == 0 || e.cellH == 0 {
		return termimg.DefaultCellWidth, termimg.DefaultCellHeight
	}
	return e.cellW, e.cellH
}

// cells returns the canvas size in terminal cells. It must be called with
// mu held.
func (e *Engine) cells() image.Point {
	cw, ch := e.cellW, e.cellH
	if cw == 0 || ch == 0 {
		cw, ch = termimg.DefaultCellWidth, termimg.DefaultCellHeight
	}
	if e.canvas.X <= 0 || e.canvas.Y <= 0 {
		return image.Point{}
	}
	return image.Pt(max(e.canvas.X/cw, 1), max(e.canvas.Y/ch, 1))
}

// Render composes the canvas if it changed and returns the terminal
// commands that replace the previous frame. It returns "" when nothing
// changed.
func (e *Engine) Render() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.dirty || e.proto == nil || !e.ready {
		return "", nil
	}
	e.dirty = false

	cmd := e.proto.Delete(e.imageID)
	e.imageID = 0
	if e.img == nil || e.canvas.X <= 0 || e.canvas.Y <= 0 {
		return cmd, nil
	}

	e.nextID++
	id := e.nextID
	prepared, err := e.proto.Prepare(e.compose(), id)
	if err != nil {
		return cmd, err
	}
	e.imageID = id
	return cmd + prepared, nil
}

// Place returns the command that displays the last rendered frame with its
// top-left corner at the 1-based cell (row, col).
func (e *Engine) Place(row, col int) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proto == nil || e.imageID == 0 {
		return ""
	}
	cells := e.cells()
	return e.proto.Place(e.imageID, row, col, cells.X, cells.Y)
}

// Hide removes the last rendered frame from the terminal. The next Render
// draws it again.
func (e *Engine) Hide() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proto == nil || e.imageID == 0 {
		return ""
	}
	cmd := e.proto.Delete(e.imageID)
	e.imageID = 0
	e.dirty = true
	return cmd
}

// compose draws the visible part of the image over the background.
// It must be called with mu held.
func (e *Engine) compose() *image.NRGBA {
	frame := image.NewNRGBA(image.Rect(0, 0, e.canvas.X, e.canvas.Y))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(e.cfg.Background), image.Point{}, draw.Src)

	if e.img != nil && e.dest.W > 0 && e.dest.H > 0 {
		r := image.Rect(e.dest.X, e.dest.Y, e.dest.X+e.dest.W, e.dest.Y+e.dest.H)
		draw.ApproxBiLinear.Scale(frame, r, e.img, e.img.Bounds(), draw.Over, nil)
	}
	return frame
}

func protocolName(p termimg.Protocol) string {
	if p == nil {
		return termimg.NameNone
	}
	return p.Name()
}

// Verify Engine implements bridge.Engine at compile time.
var _ bridge.Engine = (*Engine)(nil)
