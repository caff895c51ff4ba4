// Package app is the bubbletea front end of the viewer: a gallery of
// locators, a status bar and the terminal canvas.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/imgview/internal/viewer"
)

// Message category interfaces for type-based routing in Update().

// ViewerMessage is implemented by messages carrying viewer events.
type ViewerMessage interface {
	tea.Msg
	viewerMessage()
}

// CanvasMessage is implemented by messages about the terminal canvas.
type CanvasMessage interface {
	tea.Msg
	canvasMessage()
}

// DeliveredMsg is sent when the viewer handed an image to the engine.
type DeliveredMsg viewer.Delivered

func (DeliveredMsg) viewerMessage() {}

// LoadStateMsg is sent when a fetch starts or finishes.
type LoadStateMsg viewer.LoadState

func (LoadStateMsg) viewerMessage() {}

// EngineReadyMsg is sent once the engine was set up.
type EngineReadyMsg viewer.EngineReady

func (EngineReadyMsg) viewerMessage() {}

// LoadErrorMsg is sent when a request failed.
type LoadErrorMsg struct {
	Err error
}

func (LoadErrorMsg) viewerMessage() {}

// ViewerClosedMsg is sent when the viewer stopped.
type ViewerClosedMsg struct{}

func (ViewerClosedMsg) viewerMessage() {}

// CanvasChangedMsg is sent when the engine needs to be drawn again.
type CanvasChangedMsg struct{}

func (CanvasChangedMsg) canvasMessage() {}

// TransmitFlushedMsg clears a sent frame transmission. Seq ignores
// transmissions replaced in the meantime.
type TransmitFlushedMsg struct {
	Seq int
}

func (TransmitFlushedMsg) canvasMessage() {}

// HistoryRecordedMsg reports the result of writing a view to history.
type HistoryRecordedMsg struct {
	Err error
}
