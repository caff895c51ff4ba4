package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/imgview/internal/state"
	"github.com/llehouerou/imgview/internal/viewer"
)

// transmitHold is how long a frame transmission stays in the view. It spans
// several renderer frames so the transmission is written at least once.
const transmitHold = 100 * time.Millisecond

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchViewer returns a command that waits for the next viewer event.
func WatchViewer(sub *viewer.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.Delivered:
			return DeliveredMsg(e)
		case e := <-sub.Loading:
			return LoadStateMsg(e)
		case e := <-sub.Ready:
			return EngineReadyMsg(e)
		case err := <-sub.Error:
			return LoadErrorMsg{Err: err}
		case <-sub.Done:
			return ViewerClosedMsg{}
		}
	}
}

// WatchCanvas returns a command that waits for the engine to change.
func WatchCanvas(changed <-chan struct{}) tea.Cmd {
	return waitForChannel(changed, func(_ struct{}, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return CanvasChangedMsg{}
	})
}

// TransmitFlushedCmd returns a command that sends TransmitFlushedMsg after transmitHold.
func TransmitFlushedCmd(seq int) tea.Cmd {
	return tea.Tick(transmitHold, func(_ time.Time) tea.Msg {
		return TransmitFlushedMsg{Seq: seq}
	})
}

// RecordViewCmd writes a delivered image to the view history.
func RecordViewCmd(st state.Interface, entry state.HistoryEntry) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return HistoryRecordedMsg{Err: st.RecordView(ctx, entry)}
	}
}
