//go:build unix

package termimg

import (
	"os"

	"golang.org/x/sys/unix"
)

// QueryWindow reads the terminal size in cells and pixels from stdout.
func QueryWindow() (Window, error) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return Window{}, err
	}
	return Window{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		Width:  int(ws.Xpixel),
		Height: int(ws.Ypixel),
	}, nil
}
