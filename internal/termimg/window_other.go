//go:build !unix

package termimg

import "errors"

// QueryWindow is not supported on this platform.
func QueryWindow() (Window, error) {
	return Window{}, errors.New("terminal size query not supported")
}
