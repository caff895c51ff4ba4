// Package logging configures zerolog for the viewer. The terminal belongs
// to the TUI, so logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultFile returns the default log file path under the XDG state dir.
func DefaultFile() (string, error) {
	return xdg.StateFile(filepath.Join("imgview", "imgview.log"))
}

// Setup opens the log file (DefaultFile when path is empty), configures the
// global logger at the given level and returns it. Close the returned
// closer on exit.
func Setup(path, level string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		p, err := DefaultFile()
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log file path: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}

	//nolint:gosec // path comes from user configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := New(f, level)
	log.Logger = logger
	return logger, f, nil
}

// New returns a human-readable logger writing to w.
func New(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	cw := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.TimeFormat = time.RFC3339
		cw.NoColor = true
	})

	return zerolog.New(cw).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
