//go:build unix

// Package stderr captures output written directly to file descriptor 2,
// bypassing os.Stderr, and forwards it to the log so it cannot corrupt the
// TUI layout.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
)

// Start redirects fd 2 into a pipe whose lines are logged at warn level.
// The program can continue if it fails; output then goes to the terminal.
func Start(logger zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	if pipeRead != nil {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		_ = unix.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr = orig
	pipeRead = r
	pipeWrite = w
	done = make(chan struct{})

	go forward(r, logger, done)
	return nil
}

func forward(r *os.File, logger zerolog.Logger, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			logger.Warn().Str("source", "stderr").Msg(line)
		}
	}
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Use it for fatal errors that must stay visible.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()

	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = unix.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for captured output to be
// logged.
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if pipeRead == nil {
		return
	}

	_ = unix.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = unix.Close(origStderr)
	origStderr = -1

	// fd 2 no longer refers to the pipe, so closing the write end ends the
	// reader.
	pipeWrite.Close()
	<-done
	pipeRead.Close()

	pipeRead, pipeWrite, done = nil, nil, nil
}
