package bridge

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/jdginn/rcposc/rcp"
)

var errWriterStopped = errors.New("bridge: console writer stopped")

type writeRequest struct {
	line string
	done chan error
}

// lineWriter is the only goroutine that writes to the console connection.
// Both pumps hand it complete lines, and it writes them one at a time in the
// order they were submitted.
type lineWriter struct {
	w       io.Writer
	reqs    chan writeRequest
	stopped chan struct{}
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{
		w:       w,
		reqs:    make(chan writeRequest),
		stopped: make(chan struct{}),
	}
}

// run serves write requests until ctx is done or a write fails. A failed write
// is returned; the connection is not written to again.
func (lw *lineWriter) run(ctx context.Context) error {
	defer close(lw.stopped)
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-lw.reqs:
			_, err := io.WriteString(lw.w, req.line)
			if err != nil {
				err = rcp.Wrap(rcp.Io, strings.TrimSuffix(req.line, "\n"), err)
			}
			req.done <- err
			if err != nil {
				return err
			}
		}
	}
}

// Write submits line, appending a newline if it has none, and waits until it
// has been written.
func (lw *lineWriter) Write(ctx context.Context, line string) error {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	req := writeRequest{line: line, done: make(chan error, 1)}

	select {
	case lw.reqs <- req:
	case <-lw.stopped:
		return errWriterStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
