package rcp

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

const readBufferSize = 1024

// Framer reassembles newline terminated RCP lines from a byte stream. One Framer
// belongs to one TCP connection; it is not safe for concurrent use.
type Framer struct {
	buf []byte
}

// Feed appends p and returns every line it completes, newline removed, in
// arrival order. Whatever follows the last newline stays buffered for the next
// call. Invalid UTF-8 in a line is replaced with U+FFFD.
func (f *Framer) Feed(p []byte) []string {
	f.buf = append(f.buf, p...)

	var lines []string
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.ToValidUTF8(string(f.buf[:i]), "�"))
		f.buf = f.buf[i+1:]
	}
	if len(f.buf) == 0 {
		f.buf = nil
	}
	return lines
}

// Pending reports how many bytes are waiting for a newline.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// ReadLines reads r until it fails or fn returns an error, calling fn for each
// complete line.
//
// io.EOF becomes ErrPeerClosed. Any other read error is returned with kind Io;
// there is no retry.
func (f *Framer) ReadLines(r io.Reader, fn func(line string) error) error {
	buf := make([]byte, readBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, line := range f.Feed(buf[:n]) {
				if ferr := fn(line); ferr != nil {
					return ferr
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrPeerClosed
			}
			return Wrap(Io, "", err)
		}
	}
}
