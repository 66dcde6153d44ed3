// Package sse reads server-sent event streams line by line, tolerating
// payloads that arrive split across arbitrary network chunk boundaries.
package sse

import (
	"bufio"
	"io"
	"strings"
)

const (
	initialBufSize = 64 * 1024
	maxBufSize     = 1024 * 1024
)

// Reader yields the data payload of each SSE record from an underlying
// stream. bufio handles reassembly, so a payload split mid-record or even
// mid-rune by the transport comes out whole.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r in an SSE record reader.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialBufSize), maxBufSize)
	return &Reader{scanner: scanner}
}

// Next returns the payload of the next "data:" record. Blank keep-alive
// lines, comments and other SSE fields are skipped. It returns io.EOF when
// the stream ends.
func (r *Reader) Next() (string, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		return strings.TrimSpace(strings.TrimPrefix(line, "data:")), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
