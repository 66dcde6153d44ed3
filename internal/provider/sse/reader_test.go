package sse

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader returns at most n bytes per Read call, forcing record
// payloads to arrive split across reads.
type chunkedReader struct {
	data []byte
	n    int
	pos  int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.n
	if end > len(r.data) {
		end = len(r.data)
	}
	copied := copy(p, r.data[r.pos:end])
	r.pos += copied
	return copied, nil
}

func readAll(t *testing.T, r *Reader) []string {
	t.Helper()
	var out []string
	for {
		payload, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, payload)
	}
}

func TestReaderYieldsDataRecordsInOrder(t *testing.T) {
	stream := "data: one\n\ndata: two\n\ndata: three\n\n"
	got := readAll(t, NewReader(strings.NewReader(stream)))
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestReaderSkipsNonDataLines(t *testing.T) {
	stream := ": comment\nevent: message\ndata: payload\n\nretry: 100\n\n"
	got := readAll(t, NewReader(strings.NewReader(stream)))
	assert.Equal(t, []string{"payload"}, got)
}

func TestReaderTrimsPayloadWhitespace(t *testing.T) {
	got := readAll(t, NewReader(strings.NewReader("data:   spaced  \n\n")))
	assert.Equal(t, []string{"spaced"}, got)
}

func TestReaderReassemblesSplitRecords(t *testing.T) {
	// One byte per read splits every record, including mid-rune.
	stream := "data: héllo wörld\n\ndata: 日本語テキスト\n\n"
	reader := NewReader(&chunkedReader{data: []byte(stream), n: 1})
	got := readAll(t, reader)
	assert.Equal(t, []string{"héllo wörld", "日本語テキスト"}, got)
}

func TestReaderReassemblesAcrossVariousChunkSizes(t *testing.T) {
	stream := "data: first chunk of text\n\ndata: 第二の塊\n\ndata: third\n\n"
	want := []string{"first chunk of text", "第二の塊", "third"}
	for _, n := range []int{1, 2, 3, 5, 7, 16} {
		reader := NewReader(&chunkedReader{data: []byte(stream), n: n})
		assert.Equal(t, want, readAll(t, reader), "chunk size %d", n)
	}
}

func TestReaderReturnsEOFWhenStreamEnds(t *testing.T) {
	reader := NewReader(strings.NewReader("data: only\n\n"))
	_, err := reader.Next()
	assert.NoError(t, err)
	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderEmptyStream(t *testing.T) {
	reader := NewReader(strings.NewReader(""))
	_, err := reader.Next()
	assert.Equal(t, io.EOF, err)
}
