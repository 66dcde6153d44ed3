package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// sseWriter sends JSON payloads as server-sent event records, flushing
// after each write so clients see output as it arrives.
type sseWriter struct {
	w       gin.ResponseWriter
	flusher http.Flusher
}

// newSSEWriter sets the streaming headers and commits the response. All
// request validation must happen before calling this; once the stream has
// started, errors can only be reported as in-stream records.
func newSSEWriter(c *gin.Context) *sseWriter {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	return &sseWriter{w: c.Writer, flusher: flusher}
}

// Send writes one SSE record carrying the JSON encoding of v.
func (s *sseWriter) Send(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "data: %s\n\n", payload)
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
