package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefer/internal/port"
	"briefer/internal/provider"
)

func sseServer(t *testing.T, check func(r *http.Request), records ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, rec := range records {
			fmt.Fprintf(w, "data: %s\n\n", rec)
		}
	}))
}

func collect(t *testing.T, streamer port.SummaryStreamer, req port.SummaryRequest) ([]string, error) {
	t.Helper()
	var chunks []string
	err := streamer.Stream(context.Background(), req, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	return chunks, err
}

func defaultRequest() port.SummaryRequest {
	return port.SummaryRequest{Prompt: "summarize", DocumentText: "the transcript"}
}

// Gemini has no terminal record; a clean connection close ends the stream.
func TestStreamCompletesOnConnectionClose(t *testing.T) {
	var gotBody []byte
	server := sseServer(t, func(r *http.Request) {
		assert.Equal(t, "goog-key", r.Header.Get("x-goog-api-key"))
		assert.Contains(t, r.URL.Path, defaultModel+":streamGenerateContent")
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		gotBody, _ = io.ReadAll(r.Body)
	},
		`{"candidates":[{"content":{"parts":[{"text":"Hel"}]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":"lo, "},{"text":"world"}]}}]}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "goog-key", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo, world"}, chunks)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &body))
	contents := body["contents"].([]interface{})
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	require.Len(t, parts, 2)
	assert.Equal(t, "summarize", parts[0].(map[string]interface{})["text"])
	assert.Equal(t, "the transcript", parts[1].(map[string]interface{})["text"])
}

func TestStreamUsesRequestModelInURL(t *testing.T) {
	server := sseServer(t, func(r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-pro:streamGenerateContent")
	})
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	req := defaultRequest()
	req.Model = "gemini-2.5-pro"
	_, err := collect(t, streamer, req)
	require.NoError(t, err)
}

func TestStreamSkipsMalformedAndEmptyRecords(t *testing.T) {
	server := sseServer(t, nil,
		`not-json`,
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":"kept"}]}}]}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, chunks)
}

func TestStreamSurfacesErrorRecord(t *testing.T) {
	server := sseServer(t, nil,
		`{"candidates":[{"content":{"parts":[{"text":"partial"}]}}]}`,
		`{"error":{"message":"resource exhausted"}}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource exhausted")
	assert.Equal(t, []string{"partial"}, chunks)
}

func TestStreamRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"permission denied"}}`)
	}))
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	_, err := collect(t, streamer, defaultRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "permission denied")
}
