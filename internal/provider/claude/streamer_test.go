package claude

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

func TestStreamEmitsDeltasUntilMessageStop(t *testing.T) {
	var gotBody []byte
	server := sseServer(t, func(r *http.Request) {
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		gotBody, _ = io.ReadAll(r.Body)
	},
		`{"type":"message_start"}`,
		`{"type":"content_block_start"}`,
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"Hel"}}`,
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"lo"}}`,
		`{"type":"content_block_stop"}`,
		`{"type":"message_stop"}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "sk-ant-test", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, chunks)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &body))
	assert.Equal(t, defaultModel, body["model"])
	assert.Equal(t, "summarize", body["system"])
	assert.Equal(t, true, body["stream"])
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "the transcript", messages[0].(map[string]interface{})["content"])
}

func TestStreamIgnoresPingAndNonTextDeltas(t *testing.T) {
	server := sseServer(t, nil,
		`{"type":"ping"}`,
		`{"type":"content_block_delta","delta":{"type":"input_json_delta","partial_json":"{"}}`,
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"only this"}}`,
		`{"type":"message_stop"}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"only this"}, chunks)
}

func TestStreamSkipsMalformedRecords(t *testing.T) {
	server := sseServer(t, nil,
		`%%garbage%%`,
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"kept"}}`,
		`{"type":"message_stop"}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, chunks)
}

func TestStreamSurfacesErrorEvent(t *testing.T) {
	server := sseServer(t, nil,
		`{"type":"content_block_delta","delta":{"type":"text_delta","text":"partial"}}`,
		`{"type":"error","error":{"message":"overloaded_error"}}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error")
	assert.Equal(t, []string{"partial"}, chunks)
}

func TestStreamRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"type":"error","error":{"message":"invalid api key"}}`)
	}))
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "bad", Endpoint: server.URL})
	_, err := collect(t, streamer, defaultRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "invalid api key")
}
