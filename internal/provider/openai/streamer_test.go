package openai

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

	"briefer/internal/domain"
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

func TestStreamEmitsChunksUntilDoneSentinel(t *testing.T) {
	var gotBody []byte
	server := sseServer(t, func(r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)
	},
		`{"choices":[{"delta":{"content":"Hel"}}]}`,
		`{"choices":[{"delta":{"content":"lo, "}}]}`,
		`{"choices":[{"delta":{"content":"world"}}]}`,
		`[DONE]`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "sk-test", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo, ", "world"}, chunks)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &body))
	assert.Equal(t, defaultModel, body["model"])
	assert.Equal(t, true, body["stream"])
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "summarize", messages[0].(map[string]interface{})["content"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
}

func TestStreamUsesRequestModelOverride(t *testing.T) {
	server := sseServer(t, func(r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "gpt-4o", req["model"])
	}, `[DONE]`)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	req := defaultRequest()
	req.Model = "gpt-4o"
	_, err := collect(t, streamer, req)
	require.NoError(t, err)
}

func TestStreamSkipsMalformedRecords(t *testing.T) {
	server := sseServer(t, nil,
		`{"choices":[{"delta":{"content":"before"}}]}`,
		`{not json`,
		`{"choices":[{"delta":{"content":"after"}}]}`,
		`[DONE]`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "after"}, chunks)
}

func TestStreamSurfacesInStreamError(t *testing.T) {
	server := sseServer(t, nil,
		`{"choices":[{"delta":{"content":"partial"}}]}`,
		`{"error":{"message":"rate limited"}}`,
	)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	// Chunks seen before the error stay delivered.
	assert.Equal(t, []string{"partial"}, chunks)
}

func TestStreamTreatsEOFWithoutSentinelAsComplete(t *testing.T) {
	server := sseServer(t, nil, `{"choices":[{"delta":{"content":"all of it"}}]}`)
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"all of it"}, chunks)
}

func TestStreamRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	}))
	defer server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	chunks, err := collect(t, streamer, defaultRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, chunks)
}

func TestStreamFailsWhenServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	streamer := NewStreamer(provider.Options{APIKey: "k", Endpoint: server.URL})
	_, err := collect(t, streamer, defaultRequest())
	assert.Error(t, err)
}

func TestStreamRequiresPrompt(t *testing.T) {
	streamer := NewStreamer(provider.Options{APIKey: "k"})
	_, err := collect(t, streamer, port.SummaryRequest{DocumentText: "text"})
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
}

func TestFactoryRegistration(t *testing.T) {
	streamer, err := provider.New(domain.ProviderOpenAI, provider.Options{APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, streamer)

	_, err = provider.New("mystery", provider.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}
