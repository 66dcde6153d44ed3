// Package provider normalizes the streaming APIs of the supported LLM
// vendors behind a single SummaryStreamer implementation. Each vendor
// contributes a Protocol that knows its request shape and event envelope;
// the run loop, error surface and termination rules are shared.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"briefer/internal/domain"
	"briefer/internal/port"
	"briefer/internal/provider/sse"
)

// Options configures one provider streamer instance.
type Options struct {
	// APIKey authenticates against the provider.
	APIKey string
	// DefaultModel is used when a request does not name a model.
	DefaultModel string
	// Endpoint overrides the provider's production base URL when non-empty.
	Endpoint string
	// Timeout bounds the whole HTTP exchange including streaming. Zero
	// means no client-side limit.
	Timeout time.Duration
	// MaxOutputTokens caps the generated summary length.
	MaxOutputTokens int
	// Temperature is passed through to the provider unchanged.
	Temperature float64
}

// Protocol captures what differs between provider wire formats: how to
// build the request and how to decode one SSE payload into a normalized
// event. DecodeEvent returns ok=false for payloads that carry no event,
// such as metadata records or malformed JSON, and the caller skips them.
type Protocol interface {
	BuildRequest(ctx context.Context, req port.SummaryRequest) (*http.Request, error)
	DecodeEvent(payload string) (domain.StreamEvent, bool)
}

// Streamer runs the shared streaming loop over a vendor Protocol. It
// implements port.SummaryStreamer.
type Streamer struct {
	name     domain.ProviderID
	protocol Protocol
	client   *http.Client
}

// NewStreamer builds a Streamer for the given protocol.
func NewStreamer(name domain.ProviderID, protocol Protocol, timeout time.Duration) *Streamer {
	return &Streamer{
		name:     name,
		protocol: protocol,
		client:   &http.Client{Timeout: timeout},
	}
}

// Stream sends the summary request and forwards each decoded text chunk to
// emit in arrival order. A stream that ends without an explicit terminal
// event is treated as complete: everything decoded so far is valid output.
func (s *Streamer) Stream(ctx context.Context, req port.SummaryRequest, emit func(chunk string)) error {
	// Empty document text is allowed through; extraction problems are the
	// caller's concern.
	if req.Prompt == "" {
		return domain.ErrEmptyPrompt
	}

	httpReq, err := s.protocol.BuildRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", s.name, err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: unexpected status %d: %s", s.name, resp.StatusCode, string(body))
	}

	reader := sse.NewReader(resp.Body)
	for {
		payload, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: read stream: %w", s.name, err)
		}

		event, ok := s.protocol.DecodeEvent(payload)
		if !ok {
			continue
		}
		switch event.Kind {
		case domain.EventChunk:
			if event.Text != "" {
				emit(event.Text)
			}
		case domain.EventDone:
			return nil
		case domain.EventError:
			return fmt.Errorf("%s: stream error: %s", s.name, event.Message)
		}
	}
}
