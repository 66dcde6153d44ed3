// Package claude streams summaries from the Anthropic messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"briefer/internal/domain"
	"briefer/internal/port"
	"briefer/internal/provider"
)

const (
	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-sonnet-4-20250514"
	anthropicVersion = "2023-06-01"
)

func init() {
	provider.Register(domain.ProviderClaude, func(opts provider.Options) port.SummaryStreamer {
		return NewStreamer(opts)
	})
}

type protocol struct {
	opts provider.Options
}

// NewStreamer builds a Claude-backed summary streamer.
func NewStreamer(opts provider.Options) *provider.Streamer {
	if opts.DefaultModel == "" {
		opts.DefaultModel = defaultModel
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	return provider.NewStreamer(domain.ProviderClaude, &protocol{opts: opts}, opts.Timeout)
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamEvent covers the event types the messages stream can carry. Types
// other than content_block_delta, message_stop and error are ignored.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *protocol) BuildRequest(ctx context.Context, req port.SummaryRequest) (*http.Request, error) {
	model := req.Model
	if model == "" {
		model = p.opts.DefaultModel
	}

	body := messagesRequest{
		Model:  model,
		System: req.Prompt,
		Messages: []message{
			{Role: "user", Content: req.DocumentText},
		},
		MaxTokens:   p.opts.MaxOutputTokens,
		Temperature: p.opts.Temperature,
		Stream:      true,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.opts.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Accept", "text/event-stream")
	return httpReq, nil
}

func (p *protocol) DecodeEvent(payload string) (domain.StreamEvent, bool) {
	var event streamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return domain.StreamEvent{}, false
	}

	switch event.Type {
	case "content_block_delta":
		if event.Delta.Type != "text_delta" {
			return domain.StreamEvent{}, false
		}
		return domain.StreamEvent{Kind: domain.EventChunk, Text: event.Delta.Text}, true
	case "message_stop":
		return domain.StreamEvent{Kind: domain.EventDone}, true
	case "error":
		return domain.StreamEvent{Kind: domain.EventError, Message: event.Error.Message}, true
	default:
		// message_start, content_block_start, ping and friends.
		return domain.StreamEvent{}, false
	}
}
