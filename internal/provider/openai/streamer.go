// Package openai streams summaries from the OpenAI chat completions API.
package openai

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
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4o-mini"

	// doneSentinel is the literal payload OpenAI sends as its final record.
	doneSentinel = "[DONE]"
)

func init() {
	provider.Register(domain.ProviderOpenAI, func(opts provider.Options) port.SummaryStreamer {
		return NewStreamer(opts)
	})
}

type protocol struct {
	opts provider.Options
}

// NewStreamer builds an OpenAI-backed summary streamer.
func NewStreamer(opts provider.Options) *provider.Streamer {
	if opts.DefaultModel == "" {
		opts.DefaultModel = defaultModel
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	return provider.NewStreamer(domain.ProviderOpenAI, &protocol{opts: opts}, opts.Timeout)
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	Temperature         float64       `json:"temperature"`
	Stream              bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chunkResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *protocol) BuildRequest(ctx context.Context, req port.SummaryRequest) (*http.Request, error) {
	model := req.Model
	if model == "" {
		model = p.opts.DefaultModel
	}

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.Prompt},
			{Role: "user", Content: req.DocumentText},
		},
		MaxCompletionTokens: p.opts.MaxOutputTokens,
		Temperature:         p.opts.Temperature,
		Stream:              true,
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
	httpReq.Header.Set("Authorization", "Bearer "+p.opts.APIKey)
	httpReq.Header.Set("Accept", "text/event-stream")
	return httpReq, nil
}

func (p *protocol) DecodeEvent(payload string) (domain.StreamEvent, bool) {
	if payload == doneSentinel {
		return domain.StreamEvent{Kind: domain.EventDone}, true
	}

	var chunk chunkResponse
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		// Skip records that do not parse; the stream continues.
		return domain.StreamEvent{}, false
	}
	if chunk.Error != nil {
		return domain.StreamEvent{Kind: domain.EventError, Message: chunk.Error.Message}, true
	}
	if len(chunk.Choices) == 0 {
		return domain.StreamEvent{}, false
	}
	return domain.StreamEvent{Kind: domain.EventChunk, Text: chunk.Choices[0].Delta.Content}, true
}
