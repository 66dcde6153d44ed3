// Package gemini streams summaries from the Google Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"briefer/internal/domain"
	"briefer/internal/port"
	"briefer/internal/provider"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel    = "gemini-2.0-flash"
)

func init() {
	provider.Register(domain.ProviderGemini, func(opts provider.Options) port.SummaryStreamer {
		return NewStreamer(opts)
	})
}

type protocol struct {
	opts provider.Options
}

// NewStreamer builds a Gemini-backed summary streamer. Gemini sends no
// explicit terminal record; the stream is complete when the connection
// closes cleanly.
func NewStreamer(opts provider.Options) *provider.Streamer {
	if opts.DefaultModel == "" {
		opts.DefaultModel = defaultModel
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	return provider.NewStreamer(domain.ProviderGemini, &protocol{opts: opts}, opts.Timeout)
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

type chunkResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *protocol) BuildRequest(ctx context.Context, req port.SummaryRequest) (*http.Request, error) {
	model := req.Model
	if model == "" {
		model = p.opts.DefaultModel
	}

	body := generateRequest{
		Contents: []content{
			{Parts: []part{
				{Text: req.Prompt},
				{Text: req.DocumentText},
			}},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: p.opts.MaxOutputTokens,
			Temperature:     p.opts.Temperature,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s:streamGenerateContent?alt=sse", p.opts.Endpoint, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.opts.APIKey)
	httpReq.Header.Set("Accept", "text/event-stream")
	return httpReq, nil
}

func (p *protocol) DecodeEvent(payload string) (domain.StreamEvent, bool) {
	var chunk chunkResponse
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return domain.StreamEvent{}, false
	}
	if chunk.Error != nil {
		return domain.StreamEvent{Kind: domain.EventError, Message: chunk.Error.Message}, true
	}
	if len(chunk.Candidates) == 0 {
		return domain.StreamEvent{}, false
	}

	var text string
	for _, pt := range chunk.Candidates[0].Content.Parts {
		text += pt.Text
	}
	if text == "" {
		return domain.StreamEvent{}, false
	}
	return domain.StreamEvent{Kind: domain.EventChunk, Text: text}, true
}
