package port

import "context"

// SummaryRequest is the provider-independent input of one summary call.
type SummaryRequest struct {
	// Prompt is the summary instruction.
	Prompt string
	// DocumentText is the extracted transcript text to summarize.
	DocumentText string
	// Model overrides the provider's default model when non-empty.
	Model string
}

// SummaryStreamer produces a summary incrementally. Implementations call
// emit once per text chunk, in arrival order, from a single goroutine.
// A nil return means the stream terminated normally; any error means the
// request was rejected or the stream ended with an upstream error, and
// chunks emitted before the error remain valid partial output.
type SummaryStreamer interface {
	Stream(ctx context.Context, req SummaryRequest, emit func(chunk string)) error
}
