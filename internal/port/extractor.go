package port

import "context"

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	// Extract returns the full text of the document in page order.
	// An empty result is not an error; downstream callers decide
	// whether empty text is acceptable.
	Extract(ctx context.Context, data []byte) (string, error)
}
