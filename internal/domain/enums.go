package domain

// ProviderID identifies one of the supported upstream LLM providers.
type ProviderID string

const (
	ProviderOpenAI ProviderID = "openai"
	ProviderClaude ProviderID = "claude"
	ProviderGemini ProviderID = "gemini"
)

// KnownProviders enumerates the valid provider identifiers.
var KnownProviders = map[ProviderID]bool{
	ProviderOpenAI: true,
	ProviderClaude: true,
	ProviderGemini: true,
}

// JobStatus represents the lifecycle of one summary job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusExtracting JobStatus = "extracting"
	JobStatusCalling    JobStatus = "calling"
	JobStatusComplete   JobStatus = "complete"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a job in this status will never change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusFailed
}

// FileType represents the allowed file types for batch input.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}
