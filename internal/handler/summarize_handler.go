package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"briefer/internal/config"
	"briefer/internal/domain"
	"briefer/internal/middleware"
	"briefer/internal/service"
)

// SummarizeHandler streams a single transcript summary over SSE.
type SummarizeHandler struct {
	summaryService service.SummaryService
	uploadCfg      config.UploadConfig
}

// NewSummarizeHandler creates a new SummarizeHandler.
func NewSummarizeHandler(summaryService service.SummaryService, uploadCfg config.UploadConfig) *SummarizeHandler {
	return &SummarizeHandler{summaryService: summaryService, uploadCfg: uploadCfg}
}

// chunkRecord is one streamed text increment.
type chunkRecord struct {
	Chunk string `json:"chunk"`
}

// doneRecord marks normal completion of the stream.
type doneRecord struct {
	Done bool `json:"done"`
}

// errorRecord reports a failure after streaming has started.
type errorRecord struct {
	Error string `json:"error"`
}

// summarizeRequest is the JSON body of a summarize call over pre-extracted
// text.
type summarizeRequest struct {
	Provider  string `json:"provider"`
	Prompt    string `json:"prompt"`
	Text      string `json:"text"`
	ModelName string `json:"model_name"`
}

// Summarize handles POST /api/v1/summarize. A JSON body carries
// {provider, prompt, text, model_name?} with pre-extracted document text;
// a multipart body carries the same fields plus a "file" PDF in place of
// "text". Validation failures return plain JSON errors before any upstream
// call; once the input passes validation the response switches to an SSE
// stream of chunk records ending in a done or error record.
func (h *SummarizeHandler) Summarize(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	stream := newSSEWriter(c)
	err := h.summaryService.StreamSummary(c.Request.Context(), input, func(chunk string) {
		stream.Send(chunkRecord{Chunk: chunk})
	})
	if err != nil {
		stream.Send(errorRecord{Error: err.Error()})
		return
	}
	stream.Send(doneRecord{Done: true})
}

// bindInput validates either body shape into a SummarizeInput. When it
// returns ok=false an error response has already been written.
func (h *SummarizeHandler) bindInput(c *gin.Context) (service.SummarizeInput, bool) {
	input := service.SummarizeInput{UserID: middleware.OptionalUserID(c)}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req summarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return input, false
		}
		input.Provider = domain.ProviderID(strings.ToLower(strings.TrimSpace(req.Provider)))
		input.Prompt = req.Prompt
		input.Text = req.Text
		input.Model = req.ModelName
		if !h.validateCommon(c, input.Provider, input.Prompt) {
			return input, false
		}
		if strings.TrimSpace(input.Text) == "" {
			HandleError(c, domain.ErrEmptyText)
			return input, false
		}
		return input, true
	}

	input.Provider = domain.ProviderID(strings.ToLower(strings.TrimSpace(c.PostForm("provider"))))
	input.Prompt = c.PostForm("prompt")
	input.Model = c.PostForm("model_name")
	if !h.validateCommon(c, input.Provider, input.Prompt) {
		return input, false
	}

	if text := c.PostForm("text"); strings.TrimSpace(text) != "" {
		input.Text = text
		return input, true
	}

	_, header, err := c.Request.FormFile("file")
	if err != nil {
		HandleError(c, domain.ErrEmptyText)
		return input, false
	}
	data, err := readUpload(header, h.uploadCfg)
	if err != nil {
		HandleError(c, err)
		return input, false
	}
	input.Filename = header.Filename
	input.Data = data
	return input, true
}

func (h *SummarizeHandler) validateCommon(c *gin.Context, provider domain.ProviderID, prompt string) bool {
	if !domain.KnownProviders[provider] {
		HandleError(c, domain.ErrUnknownProvider)
		return false
	}
	if strings.TrimSpace(prompt) == "" {
		HandleError(c, domain.ErrEmptyPrompt)
		return false
	}
	return true
}
