package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"briefer/internal/middleware"
	"briefer/internal/service"
)

// PromptHandler handles saved prompt endpoints.
type PromptHandler struct {
	promptService service.PromptService
}

// NewPromptHandler creates a new PromptHandler.
func NewPromptHandler(promptService service.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// List handles GET /api/v1/prompts.
func (h *PromptHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	prompts, err := h.promptService.List(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, prompts)
}

// Save handles PUT /api/v1/prompts/:name with overwrite-by-name semantics.
func (h *PromptHandler) Save(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	input := service.SavePromptInput{Name: c.Param("name"), Text: body.Text}
	prompt, err := h.promptService.Save(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, prompt)
}

// Delete handles DELETE /api/v1/prompts/:name.
func (h *PromptHandler) Delete(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	if err := h.promptService.Delete(c.Request.Context(), userID, c.Param("name")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
