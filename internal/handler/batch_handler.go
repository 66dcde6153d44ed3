package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"briefer/internal/batch"
	"briefer/internal/config"
	"briefer/internal/domain"
	"briefer/internal/middleware"
	"briefer/internal/service"
)

// BatchHandler runs batches of transcript summaries and serves batch history.
type BatchHandler struct {
	summaryService service.SummaryService
	uploadCfg      config.UploadConfig
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(summaryService service.SummaryService, uploadCfg config.UploadConfig) *BatchHandler {
	return &BatchHandler{summaryService: summaryService, uploadCfg: uploadCfg}
}

// statusRecord is one streamed job status transition.
type statusRecord struct {
	Index         int    `json:"index"`
	Filename      string `json:"filename"`
	Status        string `json:"status"`
	StatusMessage string `json:"status_message,omitempty"`
}

// jobChunkRecord is one streamed text increment attributed to a job.
type jobChunkRecord struct {
	Index int    `json:"index"`
	Chunk string `json:"chunk"`
}

// batchDoneRecord closes the stream with the persisted batch result.
type batchDoneRecord struct {
	Done    bool             `json:"done"`
	BatchID uuid.UUID        `json:"batch_id"`
	Jobs    []domain.BatchJob `json:"jobs"`
}

// Run handles POST /api/v1/batches. The request is multipart form data
// with one or more "files" PDFs, a "prompt" field and a "provider" field;
// "model_name" is optional. After validation the response is an SSE stream of
// per-job status transitions and text increments, closed by a done record
// carrying the persisted batch.
func (h *BatchHandler) Run(c *gin.Context) {
	providerName := domain.ProviderID(strings.ToLower(strings.TrimSpace(c.PostForm("provider"))))
	if !domain.KnownProviders[providerName] {
		HandleError(c, domain.ErrUnknownProvider)
		return
	}

	prompt := c.PostForm("prompt")
	if strings.TrimSpace(prompt) == "" {
		HandleError(c, domain.ErrEmptyPrompt)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "could not parse multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		HandleError(c, domain.ErrEmptyBatch)
		return
	}
	if len(headers) > h.uploadCfg.MaxFiles {
		RespondError(c, http.StatusBadRequest, "TOO_MANY_FILES",
			fmt.Sprintf("at most %d files per batch", h.uploadCfg.MaxFiles))
		return
	}

	files := make([]batch.File, 0, len(headers))
	for _, header := range headers {
		data, err := readUpload(header, h.uploadCfg)
		if err != nil {
			HandleError(c, err)
			return
		}
		files = append(files, batch.File{Name: header.Filename, Data: data})
	}

	input := service.BatchInput{
		Provider:  providerName,
		Model:     c.PostForm("model_name"),
		Prompt:    prompt,
		Files:     files,
		CreatedBy: middleware.OptionalUserID(c),
	}

	stream := newSSEWriter(c)
	record, err := h.summaryService.RunBatch(c.Request.Context(), input, func(u batch.Update) {
		if u.Chunk != "" {
			stream.Send(jobChunkRecord{Index: u.Index, Chunk: u.Chunk})
			return
		}
		stream.Send(statusRecord{
			Index:         u.Index,
			Filename:      u.Job.Filename,
			Status:        string(u.Job.Status),
			StatusMessage: u.Job.StatusMessage,
		})
	})
	if err != nil {
		stream.Send(errorRecord{Error: err.Error()})
		return
	}
	stream.Send(batchDoneRecord{Done: true, BatchID: record.ID, Jobs: record.Jobs})
}

// List handles GET /api/v1/batches.
func (h *BatchHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	batches, total, err := h.summaryService.ListBatches(c.Request.Context(), middleware.OptionalUserID(c), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, batches, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/batches/:id.
func (h *BatchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch id")
		return
	}

	record, err := h.summaryService.GetBatch(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// Export handles GET /api/v1/batches/:id/export. It returns the batch
// results as an xlsx workbook with one row per job.
func (h *BatchHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch id")
		return
	}

	record, err := h.summaryService.GetBatch(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Summaries"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Position", "Filename", "Status", "Status Message", "Summary"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hdr)
	}
	for row, job := range record.Jobs {
		values := []interface{}{job.Position, job.Filename, string(job.Status), job.StatusMessage, job.Output}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="batch-%s.xlsx"`, record.ID))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] export write: %v", requestID, err)
	}
}
