package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"briefer/internal/batch"
	"briefer/internal/config"
	"briefer/internal/domain"
	"briefer/internal/port"
	"briefer/internal/provider"
)

// SummarizeInput is one transcript summary request. Either Text carries the
// already-extracted document text, or Data carries a PDF to extract from.
type SummarizeInput struct {
	Provider domain.ProviderID
	Model    string
	Prompt   string
	Text     string
	Filename string
	Data     []byte
	// UserID, when set, enables per-user provider key overrides.
	UserID *uuid.UUID
}

// BatchInput is one batch summary request over multiple transcripts.
type BatchInput struct {
	Provider  domain.ProviderID
	Model     string
	Prompt    string
	Files     []batch.File
	CreatedBy *uuid.UUID
}

// SummaryService runs single and batched transcript summaries.
type SummaryService interface {
	StreamSummary(ctx context.Context, input SummarizeInput, emit func(chunk string)) error
	RunBatch(ctx context.Context, input BatchInput, observer batch.Observer) (*domain.Batch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	ListBatches(ctx context.Context, createdBy *uuid.UUID, limit, offset int) ([]domain.Batch, int, error)
}

type summaryService struct {
	cfg       *config.Config
	extractor port.TextExtractor
	keyRepo   port.ProviderKeyRepository
	batchRepo port.BatchRepository
	storage   port.ObjectStorage
}

// NewSummaryService creates a new SummaryService. storage may be nil, in
// which case uploaded transcripts are not archived.
func NewSummaryService(
	cfg *config.Config,
	extractor port.TextExtractor,
	keyRepo port.ProviderKeyRepository,
	batchRepo port.BatchRepository,
	storage port.ObjectStorage,
) SummaryService {
	return &summaryService{
		cfg:       cfg,
		extractor: extractor,
		keyRepo:   keyRepo,
		batchRepo: batchRepo,
		storage:   storage,
	}
}

func (s *summaryService) StreamSummary(ctx context.Context, input SummarizeInput, emit func(chunk string)) error {
	if strings.TrimSpace(input.Prompt) == "" {
		return domain.ErrEmptyPrompt
	}

	streamer, err := s.resolveStreamer(ctx, input.Provider, input.UserID)
	if err != nil {
		return err
	}

	text := input.Text
	if text == "" {
		text, err = s.extractor.Extract(ctx, input.Data)
		if err != nil {
			return fmt.Errorf("extract %s: %w", input.Filename, err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyText
	}

	return streamer.Stream(ctx, port.SummaryRequest{
		Prompt:       input.Prompt,
		DocumentText: text,
		Model:        input.Model,
	}, emit)
}

func (s *summaryService) RunBatch(ctx context.Context, input BatchInput, observer batch.Observer) (*domain.Batch, error) {
	streamer, err := s.resolveStreamer(ctx, input.Provider, input.CreatedBy)
	if err != nil {
		return nil, err
	}

	coord, err := batch.NewCoordinator(batch.Config{
		Extractor:  s.extractor,
		Streamer:   streamer,
		Prompt:     input.Prompt,
		Model:      input.Model,
		JobTimeout: time.Duration(s.cfg.Batch.JobTimeoutSecs) * time.Second,
	}, input.Files, observer)
	if err != nil {
		return nil, err
	}

	jobs := coord.Run(ctx)

	record := &domain.Batch{
		Provider:  input.Provider,
		Model:     s.effectiveModel(input.Provider, input.Model),
		Prompt:    input.Prompt,
		CreatedBy: input.CreatedBy,
	}
	record.Jobs = make([]domain.BatchJob, len(jobs))
	for i, job := range jobs {
		record.Jobs[i] = domain.BatchJob{
			Position:      i,
			Filename:      job.Filename,
			Status:        job.Status,
			StatusMessage: job.StatusMessage,
			Output:        job.Output,
		}
	}

	if err := s.batchRepo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	s.archive(record.ID, input.Files)
	return record, nil
}

func (s *summaryService) GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	return s.batchRepo.GetByID(ctx, id)
}

func (s *summaryService) ListBatches(ctx context.Context, createdBy *uuid.UUID, limit, offset int) ([]domain.Batch, int, error) {
	return s.batchRepo.List(ctx, createdBy, limit, offset)
}

// resolveStreamer builds a streamer for the provider, preferring the user's
// stored API key over the environment default.
func (s *summaryService) resolveStreamer(ctx context.Context, name domain.ProviderID, userID *uuid.UUID) (port.SummaryStreamer, error) {
	pcfg := s.cfg.Providers.For(string(name))
	if pcfg == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, name)
	}

	apiKey := pcfg.APIKey
	if userID != nil && s.keyRepo != nil {
		key, err := s.keyRepo.Get(ctx, *userID, name)
		switch {
		case err == nil:
			apiKey = key
		case errors.Is(err, domain.ErrNotFound):
			// fall back to the configured default key
		default:
			return nil, fmt.Errorf("resolve provider key: %w", err)
		}
	}

	return provider.New(name, provider.Options{
		APIKey:          apiKey,
		DefaultModel:    pcfg.DefaultModel,
		Timeout:         time.Duration(pcfg.TimeoutSecs) * time.Second,
		MaxOutputTokens: s.cfg.Generation.MaxOutputTokens,
		Temperature:     s.cfg.Generation.Temperature,
	})
}

func (s *summaryService) effectiveModel(name domain.ProviderID, model string) string {
	if model != "" {
		return model
	}
	if pcfg := s.cfg.Providers.For(string(name)); pcfg != nil {
		return pcfg.DefaultModel
	}
	return ""
}

// archive copies the uploaded transcripts to object storage in the
// background. Archive failures are logged and never affect the batch result.
func (s *summaryService) archive(batchID uuid.UUID, files []batch.File) {
	if s.storage == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		for _, f := range files {
			key := fmt.Sprintf("transcripts/%s/%s", batchID, f.Name)
			if err := s.storage.Upload(ctx, key, bytes.NewReader(f.Data), "application/pdf"); err != nil {
				log.Printf("[WARN] archive %s: %v", key, err)
			}
		}
	}()
}
