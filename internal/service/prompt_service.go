package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"briefer/internal/domain"
	"briefer/internal/port"
)

// SavePromptInput is the DTO for saving a named prompt.
type SavePromptInput struct {
	Name string `json:"name" binding:"required,max=120"`
	Text string `json:"text" binding:"required"`
}

// PromptService manages a user's saved prompts.
type PromptService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Prompt, error)
	Save(ctx context.Context, ownerID uuid.UUID, input SavePromptInput) (*domain.Prompt, error)
	Delete(ctx context.Context, ownerID uuid.UUID, name string) error
}

type promptService struct {
	repo port.PromptRepository
}

// NewPromptService creates a new PromptService implementation.
func NewPromptService(repo port.PromptRepository) PromptService {
	return &promptService{repo: repo}
}

func (s *promptService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Prompt, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *promptService) Save(ctx context.Context, ownerID uuid.UUID, input SavePromptInput) (*domain.Prompt, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	prompt := &domain.Prompt{
		OwnerID: ownerID,
		Name:    strings.TrimSpace(input.Name),
		Text:    input.Text,
	}
	if err := s.repo.Upsert(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *promptService) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	return s.repo.Delete(ctx, ownerID, name)
}
