package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"briefer/internal/domain"
	"briefer/internal/service"
	"briefer/mocks"
)

func TestPromptSaveTrimsNameAndUpserts(t *testing.T) {
	ownerID := uuid.New()
	repo := new(mocks.MockPromptRepo)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.Prompt) bool {
		return p.OwnerID == ownerID && p.Name == "weekly recap" && p.Text == "Summarize the call."
	})).Return(nil)

	svc := service.NewPromptService(repo)
	prompt, err := svc.Save(context.Background(), ownerID, service.SavePromptInput{
		Name: "  weekly recap  ",
		Text: "Summarize the call.",
	})
	require.NoError(t, err)
	assert.Equal(t, "weekly recap", prompt.Name)
	repo.AssertExpectations(t)
}

func TestPromptSaveRejectsBlankText(t *testing.T) {
	svc := service.NewPromptService(new(mocks.MockPromptRepo))
	_, err := svc.Save(context.Background(), uuid.New(), service.SavePromptInput{Name: "x", Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
}

func TestPromptList(t *testing.T) {
	ownerID := uuid.New()
	stored := []domain.Prompt{{Name: "a"}, {Name: "b"}}
	repo := new(mocks.MockPromptRepo)
	repo.On("ListByOwner", mock.Anything, ownerID).Return(stored, nil)

	svc := service.NewPromptService(repo)
	prompts, err := svc.List(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, stored, prompts)
}

func TestPromptDeletePropagatesNotFound(t *testing.T) {
	ownerID := uuid.New()
	repo := new(mocks.MockPromptRepo)
	repo.On("Delete", mock.Anything, ownerID, "missing").Return(domain.ErrNotFound)

	svc := service.NewPromptService(repo)
	err := svc.Delete(context.Background(), ownerID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
