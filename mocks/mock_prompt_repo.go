package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"briefer/internal/domain"
)

// MockPromptRepo is a mock implementation of port.PromptRepository.
type MockPromptRepo struct {
	mock.Mock
}

func (m *MockPromptRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Prompt, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prompt), args.Error(1)
}

func (m *MockPromptRepo) Upsert(ctx context.Context, prompt *domain.Prompt) error {
	args := m.Called(ctx, prompt)
	return args.Error(0)
}

func (m *MockPromptRepo) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	args := m.Called(ctx, ownerID, name)
	return args.Error(0)
}
