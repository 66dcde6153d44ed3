package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"briefer/internal/batch"
	"briefer/internal/domain"
	"briefer/internal/service"
)

// MockSummaryService is a mock implementation of service.SummaryService.
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) StreamSummary(ctx context.Context, input service.SummarizeInput, emit func(chunk string)) error {
	args := m.Called(ctx, input, emit)
	return args.Error(0)
}

func (m *MockSummaryService) RunBatch(ctx context.Context, input service.BatchInput, observer batch.Observer) (*domain.Batch, error) {
	args := m.Called(ctx, input, observer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockSummaryService) GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockSummaryService) ListBatches(ctx context.Context, createdBy *uuid.UUID, limit, offset int) ([]domain.Batch, int, error) {
	args := m.Called(ctx, createdBy, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Batch), args.Int(1), args.Error(2)
}
