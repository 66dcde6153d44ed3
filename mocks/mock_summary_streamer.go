package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"briefer/internal/port"
)

// MockSummaryStreamer is a mock implementation of port.SummaryStreamer.
type MockSummaryStreamer struct {
	mock.Mock
}

func (m *MockSummaryStreamer) Stream(ctx context.Context, req port.SummaryRequest, emit func(chunk string)) error {
	args := m.Called(ctx, req, emit)
	return args.Error(0)
}
