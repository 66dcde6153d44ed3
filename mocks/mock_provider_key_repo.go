package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"briefer/internal/domain"
)

// MockProviderKeyRepo is a mock implementation of port.ProviderKeyRepository.
type MockProviderKeyRepo struct {
	mock.Mock
}

func (m *MockProviderKeyRepo) Get(ctx context.Context, userID uuid.UUID, provider domain.ProviderID) (string, error) {
	args := m.Called(ctx, userID, provider)
	return args.String(0), args.Error(1)
}
