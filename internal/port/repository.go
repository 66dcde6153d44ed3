package port

import (
	"context"

	"github.com/google/uuid"

	"briefer/internal/domain"
)

// UserRepository provides access to user accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// PromptRepository provides access to saved prompts.
type PromptRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Prompt, error)
	Upsert(ctx context.Context, prompt *domain.Prompt) error
	Delete(ctx context.Context, ownerID uuid.UUID, name string) error
}

// ProviderKeyRepository resolves per-user provider API key overrides.
type ProviderKeyRepository interface {
	// Get returns the stored API key for the user/provider pair, or
	// domain.ErrNotFound when the user has no override.
	Get(ctx context.Context, userID uuid.UUID, provider domain.ProviderID) (string, error)
}

// BatchRepository persists batch runs and their job outcomes.
type BatchRepository interface {
	Insert(ctx context.Context, batch *domain.Batch) error
	List(ctx context.Context, createdBy *uuid.UUID, limit, offset int) ([]domain.Batch, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
}
