package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"briefer/internal/domain"
	"briefer/internal/port"
)

type providerKeyRepo struct {
	db *sqlx.DB
}

// NewProviderKeyRepo creates a new PostgreSQL-backed ProviderKeyRepository.
func NewProviderKeyRepo(db *sqlx.DB) port.ProviderKeyRepository {
	return &providerKeyRepo{db: db}
}

func (r *providerKeyRepo) Get(ctx context.Context, userID uuid.UUID, provider domain.ProviderID) (string, error) {
	var key string
	err := r.db.GetContext(ctx, &key,
		"SELECT api_key FROM provider_keys WHERE user_id = $1 AND provider = $2",
		userID, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("providerKeyRepo.Get: %w", err)
	}
	return key, nil
}
