package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"briefer/internal/domain"
	"briefer/internal/port"
)

type promptRepo struct {
	db *sqlx.DB
}

// NewPromptRepo creates a new PostgreSQL-backed PromptRepository.
func NewPromptRepo(db *sqlx.DB) port.PromptRepository {
	return &promptRepo{db: db}
}

func (r *promptRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Prompt, error) {
	var prompts []domain.Prompt
	err := r.db.SelectContext(ctx, &prompts,
		"SELECT * FROM prompts WHERE owner_id = $1 ORDER BY name", ownerID)
	if err != nil {
		return nil, fmt.Errorf("promptRepo.ListByOwner: %w", err)
	}
	return prompts, nil
}

func (r *promptRepo) Upsert(ctx context.Context, prompt *domain.Prompt) error {
	now := time.Now().UTC()
	if prompt.ID == uuid.Nil {
		prompt.ID = uuid.New()
	}
	prompt.CreatedAt = now
	prompt.UpdatedAt = now

	query := `INSERT INTO prompts (id, owner_id, name, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, name)
		DO UPDATE SET text = EXCLUDED.text, updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		prompt.ID, prompt.OwnerID, prompt.Name, prompt.Text, prompt.CreatedAt, prompt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("promptRepo.Upsert: %w", err)
	}
	return nil
}

func (r *promptRepo) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM prompts WHERE owner_id = $1 AND name = $2", ownerID, name)
	if err != nil {
		return fmt.Errorf("promptRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
