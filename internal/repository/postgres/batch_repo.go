package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"briefer/internal/domain"
	"briefer/internal/port"
)

type batchRepo struct {
	db *sqlx.DB
}

// NewBatchRepo creates a new PostgreSQL-backed BatchRepository.
func NewBatchRepo(db *sqlx.DB) port.BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) Insert(ctx context.Context, batch *domain.Batch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batchRepo.Insert begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, provider, model, prompt, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		batch.ID, batch.Provider, batch.Model, batch.Prompt, batch.CreatedBy, batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("batchRepo.Insert batch: %w", err)
	}

	for i := range batch.Jobs {
		job := &batch.Jobs[i]
		if job.ID == uuid.Nil {
			job.ID = uuid.New()
		}
		job.BatchID = batch.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_jobs (id, batch_id, position, filename, status, status_message, output)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			job.ID, job.BatchID, job.Position, job.Filename, job.Status, job.StatusMessage, job.Output)
		if err != nil {
			return fmt.Errorf("batchRepo.Insert job %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batchRepo.Insert commit: %w", err)
	}
	return nil
}

func (r *batchRepo) List(ctx context.Context, createdBy *uuid.UUID, limit, offset int) ([]domain.Batch, int, error) {
	var total int
	var batches []domain.Batch

	if createdBy != nil {
		err := r.db.GetContext(ctx, &total,
			"SELECT COUNT(*) FROM batches WHERE created_by = $1", createdBy)
		if err != nil {
			return nil, 0, fmt.Errorf("batchRepo.List count: %w", err)
		}
		err = r.db.SelectContext(ctx, &batches,
			"SELECT * FROM batches WHERE created_by = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
			createdBy, limit, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("batchRepo.List: %w", err)
		}
		return batches, total, nil
	}

	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM batches")
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List count: %w", err)
	}
	err = r.db.SelectContext(ctx, &batches,
		"SELECT * FROM batches ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List: %w", err)
	}
	return batches, total, nil
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.db.GetContext(ctx, &batch,
		"SELECT * FROM batches WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("batchRepo.GetByID: %w", err)
	}

	err = r.db.SelectContext(ctx, &batch.Jobs,
		"SELECT * FROM batch_jobs WHERE batch_id = $1 ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("batchRepo.GetByID jobs: %w", err)
	}
	return &batch, nil
}
