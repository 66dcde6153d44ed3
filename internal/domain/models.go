package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job tracks one file through extraction and the LLM call to a terminal
// state. A job is mutated only by its own runner; the output accumulator
// grows monotonically until the job completes or is frozen on failure.
type Job struct {
	Filename      string    `json:"filename"`
	Status        JobStatus `json:"status"`
	StatusMessage string    `json:"status_message"`
	Output        string    `json:"output"`
}

// Batch is the persisted record of one run: an ordered set of jobs sharing
// one prompt and one provider configuration.
type Batch struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Provider  ProviderID `db:"provider" json:"provider"`
	Model     string     `db:"model" json:"model"`
	Prompt    string     `db:"prompt" json:"prompt"`
	CreatedBy *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Jobs      []BatchJob `db:"-" json:"jobs,omitempty"`
}

// BatchJob is the stored outcome of one job within a batch. Position
// matches the input file order at batch start.
type BatchJob struct {
	ID            uuid.UUID `db:"id" json:"id"`
	BatchID       uuid.UUID `db:"batch_id" json:"batch_id"`
	Position      int       `db:"position" json:"position"`
	Filename      string    `db:"filename" json:"filename"`
	Status        JobStatus `db:"status" json:"status"`
	StatusMessage string    `db:"status_message" json:"status_message"`
	Output        string    `db:"output" json:"output"`
}

// Prompt is a reusable named summary instruction owned by one user.
type Prompt struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated analyst account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ProviderKey is a per-user API key override for one provider. When a
// request carries no credential the environment-level default key is used
// instead.
type ProviderKey struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Provider  ProviderID `db:"provider" json:"provider"`
	APIKey    string     `db:"api_key" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
