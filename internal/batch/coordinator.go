// Package batch fans a set of transcript files out to concurrent summary
// jobs and collects per-file results in input order.
package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"briefer/internal/domain"
	"briefer/internal/port"
)

// File is one uploaded transcript queued for summarization.
type File struct {
	Name string
	Data []byte
}

// Update describes one observable change to a job: either a status
// transition (Chunk empty) or a text increment (Chunk non-empty). Job is a
// copy taken under the coordinator lock.
type Update struct {
	Index int
	Job   domain.Job
	Chunk string
}

// Observer receives job updates. The coordinator serializes calls, so an
// observer never runs concurrently with itself.
type Observer func(Update)

// Config carries the shared inputs of one batch run.
type Config struct {
	Extractor port.TextExtractor
	Streamer  port.SummaryStreamer
	Prompt    string
	Model     string
	// JobTimeout bounds one job's extraction plus provider call. Zero
	// means no bound beyond the caller's context.
	JobTimeout time.Duration
}

// Coordinator runs one batch. Each job owns its slot in the results slice;
// the mutex guards reads taken for snapshots and observer copies.
type Coordinator struct {
	cfg   Config
	files []File

	mu   sync.Mutex
	jobs []domain.Job

	emitMu   sync.Mutex
	observer Observer
}

// NewCoordinator prepares a batch over the given files. Files with a name
// already seen are dropped, first occurrence wins, so every result row maps
// to a distinct input name.
func NewCoordinator(cfg Config, files []File, observer Observer) (*Coordinator, error) {
	if strings.TrimSpace(cfg.Prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	seen := make(map[string]bool, len(files))
	deduped := make([]File, 0, len(files))
	for _, f := range files {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		deduped = append(deduped, f)
	}
	if len(deduped) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	jobs := make([]domain.Job, len(deduped))
	for i, f := range deduped {
		jobs[i] = domain.Job{Filename: f.Name, Status: domain.JobStatusPending}
	}

	return &Coordinator{
		cfg:      cfg,
		files:    deduped,
		jobs:     jobs,
		observer: observer,
	}, nil
}

// Run executes all jobs concurrently and blocks until every job reaches a
// terminal state. One job failing never disturbs the others. The returned
// slice is a snapshot in input order.
func (c *Coordinator) Run(ctx context.Context) []domain.Job {
	var wg sync.WaitGroup
	for i := range c.files {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c.runJob(ctx, idx)
		}(i)
	}
	wg.Wait()
	return c.Snapshot()
}

// Snapshot returns a copy of all job states in input order.
func (c *Coordinator) Snapshot() []domain.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

func (c *Coordinator) runJob(ctx context.Context, idx int) {
	defer func() {
		if r := recover(); r != nil {
			c.fail(idx, fmt.Sprintf("job panicked: %v", r))
		}
	}()

	if c.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.JobTimeout)
		defer cancel()
	}

	c.transition(idx, domain.JobStatusExtracting, "")

	text, err := c.cfg.Extractor.Extract(ctx, c.files[idx].Data)
	if err != nil {
		c.fail(idx, fmt.Sprintf("extraction failed: %v", err))
		return
	}
	if strings.TrimSpace(text) == "" {
		c.fail(idx, "document contains no extractable text")
		return
	}

	c.transition(idx, domain.JobStatusCalling, "")

	req := port.SummaryRequest{
		Prompt:       c.cfg.Prompt,
		DocumentText: text,
		Model:        c.cfg.Model,
	}
	err = c.cfg.Streamer.Stream(ctx, req, func(chunk string) {
		c.append(idx, chunk)
	})
	if err != nil {
		// Chunks appended before the error stay as partial output.
		c.fail(idx, err.Error())
		return
	}

	c.transition(idx, domain.JobStatusComplete, "")
}

// transition moves a job to a new status and notifies the observer.
func (c *Coordinator) transition(idx int, status domain.JobStatus, msg string) {
	c.mu.Lock()
	c.jobs[idx].Status = status
	c.jobs[idx].StatusMessage = msg
	job := c.jobs[idx]
	c.mu.Unlock()
	c.emit(Update{Index: idx, Job: job})
}

func (c *Coordinator) fail(idx int, msg string) {
	c.transition(idx, domain.JobStatusFailed, msg)
}

// append grows a job's output accumulator by one chunk.
func (c *Coordinator) append(idx int, chunk string) {
	c.mu.Lock()
	c.jobs[idx].Output += chunk
	job := c.jobs[idx]
	c.mu.Unlock()
	c.emit(Update{Index: idx, Job: job, Chunk: chunk})
}

func (c *Coordinator) emit(u Update) {
	if c.observer == nil {
		return
	}
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	c.observer(u)
}
