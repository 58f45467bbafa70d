package parses

import (
	"context"
	"sort"
	"sync"
	"time"

	"resume-manager/resume/parse"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]ParseJob
	byUser map[string][]string // userId -> parse ids, insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]ParseJob),
		byUser: make(map[string][]string),
	}
}

// Create stores a new parse job.
func (r *MemoryRepo) Create(ctx context.Context, job ParseJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[job.ID] = job
	r.byUser[job.UserID] = append(r.byUser[job.UserID], job.ID)
	return nil
}

// GetByID returns a parse job by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, parseID string) (ParseJob, error) {
	if err := ctx.Err(); err != nil {
		return ParseJob{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.byID[parseID]
	if !ok {
		return ParseJob{}, ErrNotFound
	}
	return job, nil
}

// MarkProcessing transitions a job to processing.
func (r *MemoryRepo) MarkProcessing(ctx context.Context, parseID string) error {
	return r.update(ctx, parseID, func(job *ParseJob) {
		job.Status = StatusProcessing
	})
}

// MarkCompleted stores the result and source on a job.
func (r *MemoryRepo) MarkCompleted(ctx context.Context, parseID, source string, result parse.ResumeParsed) error {
	return r.update(ctx, parseID, func(job *ParseJob) {
		job.Status = StatusCompleted
		job.Source = source
		job.Result = &result
		job.ErrorMessage = nil
	})
}

// MarkFailed records a terminal failure.
func (r *MemoryRepo) MarkFailed(ctx context.Context, parseID, message string) error {
	return r.update(ctx, parseID, func(job *ParseJob) {
		job.Status = StatusFailed
		job.ErrorMessage = &message
	})
}

func (r *MemoryRepo) update(ctx context.Context, parseID string, mutate func(*ParseJob)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.byID[parseID]
	if !ok {
		return ErrNotFound
	}
	mutate(&job)
	job.UpdatedAt = time.Now().UTC()
	r.byID[parseID] = job
	return nil
}

// ListByUser returns parse jobs for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ParseJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byUser[userID]
	jobs := make([]ParseJob, 0, len(ids))
	for _, id := range ids {
		if job, ok := r.byID[id]; ok {
			jobs = append(jobs, job)
		}
	}
	r.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if offset >= len(jobs) {
		return []ParseJob{}, nil
	}
	end := len(jobs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return jobs[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
