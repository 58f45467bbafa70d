package parses

import (
	"context"

	"resume-manager/resume/parse"
)

// Repo defines persistence operations for parse jobs.
type Repo interface {
	Create(ctx context.Context, job ParseJob) error
	GetByID(ctx context.Context, parseID string) (ParseJob, error)
	MarkProcessing(ctx context.Context, parseID string) error
	MarkCompleted(ctx context.Context, parseID, source string, result parse.ResumeParsed) error
	MarkFailed(ctx context.Context, parseID, message string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]ParseJob, error)
}
