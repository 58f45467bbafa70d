package parses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"resume-manager/resume/parse"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const parseColumns = `id, user_id, document_id, status, source, parser_version, result, error_message, created_at, updated_at`

// Create inserts a new parse job.
func (r *PGRepo) Create(ctx context.Context, job ParseJob) error {
	const query = `
INSERT INTO parses (
    id, user_id, document_id, status, source, parser_version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.UserID,
		job.DocumentID,
		job.Status,
		job.Source,
		job.ParserVersion,
		job.CreatedAt,
	)
	return err
}

// GetByID returns a parse job by ID.
func (r *PGRepo) GetByID(ctx context.Context, parseID string) (ParseJob, error) {
	const query = `
SELECT ` + parseColumns + `
FROM parses
WHERE id = $1
LIMIT 1`
	return scanParse(r.DB.QueryRowContext(ctx, query, parseID))
}

// MarkProcessing transitions a queued job to processing.
func (r *PGRepo) MarkProcessing(ctx context.Context, parseID string) error {
	const query = `
UPDATE parses
SET status = 'processing',
    updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, parseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCompleted stores the structured result and the source that produced it.
func (r *PGRepo) MarkCompleted(ctx context.Context, parseID, source string, result parse.ResumeParsed) error {
	const query = `
UPDATE parses
SET status = 'completed',
    source = $1,
    result = $2::jsonb,
    error_message = NULL,
    updated_at = now()
WHERE id = $3`

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, source, payload, parseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFailed records a terminal failure with a sanitized message.
func (r *PGRepo) MarkFailed(ctx context.Context, parseID, message string) error {
	const query = `
UPDATE parses
SET status = 'failed',
    error_message = $1,
    updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, message, parseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser lists parse jobs for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ParseJob, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT ` + parseColumns + `
FROM parses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ParseJob
	for rows.Next() {
		job, err := scanParse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParse(row rowScanner) (ParseJob, error) {
	var job ParseJob
	var source sql.NullString
	var result sql.NullString
	var errorMessage sql.NullString
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.DocumentID,
		&job.Status,
		&source,
		&job.ParserVersion,
		&result,
		&errorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ParseJob{}, ErrNotFound
		}
		return ParseJob{}, err
	}
	if source.Valid {
		job.Source = source.String
	}
	if result.Valid {
		var parsed parse.ResumeParsed
		if err := json.Unmarshal([]byte(result.String), &parsed); err == nil {
			job.Result = &parsed
		}
	}
	if errorMessage.Valid {
		job.ErrorMessage = &errorMessage.String
	}
	return job, nil
}

var _ Repo = (*PGRepo)(nil)
