package parses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-manager/resume/parse"
)

func TestPGRepoCreateInsertsJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	job := ParseJob{
		ID:            "parse-1",
		UserID:        "user-1",
		DocumentID:    "doc-1",
		Status:        StatusQueued,
		ParserVersion: "gpt-4o-mini:v1",
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO parses").
		WithArgs(
			job.ID,
			job.UserID,
			job.DocumentID,
			job.Status,
			job.Source,
			job.ParserVersion,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "document_id", "status", "source", "parser_version",
		"result", "error_message", "created_at", "updated_at",
	}).AddRow(
		"parse-1", "user-1", "doc-1", StatusCompleted, SourceLLM, "gpt-4o-mini:v1",
		`{"basics":{"name":"Jane Roe"},"skills":[],"experiences":[],"education":[]}`,
		nil, now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM parses").
		WithArgs("parse-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "parse-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.Source != SourceLLM {
		t.Fatalf("expected source llm, got %s", got.Source)
	}
	if got.Result == nil || got.Result.Basics.Name != "Jane Roe" {
		t.Fatalf("expected decoded result, got %#v", got.Result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkCompletedMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE parses").
		WithArgs(SourceHeuristic, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkCompleted(context.Background(), "missing", SourceHeuristic, parse.ResumeParsed{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkFailedUpdatesMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE parses").
		WithArgs("document lookup failed", "parse-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "parse-1", "document lookup failed"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
