package parses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-manager/internal/documents"
	"resume-manager/internal/extract"
	"resume-manager/internal/llm"
	"resume-manager/internal/queue"
	"resume-manager/internal/shared/metrics"
	"resume-manager/internal/shared/storage/object"
	"resume-manager/internal/shared/telemetry"
	"resume-manager/resume/parse"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Result provenance. The heuristic engine is the fallback of record: a parse
// only fails when the document itself cannot be read.
const (
	SourceLLM       = "llm"
	SourceHeuristic = "heuristic"
)

// Service contains business logic for parse jobs.
type Service struct {
	Repo          Repo
	DocRepo       documents.DocumentsRepo
	Store         object.ObjectStore
	LLM           llm.Client
	Engine        *parse.Engine
	JobQueue      queue.Client
	ParserVersion string
}

// Create records a new parse job and dispatches it, via the job queue when one
// is configured, otherwise on a background goroutine in-process.
func (s *Service) Create(ctx context.Context, documentID, userID string) (ParseJob, error) {
	if documentID == "" || userID == "" {
		return ParseJob{}, errors.New("documentID and userID are required")
	}

	job := ParseJob{
		ID:            uuid.NewString(),
		UserID:        userID,
		DocumentID:    documentID,
		Status:        StatusQueued,
		ParserVersion: normalizeParserVersion(s.ParserVersion),
		CreatedAt:     time.Now().UTC(),
	}
	job.UpdatedAt = job.CreatedAt

	if err := s.Repo.Create(ctx, job); err != nil {
		return ParseJob{}, err
	}

	if s.JobQueue != nil {
		msg := queue.Message{
			ParseID:    job.ID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		if err := s.JobQueue.Send(ctx, msg); err != nil {
			s.failParse(ctx, job.ID, userID, documentID, fmt.Errorf("enqueue: %w", err), nil)
			return ParseJob{}, err
		}
		return job, nil
	}

	go s.processAsync(backgroundWithRequestID(ctx), job.ID)
	return job, nil
}

// Get returns a parse job by ID.
func (s *Service) Get(ctx context.Context, parseID string) (ParseJob, error) {
	if parseID == "" {
		return ParseJob{}, errors.New("parseID is required")
	}
	return s.Repo.GetByID(ctx, parseID)
}

// List returns parse jobs for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]ParseJob, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) processAsync(ctx context.Context, parseID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failParse(ctx, parseID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	_ = s.ProcessParse(ctx, parseID)
}

// ProcessParse runs the full structuring pipeline for a queued job: extract
// text, try the LLM, fall back to the heuristic engine, persist the result.
// Errors are recorded on the job; the returned error is for callers that need
// to decide on redelivery.
func (s *Service) ProcessParse(ctx context.Context, parseID string) error {
	startedAt := time.Now().UTC()

	if err := s.Repo.MarkProcessing(ctx, parseID); err != nil {
		s.failParse(ctx, parseID, "", "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return err
	}

	job, err := s.Repo.GetByID(ctx, parseID)
	if err != nil {
		s.failParse(ctx, parseID, "", "", fmt.Errorf("parse lookup: %w", err), &startedAt)
		return err
	}
	metrics.IncParseStarted()
	telemetry.Info("parse.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           job.UserID,
		"document_id":       job.DocumentID,
		"parse_id":          job.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})

	if s.DocRepo == nil || s.Store == nil {
		err := errors.New("missing document store dependencies")
		s.failParse(ctx, parseID, job.UserID, job.DocumentID, err, &startedAt)
		return err
	}
	if s.Engine == nil {
		err := errors.New("missing parse engine")
		s.failParse(ctx, parseID, job.UserID, job.DocumentID, err, &startedAt)
		return err
	}

	doc, err := s.DocRepo.GetByID(ctx, job.UserID, job.DocumentID)
	if err != nil {
		s.failParse(ctx, parseID, job.UserID, job.DocumentID, fmt.Errorf("document lookup id=%s: %w", job.DocumentID, err), &startedAt)
		return err
	}

	extractedKey := doc.ExtractedTextKey
	if extractedKey == "" {
		if _, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName); err != nil {
			s.failParse(ctx, parseID, job.UserID, job.DocumentID, fmt.Errorf("document %s mime %s: %w", doc.ID, doc.MimeType, err), &startedAt)
			return err
		}
		extractedKey = doc.StorageKey + ".extracted.txt"
		if err := s.DocRepo.UpdateExtraction(ctx, doc.UserID, doc.ID, extractedKey, time.Now().UTC()); err != nil {
			s.failParse(ctx, parseID, job.UserID, job.DocumentID, fmt.Errorf("document %s: update extraction: %w", doc.ID, err), &startedAt)
			return err
		}
	}

	text, err := loadText(ctx, s.Store, extractedKey)
	if err != nil {
		s.failParse(ctx, parseID, job.UserID, job.DocumentID, fmt.Errorf("document %s: load extracted text: %w", doc.ID, err), &startedAt)
		return err
	}

	result, source := s.structure(ctx, job, text)

	if err := s.Repo.MarkCompleted(ctx, parseID, source, result); err != nil {
		s.failParse(ctx, parseID, job.UserID, job.DocumentID, fmt.Errorf("set parse result failed: %w", err), &startedAt)
		return err
	}
	completedAt := time.Now().UTC()
	metrics.IncParseCompleted()
	metrics.ObserveParseDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("parse.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           job.UserID,
		"document_id":       job.DocumentID,
		"parse_id":          job.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"source":            source,
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

// structure tries the LLM path first; any LLM failure degrades to the
// deterministic engine rather than failing the job.
func (s *Service) structure(ctx context.Context, job ParseJob, text string) (parse.ResumeParsed, string) {
	if s.LLM != nil {
		result, err := s.structureLLM(ctx, job, text)
		if err == nil {
			return result, SourceLLM
		}
		metrics.IncParseFallback()
		telemetry.Warn("parse.fallback", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"user_id":     job.UserID,
			"document_id": job.DocumentID,
			"parse_id":    job.ID,
			"error":       sanitizeError(err),
		})
	}
	return s.Engine.Parse(text), SourceHeuristic
}

func (s *Service) structureLLM(ctx context.Context, job ParseJob, text string) (parse.ResumeParsed, error) {
	client := newRetryingLLM(s.LLM, job.ID, requestIDFromContext(ctx))

	input := llm.StructureInput{
		ResumeText:    text,
		PromptVersion: promptVersionFor(job.ParserVersion),
	}

	raw, err := client.StructureResume(ctx, input)
	if err != nil {
		return parse.ResumeParsed{}, fmt.Errorf("llm structure: %w", err)
	}

	var parsed parse.ResumeParsed
	if err := json.Unmarshal(raw, &parsed); err != nil {
		rawRetry, retryErr := client.StructureResume(llm.WithFixJSON(ctx, string(raw)), input)
		if retryErr != nil {
			return parse.ResumeParsed{}, fmt.Errorf("llm structure retry: %w", retryErr)
		}
		if err := json.Unmarshal(rawRetry, &parsed); err != nil {
			return parse.ResumeParsed{}, fmt.Errorf("llm output invalid: %w", err)
		}
	}

	return parse.Normalize(parsed), nil
}

func (s *Service) failParse(ctx context.Context, parseID, userID, documentID string, err error, startedAt *time.Time) {
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.MarkFailed(context.Background(), parseID, msg); updateErr != nil {
		fmt.Printf("failParse: update failed id=%s err=%v orig=%v\n", parseID, updateErr, err)
	}
	metrics.IncParseFailed()
	if startedAt != nil {
		metrics.ObserveParseDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("parse.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"document_id":       documentID,
		"parse_id":          parseID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

// normalizeParserVersion keeps a stable default when the deployment leaves the
// version unset.
func normalizeParserVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "heuristic:v1"
	}
	return strings.TrimSpace(version)
}

// promptVersionFor maps a parser version like "gpt-4o-mini:v1" to its prompt
// template version.
func promptVersionFor(parserVersion string) string {
	if idx := strings.LastIndex(parserVersion, ":"); idx >= 0 && idx+1 < len(parserVersion) {
		return parserVersion[idx+1:]
	}
	return "v1"
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func loadText(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
