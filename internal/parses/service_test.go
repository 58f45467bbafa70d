package parses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"resume-manager/internal/documents"
	"resume-manager/internal/llm"
	"resume-manager/internal/queue"
	"resume-manager/internal/shared/storage/object"
	"resume-manager/internal/shared/storage/object/local"
	"resume-manager/resume/parse"
)

const validStructured = `{
  "basics": {"name": "Jane Roe", "email": "jane@example.com"},
  "skills": ["go", "sql"],
  "experiences": [
    {"title": "Engineer", "company": "Initech", "start": "2019", "end": "2021", "highlights": ["built services"]}
  ],
  "education": []
}`

type staticLLM struct {
	resp string
}

func (s staticLLM) StructureResume(ctx context.Context, input llm.StructureInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return json.RawMessage(s.resp), nil
}

type erroringLLM struct {
	calls int
}

func (e *erroringLLM) StructureResume(ctx context.Context, input llm.StructureInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	e.calls++
	return nil, errors.New("openai request timeout")
}

func setupServiceWithDoc(t *testing.T, llmClient llm.Client) (*Service, *MemoryRepo, string) {
	t.Helper()
	store := local.New(t.TempDir())
	return setupServiceWithDocAndStore(t, llmClient, store, saveExtracted(t, store))
}

func saveExtracted(t *testing.T, store object.ObjectStore) string {
	t.Helper()
	text := "John Smith\njohn@example.com\n\nSKILLS\nGo, SQL, Docker\n"
	key, _, _, err := store.Save(context.Background(), "user-1", "resume.txt", bytes.NewReader([]byte(text)))
	if err != nil {
		t.Fatalf("save extracted text: %v", err)
	}
	return key
}

func setupServiceWithDocAndStore(t *testing.T, llmClient llm.Client, store object.ObjectStore, extractedKey string) (*Service, *MemoryRepo, string) {
	t.Helper()
	docRepo := documents.NewMemoryRepo()
	parseRepo := NewMemoryRepo()

	doc := documents.Document{
		ID:               "doc-1",
		UserID:           "user-1",
		FileName:         "resume.txt",
		MimeType:         "text/plain",
		SizeBytes:        10,
		StorageKey:       "original",
		ExtractedTextKey: extractedKey,
		CreatedAt:        time.Now().UTC(),
	}
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	svc := &Service{
		Repo:          parseRepo,
		DocRepo:       docRepo,
		Store:         store,
		LLM:           llmClient,
		Engine:        parse.NewDefaultEngine(),
		ParserVersion: "gpt-4o-mini:v1",
	}

	return svc, parseRepo, doc.ID
}

func createQueuedJob(t *testing.T, repo *MemoryRepo, docID string) ParseJob {
	t.Helper()
	job := ParseJob{
		ID:            "parse-1",
		UserID:        "user-1",
		DocumentID:    docID,
		Status:        StatusQueued,
		ParserVersion: "gpt-4o-mini:v1",
		CreatedAt:     time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("create parse job: %v", err)
	}
	return job
}

func TestProcessParseLLMSuccess(t *testing.T) {
	svc, repo, docID := setupServiceWithDoc(t, staticLLM{resp: validStructured})
	job := createQueuedJob(t, repo, docID)

	if err := svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessParse: %v", err)
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get parse job: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.Source != SourceLLM {
		t.Fatalf("expected source %s, got %s", SourceLLM, got.Source)
	}
	if got.Result == nil || got.Result.Basics.Name != "Jane Roe" {
		t.Fatalf("expected result with name, got %#v", got.Result)
	}
}

func TestProcessParseFallsBackOnLLMError(t *testing.T) {
	llmClient := &erroringLLM{}
	svc, repo, docID := setupServiceWithDoc(t, llmClient)
	job := createQueuedJob(t, repo, docID)

	if err := svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessParse: %v", err)
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get parse job: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.Source != SourceHeuristic {
		t.Fatalf("expected source %s, got %s", SourceHeuristic, got.Source)
	}
	if got.Result == nil {
		t.Fatalf("expected a heuristic result")
	}
	if got.Result.Basics.Email != "john@example.com" {
		t.Fatalf("expected heuristic result to carry email, got %#v", got.Result.Basics)
	}
	if llmClient.calls != 2 {
		t.Fatalf("expected 2 LLM calls (one retry), got %d", llmClient.calls)
	}
}

func TestProcessParseFallsBackOnInvalidJSON(t *testing.T) {
	svc, repo, docID := setupServiceWithDoc(t, staticLLM{resp: "{not-json"})
	job := createQueuedJob(t, repo, docID)

	if err := svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessParse: %v", err)
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get parse job: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.Source != SourceHeuristic {
		t.Fatalf("expected source %s, got %s", SourceHeuristic, got.Source)
	}
}

func TestProcessParseWithoutLLMUsesEngine(t *testing.T) {
	svc, repo, docID := setupServiceWithDoc(t, nil)
	job := createQueuedJob(t, repo, docID)

	if err := svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessParse: %v", err)
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get parse job: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.Source != SourceHeuristic {
		t.Fatalf("expected source %s, got %s", SourceHeuristic, got.Source)
	}
}

func TestProcessParseNormalizesLLMOutput(t *testing.T) {
	var skills []string
	for i := 0; i < 50; i++ {
		skills = append(skills, "skill-"+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	payload, err := json.Marshal(map[string]any{
		"basics":      map[string]any{"name": "Jane Roe"},
		"skills":      skills,
		"experiences": []any{},
		"education":   []any{},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	svc, repo, docID := setupServiceWithDoc(t, staticLLM{resp: string(payload)})
	job := createQueuedJob(t, repo, docID)

	if err := svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessParse: %v", err)
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get parse job: %v", err)
	}
	if got.Result == nil {
		t.Fatalf("expected a result")
	}
	if len(got.Result.Skills) != 40 {
		t.Fatalf("expected skills capped at 40, got %d", len(got.Result.Skills))
	}
}

type failingOpenStore struct{}

func (f failingOpenStore) Save(ctx context.Context, userId string, fileName string, r io.Reader) (string, int64, string, error) {
	_ = ctx
	_ = userId
	_ = fileName
	_ = r
	return "", 0, "", errors.New("save not supported")
}

func (f failingOpenStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	_ = ctx
	_ = storageKey
	return nil, errors.New("storage open failed")
}

func TestProcessParseFailsOnStorageError(t *testing.T) {
	svc, repo, docID := setupServiceWithDocAndStore(t, staticLLM{resp: validStructured}, failingOpenStore{}, "missing-key")
	job := createQueuedJob(t, repo, docID)

	if err := svc.ProcessParse(context.Background(), job.ID); err == nil {
		t.Fatalf("expected error from ProcessParse")
	}

	got, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get parse job: %v", err)
	}
	if got.Status != StatusFailed {
		t.Fatalf("expected status failed, got %s", got.Status)
	}
	if got.ErrorMessage == nil || !strings.Contains(*got.ErrorMessage, "load extracted text") {
		t.Fatalf("expected error message about extracted text, got %v", got.ErrorMessage)
	}
}

type capturingQueue struct {
	msgs []queue.Message
}

func (q *capturingQueue) Send(ctx context.Context, msg queue.Message) error {
	_ = ctx
	q.msgs = append(q.msgs, msg)
	return nil
}

func TestCreateEnqueuesWhenQueueConfigured(t *testing.T) {
	repo := NewMemoryRepo()
	q := &capturingQueue{}
	svc := &Service{Repo: repo, JobQueue: q, ParserVersion: "gpt-4o-mini:v1"}

	job, err := svc.Create(context.Background(), "doc-1", "user-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("expected status queued, got %s", job.Status)
	}
	if len(q.msgs) != 1 {
		t.Fatalf("expected 1 enqueued message, got %d", len(q.msgs))
	}
	if q.msgs[0].ParseID != job.ID {
		t.Fatalf("expected message parse id %s, got %s", job.ID, q.msgs[0].ParseID)
	}
}

func TestCreateRejectsMissingIDs(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	if _, err := svc.Create(context.Background(), "", "user-1"); err == nil {
		t.Fatalf("expected error for missing document id")
	}
	if _, err := svc.Create(context.Background(), "doc-1", ""); err == nil {
		t.Fatalf("expected error for missing user id")
	}
}

func TestPromptVersionFor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"gpt-4o-mini:v1", "v1"},
		{"gpt-4o-mini:v2", "v2"},
		{"heuristic", "v1"},
		{"", "v1"},
	}
	for _, tc := range cases {
		if got := promptVersionFor(tc.in); got != tc.want {
			t.Errorf("promptVersionFor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
