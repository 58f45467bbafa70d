package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-manager/internal/auth"
	"resume-manager/internal/documents"
	"resume-manager/internal/llm"
	openai "resume-manager/internal/llm/openai"
	"resume-manager/internal/parses"
	"resume-manager/internal/queue"
	"resume-manager/internal/shared/config"
	"resume-manager/internal/shared/server"
	"resume-manager/internal/shared/storage/db"
	"resume-manager/internal/shared/storage/object"
	localstore "resume-manager/internal/shared/storage/object/local"
	s3store "resume-manager/internal/shared/storage/object/s3"
	"resume-manager/internal/users"
	"resume-manager/resume/parse"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	DocumentsRepo    documents.DocumentsRepo
	ParsesRepo       parses.Repo
	UsersRepo        users.Repo
	DocumentsService *documents.Service
	ParsesService    *parses.Service
	ParseProcessor   ParseProcessor
	UsersService     *users.Service
	DocumentsHandler *documents.Handler
	ParseHandler     *parses.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// ParseProcessor allows callers to override parse processing for tests.
type ParseProcessor interface {
	ProcessParse(ctx context.Context, parseID string) error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		ParseHandler:    app.ParseHandler,
		UserHandler:     app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.QueueURL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var parseRepo parses.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		parseRepo = &parses.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		parseRepo = parses.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}

	var llmClient llm.Client
	if app.Config.LLMProvider == "openai" {
		apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		if apiKey != "" && strings.TrimSpace(app.Config.LLMModel) != "" {
			openaiClient, err := openai.NewClient(apiKey, app.Config.LLMModel)
			if err != nil {
				return err
			}
			llmClient = openaiClient
		} else {
			log.Printf("bootstrap: OpenAI not configured; structuring falls back to the heuristic engine")
		}
	}

	parseSvc := &parses.Service{
		Repo:          parseRepo,
		DocRepo:       docRepo,
		Store:         app.Store,
		LLM:           llmClient,
		Engine:        parse.NewDefaultEngine(),
		JobQueue:      app.Queue,
		ParserVersion: app.Config.ParserVersion,
	}

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.DocumentsRepo = docRepo
	app.ParsesRepo = parseRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.ParsesService = parseSvc
	app.ParseProcessor = parseSvc
	app.UsersService = userSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ParseHandler = parses.NewHandler(parseSvc, docRepo)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	if app.DocumentsHandler == nil || app.ParseHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
