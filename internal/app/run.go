package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/VladKovDev/botconstructor/internal/config"
	"github.com/VladKovDev/botconstructor/internal/delivery/http/handler"
	"github.com/VladKovDev/botconstructor/internal/domain/repository"
	"github.com/VladKovDev/botconstructor/internal/repository/postgres"
	"github.com/VladKovDev/botconstructor/internal/server"
	"github.com/VladKovDev/botconstructor/internal/services/attachment"
	"github.com/VladKovDev/botconstructor/internal/services/blocktype"
	"github.com/VladKovDev/botconstructor/internal/services/storage"
	"github.com/VladKovDev/botconstructor/pkg/logger"
)

// App holds high-level application dependencies.
type App struct {
	Config       *config.Config
	Logger       logger.Logger
	DB           *postgres.Pool
	Registry     *blocktype.Registry
	ScenarioRepo repository.ScenarioRepository
	Attachments  *attachment.Service
}

// NewApp constructs the application object and initializes services.
func NewApp(cfg *config.Config, pool *postgres.Pool, log logger.Logger, store storage.ObjectStore) *App {
	var scenarioRepo repository.ScenarioRepository
	if pool != nil && pool.Pool != nil {
		scenarioRepo = postgres.NewPostgresScenarioRepository(pool.Pool)
	}

	return &App{
		Config:       cfg,
		Logger:       log,
		DB:           pool,
		Registry:     blocktype.NewRegistry(),
		ScenarioRepo: scenarioRepo,
		Attachments:  attachment.NewService(store, log),
	}
}

func Run(ctx context.Context) error {
	configPath := os.Getenv("BOT_CONSTRUCTOR_CONFIG_PATH")
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to init config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log.Debug("logger debug enabled...")

	pool, err := postgres.NewPool(ctx, &cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}

	store, err := storage.NewFS(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to init attachment storage: %w", err)
	}

	app := NewApp(cfg, pool, log, store)

	mux := http.NewServeMux()
	handler.NewScenarioHandler(app.ScenarioRepo, app.Registry, log).Register(mux)
	handler.NewAttachmentHandler(app.Attachments, log).Register(mux)

	srv := server.New(cfg.Server, mux, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	if err := gracefulShutdown(ctx, log, pool, serverErr); err != nil {
		return err
	}
	return nil
}
