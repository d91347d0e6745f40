package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"gorm.io/gorm"

	"github.com/bazaarlane/admin-backend/internal/data/db"
	httpx "github.com/bazaarlane/admin-backend/internal/http"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpx.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	metrics := observability.Init(log)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, metrics)
	handlerset := wireHandlers(log, serviceset)
	mw, err := wireMiddleware(theDB, log, cfg, reposet, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}
	server := wireRouter(log, metrics, handlerset, mw)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   server,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
	}, nil
}

// Start launches the background pieces: trace export, the optional
// standalone metrics listener, and the store collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: "bazaarlane-admin",
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
	}
}

func (a *App) Stop(ctx context.Context) {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Server != nil {
		_ = a.Server.Shutdown(ctx)
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	a.Log.Sync()
}

func (a *App) Run() error {
	a.Start()
	err := a.Server.Run(":" + a.Cfg.Port)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
