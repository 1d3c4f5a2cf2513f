package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	server "github.com/yungbote/coursecards-backend/internal/http"
	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/observability"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Server   *server.Server
	Router   *gin.Engine
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services

	shutdownOTel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg := LoadConfig()
	log, err := logger.NewWithOptions(logger.Options{Mode: cfg.LogMode, Level: cfg.LogLevel, Redact: true})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading environment variables...")
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdown := observability.InitOTel(ctx, log, cfg.Otel)

	var metrics *observability.Metrics
	if cfg.Metrics {
		metrics = observability.NewMetrics()
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = shutdown(ctx)
		log.Sync()
		return nil, err
	}
	serviceset, err := wireServices(log, cfg, clients, metrics)
	if err != nil {
		_ = clients.Close()
		_ = shutdown(ctx)
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, cfg, clients, serviceset)
	srv := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       srv,
		Router:       srv.Engine,
		Metrics:      metrics,
		Clients:      clients,
		Services:     serviceset,
		shutdownOTel: shutdown,
	}, nil
}

// Run serves on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.Addr)
	return a.Server.Run(ctx, a.Cfg.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if err := a.Clients.Close(); err != nil && a.Log != nil {
		a.Log.Warn("close object storage", "error", err)
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// MediaPipeline is the media stack without the course api, for offline tools.
type MediaPipeline struct {
	*media.Pipeline
	clients Clients
}

func (p *MediaPipeline) Close() error { return p.clients.Close() }

func NewMediaPipeline(ctx context.Context, log *logger.Logger, cfg Config) (*MediaPipeline, error) {
	clients, err := wireMediaClients(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	st, err := stamp.New(cfg.Timezone, cfg.Provenance)
	if err != nil {
		_ = clients.Close()
		return nil, fmt.Errorf("init stamper: %w", err)
	}
	return &MediaPipeline{Pipeline: newPipeline(log, clients, st, cfg.Media, nil), clients: clients}, nil
}
