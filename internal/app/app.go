package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/db"
	httpserver "github.com/yungbote/wedsite-backend/internal/http"
	"github.com/yungbote/wedsite-backend/internal/observability"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        Config
	Metrics    *observability.Metrics
	Clients    Clients
	Repos      Repos
	Aggregates Aggregates
	Services   Services
	SSEHub     *realtime.SSEHub
	Router     *gin.Engine
	Server     *httpserver.Server

	closeDB      func() error
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New connects to the configured database, migrates it when enabled, and wires the app.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	logConfig(log, cfg)
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	pg, err := db.NewPostgresService(cfg.DB, log)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(pg.DB()); err != nil {
			_ = pg.Close()
			_ = otelShutdown(ctx)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	a, err := Build(log, cfg, pg.DB())
	if err != nil {
		_ = pg.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}
	a.closeDB = pg.Close
	a.otelShutdown = otelShutdown
	return a, nil
}

// Build wires repos, services and the HTTP stack over an already open database.
func Build(log *logger.Logger, cfg Config, theDB *gorm.DB) (*App, error) {
	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	clients, err := wireClients(log, cfg.Redis, metrics)
	if err != nil {
		return nil, err
	}

	var gauge realtime.ClientGauge
	if metrics != nil {
		gauge = metrics
	}
	hub := realtime.NewSSEHub(log, gauge)

	reposet := wireRepos(theDB, log)
	aggs := wireAggregates(theDB, log, reposet, metrics)
	serviceset := wireServices(theDB, log, cfg.Auth, reposet, aggs, clients, hub, metrics)
	handlerset := wireHandlers(theDB, log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(routerConfig(cfg, log, metrics, serviceset, handlerset, middleware))

	return &App{
		Log:        log,
		DB:         theDB,
		Cfg:        cfg,
		Metrics:    metrics,
		Clients:    clients,
		Repos:      reposet,
		Aggregates: aggs,
		Services:   serviceset,
		SSEHub:     hub,
		Router:     router,
		Server:     httpserver.NewServer(log, cfg.HTTPAddr, router),
	}, nil
}

// Start launches background workers: the redis SSE forwarder and metrics collectors.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			cancel()
			a.cancel = nil
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Server.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	a.Log.Sync()
}
