package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/config"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/db"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/handler"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/middleware"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/repository"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/router"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/service"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/youtube"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "cadence-api")
	handler.Version = version

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	yt, err := youtube.NewClient(ctx, youtube.Config{
		APIKey:     cfg.YouTubeAPIKey,
		Endpoint:   cfg.YouTubeAPIEndpoint,
		RPS:        cfg.YouTubeRPS,
		MaxRetries: cfg.YouTubeMaxRetries,
		MaxUploads: cfg.MaxUploads,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create youtube client")
	}

	// Postgres is optional: without it analyses are not persisted.
	var (
		pool      *pgxpool.Pool
		snapshots service.SnapshotStore
		worker    *service.SnapshotWorker
	)
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		repo := repository.NewSnapshotRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare snapshot schema")
		}
		snapshots = repo
		worker = service.NewSnapshotWorker(repo, cfg.SnapshotRetention, cfg.SnapshotPruneInterval)
		go worker.Start(ctx)
	} else {
		log.Info().Msg("database: no URL configured, snapshots disabled")
	}

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	var dir service.ChannelDirectory = yt
	if cache.Enabled() {
		dir = service.NewCachedDirectory(yt, cache, handler.Metrics.CacheLookups)
	}

	analytics := service.NewAnalyticsService(
		dir,
		service.NewRankService(),
		service.NewPeriodicityService(service.NewScopeService(), service.NewMetricsService()),
		service.NewChartService(),
		snapshots,
		service.AnalyticsOptions{
			SearchLimit:         cfg.SearchLimit,
			AutoSelectThreshold: cfg.AutoSelectThreshold,
			DefaultScope:        cfg.DefaultScope,
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      "Cadence API",
		ServerHeader: "Cadence",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	})

	router.Setup(app, &router.Handlers{
		Analytics: handler.NewAnalyticsHandler(analytics),
		Channel:   handler.NewChannelHandler(analytics),
		Chart:     handler.NewChartHandler(analytics),
		Health:    handler.NewHealthHandler(pool, cache.Client()),
	}, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if worker != nil {
			worker.Stop()
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Str("version", version).
		Msg("cadence api starting")
	if err := app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
