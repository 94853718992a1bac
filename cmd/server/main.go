package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/database"
	"github.com/codeadapt/learn-gateway/internal/handler"
	"github.com/codeadapt/learn-gateway/internal/logger"
	"github.com/codeadapt/learn-gateway/internal/middleware"
	"github.com/codeadapt/learn-gateway/internal/progress"
	"github.com/codeadapt/learn-gateway/internal/quiz"
	"github.com/codeadapt/learn-gateway/internal/repository"
	"github.com/codeadapt/learn-gateway/internal/router"
	"github.com/codeadapt/learn-gateway/internal/service"
	"github.com/codeadapt/learn-gateway/internal/session"
	"github.com/codeadapt/learn-gateway/internal/validator"
	"github.com/codeadapt/learn-gateway/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("catalog", cfg.CatalogDriver).
		Str("progress_medium", cfg.ProgressMedium).
		Msg("Starting learn gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	mode, err := quiz.ParseScoringMode(cfg.ScoringMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid SCORING_MODE")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Progress Medium ───────────────────────────────────────────────
	var medium progress.Medium
	switch cfg.ProgressMedium {
	case config.ProgressMediumPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		medium = repository.NewProgressRepository(pool)
	case config.ProgressMediumMemory:
		log.Warn().Msg("Unlock records are kept in memory and lost on restart")
		medium = progress.NewMemoryMedium()
	default:
		medium = progress.NewRedisMedium(rdb)
	}
	store := progress.NewStore(medium, cfg.UnlockMinScore, log)

	// ─── Catalog ───────────────────────────────────────────────────────
	upstream := catalog.NewHTTPCatalog(cfg.CatalogBaseURL,
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.CatalogTimeout}),
		catalog.WithLogger(log),
	)

	var source catalog.Catalog = upstream
	if cfg.CatalogDriver == config.CatalogDriverFile {
		fileCatalog, err := catalog.NewFileCatalog(cfg.CatalogPath, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load course packs")
		}
		source = fileCatalog
	}
	if cfg.CatalogCacheTTL > 0 {
		source = catalog.NewCachedCatalog(source, rdb, cfg.CatalogCacheTTL, log)
	}

	// ─── Sessions ──────────────────────────────────────────────────────
	publisher := service.NewEventPublisher(rdb, log)

	var reporter session.Reporter = session.NopReporter{}
	if cfg.ReportProgress {
		reporter = worker.NewQueueReporter(rdb)
	}

	sessions := session.NewManager(session.Deps{
		Catalog:   source,
		Store:     store,
		Reporter:  reporter,
		Publisher: publisher,
		Mode:      mode,
		Log:       log,
	}, cfg.SessionIdleTTL)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	learnerService := service.NewLearnerService(source, sessions)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Catalog: handler.NewCatalogHandler(learnerService),
		Learner: handler.NewLearnerHandler(learnerService),
		Events:  handler.NewEventsHandler(publisher, log),
		Profile: handler.NewProfileHandler(),
		WS:      handler.NewWSHandler(learnerService, publisher, log, cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(rdb, sessions, store),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	if cfg.ReportProgress {
		progressWorker := worker.NewProgressWorker(rdb, upstream, log)
		go progressWorker.Start(workerCtx)
	}
	go sessions.Run(workerCtx)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		go limiter.Run(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, limiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers; a report in flight is requeued.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
