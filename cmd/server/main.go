package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/database"
	"github.com/blacksiege/stms-backend/internal/handler"
	"github.com/blacksiege/stms-backend/internal/logger"
	"github.com/blacksiege/stms-backend/internal/repository"
	"github.com/blacksiege/stms-backend/internal/router"
	"github.com/blacksiege/stms-backend/internal/scoring"
	"github.com/blacksiege/stms-backend/internal/service"
	"github.com/blacksiege/stms-backend/internal/session"
	"github.com/blacksiege/stms-backend/internal/store"
	"github.com/blacksiege/stms-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("driver", cfg.StorageDriver).
		Msg("Starting STMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	var st store.Store
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		st = store.NewPostgresStore(pool)
	case config.DriverRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		st = store.NewRedisStore(rdb)
	case config.DriverMemory:
		log.Warn().Msg("Memory storage selected, data will not survive restarts")
		st = store.NewMemoryStore()
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("Unknown storage driver")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	adminRepo := repository.NewAdminRepository(st)
	studentRepo := repository.NewStudentRepository(st)
	testRepo := repository.NewTestRepository(st)
	resultRepo := repository.NewResultRepository(st)

	// ─── Seed Initial Data ─────────────────────────────────────────────
	seedService := service.NewSeedService(st, cfg, log)
	if err := seedService.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Initial data load failed")
	}

	// ─── Initialize Session Manager ────────────────────────────────────
	sessions := session.NewManager(session.Deps{
		Admin:    adminRepo,
		Students: studentRepo,
		Tests:    testRepo,
		Results:  resultRepo,
		Scoring:  scoring.Options{TrackUnanswered: cfg.ScoringTrackUnanswered},
		Tick:     cfg.TimerTick,
		Log:      log,
	})

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(adminRepo)
	studentService := service.NewStudentService(studentRepo)
	testService := service.NewTestService(testRepo, resultRepo)
	backupService := service.NewBackupService(st, sessions, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(sessions, authService),
		Admin:         handler.NewAdminHandler(adminService, backupService),
		StudentMgmt:   handler.NewStudentManagementHandler(studentService),
		Test:          handler.NewTestHandler(testService),
		StudentPortal: handler.NewStudentPortalHandler(sessions, testService, resultRepo),
		WS:            handler.NewWSHandler(sessions, log, cfg.AllowedOrigins, cfg.TimerTick),
		System:        handler.NewSystemHandler(cfg, sessions),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, sessions, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
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

	// 2. Drop all sessions, cancelling any running countdowns.
	sessions.Reset()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
