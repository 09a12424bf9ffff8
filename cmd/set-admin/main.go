package main

import (
	"context"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/database"
	"github.com/blacksiege/stms-backend/internal/logger"
	"github.com/blacksiege/stms-backend/internal/repository"
	"github.com/blacksiege/stms-backend/internal/store"
)

// Sets or resets the admin password directly in storage, bypassing the
// first-login bootstrap. Useful when the password is lost.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

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
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("set-admin needs a persistent storage driver")
	}

	adminRepo := repository.NewAdminRepository(st)

	// ─── CLI Input ─────────────────────────────────────────────────────
	fmt.Println("=== Set Admin Password ===")

	fmt.Print("Enter new password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	if len(password) == 0 {
		fmt.Println("Error: password is required")
		return
	}

	fmt.Print("Confirm new password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	if string(password) != string(confirm) {
		fmt.Println("Error: passwords do not match")
		return
	}

	if err := adminRepo.SetCredential(ctx, string(password)); err != nil {
		log.Fatal().Err(err).Msg("Failed to store credential")
	}

	fmt.Println("Admin password updated")
}
