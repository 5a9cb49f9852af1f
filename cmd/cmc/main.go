// Package main implements the entry point for the Choose My College
// console: a searchable university catalog with per-user saved-school
// lists, backed by PostgreSQL.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/choosemycollege/cmc-core/internal/cli"
	"github.com/choosemycollege/cmc-core/internal/config"
	"github.com/choosemycollege/cmc-core/internal/platform/logger"
	"github.com/choosemycollege/cmc-core/internal/platform/postgres"
	"github.com/choosemycollege/cmc-core/internal/platform/rediscache"
	"github.com/choosemycollege/cmc-core/internal/service"
	"github.com/choosemycollege/cmc-core/internal/service/auth"
	"github.com/choosemycollege/cmc-core/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}

// run loads configuration, wires every component, and hands control to
// the console loop.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Log.Level)
	appLogger.Info("configuration loaded",
		slog.String("log_level", cfg.Log.Level),
		slog.String("password_mode", cfg.Auth.PasswordMode),
		slog.Bool("cache_enabled", cfg.Cache.Enabled))

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := applyMigrations(db); err != nil {
		return err
	}

	hasher, err := buildHasher(cfg.Auth)
	if err != nil {
		return err
	}

	cache, closeCache, err := buildCache(cfg.Cache, appLogger)
	if err != nil {
		return err
	}
	if closeCache != nil {
		defer closeCache()
	}

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	universityStore := postgres.NewPostgresUniversityStore(db, appLogger)
	savedSchoolStore := postgres.NewPostgresSavedSchoolStore(db, appLogger)
	runTx := store.NewTxRunner(db)

	accounts := service.NewAccountService(userStore, savedSchoolStore, runTx, hasher, appLogger)
	universities := service.NewUniversityService(universityStore, runTx, cache, appLogger)

	console := cli.New(accounts, universities, os.Stdin, os.Stdout, appLogger)
	return console.Run(context.Background())
}

// openDatabase opens and verifies the PostgreSQL connection.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// applyMigrations brings the schema up to date from the embedded
// migrations.
func applyMigrations(db *sql.DB) error {
	goose.SetBaseFS(postgres.MigrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// buildHasher selects the password scheme. Plaintext exists only for
// legacy record stores that never hashed passwords.
func buildHasher(cfg config.AuthConfig) (auth.PasswordHasher, error) {
	switch cfg.PasswordMode {
	case "bcrypt":
		return auth.NewBcryptHasher(cfg.BcryptCost), nil
	case "plaintext":
		return auth.NewPlaintextHasher(), nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", cfg.PasswordMode)
	}
}

// buildCache wires the optional Redis catalog cache. Returns a nil cache
// when caching is disabled.
func buildCache(cfg config.CacheConfig, appLogger *slog.Logger) (service.CatalogCache, func(), error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cache := rediscache.NewUniversityCache(client, time.Duration(cfg.TTLSeconds)*time.Second, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return cache, func() { _ = client.Close() }, nil
}
