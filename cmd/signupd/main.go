package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-signup/pkg/account"
	"github.com/tendant/simple-signup/pkg/config"
	"github.com/tendant/simple-signup/pkg/events"
	"github.com/tendant/simple-signup/pkg/notification"
	"github.com/tendant/simple-signup/pkg/signup"
	"github.com/tendant/simple-signup/pkg/signup/api"
	"github.com/tendant/simple-signup/pkg/token"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting signup service")

	loadEnvFile()

	// Server settings are read by app.DefaultApp itself.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open account storage", "persistence", cfg.Persistence.Type, "error", err)
		os.Exit(1)
	}
	defer closeRepo()
	slog.Info("Account storage ready", "persistence", cfg.Persistence.Type)

	notificationManager, err := notification.NewNotificationManagerWithOptions(
		cfg.Signup.BaseURL,
		notification.WithSMTP(cfg.Email.ToSMTPConfig()),
		notification.WithSignupTemplates(),
	)
	if err != nil {
		slog.Error("Failed to create notification manager", "error", err)
		os.Exit(1)
	}

	prefix := cfg.Signup.RoutePrefix()
	mailer := notification.NewMailer(notificationManager, prefix)

	format, err := token.ParseFormat(cfg.Signup.TokenFormat)
	if err != nil {
		slog.Error("Invalid token format", "error", err)
		os.Exit(1)
	}
	if format == token.FormatCompact {
		slog.Warn("Compact verification tokens carry 88 random bits; canonical tokens carry 122")
	}

	emitter := events.NewEmitter()
	emitter.On(events.AccountCreated, events.LogListener())
	emitter.On(events.AccountVerified, events.LogListener())

	service := signup.NewService(
		account.NewRegistry(repo),
		mailer,
		signup.WithTokenTTL(cfg.Signup.TokenTTL),
		signup.WithIssuer(token.NewIssuer(token.WithFormat(format))),
		signup.WithEmitter(emitter),
	)

	handle := api.NewHandle(service, api.WithHandleResponse(cfg.Signup.HandleResponse))

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	server.R.Route(prefix, handle.Routes)

	slog.Info("Signup service ready",
		"base_url", cfg.Signup.BaseURL,
		"route", prefix,
		"token_ttl", cfg.Signup.TokenTTL,
		"token_format", format,
	)

	server.Run()
}

// openRepository builds the configured account store. The returned func
// releases whatever connection the store holds.
func openRepository(ctx context.Context, cfg config.Config) (account.Repository, func(), error) {
	noop := func() {}
	repoCfg := account.RepositoryConfig{DataDir: cfg.Persistence.DataDir}

	switch cfg.Persistence.Type {
	case config.PersistencePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database %s: %w", cfg.Database.Database, err)
		}
		if err := account.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		repoCfg.Pool = pool
		repo, err := account.NewRepository(cfg.Persistence.Type, repoCfg)
		return repo, pool.Close, err

	case config.PersistenceRedis:
		client := redis.NewClient(cfg.Redis.ToRedisOptions())
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		repoCfg.Redis = client
		repoCfg.RedisPrefix = cfg.Redis.Prefix
		repo, err := account.NewRepository(cfg.Persistence.Type, repoCfg)
		return repo, func() { client.Close() }, err

	case config.PersistenceSQLite:
		db, err := account.OpenSQLite(cfg.Persistence.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		repoCfg.SQLite = db
		repo, err := account.NewRepository(cfg.Persistence.Type, repoCfg)
		return repo, closeDB, err
	}

	repo, err := account.NewRepository(cfg.Persistence.Type, repoCfg)
	return repo, noop, err
}

// loadEnvFile loads .env from the executable directory, falling back to the
// working directory.
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}

	envFile := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, _ := os.Getwd()
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found (using environment variables or defaults)")
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}
}
