package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nandapratama/wablast/internal/autosave"
	"github.com/nandapratama/wablast/internal/config"
	"github.com/nandapratama/wablast/internal/core"
	"github.com/nandapratama/wablast/internal/devices"
	"github.com/nandapratama/wablast/internal/logging"
	"github.com/nandapratama/wablast/internal/wa"
	"github.com/nandapratama/wablast/internal/web"
)

func main() {
	// Load .env if present (Overload overwrites existing env vars).
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"redis_enabled", cfg.Redis.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	store := core.NewPostgresStore(pool)
	roster := core.NewRoster(store)

	var registry devices.Registry
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("failed to ping redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		registry = devices.NewRedisRegistry(rdb)
		slog.Info("device registry backed by redis", "addr", cfg.Redis.Addr)
	} else {
		registry = devices.NewMemoryRegistry()
		slog.Warn("REDIS_ADDR not set, device registry is in-process only")
	}

	messenger := wa.NewClient(cfg.WhatsApp.APIURL, cfg.WhatsApp.APIKey, cfg.WhatsApp.SendTimeout)
	rule := core.PhoneRule{
		CountryCode: cfg.Phone.CountryCode,
		TrunkPrefix: cfg.Phone.TrunkPrefix,
	}
	delivery := core.NewDelivery(roster, messenger, rule, cfg.WhatsApp.SendTimeout)

	saver := autosave.New(cfg.Autosave.Delay, store.SaveTemplate)
	defer saver.Close()

	server := web.NewServer(cfg, web.Deps{
		Roster:    roster,
		Delivery:  delivery,
		Templates: store,
		Devices:   registry,
		Saver:     saver,
		PhoneRule: rule,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Persist any template edit still sitting in the debouncer.
		if err := saver.Flush(shutdownCtx); err != nil {
			slog.Warn("final template save failed", "error", err)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
