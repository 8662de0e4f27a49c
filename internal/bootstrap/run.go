package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/target/recruit-admin/config"
	"github.com/target/recruit-admin/internal/adapters/devapi"
	"github.com/target/recruit-admin/internal/observability/metrics"
)

// RunConsole serves the web console until ctx ends or SIGINT/SIGTERM arrives.
func RunConsole(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := ConsoleOptions{Config: cfg, Logger: logger, Metrics: metrics.New()}
	if cfg.Redis.Enabled {
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("close redis client", "error", err)
			}
		}()
		opts.Redis = client
	}

	handler, err := BuildConsoleHandler(opts)
	if err != nil {
		return err
	}
	logger.Info("console configured",
		"backend", cfg.Backend.URL,
		"profile_cache", cfg.Redis.Enabled,
		"dev", cfg.IsDev,
	)
	return serveUntilSignal(ctx, logger, handler, cfg.HTTP.Addr)
}

// RunDevAPI serves the in-memory development backend until ctx ends or a signal arrives.
func RunDevAPI(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if err := cfg.ValidateDevAPI(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	api, err := devapi.New(devapi.Options{
		JWTSecret:      cfg.DevAPI.JWTSecret,
		TokenTTL:       cfg.DevAPI.TokenTTL,
		SeedUsername:   cfg.DevAPI.SeedUsername,
		SeedPassword:   cfg.DevAPI.SeedPassword,
		SeedApplicants: cfg.DevAPI.SeedApplicants,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("create dev backend: %w", err)
	}
	return serveUntilSignal(ctx, logger, api.Handler(), cfg.DevAPI.Addr)
}

func serveUntilSignal(ctx context.Context, logger *slog.Logger, handler http.Handler, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	server := StartHTTPServer(logger, handler, addr, errCh)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return ShutdownHTTPServer(server, logger)
	case err := <-errCh:
		return err
	}
}
