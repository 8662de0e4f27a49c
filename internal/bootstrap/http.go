package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/recruit-admin/config"
	"github.com/target/recruit-admin/internal/adapters/cookiestore"
	redisadapter "github.com/target/recruit-admin/internal/adapters/redis"
	"github.com/target/recruit-admin/internal/apiclient"
	httpx "github.com/target/recruit-admin/internal/http"
	"github.com/target/recruit-admin/internal/observability/metrics"
	"github.com/target/recruit-admin/internal/ports"
)

const shutdownTimeout = 10 * time.Second

// NewBackendClient builds the shared REST client for the recruitment backend.
func NewBackendClient(cfg config.BackendConfig, m *metrics.Metrics, logger *slog.Logger) (*apiclient.Client, error) {
	client, err := apiclient.New(apiclient.Options{
		BaseURL:         cfg.URL,
		Timeout:         cfg.Timeout,
		Logger:          logger,
		Metrics:         m,
		MessagePath:     cfg.MessagePath,
		FieldErrorsPath: cfg.FieldErrorsPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	return client, nil
}

// ConsoleOptions contains what the web console handler is built from.
type ConsoleOptions struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Redis backs the shared profile cache; nil disables it.
	Redis redis.UniversalClient
}

// BuildConsoleHandler assembles the session factory and router for the web console.
func BuildConsoleHandler(opts ConsoleOptions) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("console config is required")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := NewBackendClient(cfg.Backend, opts.Metrics, logger)
	if err != nil {
		return nil, err
	}

	var profiles ports.ProfileCache
	checks := map[string]httpx.HealthCheck{}
	if opts.Redis != nil {
		profiles = redisadapter.NewProfileCacheWithPrefix(opts.Redis, cfg.Redis.KeyPrefix)
		checks["redis"] = func(ctx context.Context) error { return opts.Redis.Ping(ctx).Err() }
	}

	sessions := httpx.NewSessionFactory(httpx.SessionFactoryOptions{
		Client:     client,
		Cookies:    cookiestore.Options{Domain: cfg.HTTP.CookieDomain, TTL: cfg.Session.TokenTTL},
		Profiles:   profiles,
		ProfileTTL: cfg.Session.ProfileCacheTTL,
		Metrics:    opts.Metrics,
		Logger:     logger,
		LoginPath:  cfg.Session.LoginPath,
	})

	services := httpx.RouterServices{
		Sessions:     sessions,
		Metrics:      opts.Metrics,
		CSRF:         httpx.CSRFConfig{CookieDomain: cfg.HTTP.CookieDomain},
		LoginPath:    cfg.Session.LoginPath,
		HomePath:     cfg.Session.HomePath,
		HealthChecks: checks,
		IsDev:        cfg.IsDev,
		Logger:       logger,
	}
	if cfg.Observability.Metrics.IsEnabled() {
		services.MetricsPath = cfg.Observability.Metrics.Path
	}
	if cfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		services.Compression = &httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel}
	}
	return httpx.NewRouter(services), nil
}

// StartHTTPServer listens on addr in the background. Listen failures are sent to errCh.
func StartHTTPServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server on %s: %w", server.Addr, err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	logger.Info("shutting down HTTP server", "addr", server.Addr)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("HTTP server stopped", "addr", server.Addr)
	return nil
}
