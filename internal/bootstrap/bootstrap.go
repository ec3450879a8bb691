// Package bootstrap holds the startup wiring shared by the service binaries:
// logger, storage selection, upstream clients and the serve/shutdown loop.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/campus-hub/grading-system/config"
	"github.com/campus-hub/grading-system/internal/domain/notification"
	"github.com/campus-hub/grading-system/internal/infrastructure/external/upstream"
	"github.com/campus-hub/grading-system/internal/infrastructure/metrics"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/postgres"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/redis"
	apihttp "github.com/campus-hub/grading-system/internal/interface/http"
	"github.com/campus-hub/grading-system/internal/interface/http/handlers"
	"github.com/campus-hub/grading-system/pkg/logger"
	"github.com/campus-hub/grading-system/pkg/retry"
)

// Runtime is what every service binary builds before wiring its own stores.
type Runtime struct {
	Config  *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics
	Health  *handlers.CompositeHealthChecker

	closers []func()
}

// New loads configuration for service and prepares logging and metrics.
func New(service string) (*Runtime, error) {
	cfg, err := config.Load(service)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}).With(logger.String("service", service))

	rt := &Runtime{
		Config: cfg,
		Log:    log,
		Health: handlers.NewCompositeHealthChecker(cfg.App.Version),
	}
	if cfg.Metrics.Enabled {
		rt.Metrics = metrics.New(service)
	}
	return rt, nil
}

// Close releases everything opened through the runtime, newest first.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STORAGE
// ══════════════════════════════════════════════════════════════════════════════

// Postgres opens the database with startup retries and applies migrations.
// It returns nil when no DATABASE_URL is configured.
func (rt *Runtime) Postgres(ctx context.Context, migrations []postgres.Migration) (*postgres.Connection, error) {
	if !rt.Config.UsePostgres() {
		rt.Log.Info("DATABASE_URL not set, using in-memory storage")
		return nil, nil
	}

	rt.Log.Info("connecting to database...")
	var conn *postgres.Connection
	err := retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = postgres.Open(ctx, rt.Config.Database.URL, postgres.Options{
			MaxConns:     rt.Config.Database.MaxConns,
			QueryTimeout: rt.Config.Database.QueryTimeout,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rt.closers = append(rt.closers, conn.Close)
	rt.Health.AddChecker(conn)

	if rt.Config.Database.Migrate {
		if err := postgres.NewMigrator(conn, migrations).Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		rt.Log.Info("migrations applied", logger.Int("count", len(migrations)))
	}
	return conn, nil
}

// DeliveryTracker returns the Redis tracker when Redis is enabled, otherwise
// an in-process one.
func (rt *Runtime) DeliveryTracker(ctx context.Context, service string) (notification.DeliveryTracker, error) {
	if !rt.Config.Redis.Enabled {
		return memory.NewDeliveryTracker(), nil
	}

	client, err := redis.NewClient(ctx, redis.Config{
		URL:         rt.Config.Redis.URL,
		Addr:        rt.Config.Redis.Addr(),
		Password:    rt.Config.Redis.Password,
		DB:          rt.Config.Redis.DB,
		DialTimeout: rt.Config.Redis.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	rt.closers = append(rt.closers, func() { _ = client.Close() })
	rt.Health.AddChecker(client)
	rt.Log.Info("redis connected")

	return redis.NewDeliveryTracker(client.Redis(), service), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPSTREAMS
// ══════════════════════════════════════════════════════════════════════════════

// Upstream returns client options for baseURL using the shared timeout and
// breaker settings.
func (rt *Runtime) Upstream(baseURL string) upstream.Options {
	opts := upstream.Options{
		BaseURL:          baseURL,
		Timeout:          rt.Config.Upstream.Timeout,
		BreakerThreshold: rt.Config.Upstream.BreakerThreshold,
		BreakerCooldown:  rt.Config.Upstream.BreakerCooldown,
		Logger:           rt.Log,
		RequestID:        apihttp.RequestID,
	}
	if rt.Metrics != nil {
		opts.Observer = rt.Metrics
	}
	return opts
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVING
// ══════════════════════════════════════════════════════════════════════════════

// ServerConfig maps the loaded configuration onto the HTTP server config.
func (rt *Runtime) ServerConfig(service string) apihttp.Config {
	c := apihttp.DefaultConfig()
	c.Service = service
	c.Version = rt.Config.App.Version
	c.Host = rt.Config.HTTP.Host
	c.Port = rt.Config.HTTP.Port
	c.ReadTimeout = rt.Config.HTTP.ReadTimeout
	c.WriteTimeout = rt.Config.HTTP.WriteTimeout
	c.AllowedOrigins = rt.Config.HTTP.AllowedOrigins
	c.RateLimitPerMinute = rt.Config.HTTP.RateLimitPerMinute
	c.EnableMetrics = rt.Metrics != nil
	return c
}

// Dependencies returns the ambient server dependencies; the caller sets the
// service-specific section.
func (rt *Runtime) Dependencies() apihttp.Dependencies {
	return apihttp.Dependencies{
		Logger:        rt.Log,
		Metrics:       rt.Metrics,
		HealthChecker: rt.Health,
	}
}

// Serve runs srv until SIGINT/SIGTERM or a listener error, then shuts it
// down within the configured timeout.
func (rt *Runtime) Serve(ctx context.Context, srv *apihttp.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := srv.StartAsync()
	rt.Log.Info("service is running", logger.String("address", srv.Address()))

	select {
	case <-ctx.Done():
		rt.Log.Info("received shutdown signal")
	case err, ok := <-errCh:
		if ok && err != nil {
			rt.Log.Error("server error", logger.Err(err))
			return err
		}
		return nil
	}

	rt.Log.Info("starting graceful shutdown...", logger.Duration("timeout", rt.Config.App.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.Config.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		rt.Log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}
	rt.Log.Info("shutdown completed successfully")
	return nil
}
