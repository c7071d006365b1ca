package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/dataclean/internal/audit"
	"github.com/JonMunkholm/dataclean/internal/config"
	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/fileio"
	"github.com/JonMunkholm/dataclean/internal/logging"
	"github.com/JonMunkholm/dataclean/internal/metrics"
	"github.com/JonMunkholm/dataclean/internal/session"
	"github.com/JonMunkholm/dataclean/internal/web"
)

func main() {
	// Load .env file if it exists; real environment variables win.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	observers := []core.Observer{m}
	if cfg.Database.AuditEnabled() {
		pool, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := audit.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		observers = append(observers, audit.NewRecorder(pool, cfg.Database.WriteTimeout))
		slog.Info("audit log enabled")
	} else {
		slog.Info("audit log disabled: DATABASE_URL not set")
	}

	policy := cfg.EmptyNumericPolicy()
	sessions := session.NewManager(session.Options{
		TTL:           cfg.Session.TTL,
		MaxSessions:   cfg.Session.MaxSessions,
		SweepInterval: cfg.Session.SweepInterval,
		OnCountChange: m.SetActiveSessions,
		Factory: func(id string) *core.Workspace {
			opts := []core.WorkspaceOption{core.WithEmptyNumericPolicy(policy)}
			for _, o := range observers {
				opts = append(opts, core.WithObserver(o))
			}
			return core.NewWorkspace(id, opts...)
		},
	})

	limiter := fileio.NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)

	server := web.NewServer(web.Deps{
		Config:   cfg,
		Sessions: sessions,
		Limiter:  limiter,
		Metrics:  m,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := server.Start()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for decodes to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("decodes did not complete in time", "error", err)
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
