package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/cache"
	"budget/internal/cli"
	apphttp "budget/internal/http"
	"budget/internal/log"
	"budget/internal/session"
)

func main() {
	cli.LoadEnvFile()

	bootLogger := log.New(log.DefaultConfig())
	cfg := cli.LoadAndValidateConfig(bootLogger)

	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	seed, err := session.LoadSeedFile(cfg.SeedCSVFile)
	if err != nil {
		logger.Error("Failed to read seed file", log.FieldError, err, "path", cfg.SeedCSVFile)
		os.Exit(1)
	}

	sessions := session.NewStore(session.Config{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
		SeedCSV:     seed,
	}, logger.WithComponent(log.ComponentSession).Slog())

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Slog())
	caches.Register(sessions.Cleaner())
	caches.StartCleanup(cfg.SessionCleanupInterval)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	}, sessions, logger)
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx := cli.GracefulShutdown(logger, nil)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting budget server",
			"port", cfg.Port,
			"session_ttl", cfg.SessionTTL.String(),
			"max_sessions", cfg.MaxSessions,
			"seeded", seed != "",
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		caches.Stop()
		if err != nil {
			logger.Warn("Shutdown did not finish cleanly", log.FieldError, err)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", "active_sessions", sessions.Len())
}
