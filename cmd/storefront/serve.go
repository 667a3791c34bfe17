package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront-admin/internal/config"
	"storefront-admin/internal/database"
	"storefront-admin/internal/logger"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/server"
	"storefront-admin/internal/storage"
	"storefront-admin/migrations"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply pending migrations before serving")
}

func serve(ctx context.Context) error {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting storefront admin API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	log.Info("Database health check", zap.Any("health", database.Health(ctx, pool)))

	if migrateOnStart {
		db := database.SQLDB(pool)
		err := database.RunMigrations(ctx, db, migrations.FS, log)
		db.Close()
		if err != nil {
			pool.Close()
			return err
		}
	}

	verifier, err := middleware.NewTokenVerifier(cfg.Auth, log)
	if err != nil {
		pool.Close()
		return err
	}

	deps := server.Dependencies{
		DB:       pool,
		Verifier: verifier,
		Redis: redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}),
	}
	if cfg.Storage.Bucket != "" {
		uploads, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Warn("Image uploads disabled", zap.Error(err))
		} else {
			deps.Uploads = uploads
		}
	}

	srv := server.NewServer(cfg, log, deps)

	done := make(chan struct{})
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		srv.Close()
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	log.Info("Graceful shutdown complete")
	return nil
}

func gracefulShutdown(srv *server.Server, log *zap.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := srv.Close(); err != nil {
		log.Error("Error closing server resources", zap.Error(err))
	}

	close(done)
}
