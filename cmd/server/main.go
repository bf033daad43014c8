package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/workshop/api"
	dbfs "github.com/garnizeh/workshop/db"
	"github.com/garnizeh/workshop/internal/config"
	"github.com/garnizeh/workshop/internal/db"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	api.SetLogger(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.Any("err", err))
		os.Exit(1)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	logger.Info("starting workshop server", slog.String("version", version), slog.String("build_time", buildTime), slog.String("env", config.Env()))

	ctx := context.Background()

	// Open database connection
	startCtx, startCancel := context.WithTimeout(ctx, cfg.APITimeout)
	database, err := db.New(startCtx, cfg.DatabasePath, logger)
	if err != nil {
		startCancel()
		logger.Error("failed to open DB", slog.String("path", cfg.DatabasePath), slog.Any("err", err))
		os.Exit(1)
	}

	if err := prepareDatabase(startCtx, cfg, database, logger); err != nil {
		startCancel()
		database.Close()
		logger.Error("failed to prepare DB", slog.Any("err", err))
		os.Exit(1)
	}
	startCancel()

	handler := api.SetupRoutes(cfg, version, buildTime, database)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("err", err))
	}

	// Close database connection
	if err := database.Close(); err != nil {
		logger.Error("error closing DB", slog.Any("err", err))
	}

	logger.Info("server exited")
}

// prepareDatabase applies migrations when enabled and makes sure the admin
// account exists.
func prepareDatabase(ctx context.Context, cfg *config.Config, database *db.DB, logger *slog.Logger) error {
	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			return err
		}
	}

	created, err := db.SeedAdmin(ctx, database, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email)
	if err != nil {
		return err
	}
	if created {
		logger.Info("admin user created", slog.String("username", cfg.Admin.Username))
		if cfg.Admin.Password == config.DefaultAdminPassword {
			logger.Warn("admin user has the default password; change it with scripts/set_password")
		}
	}
	return nil
}
