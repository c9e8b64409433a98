package cli

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsight/segmentation-backend/internal/api"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/config"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/logging"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	ConfigPath string
	DBPath     string
	Port       int
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "Configuration file path")
	flag.StringVar(&flags.DBPath, "db", "", "SQLite database path (overrides config)")
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (0 = config default)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// RunServe runs the API server.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	// Set up logging
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	// Initialize storage
	dbPath := cfg.Storage.DatabasePath
	if flags.DBPath != "" {
		dbPath = flags.DBPath
	}
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Create API config
	apiCfg := api.DefaultConfig()
	if cfg.Server.Port != 0 {
		apiCfg.Port = cfg.Server.Port
	}
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		apiCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	}

	// Create and start server
	server := api.NewServer(apiCfg, store, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
