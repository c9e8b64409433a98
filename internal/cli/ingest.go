package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/shopsight/segmentation-backend/internal/infrastructure/config"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/logging"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
	"github.com/shopsight/segmentation-backend/internal/ingest"
)

// RunIngest loads a purchase dataset into SQLite.
func RunIngest(cfg *config.Config, flags *IngestFlags) error {
	// Set up logging
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "ingest")

	source, err := flags.ToSource(cfg)
	if err != nil {
		return err
	}

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

	batchSize := cfg.Ingest.BatchSize
	if flags.BatchSize > 0 {
		batchSize = flags.BatchSize
	}

	PrintIngestHeader(source, dbPath, flags.SkipInvalid)

	// Ctrl-C cancels the run; the ingester records it as failed
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	ingester := ingest.NewIngester(store, logger, batchSize)

	var bar *progressbar.ProgressBar
	ingester.OnProgress(func(stored, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "storing")
		}
		_ = bar.Set(stored)
	})

	summary, err := ingester.Run(ctx, source)
	if err != nil {
		return err
	}

	PrintIngestSummary(summary)
	return nil
}
