// Package ingest loads purchase datasets from external sources into the store.
//
// Sources validate rows at the boundary: every purchase that reaches the
// store has a customer id, a non-negative amount and a parsed date. Invalid
// rows either fail the load (strict) or are counted and dropped (skip mode).
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// Source supplies purchase rows from an external dataset
type Source interface {
	// Name identifies the source kind, e.g. "csv" or "mysql"
	Name() string

	// Info describes the concrete origin (file path, table name)
	Info() string

	// Load reads and validates all rows
	Load(ctx context.Context) (*LoadResult, error)
}

// LoadResult holds the outcome of reading a source
type LoadResult struct {
	Purchases []purchase.Purchase
	Skipped   []RowError
	RowsRead  int
}

// RowError describes a rejected input row
type RowError struct {
	Row    int // 1-based data row number, header excluded
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// checkPurchase applies the validation rules shared by all sources
func checkPurchase(row int, p purchase.Purchase) *RowError {
	if p.CustomerID == "" {
		return &RowError{Row: row, Reason: "empty customer id"}
	}
	if p.Amount < 0 {
		return &RowError{Row: row, Reason: fmt.Sprintf("negative amount %.2f", p.Amount)}
	}
	if p.Date.IsZero() {
		return &RowError{Row: row, Reason: "missing purchase date"}
	}
	return nil
}

// ProgressFunc reports batch progress during an ingest run
type ProgressFunc func(stored, total int)

// Summary describes a finished ingest run
type Summary struct {
	RunID       string
	Source      string
	SourceInfo  string
	RowsRead    int
	RowsStored  int
	RowsSkipped int
	Duration    time.Duration
}

// Ingester orchestrates source -> validate -> batched store, recording an
// ingest run for each load.
type Ingester struct {
	repo      storage.Repository
	logger    *slog.Logger
	batchSize int
	progress  ProgressFunc
}

// NewIngester creates an ingester writing to the given repository
func NewIngester(repo storage.Repository, logger *slog.Logger, batchSize int) *Ingester {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Ingester{
		repo:      repo,
		logger:    logger,
		batchSize: batchSize,
	}
}

// OnProgress registers a hook called after each stored batch
func (ing *Ingester) OnProgress(fn ProgressFunc) {
	ing.progress = fn
}

// Run loads the source and stores its purchases in batches.
// The run is recorded as failed if storing is interrupted; skipped rows
// never fail a run, they are counted on it.
func (ing *Ingester) Run(ctx context.Context, source Source) (*Summary, error) {
	started := time.Now()

	result, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load from %s source: %w", source.Name(), err)
	}

	run := &storage.IngestRun{
		ID:         uuid.New().String(),
		Source:     source.Name(),
		SourceInfo: source.Info(),
	}
	if err := ing.repo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create ingest run: %w", err)
	}

	ing.logger.Info("ingest run started",
		"run_id", run.ID,
		"source", source.Name(),
		"source_info", source.Info(),
		"rows", len(result.Purchases),
	)

	for _, skip := range result.Skipped {
		ing.logger.Warn("skipped invalid row", "run_id", run.ID, "row", skip.Row, "reason", skip.Reason)
	}

	stored := 0
	total := len(result.Purchases)
	for start := 0; start < total; start += ing.batchSize {
		select {
		case <-ctx.Done():
			_ = ing.repo.FailRun(run.ID, "canceled")
			return nil, ctx.Err()
		default:
		}

		end := min(start+ing.batchSize, total)
		if err := ing.repo.SavePurchases(run.ID, result.Purchases[start:end]); err != nil {
			_ = ing.repo.FailRun(run.ID, err.Error())
			return nil, fmt.Errorf("failed to store batch at row %d: %w", start+1, err)
		}
		stored = end

		if ing.progress != nil {
			ing.progress(stored, total)
		}
	}

	if err := ing.repo.CompleteRun(run.ID, stored, len(result.Skipped)); err != nil {
		return nil, fmt.Errorf("failed to complete ingest run: %w", err)
	}

	summary := &Summary{
		RunID:       run.ID,
		Source:      source.Name(),
		SourceInfo:  source.Info(),
		RowsRead:    result.RowsRead,
		RowsStored:  stored,
		RowsSkipped: len(result.Skipped),
		Duration:    time.Since(started),
	}

	ing.logger.Info("ingest run complete",
		"run_id", run.ID,
		"stored", summary.RowsStored,
		"skipped", summary.RowsSkipped,
		"duration", summary.Duration.Round(time.Millisecond),
	)

	return summary, nil
}
