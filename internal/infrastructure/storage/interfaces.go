package storage

import (
	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	PurchaseRepository
	IngestRunRepository
	Close() error
}

// PurchaseRepository handles purchase dataset operations
type PurchaseRepository interface {
	// SavePurchases inserts a batch of purchases tagged with the ingest run ID
	SavePurchases(runID string, purchases []purchase.Purchase) error

	// LoadDataset returns the full filtered dataset in insertion order.
	// Segmentation runs over this slice, so row order must be stable.
	LoadDataset(filter purchase.Filter) ([]purchase.Purchase, error)

	// ListPurchases returns purchases matching the given filters with pagination
	ListPurchases(filters PurchaseFilters) (*PurchaseListResult, error)

	// CountPurchases returns the total number of stored purchases
	CountPurchases() (int, error)

	// GetFilterValues returns the distinct filterable values and date bounds
	GetFilterValues() (*FilterValues, error)
}

// PurchaseFilters defines filters for listing purchases
type PurchaseFilters struct {
	purchase.Filter

	Limit  int // Max results (0 = default 50)
	Offset int // Pagination offset
}

// PurchaseListResult contains paginated purchase results
type PurchaseListResult struct {
	Purchases  []purchase.Purchase `json:"purchases"`
	TotalCount int                 `json:"total_count"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

// FilterValues lists the distinct attribute values present in the dataset.
// Drives filter dropdowns in clients.
type FilterValues struct {
	Regions        []string `json:"regions"`
	Categories     []string `json:"categories"`
	Genders        []string `json:"genders"`
	PaymentMethods []string `json:"payment_methods"`
	MinDate        string   `json:"min_date,omitempty"` // YYYY-MM-DD
	MaxDate        string   `json:"max_date,omitempty"` // YYYY-MM-DD
}

// IngestRunRepository handles ingest run tracking
type IngestRunRepository interface {
	// CreateRun records the start of an ingest run
	CreateRun(run *IngestRun) error

	// CompleteRun records the completion of an ingest run
	CompleteRun(runID string, rowsLoaded, rowsSkipped int) error

	// FailRun marks an ingest run as failed
	FailRun(runID string, errText string) error

	// ListRuns returns recent ingest runs, newest first
	ListRuns(limit int) ([]IngestRun, error)
}
