package storage

import (
	"sort"
	"time"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	purchases []purchase.Purchase
	runs      map[string]*IngestRun
	runOrder  []string // Insertion order, oldest first

	// Hooks for test assertions
	SavePurchasesCalled bool
	LastSavedRunID      string
	LoadDatasetCalled   bool
	LastLoadFilter      purchase.Filter
	CreateRunCalled     bool
	CompleteRunCalled   bool
	FailRunCalled       bool
	LastFailedRunError  string

	// Error injection for testing error paths
	SavePurchasesErr   error
	LoadDatasetErr     error
	ListPurchasesErr   error
	CountPurchasesErr  error
	GetFilterValuesErr error
	CreateRunErr       error
	CompleteRunErr     error
	FailRunErr         error
	ListRunsErr        error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		purchases: make([]purchase.Purchase, 0),
		runs:      make(map[string]*IngestRun),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SavePurchases appends purchases to the in-memory dataset
func (m *MockRepository) SavePurchases(runID string, purchases []purchase.Purchase) error {
	m.SavePurchasesCalled = true
	m.LastSavedRunID = runID
	if m.SavePurchasesErr != nil {
		return m.SavePurchasesErr
	}
	m.purchases = append(m.purchases, purchases...)
	return nil
}

// LoadDataset returns the filtered dataset in insertion order
func (m *MockRepository) LoadDataset(filter purchase.Filter) ([]purchase.Purchase, error) {
	m.LoadDatasetCalled = true
	m.LastLoadFilter = filter
	if m.LoadDatasetErr != nil {
		return nil, m.LoadDatasetErr
	}

	// Copy to avoid test mutations leaking into the mock
	data := make([]purchase.Purchase, len(m.purchases))
	copy(data, m.purchases)
	return filter.Apply(data), nil
}

// ListPurchases returns purchases matching the given filters with pagination
func (m *MockRepository) ListPurchases(filters PurchaseFilters) (*PurchaseListResult, error) {
	if m.ListPurchasesErr != nil {
		return nil, m.ListPurchasesErr
	}

	data := make([]purchase.Purchase, len(m.purchases))
	copy(data, m.purchases)
	matching := filters.Filter.Apply(data)

	// Apply defaults
	limit := filters.Limit
	if limit == 0 {
		limit = 50
	}

	// Apply pagination
	total := len(matching)
	start := filters.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &PurchaseListResult{
		Purchases:  matching[start:end],
		TotalCount: total,
		Limit:      limit,
		Offset:     filters.Offset,
	}, nil
}

// CountPurchases returns the number of stored purchases
func (m *MockRepository) CountPurchases() (int, error) {
	if m.CountPurchasesErr != nil {
		return 0, m.CountPurchasesErr
	}
	return len(m.purchases), nil
}

// GetFilterValues returns the distinct filterable values and date bounds
func (m *MockRepository) GetFilterValues() (*FilterValues, error) {
	if m.GetFilterValuesErr != nil {
		return nil, m.GetFilterValuesErr
	}

	values := &FilterValues{
		Regions:        distinctOf(m.purchases, func(p purchase.Purchase) string { return p.Region }),
		Categories:     distinctOf(m.purchases, func(p purchase.Purchase) string { return p.Category }),
		Genders:        distinctOf(m.purchases, func(p purchase.Purchase) string { return p.Gender }),
		PaymentMethods: distinctOf(m.purchases, func(p purchase.Purchase) string { return p.PaymentMethod }),
	}

	var minDate, maxDate time.Time
	for _, p := range m.purchases {
		if minDate.IsZero() || p.Date.Before(minDate) {
			minDate = p.Date
		}
		if maxDate.IsZero() || p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}
	if !minDate.IsZero() {
		values.MinDate = minDate.Format("2006-01-02")
		values.MaxDate = maxDate.Format("2006-01-02")
	}

	return values, nil
}

// distinctOf collects the sorted distinct non-empty values of an attribute
func distinctOf(purchases []purchase.Purchase, get func(purchase.Purchase) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, p := range purchases {
		v := get(p)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// CreateRun records the start of an ingest run
func (m *MockRepository) CreateRun(run *IngestRun) error {
	m.CreateRunCalled = true
	if m.CreateRunErr != nil {
		return m.CreateRunErr
	}

	copied := *run
	copied.Status = RunStatusRunning
	if copied.StartedAt == "" {
		copied.StartedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	}
	m.runs[run.ID] = &copied
	m.runOrder = append(m.runOrder, run.ID)
	return nil
}

// CompleteRun records the completion of an ingest run
func (m *MockRepository) CompleteRun(runID string, rowsLoaded, rowsSkipped int) error {
	m.CompleteRunCalled = true
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}

	run, ok := m.runs[runID]
	if !ok {
		return nil
	}

	run.CompletedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	run.RowsLoaded = rowsLoaded
	run.RowsSkipped = rowsSkipped
	if rowsSkipped > 0 {
		run.Status = RunStatusCompletedWithSkips
	} else {
		run.Status = RunStatusCompleted
	}
	return nil
}

// FailRun marks an ingest run as failed
func (m *MockRepository) FailRun(runID string, errText string) error {
	m.FailRunCalled = true
	m.LastFailedRunError = errText
	if m.FailRunErr != nil {
		return m.FailRunErr
	}

	run, ok := m.runs[runID]
	if !ok {
		return nil
	}

	run.CompletedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	run.Status = RunStatusFailed
	run.ErrorText = errText
	return nil
}

// ListRuns returns recent ingest runs, newest first
func (m *MockRepository) ListRuns(limit int) ([]IngestRun, error) {
	if m.ListRunsErr != nil {
		return nil, m.ListRunsErr
	}

	if limit <= 0 {
		limit = 20
	}

	var runs []IngestRun
	for i := len(m.runOrder) - 1; i >= 0; i-- {
		runs = append(runs, *m.runs[m.runOrder[i]])
		if len(runs) >= limit {
			break
		}
	}
	return runs, nil
}

// Helper methods for test setup

// AddPurchases adds purchases directly (for test setup)
func (m *MockRepository) AddPurchases(purchases ...purchase.Purchase) {
	m.purchases = append(m.purchases, purchases...)
}

// GetRun returns the stored run for test assertions
func (m *MockRepository) GetRun(runID string) *IngestRun {
	return m.runs[runID]
}

// Reset clears all data and flags (for reuse between tests)
func (m *MockRepository) Reset() {
	m.purchases = make([]purchase.Purchase, 0)
	m.runs = make(map[string]*IngestRun)
	m.runOrder = nil
	m.SavePurchasesCalled = false
	m.LastSavedRunID = ""
	m.LoadDatasetCalled = false
	m.LastLoadFilter = purchase.Filter{}
	m.CreateRunCalled = false
	m.CompleteRunCalled = false
	m.FailRunCalled = false
	m.LastFailedRunError = ""
	m.SavePurchasesErr = nil
	m.LoadDatasetErr = nil
	m.ListPurchasesErr = nil
	m.CountPurchasesErr = nil
	m.GetFilterValuesErr = nil
	m.CreateRunErr = nil
	m.CompleteRunErr = nil
	m.FailRunErr = nil
	m.ListRunsErr = nil
}
