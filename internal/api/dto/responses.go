package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// PurchaseResponse represents a purchase in API responses.
type PurchaseResponse struct {
	CustomerID    string  `json:"customer_id"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Region        string  `json:"region,omitempty"`
	Category      string  `json:"category,omitempty"`
	Gender        string  `json:"gender,omitempty"`
	Age           int     `json:"age,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

// PurchaseListResponse is returned when listing purchases.
type PurchaseListResponse struct {
	Purchases  []PurchaseResponse `json:"purchases"`
	TotalCount int                `json:"total_count"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// FilterValuesResponse lists the distinct attribute values and the date
// bounds of the stored dataset, for building filter controls.
type FilterValuesResponse struct {
	Regions        []string `json:"regions"`
	Categories     []string `json:"categories"`
	Genders        []string `json:"genders"`
	PaymentMethods []string `json:"payment_methods"`
	MinDate        string   `json:"min_date,omitempty"`
	MaxDate        string   `json:"max_date,omitempty"`
}

// IngestRunResponse represents an ingest run in API responses.
type IngestRunResponse struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	SourceInfo  string `json:"source_info,omitempty"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	RowsLoaded  int    `json:"rows_loaded"`
	RowsSkipped int    `json:"rows_skipped"`
	Status      string `json:"status"`
	ErrorText   string `json:"error_text,omitempty"`
}

// IngestRunListResponse is returned when listing ingest runs.
type IngestRunListResponse struct {
	Runs  []IngestRunResponse `json:"runs"`
	Count int                 `json:"count"`
}
