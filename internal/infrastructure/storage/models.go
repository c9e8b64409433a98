package storage

// Ingest run status values
const (
	RunStatusRunning            = "running"
	RunStatusCompleted          = "completed"
	RunStatusCompletedWithSkips = "completed_with_skips"
	RunStatusFailed             = "failed"
)

// IngestRun represents one load of purchase data into the store
type IngestRun struct {
	ID          string `json:"id"`
	Source      string `json:"source"`                // e.g., "csv", "mysql"
	SourceInfo  string `json:"source_info,omitempty"` // file path or table name
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	RowsLoaded  int    `json:"rows_loaded"`
	RowsSkipped int    `json:"rows_skipped"`
	Status      string `json:"status"`
	ErrorText   string `json:"error_text,omitempty"`
}
