package storage

import (
	"database/sql"
)

// CreateRun records the start of an ingest run
func (s *Storage) CreateRun(run *IngestRun) error {
	query := `
		INSERT INTO ingest_runs (id, source, source_info, status)
		VALUES (?, ?, ?, 'running')
	`

	_, err := s.db.Exec(query, run.ID, run.Source, run.SourceInfo)
	return err
}

// CompleteRun records the completion of an ingest run
func (s *Storage) CompleteRun(runID string, rowsLoaded, rowsSkipped int) error {
	query := `
		UPDATE ingest_runs
		SET completed_at = CURRENT_TIMESTAMP,
		    rows_loaded = ?,
		    rows_skipped = ?,
		    status = CASE WHEN ? > 0 THEN 'completed_with_skips' ELSE 'completed' END
		WHERE id = ?
	`

	_, err := s.db.Exec(query, rowsLoaded, rowsSkipped, rowsSkipped, runID)
	return err
}

// FailRun marks an ingest run as failed
func (s *Storage) FailRun(runID string, errText string) error {
	query := `
		UPDATE ingest_runs
		SET completed_at = CURRENT_TIMESTAMP,
		    status = 'failed',
		    error_text = ?
		WHERE id = ?
	`

	_, err := s.db.Exec(query, errText, runID)
	return err
}

// ListRuns returns recent ingest runs, newest first
func (s *Storage) ListRuns(limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source, source_info, started_at, completed_at,
		       rows_loaded, rows_skipped, status, error_text
		FROM ingest_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []IngestRun
	for rows.Next() {
		var run IngestRun
		var completedAt, errText sql.NullString
		err := rows.Scan(
			&run.ID,
			&run.Source,
			&run.SourceInfo,
			&run.StartedAt,
			&completedAt,
			&run.RowsLoaded,
			&run.RowsSkipped,
			&run.Status,
			&errText,
		)
		if err != nil {
			return nil, err
		}
		if completedAt.Valid {
			run.CompletedAt = completedAt.String
		}
		if errText.Valid {
			run.ErrorText = errText.String
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
