package handlers

import (
	"net/http"

	"github.com/shopsight/segmentation-backend/internal/api/dto"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// RunsHandler handles ingest run HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns recent ingest runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.IngestRunListResponse{
		Runs:  make([]dto.IngestRunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toIngestRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// toIngestRunResponse converts a storage ingest run to an API response.
func toIngestRunResponse(run storage.IngestRun) dto.IngestRunResponse {
	return dto.IngestRunResponse{
		ID:          run.ID,
		Source:      run.Source,
		SourceInfo:  run.SourceInfo,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		RowsLoaded:  run.RowsLoaded,
		RowsSkipped: run.RowsSkipped,
		Status:      run.Status,
		ErrorText:   run.ErrorText,
	}
}
