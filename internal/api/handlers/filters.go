package handlers

import (
	"net/http"

	"github.com/shopsight/segmentation-backend/internal/api/dto"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// FiltersHandler serves the filter vocabulary of the stored dataset.
type FiltersHandler struct {
	*Base
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(repo storage.Repository) *FiltersHandler {
	return &FiltersHandler{
		Base: NewBase(repo),
	}
}

// Get handles GET /api/filters - returns distinct attribute values and
// date bounds for building filter controls.
func (h *FiltersHandler) Get(w http.ResponseWriter, r *http.Request) {
	values, err := h.repo.GetFilterValues()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.FilterValuesResponse{
		Regions:        emptyIfNil(values.Regions),
		Categories:     emptyIfNil(values.Categories),
		Genders:        emptyIfNil(values.Genders),
		PaymentMethods: emptyIfNil(values.PaymentMethods),
		MinDate:        values.MinDate,
		MaxDate:        values.MaxDate,
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// emptyIfNil keeps JSON arrays as [] instead of null.
func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
