package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopsight/segmentation-backend/internal/api/dto"
	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// Base provides shared functionality for all handlers.
type Base struct {
	repo storage.Repository
}

// NewBase creates a new base handler with the given repository.
func NewBase(repo storage.Repository) *Base {
	return &Base{repo: repo}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// loadFiltered reads the full dataset matching the request's filter params,
// writing the error response itself when parsing or loading fails. Every
// segmentation and insight endpoint goes through this path, so all of them
// accept the same region/category/gender/from/to query parameters.
func (b *Base) loadFiltered(w http.ResponseWriter, r *http.Request) ([]purchase.Purchase, purchase.Filter, bool) {
	filter, err := ParseFilterParams(r)
	if err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return nil, filter, false
	}

	dataset, err := b.repo.LoadDataset(filter)
	if err != nil {
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return nil, filter, false
	}

	return dataset, filter, true
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseFilterParams builds a dataset filter from the shared query
// parameters. Dates use YYYY-MM-DD and both bounds are inclusive; a
// malformed date is a client error, not an empty filter.
func ParseFilterParams(r *http.Request) (purchase.Filter, error) {
	q := r.URL.Query()
	filter := purchase.Filter{
		Region:   q.Get("region"),
		Category: q.Get("category"),
		Gender:   q.Get("gender"),
	}

	if from := q.Get("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q, want YYYY-MM-DD", from)
		}
		filter.From = parsed
	}
	if to := q.Get("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q, want YYYY-MM-DD", to)
		}
		filter.To = parsed
	}

	return filter, nil
}
