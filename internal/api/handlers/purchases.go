package handlers

import (
	"net/http"

	"github.com/shopsight/segmentation-backend/internal/api/dto"
	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// PurchasesHandler handles purchase-related HTTP requests.
type PurchasesHandler struct {
	*Base
}

// NewPurchasesHandler creates a new purchases handler.
func NewPurchasesHandler(repo storage.Repository) *PurchasesHandler {
	return &PurchasesHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/purchases - returns a paginated, filtered list.
func (h *PurchasesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilterParams(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	filters := storage.PurchaseFilters{
		Filter: filter,
		Limit:  ParseIntParam(r, "limit", 50),
		Offset: ParseIntParam(r, "offset", 0),
	}

	result, err := h.repo.ListPurchases(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.PurchaseListResponse{
		Purchases:  make([]dto.PurchaseResponse, 0, len(result.Purchases)),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
	for _, p := range result.Purchases {
		response.Purchases = append(response.Purchases, toPurchaseResponse(p))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// toPurchaseResponse converts a domain purchase to an API response.
func toPurchaseResponse(p purchase.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		CustomerID:    p.CustomerID,
		Amount:        p.Amount,
		Date:          p.Date.Format("2006-01-02"),
		Region:        p.Region,
		Category:      p.Category,
		Gender:        p.Gender,
		Age:           p.Age,
		PaymentMethod: p.PaymentMethod,
	}
}
