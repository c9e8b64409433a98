package handlers

import (
	"net/http"

	"github.com/shopsight/segmentation-backend/internal/api/dto"
	"github.com/shopsight/segmentation-backend/internal/domain/insights"
	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// InsightsHandler handles dashboard insight HTTP requests.
type InsightsHandler struct {
	*Base
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(repo storage.Repository) *InsightsHandler {
	return &InsightsHandler{
		Base: NewBase(repo),
	}
}

// Overview handles GET /api/insights/overview - headline totals for the
// filtered dataset.
func (h *InsightsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	dataset, _, ok := h.loadFiltered(w, r)
	if !ok {
		return
	}

	o := insights.ComputeOverview(dataset)

	h.WriteJSON(w, http.StatusOK, dto.OverviewResponse{
		TotalSales:       o.TotalSales,
		CustomerCount:    o.CustomerCount,
		TransactionCount: o.TransactionCount,
		AverageAmount:    o.AverageAmount,
	})
}

// Timeseries handles GET /api/insights/timeseries?interval=daily|monthly.
// The interval defaults to daily.
func (h *InsightsHandler) Timeseries(w http.ResponseWriter, r *http.Request) {
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "daily"
	}
	if interval != "daily" && interval != "monthly" {
		h.WriteError(w, http.StatusBadRequest,
			dto.BadRequestError("interval must be daily or monthly"))
		return
	}

	dataset, _, ok := h.loadFiltered(w, r)
	if !ok {
		return
	}

	var points []insights.SeriesPoint
	if interval == "monthly" {
		points = insights.MonthlySeries(dataset)
	} else {
		points = insights.DailySeries(dataset)
	}

	response := dto.TimeseriesResponse{
		Interval: interval,
		Points:   make([]dto.SeriesPointResponse, 0, len(points)),
	}
	for _, p := range points {
		response.Points = append(response.Points, dto.SeriesPointResponse{
			Period: p.Period,
			Total:  p.Total,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Breakdown handles GET /api/insights/breakdown?by=... where by is one of
// category, region, payment, age, gender_age or region_category. The
// response shape follows the grouping: flat rows for single attributes,
// gender/age pairs, or a zero-filled matrix for region_category.
func (h *InsightsHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = "category"
	}

	var grouping func(p []purchase.Purchase) []insights.BreakdownRow
	switch by {
	case "category":
		grouping = insights.CategorySales
	case "region":
		grouping = insights.RegionSales
	case "payment":
		grouping = insights.PaymentMethodSales
	case "age":
		grouping = insights.AgeBandSales
	case "gender_age", "region_category":
		// handled below, different response shapes
	default:
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(
			"by must be one of category, region, payment, age, gender_age, region_category"))
		return
	}

	dataset, _, ok := h.loadFiltered(w, r)
	if !ok {
		return
	}

	switch by {
	case "gender_age":
		rows := insights.GenderAgeSales(dataset)
		response := dto.GenderAgeResponse{
			By:   by,
			Rows: make([]dto.GenderAgeRowResponse, 0, len(rows)),
		}
		for _, row := range rows {
			response.Rows = append(response.Rows, dto.GenderAgeRowResponse{
				Gender:  row.Gender,
				AgeBand: row.AgeBand,
				Total:   row.Total,
			})
		}
		h.WriteJSON(w, http.StatusOK, response)

	case "region_category":
		m := insights.RegionCategoryMatrix(dataset)
		h.WriteJSON(w, http.StatusOK, dto.MatrixResponse{
			By:      by,
			Rows:    m.Rows,
			Columns: m.Columns,
			Values:  m.Values,
		})

	default:
		rows := grouping(dataset)
		response := dto.BreakdownResponse{
			By:   by,
			Rows: make([]dto.BreakdownRowResponse, 0, len(rows)),
		}
		for _, row := range rows {
			response.Rows = append(response.Rows, dto.BreakdownRowResponse{
				Key:          row.Key,
				Total:        row.Total,
				Share:        row.Share,
				Average:      row.Average,
				Transactions: row.Transactions,
			})
		}
		h.WriteJSON(w, http.StatusOK, response)
	}
}
