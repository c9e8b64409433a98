package handlers

import (
	"log/slog"
	"net/http"

	"github.com/shopsight/segmentation-backend/internal/api/dto"
	"github.com/shopsight/segmentation-backend/internal/domain/abc"
	"github.com/shopsight/segmentation-backend/internal/domain/frequency"
	"github.com/shopsight/segmentation-backend/internal/domain/insights"
	"github.com/shopsight/segmentation-backend/internal/domain/rfm"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

// SegmentsHandler handles segmentation HTTP requests. Every request
// reloads the filtered dataset and recomputes from scratch; results are
// never cached, so ingesting new data is immediately visible.
type SegmentsHandler struct {
	*Base
	logger *slog.Logger
}

// NewSegmentsHandler creates a new segments handler.
func NewSegmentsHandler(repo storage.Repository, logger *slog.Logger) *SegmentsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SegmentsHandler{
		Base:   NewBase(repo),
		logger: logger,
	}
}

// ABC handles GET /api/segments/abc - ranked customers with value tiers.
func (h *SegmentsHandler) ABC(w http.ResponseWriter, r *http.Request) {
	dataset, _, ok := h.loadFiltered(w, r)
	if !ok {
		return
	}

	result := abc.Segment(dataset)
	summary := insights.SummarizeABC(result)

	response := dto.ABCResponse{
		Rows:       make([]dto.ABCRowResponse, 0, len(result.Rows)),
		Summary:    make([]dto.TierSummaryResponse, 0, len(summary)),
		GrandTotal: result.GrandTotal,
	}
	for _, row := range result.Rows {
		response.Rows = append(response.Rows, dto.ABCRowResponse{
			CustomerID:       row.CustomerID,
			TotalAmount:      row.TotalAmount,
			PurchaseCount:    row.PurchaseCount,
			CumulativeAmount: row.CumulativeAmount,
			CumulativeShare:  row.CumulativeShare,
			Tier:             string(row.Tier),
		})
	}
	for _, s := range summary {
		response.Summary = append(response.Summary, dto.TierSummaryResponse{
			Tier:         string(s.Tier),
			Customers:    s.Customers,
			TotalSales:   s.TotalSales,
			SalesShare:   s.SalesShare,
			AverageTotal: s.AverageTotal,
			MedianTotal:  s.MedianTotal,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Frequency handles GET /api/segments/frequency - loyalty tiers by
// purchase count.
func (h *SegmentsHandler) Frequency(w http.ResponseWriter, r *http.Request) {
	dataset, _, ok := h.loadFiltered(w, r)
	if !ok {
		return
	}

	rows := frequency.Segment(dataset)
	summary := insights.SummarizeFrequency(rows)

	response := dto.FrequencyResponse{
		Rows:    make([]dto.FrequencyRowResponse, 0, len(rows)),
		Summary: make([]dto.FrequencySummaryResponse, 0, len(summary)),
	}
	for _, row := range rows {
		response.Rows = append(response.Rows, dto.FrequencyRowResponse{
			CustomerID:    row.CustomerID,
			TotalAmount:   row.TotalAmount,
			PurchaseCount: row.PurchaseCount,
			Segment:       string(row.Tier),
			SegmentName:   row.Tier.DisplayNameJA(),
		})
	}
	for _, s := range summary {
		response.Summary = append(response.Summary, dto.FrequencySummaryResponse{
			Segment:      string(s.Tier),
			SegmentName:  s.Tier.DisplayNameJA(),
			Customers:    s.Customers,
			TotalSales:   s.TotalSales,
			SalesShare:   s.SalesShare,
			AverageTotal: s.AverageTotal,
			AverageCount: s.AverageCount,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// RFM handles GET /api/segments/rfm - recency/frequency/monetary scores
// and named segments.
func (h *SegmentsHandler) RFM(w http.ResponseWriter, r *http.Request) {
	dataset, filter, ok := h.loadFiltered(w, r)
	if !ok {
		return
	}

	result := rfm.Segment(dataset)
	summary := insights.SummarizeRFM(result)

	if result.Binning.FallbackUsed() {
		h.logger.Warn("rfm scoring fell back to equal-width bins",
			"recency", result.Binning.Recency,
			"frequency", result.Binning.Frequency,
			"monetary", result.Binning.Monetary,
			"customers", len(result.Rows),
			"filtered", !filter.IsZero(),
		)
	}

	response := dto.RFMResponse{
		Rows:    make([]dto.RFMRowResponse, 0, len(result.Rows)),
		Summary: make([]dto.RFMSummaryResponse, 0, len(summary)),
		Binning: dto.RFMBinningResponse{
			Recency:   string(result.Binning.Recency),
			Frequency: string(result.Binning.Frequency),
			Monetary:  string(result.Binning.Monetary),
		},
	}
	if !result.SnapshotDate.IsZero() {
		response.SnapshotDate = result.SnapshotDate.Format("2006-01-02")
	}
	for _, row := range result.Rows {
		response.Rows = append(response.Rows, dto.RFMRowResponse{
			CustomerID:    row.CustomerID,
			RecencyDays:   row.RecencyDays,
			Frequency:     row.Frequency,
			Monetary:      row.Monetary,
			RScore:        row.RScore,
			FScore:        row.FScore,
			MScore:        row.MScore,
			CombinedScore: row.CombinedScore,
			Segment:       string(row.Label),
			SegmentName:   row.Label.DisplayNameJA(),
		})
	}
	for _, s := range summary {
		response.Summary = append(response.Summary, dto.RFMSummaryResponse{
			Segment:      string(s.Label),
			SegmentName:  s.Label.DisplayNameJA(),
			Customers:    s.Customers,
			MonetarySum:  s.MonetarySum,
			MeanCombined: s.MeanCombined,
			MeanR:        s.MeanR,
			MeanF:        s.MeanF,
			MeanM:        s.MeanM,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}
