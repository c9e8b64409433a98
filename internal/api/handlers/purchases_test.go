package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/segmentation-backend/internal/api/dto"
	"github.com/shopsight/segmentation-backend/internal/api/handlers"
	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/infrastructure/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedPurchases fills a mock with a small dataset covering two regions,
// two categories and both genders.
func seedPurchases(repo *storage.MockRepository) {
	repo.AddPurchases(
		purchase.Purchase{CustomerID: "C001", Amount: 1200, Date: day(2024, 6, 1), Region: "東京", Category: "食品", Gender: "男性", Age: 34, PaymentMethod: "現金"},
		purchase.Purchase{CustomerID: "C002", Amount: 800, Date: day(2024, 6, 2), Region: "大阪", Category: "家電", Gender: "女性", Age: 28, PaymentMethod: "クレジットカード"},
		purchase.Purchase{CustomerID: "C001", Amount: 400, Date: day(2024, 6, 10), Region: "東京", Category: "家電", Gender: "男性", Age: 34, PaymentMethod: "現金"},
		purchase.Purchase{CustomerID: "C003", Amount: 1500, Date: day(2024, 6, 20), Region: "東京", Category: "食品", Gender: "女性", Age: 45, PaymentMethod: "現金"},
	)
}

func TestPurchasesHandler_List(t *testing.T) {
	t.Run("returns empty list when store is empty", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewPurchasesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response dto.PurchaseListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Empty(t, response.Purchases)
		assert.Equal(t, 0, response.TotalCount)
		assert.Equal(t, 50, response.Limit) // default limit
		assert.Equal(t, 0, response.Offset)
	})

	t.Run("returns purchases from repository", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedPurchases(repo)
		handler := handlers.NewPurchasesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.PurchaseListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 4, response.TotalCount)
		assert.Len(t, response.Purchases, 4)
		assert.Equal(t, "C001", response.Purchases[0].CustomerID)
		assert.Equal(t, "2024-06-01", response.Purchases[0].Date)
	})

	t.Run("filters by region", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedPurchases(repo)
		handler := handlers.NewPurchasesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases?region=大阪", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.PurchaseListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 1, response.TotalCount)
		assert.Equal(t, "C002", response.Purchases[0].CustomerID)
	})

	t.Run("filters by date range inclusive", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedPurchases(repo)
		handler := handlers.NewPurchasesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases?from=2024-06-02&to=2024-06-10", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.PurchaseListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 2, response.TotalCount)
	})

	t.Run("respects pagination params", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedPurchases(repo)
		handler := handlers.NewPurchasesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases?limit=2&offset=1", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.PurchaseListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 4, response.TotalCount)
		assert.Len(t, response.Purchases, 2)
		assert.Equal(t, 2, response.Limit)
		assert.Equal(t, 1, response.Offset)
		assert.Equal(t, "C002", response.Purchases[0].CustomerID)
	})

	t.Run("returns 400 for malformed date", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewPurchasesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases?from=06/01/2024", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&apiErr)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeBadRequest, apiErr.Code)
	})

	t.Run("returns 500 on store failure", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.ListPurchasesErr = errors.New("disk error")
		handler := handlers.NewPurchasesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var apiErr dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&apiErr)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeInternalError, apiErr.Code)
	})
}

func TestFiltersHandler_Get(t *testing.T) {
	t.Run("returns distinct values and date bounds", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedPurchases(repo)
		handler := handlers.NewFiltersHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.FilterValuesResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, []string{"大阪", "東京"}, response.Regions)
		assert.Equal(t, []string{"家電", "食品"}, response.Categories)
		assert.Equal(t, []string{"女性", "男性"}, response.Genders)
		assert.Equal(t, "2024-06-01", response.MinDate)
		assert.Equal(t, "2024-06-20", response.MaxDate)
	})

	t.Run("empty store yields empty arrays", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewFiltersHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "null")

		var response dto.FilterValuesResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Empty(t, response.Regions)
		assert.Empty(t, response.MinDate)
	})

	t.Run("returns 500 on store failure", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.GetFilterValuesErr = errors.New("disk error")
		handler := handlers.NewFiltersHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
