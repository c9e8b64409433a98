package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// seedRun creates an ingest run so purchases can reference it
func seedRun(t *testing.T, store *Storage, id string) {
	t.Helper()
	err := store.CreateRun(&IngestRun{ID: id, Source: "csv", SourceInfo: "test.csv"})
	require.NoError(t, err)
}

func TestStorage_SaveAndLoadDataset(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	seedRun(t, store, "run-1")

	input := []purchase.Purchase{
		{CustomerID: "C001", Amount: 1200, Date: date(2024, 6, 1), Region: "東京", Category: "食品", Gender: "男性", Age: 34, PaymentMethod: "現金"},
		{CustomerID: "C002", Amount: 800, Date: date(2024, 6, 2), Region: "大阪", Category: "家電", Gender: "女性", Age: 28, PaymentMethod: "クレジットカード"},
		{CustomerID: "C001", Amount: 400, Date: date(2024, 6, 3), Region: "東京", Category: "衣類", Gender: "男性", Age: 34, PaymentMethod: "現金"},
	}

	err = store.SavePurchases("run-1", input)
	require.NoError(t, err)

	loaded, err := store.LoadDataset(purchase.Filter{})
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	// Insertion order preserved
	assert.Equal(t, "C001", loaded[0].CustomerID)
	assert.Equal(t, "C002", loaded[1].CustomerID)
	assert.Equal(t, "C001", loaded[2].CustomerID)

	// Full field roundtrip
	assert.Equal(t, 1200.0, loaded[0].Amount)
	assert.True(t, loaded[0].Date.Equal(date(2024, 6, 1)), "date should roundtrip")
	assert.Equal(t, "東京", loaded[0].Region)
	assert.Equal(t, "食品", loaded[0].Category)
	assert.Equal(t, "男性", loaded[0].Gender)
	assert.Equal(t, 34, loaded[0].Age)
	assert.Equal(t, "現金", loaded[0].PaymentMethod)
}

func TestStorage_SavePurchases_EmptyBatch(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	err = store.SavePurchases("run-1", nil)
	assert.NoError(t, err)
}

func TestStorage_SavePurchases_UnknownRunRejected(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	err = store.SavePurchases("no-such-run", []purchase.Purchase{
		{CustomerID: "C001", Amount: 100, Date: date(2024, 6, 1)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY constraint failed")
}

func TestStorage_LoadDataset_Empty(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.LoadDataset(purchase.Filter{})
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStorage_LoadDataset_AttributeFilters(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	seedRun(t, store, "run-1")
	err = store.SavePurchases("run-1", []purchase.Purchase{
		{CustomerID: "C001", Amount: 100, Date: date(2024, 6, 1), Region: "東京", Category: "食品", Gender: "男性"},
		{CustomerID: "C002", Amount: 200, Date: date(2024, 6, 2), Region: "大阪", Category: "食品", Gender: "女性"},
		{CustomerID: "C003", Amount: 300, Date: date(2024, 6, 3), Region: "東京", Category: "家電", Gender: "女性"},
	})
	require.NoError(t, err)

	byRegion, err := store.LoadDataset(purchase.Filter{Region: "東京"})
	require.NoError(t, err)
	require.Len(t, byRegion, 2)
	assert.Equal(t, "C001", byRegion[0].CustomerID)
	assert.Equal(t, "C003", byRegion[1].CustomerID)

	combined, err := store.LoadDataset(purchase.Filter{Region: "東京", Category: "食品"})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "C001", combined[0].CustomerID)

	byGender, err := store.LoadDataset(purchase.Filter{Gender: "女性"})
	require.NoError(t, err)
	assert.Len(t, byGender, 2)
}

func TestStorage_LoadDataset_DateRangeInclusive(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	seedRun(t, store, "run-1")
	err = store.SavePurchases("run-1", []purchase.Purchase{
		{CustomerID: "C001", Amount: 100, Date: date(2024, 6, 1)},
		{CustomerID: "C002", Amount: 200, Date: date(2024, 6, 10)},
		{CustomerID: "C003", Amount: 300, Date: date(2024, 6, 20)},
	})
	require.NoError(t, err)

	// Both boundary days are included
	loaded, err := store.LoadDataset(purchase.Filter{From: date(2024, 6, 1), To: date(2024, 6, 10)})
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "C001", loaded[0].CustomerID)
	assert.Equal(t, "C002", loaded[1].CustomerID)

	fromOnly, err := store.LoadDataset(purchase.Filter{From: date(2024, 6, 11)})
	require.NoError(t, err)
	require.Len(t, fromOnly, 1)
	assert.Equal(t, "C003", fromOnly[0].CustomerID)
}

func TestStorage_ListPurchases_Pagination(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	seedRun(t, store, "run-1")
	var batch []purchase.Purchase
	for i := 1; i <= 7; i++ {
		batch = append(batch, purchase.Purchase{
			CustomerID: "C001",
			Amount:     float64(i * 100),
			Date:       date(2024, 6, i),
		})
	}
	require.NoError(t, store.SavePurchases("run-1", batch))

	result, err := store.ListPurchases(PurchaseFilters{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalCount)
	assert.Equal(t, 3, result.Limit)
	assert.Equal(t, 3, result.Offset)
	require.Len(t, result.Purchases, 3)
	assert.Equal(t, 400.0, result.Purchases[0].Amount)
	assert.Equal(t, 600.0, result.Purchases[2].Amount)

	// Default limit kicks in when unset
	all, err := store.ListPurchases(PurchaseFilters{})
	require.NoError(t, err)
	assert.Equal(t, 50, all.Limit)
	assert.Len(t, all.Purchases, 7)
}

func TestStorage_CountPurchases(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.CountPurchases()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	seedRun(t, store, "run-1")
	require.NoError(t, store.SavePurchases("run-1", []purchase.Purchase{
		{CustomerID: "C001", Amount: 100, Date: date(2024, 6, 1)},
		{CustomerID: "C002", Amount: 200, Date: date(2024, 6, 2)},
	}))

	count, err = store.CountPurchases()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStorage_GetFilterValues(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	seedRun(t, store, "run-1")
	err = store.SavePurchases("run-1", []purchase.Purchase{
		{CustomerID: "C001", Amount: 100, Date: date(2024, 3, 15), Region: "東京", Category: "食品", Gender: "男性", PaymentMethod: "現金"},
		{CustomerID: "C002", Amount: 200, Date: date(2024, 1, 5), Region: "大阪", Category: "家電", Gender: "女性", PaymentMethod: "クレジットカード"},
		{CustomerID: "C003", Amount: 300, Date: date(2024, 6, 30), Region: "東京", Category: "食品", Gender: "女性", PaymentMethod: "現金"},
	})
	require.NoError(t, err)

	values, err := store.GetFilterValues()
	require.NoError(t, err)

	assert.Equal(t, []string{"大阪", "東京"}, values.Regions)
	assert.Equal(t, []string{"家電", "食品"}, values.Categories)
	assert.Equal(t, []string{"女性", "男性"}, values.Genders)
	assert.Equal(t, []string{"クレジットカード", "現金"}, values.PaymentMethods)
	assert.Equal(t, "2024-01-05", values.MinDate)
	assert.Equal(t, "2024-06-30", values.MaxDate)
}

func TestStorage_GetFilterValues_EmptyDataset(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	values, err := store.GetFilterValues()
	require.NoError(t, err)

	assert.Empty(t, values.Regions)
	assert.Empty(t, values.MinDate)
	assert.Empty(t, values.MaxDate)
}
