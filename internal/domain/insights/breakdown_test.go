package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

func sampleDataset() []purchase.Purchase {
	return []purchase.Purchase{
		{CustomerID: "C001", Amount: 1200, Date: date(2024, 1, 5), Region: "東京", Category: "食品", Gender: "女性", Age: 34, PaymentMethod: "クレジットカード"},
		{CustomerID: "C002", Amount: 800, Date: date(2024, 1, 5), Region: "大阪", Category: "家電", Gender: "男性", Age: 52, PaymentMethod: "現金"},
		{CustomerID: "C001", Amount: 400, Date: date(2024, 2, 14), Region: "東京", Category: "衣類", Gender: "女性", Age: 34, PaymentMethod: "クレジットカード"},
		{CustomerID: "C003", Amount: 600, Date: date(2024, 2, 14), Region: "東京", Category: "食品", Gender: "男性", Age: 28, PaymentMethod: "電子マネー"},
		{CustomerID: "C004", Amount: 1000, Date: date(2024, 3, 1), Region: "大阪", Category: "食品", Gender: "女性", Age: 61, PaymentMethod: "現金"},
	}
}

func TestDailySeries(t *testing.T) {
	points := DailySeries(sampleDataset())
	require.Len(t, points, 3)

	assert.Equal(t, "2024-01-05", points[0].Period)
	assert.InDelta(t, 2000, points[0].Total, 0.001)
	assert.Equal(t, "2024-02-14", points[1].Period)
	assert.InDelta(t, 1000, points[1].Total, 0.001)
	assert.Equal(t, "2024-03-01", points[2].Period)
	assert.InDelta(t, 1000, points[2].Total, 0.001)
}

func TestMonthlySeries(t *testing.T) {
	points := MonthlySeries(sampleDataset())
	require.Len(t, points, 3)

	assert.Equal(t, "2024-01", points[0].Period)
	assert.InDelta(t, 2000, points[0].Total, 0.001)
	assert.Equal(t, "2024-02", points[1].Period)
	assert.Equal(t, "2024-03", points[2].Period)
}

func TestSeries_Empty(t *testing.T) {
	assert.Empty(t, DailySeries(nil))
	assert.Empty(t, MonthlySeries(nil))
}

func TestCategorySales(t *testing.T) {
	rows := CategorySales(sampleDataset())
	require.Len(t, rows, 3)

	// 食品 2800, 家電 800, 衣類 400
	assert.Equal(t, "食品", rows[0].Key)
	assert.InDelta(t, 2800, rows[0].Total, 0.001)
	assert.Equal(t, 3, rows[0].Transactions)
	assert.InDelta(t, 70, rows[0].Share, 0.001)
	assert.InDelta(t, 2800.0/3, rows[0].Average, 0.001)

	assert.Equal(t, "家電", rows[1].Key)
	assert.Equal(t, "衣類", rows[2].Key)
}

func TestRegionSales(t *testing.T) {
	rows := RegionSales(sampleDataset())
	require.Len(t, rows, 2)

	assert.Equal(t, "東京", rows[0].Key)
	assert.InDelta(t, 2200, rows[0].Total, 0.001)
	assert.Equal(t, "大阪", rows[1].Key)
	assert.InDelta(t, 1800, rows[1].Total, 0.001)
}

func TestPaymentMethodSales(t *testing.T) {
	rows := PaymentMethodSales(sampleDataset())
	require.Len(t, rows, 3)

	assert.Equal(t, "現金", rows[0].Key)
	assert.InDelta(t, 1800, rows[0].Total, 0.001)
	assert.Equal(t, "クレジットカード", rows[1].Key)
	assert.Equal(t, "電子マネー", rows[2].Key)
}

func TestAgeBandSales_AllBandsPresent(t *testing.T) {
	rows := AgeBandSales(sampleDataset())
	require.Len(t, rows, 5)

	assert.Equal(t, "20代以下", rows[0].Key)
	assert.InDelta(t, 600, rows[0].Total, 0.001)
	assert.Equal(t, "30代", rows[1].Key)
	assert.InDelta(t, 1600, rows[1].Total, 0.001)
	assert.Equal(t, "40代", rows[2].Key)
	assert.Equal(t, 0.0, rows[2].Total) // no customers in their forties
	assert.Equal(t, "50代", rows[3].Key)
	assert.InDelta(t, 800, rows[3].Total, 0.001)
	assert.Equal(t, "60代以上", rows[4].Key)
	assert.InDelta(t, 1000, rows[4].Total, 0.001)
}

func TestGenderAgeSales(t *testing.T) {
	rows := GenderAgeSales(sampleDataset())
	require.Len(t, rows, 4)

	// Gender ascending, then band order
	assert.Equal(t, GenderAgeRow{Gender: "女性", AgeBand: "30代", Total: 1600}, rows[0])
	assert.Equal(t, GenderAgeRow{Gender: "女性", AgeBand: "60代以上", Total: 1000}, rows[1])
	assert.Equal(t, GenderAgeRow{Gender: "男性", AgeBand: "20代以下", Total: 600}, rows[2])
	assert.Equal(t, GenderAgeRow{Gender: "男性", AgeBand: "50代", Total: 800}, rows[3])
}

func TestRegionCategoryMatrix(t *testing.T) {
	m := RegionCategoryMatrix(sampleDataset())

	require.Equal(t, []string{"大阪", "東京"}, m.Rows)
	require.Equal(t, []string{"家電", "衣類", "食品"}, m.Columns)

	// 大阪: 家電 800, 衣類 0, 食品 1000
	assert.InDelta(t, 800, m.Values[0][0], 0.001)
	assert.Equal(t, 0.0, m.Values[0][1])
	assert.InDelta(t, 1000, m.Values[0][2], 0.001)

	// 東京: 家電 0, 衣類 400, 食品 1800
	assert.Equal(t, 0.0, m.Values[1][0])
	assert.InDelta(t, 400, m.Values[1][1], 0.001)
	assert.InDelta(t, 1800, m.Values[1][2], 0.001)
}

func TestBreakdown_TiesBrokenByKey(t *testing.T) {
	purchases := []purchase.Purchase{
		{CustomerID: "a", Amount: 100, Date: date(2024, 1, 1), Category: "b-cat"},
		{CustomerID: "b", Amount: 100, Date: date(2024, 1, 2), Category: "a-cat"},
	}

	rows := CategorySales(purchases)
	require.Len(t, rows, 2)
	assert.Equal(t, "a-cat", rows[0].Key)
	assert.Equal(t, "b-cat", rows[1].Key)
}
