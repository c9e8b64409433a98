package frequency

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		count int
		want  Tier
	}{
		{1, TierNew},
		{2, TierRepeat},
		{3, TierRepeat},
		{4, TierRepeat},
		{5, TierLoyal},
		{6, TierLoyal},
		{50, TierLoyal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.count), "Classify(%d)", tt.count)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	for count := 1; count <= 10; count++ {
		assert.Equal(t, Classify(count), Classify(count))
	}
}

func TestSegment_MixedLoyalty(t *testing.T) {
	buy := func(id string, times int) []purchase.Purchase {
		out := make([]purchase.Purchase, times)
		for i := range out {
			out[i] = purchase.Purchase{CustomerID: id, Amount: 100, Date: date(2024, 1, 1+i)}
		}
		return out
	}

	var purchases []purchase.Purchase
	purchases = append(purchases, buy("once", 1)...)
	purchases = append(purchases, buy("thrice", 3)...)
	purchases = append(purchases, buy("regular", 7)...)

	rows := Segment(purchases)
	require.Len(t, rows, 3)

	assert.Equal(t, "once", rows[0].CustomerID)
	assert.Equal(t, TierNew, rows[0].Tier)

	assert.Equal(t, "thrice", rows[1].CustomerID)
	assert.Equal(t, TierRepeat, rows[1].Tier)
	assert.InDelta(t, 300, rows[1].TotalAmount, 0.001)

	assert.Equal(t, "regular", rows[2].CustomerID)
	assert.Equal(t, TierLoyal, rows[2].Tier)
	assert.Equal(t, 7, rows[2].PurchaseCount)
}

func TestSegment_AllSinglePurchase(t *testing.T) {
	// 50 customers who each bought exactly once: everyone lands in "new"
	purchases := make([]purchase.Purchase, 50)
	for i := range purchases {
		purchases[i] = purchase.Purchase{
			CustomerID: fmt.Sprintf("C%03d", i),
			Amount:     float64(100 + i),
			Date:       date(2024, 1, 1+i%28),
		}
	}

	rows := Segment(purchases)
	require.Len(t, rows, 50)
	for _, row := range rows {
		assert.Equal(t, TierNew, row.Tier)
		assert.Equal(t, 1, row.PurchaseCount)
	}
}

func TestSegment_EmptyDataset(t *testing.T) {
	assert.Empty(t, Segment(nil))
}

func TestSegment_Deterministic(t *testing.T) {
	purchases := []purchase.Purchase{
		{CustomerID: "A", Amount: 10, Date: date(2024, 1, 1)},
		{CustomerID: "B", Amount: 20, Date: date(2024, 1, 2)},
		{CustomerID: "A", Amount: 30, Date: date(2024, 1, 3)},
	}

	assert.Equal(t, Segment(purchases), Segment(purchases))
}

func TestTierDisplayNameJA(t *testing.T) {
	assert.Equal(t, "新規顧客", TierNew.DisplayNameJA())
	assert.Equal(t, "リピーター", TierRepeat.DisplayNameJA())
	assert.Equal(t, "ロイヤル顧客", TierLoyal.DisplayNameJA())
}
