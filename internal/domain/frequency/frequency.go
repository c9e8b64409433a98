// Package frequency classifies customers into loyalty tiers by purchase
// count: one-time buyers, repeat buyers, and loyal buyers.
//
// Thresholds are fixed business rules: 1 purchase → new, 2-4 → repeat,
// 5 or more → loyal. Each customer is classified independently; there is
// no ranking or cumulative step.
package frequency

import "github.com/shopsight/segmentation-backend/internal/domain/purchase"

// Tier is a loyalty tier.
type Tier string

const (
	TierNew    Tier = "new"
	TierRepeat Tier = "repeat"
	TierLoyal  Tier = "loyal"
)

// Tiers lists the tiers from least to most loyal.
var Tiers = []Tier{TierNew, TierRepeat, TierLoyal}

// DisplayNameJA returns the tier's Japanese report label.
func (t Tier) DisplayNameJA() string {
	switch t {
	case TierNew:
		return "新規顧客"
	case TierRepeat:
		return "リピーター"
	case TierLoyal:
		return "ロイヤル顧客"
	default:
		return string(t)
	}
}

// Row is one classified customer.
type Row struct {
	CustomerID    string
	TotalAmount   float64
	PurchaseCount int
	Tier          Tier
}

// Segment aggregates purchases per customer and classifies each by count.
// Rows keep aggregation (first-appearance) order; empty input yields an
// empty table.
func Segment(purchases []purchase.Purchase) []Row {
	summaries := purchase.Aggregate(purchases)
	rows := make([]Row, len(summaries))
	for i, s := range summaries {
		rows[i] = Row{
			CustomerID:    s.CustomerID,
			TotalAmount:   s.TotalAmount,
			PurchaseCount: s.PurchaseCount,
			Tier:          Classify(s.PurchaseCount),
		}
	}
	return rows
}

// Classify maps a purchase count to its loyalty tier.
func Classify(count int) Tier {
	switch {
	case count <= 1:
		return TierNew
	case count <= 4:
		return TierRepeat
	default:
		return TierLoyal
	}
}
