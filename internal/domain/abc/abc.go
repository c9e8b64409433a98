// Package abc ranks customers by total spend and splits them into three
// value tiers (Pareto analysis).
//
// Customers are sorted by total amount descending and cut by headcount:
// the top 20% of customers (rounded up) are tier A, the next slice up to
// 50% is tier B, the remainder is tier C. The cumulative share column is
// carried for reporting only; tier assignment never depends on it.
package abc

import (
	"math"
	"sort"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

// Tier is a customer value tier.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Tiers lists the tiers in rank order.
var Tiers = []Tier{TierA, TierB, TierC}

// Row is one customer in the ranked ABC table.
type Row struct {
	CustomerID       string
	TotalAmount      float64
	PurchaseCount    int
	CumulativeAmount float64
	CumulativeShare  float64 // percent of the grand total
	Tier             Tier
}

// Result is the full ABC table, rows in descending total-amount order.
type Result struct {
	Rows       []Row
	GrandTotal float64
}

// Segment aggregates purchases per customer and assigns ABC tiers.
//
// Ties on total amount keep aggregation order (first appearance in the
// input), so repeated runs over the same dataset produce identical tables.
// An empty dataset, or one whose grand total is zero, yields an empty
// result rather than a division fault.
func Segment(purchases []purchase.Purchase) *Result {
	summaries := purchase.Aggregate(purchases)
	if len(summaries) == 0 {
		return &Result{}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalAmount > summaries[j].TotalAmount
	})

	var grandTotal float64
	for _, s := range summaries {
		grandTotal += s.TotalAmount
	}
	if grandTotal == 0 {
		return &Result{}
	}

	n := len(summaries)
	aCut := cutIndex(n, 0.2)
	bCut := cutIndex(n, 0.5)

	rows := make([]Row, n)
	var running float64
	for i, s := range summaries {
		running += s.TotalAmount
		rows[i] = Row{
			CustomerID:       s.CustomerID,
			TotalAmount:      s.TotalAmount,
			PurchaseCount:    s.PurchaseCount,
			CumulativeAmount: running,
			CumulativeShare:  running / grandTotal * 100,
			Tier:             tierFor(i, aCut, bCut),
		}
	}

	return &Result{Rows: rows, GrandTotal: grandTotal}
}

// cutIndex is the first rank index outside a headcount slice: ceil(n*fraction).
// Ceiling keeps tier A non-empty for any non-empty table (a lone customer is
// tier A, never B or C).
func cutIndex(n int, fraction float64) int {
	return int(math.Ceil(float64(n) * fraction))
}

func tierFor(rank, aCut, bCut int) Tier {
	switch {
	case rank < aCut:
		return TierA
	case rank < bCut:
		return TierB
	default:
		return TierC
	}
}
