// Package insights derives the reporting numbers the dashboard shows next
// to the segmentation tables: headline totals, per-tier and per-segment
// summary statistics, sales time series and attribute breakdowns.
//
// Everything here is a pure function over an already-filtered dataset,
// recomputed per call like the segmenters themselves.
package insights

import (
	"sort"

	"github.com/shopsight/segmentation-backend/internal/domain/abc"
	"github.com/shopsight/segmentation-backend/internal/domain/frequency"
	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
	"github.com/shopsight/segmentation-backend/internal/domain/rfm"
)

// Overview is the headline metric block.
type Overview struct {
	TotalSales       float64
	CustomerCount    int
	TransactionCount int
	AverageAmount    float64 // mean amount per transaction
}

// ComputeOverview totals a dataset. Empty input yields all zeros.
func ComputeOverview(purchases []purchase.Purchase) Overview {
	o := Overview{TransactionCount: len(purchases)}
	customers := make(map[string]struct{})
	for _, p := range purchases {
		o.TotalSales += p.Amount
		customers[p.CustomerID] = struct{}{}
	}
	o.CustomerCount = len(customers)
	if o.TransactionCount > 0 {
		o.AverageAmount = o.TotalSales / float64(o.TransactionCount)
	}
	return o
}

// TierSummary describes one ABC tier.
type TierSummary struct {
	Tier         abc.Tier
	Customers    int
	TotalSales   float64
	SalesShare   float64 // percent of the grand total
	AverageTotal float64 // mean of per-customer totals in the tier
	MedianTotal  float64
}

// SummarizeABC builds per-tier statistics from an ABC result. All three
// tiers are always present, zero-valued when a tier collapsed.
func SummarizeABC(result *abc.Result) []TierSummary {
	totals := make(map[abc.Tier][]float64)
	for _, row := range result.Rows {
		totals[row.Tier] = append(totals[row.Tier], row.TotalAmount)
	}

	summaries := make([]TierSummary, 0, len(abc.Tiers))
	for _, tier := range abc.Tiers {
		values := totals[tier]
		s := TierSummary{Tier: tier, Customers: len(values)}
		for _, v := range values {
			s.TotalSales += v
		}
		if result.GrandTotal > 0 {
			s.SalesShare = s.TotalSales / result.GrandTotal * 100
		}
		if len(values) > 0 {
			s.AverageTotal = s.TotalSales / float64(len(values))
			s.MedianTotal = median(values)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// FrequencySummary describes one loyalty tier.
type FrequencySummary struct {
	Tier         frequency.Tier
	Customers    int
	TotalSales   float64
	SalesShare   float64
	AverageTotal float64 // mean per-customer total
	AverageCount float64 // mean purchase count
}

// SummarizeFrequency builds per-tier statistics from frequency rows in
// new/repeat/loyal order, zero-valued tiers included.
func SummarizeFrequency(rows []frequency.Row) []FrequencySummary {
	var grandTotal float64
	grouped := make(map[frequency.Tier][]frequency.Row)
	for _, row := range rows {
		grandTotal += row.TotalAmount
		grouped[row.Tier] = append(grouped[row.Tier], row)
	}

	summaries := make([]FrequencySummary, 0, len(frequency.Tiers))
	for _, tier := range frequency.Tiers {
		members := grouped[tier]
		s := FrequencySummary{Tier: tier, Customers: len(members)}
		var countSum int
		for _, m := range members {
			s.TotalSales += m.TotalAmount
			countSum += m.PurchaseCount
		}
		if grandTotal > 0 {
			s.SalesShare = s.TotalSales / grandTotal * 100
		}
		if len(members) > 0 {
			s.AverageTotal = s.TotalSales / float64(len(members))
			s.AverageCount = float64(countSum) / float64(len(members))
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// RFMSummary describes one RFM segment.
type RFMSummary struct {
	Label        rfm.Label
	Customers    int
	MonetarySum  float64
	MeanCombined float64
	MeanR        float64
	MeanF        float64
	MeanM        float64
}

// SummarizeRFM builds per-segment statistics from an RFM result. Only
// segments that actually occur are returned, sorted by mean combined score
// descending (precedence order breaks ties).
func SummarizeRFM(result *rfm.Result) []RFMSummary {
	grouped := make(map[rfm.Label][]rfm.Row)
	for _, row := range result.Rows {
		grouped[row.Label] = append(grouped[row.Label], row)
	}

	summaries := make([]RFMSummary, 0, len(grouped))
	for _, label := range rfm.Labels {
		members := grouped[label]
		if len(members) == 0 {
			continue
		}
		s := RFMSummary{Label: label, Customers: len(members)}
		var rSum, fSum, mSum, combinedSum float64
		for _, m := range members {
			s.MonetarySum += m.Monetary
			rSum += float64(m.RScore)
			fSum += float64(m.FScore)
			mSum += float64(m.MScore)
			combinedSum += m.CombinedScore
		}
		n := float64(len(members))
		s.MeanCombined = combinedSum / n
		s.MeanR = rSum / n
		s.MeanF = fSum / n
		s.MeanM = mSum / n
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].MeanCombined > summaries[j].MeanCombined
	})
	return summaries
}

// median of a value set. The input is copied before sorting.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
