package insights

import (
	"sort"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

// SeriesPoint is one bucket of a sales time series.
type SeriesPoint struct {
	Period string
	Total  float64
}

// DailySeries sums sales per calendar day, ascending.
func DailySeries(purchases []purchase.Purchase) []SeriesPoint {
	return seriesBy(purchases, func(p purchase.Purchase) string {
		return p.Date.Format("2006-01-02")
	})
}

// MonthlySeries sums sales per month, ascending.
func MonthlySeries(purchases []purchase.Purchase) []SeriesPoint {
	return seriesBy(purchases, func(p purchase.Purchase) string {
		return purchase.MonthKey(p.Date)
	})
}

func seriesBy(purchases []purchase.Purchase, key func(purchase.Purchase) string) []SeriesPoint {
	totals := make(map[string]float64)
	for _, p := range purchases {
		totals[key(p)] += p.Amount
	}

	points := make([]SeriesPoint, 0, len(totals))
	for period, total := range totals {
		points = append(points, SeriesPoint{Period: period, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

// BreakdownRow is one group in an attribute breakdown.
type BreakdownRow struct {
	Key          string
	Total        float64
	Share        float64 // percent of the filtered dataset's sales
	Average      float64 // mean amount per transaction in the group
	Transactions int
}

// CategorySales breaks sales down by purchase category, largest first.
func CategorySales(purchases []purchase.Purchase) []BreakdownRow {
	return breakdown(purchases, func(p purchase.Purchase) string { return p.Category })
}

// RegionSales breaks sales down by region, largest first.
func RegionSales(purchases []purchase.Purchase) []BreakdownRow {
	return breakdown(purchases, func(p purchase.Purchase) string { return p.Region })
}

// PaymentMethodSales breaks sales down by payment method, largest first.
func PaymentMethodSales(purchases []purchase.Purchase) []BreakdownRow {
	return breakdown(purchases, func(p purchase.Purchase) string { return p.PaymentMethod })
}

// AgeBandSales breaks sales down by age band. All five bands are returned
// in natural order, zero-filled when empty.
func AgeBandSales(purchases []purchase.Purchase) []BreakdownRow {
	rows := breakdown(purchases, func(p purchase.Purchase) string { return purchase.AgeBand(p.Age) })

	byKey := make(map[string]BreakdownRow, len(rows))
	for _, r := range rows {
		byKey[r.Key] = r
	}

	ordered := make([]BreakdownRow, 0, len(purchase.AgeBands))
	for _, band := range purchase.AgeBands {
		r, ok := byKey[band]
		if !ok {
			r = BreakdownRow{Key: band}
		}
		ordered = append(ordered, r)
	}
	return ordered
}

func breakdown(purchases []purchase.Purchase, key func(purchase.Purchase) string) []BreakdownRow {
	var grandTotal float64
	totals := make(map[string]*BreakdownRow)
	for _, p := range purchases {
		grandTotal += p.Amount
		k := key(p)
		row, ok := totals[k]
		if !ok {
			row = &BreakdownRow{Key: k}
			totals[k] = row
		}
		row.Total += p.Amount
		row.Transactions++
	}

	rows := make([]BreakdownRow, 0, len(totals))
	for _, row := range totals {
		if grandTotal > 0 {
			row.Share = row.Total / grandTotal * 100
		}
		row.Average = row.Total / float64(row.Transactions)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// GenderAgeRow is one gender and age band combination.
type GenderAgeRow struct {
	Gender  string
	AgeBand string
	Total   float64
}

// GenderAgeSales sums sales per gender and age band, ordered by gender
// then natural band order. Only observed combinations are returned.
func GenderAgeSales(purchases []purchase.Purchase) []GenderAgeRow {
	type comboKey struct{ gender, band string }
	totals := make(map[comboKey]float64)
	for _, p := range purchases {
		totals[comboKey{p.Gender, purchase.AgeBand(p.Age)}] += p.Amount
	}

	bandOrder := make(map[string]int, len(purchase.AgeBands))
	for i, band := range purchase.AgeBands {
		bandOrder[band] = i
	}

	rows := make([]GenderAgeRow, 0, len(totals))
	for k, total := range totals {
		rows = append(rows, GenderAgeRow{Gender: k.gender, AgeBand: k.band, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Gender != rows[j].Gender {
			return rows[i].Gender < rows[j].Gender
		}
		return bandOrder[rows[i].AgeBand] < bandOrder[rows[j].AgeBand]
	})
	return rows
}

// Matrix is a two-dimensional sales pivot: Values[i][j] holds the total
// for Rows[i] crossed with Columns[j], zero-filled.
type Matrix struct {
	Rows    []string
	Columns []string
	Values  [][]float64
}

// RegionCategoryMatrix pivots sales by region (rows) and category
// (columns), labels sorted ascending.
func RegionCategoryMatrix(purchases []purchase.Purchase) *Matrix {
	regions := make(map[string]struct{})
	categories := make(map[string]struct{})
	totals := make(map[[2]string]float64)
	for _, p := range purchases {
		regions[p.Region] = struct{}{}
		categories[p.Category] = struct{}{}
		totals[[2]string{p.Region, p.Category}] += p.Amount
	}

	m := &Matrix{
		Rows:    sortedKeys(regions),
		Columns: sortedKeys(categories),
	}
	m.Values = make([][]float64, len(m.Rows))
	for i, region := range m.Rows {
		m.Values[i] = make([]float64, len(m.Columns))
		for j, category := range m.Columns {
			m.Values[i][j] = totals[[2]string{region, category}]
		}
	}
	return m
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
