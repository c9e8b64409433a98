package rfm

import (
	"math"
	"sort"
)

// BinMethod identifies which strategy produced a metric's scores.
type BinMethod string

const (
	// BinQuantile is equal-population binning: five bins holding roughly
	// the same number of customers.
	BinQuantile BinMethod = "quantile"
	// BinEqualWidth is the fallback for low-cardinality metrics: five bins
	// of equal value span between the observed min and max.
	BinEqualWidth BinMethod = "equal_width"
)

// scoreQuintiles scores every value into 1..5. Quantile binning is tried
// first; when the distribution has too many duplicates to form five
// distinct bin edges, the scorer switches to equal-width binning. That
// switch is a data property, not an error: a dataset where most customers
// purchased exactly once hits it on every run.
//
// Inverted orientation hands out labels 5,4,3,2,1 from the lowest bin up,
// so small raw values score high (recency).
func scoreQuintiles(values []float64, inverted bool) ([]int, BinMethod) {
	edges, ok := quantileEdges(values)
	if ok {
		return scoreByEdges(values, edges, inverted), BinQuantile
	}
	return scoreEqualWidth(values, inverted), BinEqualWidth
}

// quantileEdges computes the six bin edges at quantiles 0, 0.2, ..., 1.0.
// ok is false when any two adjacent edges coincide: five distinct bins
// cannot be formed.
func quantileEdges(values []float64) ([6]float64, bool) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var edges [6]float64
	for k := 0; k <= 5; k++ {
		edges[k] = quantile(sorted, float64(k)/5)
	}
	for k := 1; k <= 5; k++ {
		if edges[k] <= edges[k-1] {
			return edges, false
		}
	}
	return edges, true
}

// quantile interpolates linearly between the order statistics of an
// ascending-sorted slice.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// scoreByEdges assigns bins over right-closed intervals: values at or below
// edges[1] land in bin 0, values above edges[4] land in bin 4.
func scoreByEdges(values []float64, edges [6]float64, inverted bool) []int {
	scores := make([]int, len(values))
	for i, v := range values {
		bin := 0
		for k := 1; k <= 4; k++ {
			if v > edges[k] {
				bin = k
			}
		}
		scores[i] = binLabel(bin, inverted)
	}
	return scores
}

// scoreEqualWidth splits [min,max] into five equal spans. The final span is
// closed so the maximum lands in bin 4. A single distinct value collapses
// everything into the middle bin (score 3 in either orientation).
func scoreEqualWidth(values []float64, inverted bool) []int {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	scores := make([]int, len(values))
	if lo == hi {
		for i := range scores {
			scores[i] = binLabel(2, inverted)
		}
		return scores
	}

	span := (hi - lo) / 5
	for i, v := range values {
		bin := int((v - lo) / span)
		if bin > 4 {
			bin = 4
		}
		scores[i] = binLabel(bin, inverted)
	}
	return scores
}

// binLabel maps a bin index (0 = lowest values) to its 1-5 score.
func binLabel(bin int, inverted bool) int {
	if inverted {
		return 5 - bin
	}
	return bin + 1
}
