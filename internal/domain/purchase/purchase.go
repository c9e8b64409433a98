// Package purchase defines the purchase record shape shared by every
// analysis in this module, plus the customer-level aggregation they all
// start from.
//
// A dataset is a plain []Purchase. Record order carries no meaning, but
// Aggregate preserves first-appearance order so downstream sorts have a
// deterministic tie-break.
package purchase

import "time"

// Purchase is a single immutable purchase fact.
//
// CustomerID, Amount and Date drive the segmentation math. The remaining
// attribute fields come from the source data and feed filters and
// breakdowns only.
type Purchase struct {
	CustomerID    string
	Amount        float64
	Date          time.Time
	Region        string
	Category      string
	Gender        string
	Age           int
	PaymentMethod string
}

// CustomerSummary is the per-customer aggregate: one row per distinct
// customer in the input.
type CustomerSummary struct {
	CustomerID    string
	TotalAmount   float64
	PurchaseCount int
	LastPurchase  time.Time
}

// Aggregate groups purchases by customer in a single pass, summing amounts,
// counting records and tracking the latest purchase date. Summaries are
// returned in first-appearance order. Empty input yields an empty slice.
func Aggregate(purchases []Purchase) []CustomerSummary {
	if len(purchases) == 0 {
		return nil
	}

	index := make(map[string]int, len(purchases))
	summaries := make([]CustomerSummary, 0, len(purchases))

	for _, p := range purchases {
		i, ok := index[p.CustomerID]
		if !ok {
			i = len(summaries)
			index[p.CustomerID] = i
			summaries = append(summaries, CustomerSummary{CustomerID: p.CustomerID})
		}
		s := &summaries[i]
		s.TotalAmount += p.Amount
		s.PurchaseCount++
		if p.Date.After(s.LastPurchase) {
			s.LastPurchase = p.Date
		}
	}

	return summaries
}

// Filter narrows a dataset before analysis. Empty string fields and zero
// times mean "no constraint". Date bounds are inclusive on both ends.
type Filter struct {
	Region   string
	Category string
	Gender   string
	From     time.Time
	To       time.Time
}

// IsZero reports whether the filter has no constraints at all.
func (f Filter) IsZero() bool {
	return f.Region == "" && f.Category == "" && f.Gender == "" &&
		f.From.IsZero() && f.To.IsZero()
}

// Matches reports whether a single purchase passes the filter.
func (f Filter) Matches(p Purchase) bool {
	if f.Region != "" && p.Region != f.Region {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if !f.From.IsZero() && p.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && p.Date.After(f.To) {
		return false
	}
	return true
}

// Apply returns the purchases that pass the filter, preserving order.
// A zero filter returns the input slice unchanged.
func (f Filter) Apply(purchases []Purchase) []Purchase {
	if f.IsZero() {
		return purchases
	}
	out := make([]Purchase, 0, len(purchases))
	for _, p := range purchases {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// AgeBands lists the reporting age bands in natural order.
var AgeBands = []string{"20代以下", "30代", "40代", "50代", "60代以上"}

// AgeBand buckets an age into one of the five reporting bands.
func AgeBand(age int) string {
	switch {
	case age <= 29:
		return "20代以下"
	case age <= 39:
		return "30代"
	case age <= 49:
		return "40代"
	case age <= 59:
		return "50代"
	default:
		return "60代以上"
	}
}

// MonthKey formats a date as its YYYY-MM grouping key.
func MonthKey(date time.Time) string {
	return date.Format("2006-01")
}

// Day normalizes a timestamp to a calendar date (midnight UTC). Loaders use
// it so recency math in days stays exact.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
