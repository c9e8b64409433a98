// Package rfm scores customers on recency (days since last purchase),
// frequency (purchase count) and monetary value (total spend), then
// assigns each customer one of six named segments.
//
// Each metric is scored 1-5 by quintile binning against the rest of the
// dataset; recency is inverted so recent buyers score high. The combined
// score is the plain mean of the three:
//
//	combined = (R + F + M) / 3
//
// Segment rules are evaluated in a fixed precedence order (see Classify).
package rfm

import (
	"time"

	"github.com/shopsight/segmentation-backend/internal/domain/purchase"
)

// Label is one of the six RFM segments.
type Label string

const (
	LabelChampion     Label = "champion"
	LabelPromising    Label = "promising"
	LabelDormant      Label = "dormant"
	LabelNewHighValue Label = "new_high_value"
	LabelNewCustomer  Label = "new_customer"
	LabelGeneral      Label = "general"
)

// Labels lists the segments in classification precedence order.
var Labels = []Label{
	LabelChampion,
	LabelPromising,
	LabelDormant,
	LabelNewHighValue,
	LabelNewCustomer,
	LabelGeneral,
}

// DisplayNameJA returns the segment's Japanese report label.
func (l Label) DisplayNameJA() string {
	switch l {
	case LabelChampion:
		return "優良顧客"
	case LabelPromising:
		return "有望顧客"
	case LabelDormant:
		return "休眠顧客"
	case LabelNewHighValue:
		return "新規優良顧客"
	case LabelNewCustomer:
		return "新規顧客"
	case LabelGeneral:
		return "一般顧客"
	default:
		return string(l)
	}
}

// Row is one scored customer.
type Row struct {
	CustomerID    string
	RecencyDays   int
	Frequency     int
	Monetary      float64
	RScore        int
	FScore        int
	MScore        int
	CombinedScore float64 // mean of the three scores, deliberately unrounded
	Label         Label
}

// Binning reports which strategy scored each metric, so callers can log
// fallbacks. A fallback is expected on duplicate-heavy data and is never
// surfaced as an error.
type Binning struct {
	Recency   BinMethod
	Frequency BinMethod
	Monetary  BinMethod
}

// FallbackUsed reports whether any metric needed equal-width binning.
func (b Binning) FallbackUsed() bool {
	return b.Recency == BinEqualWidth || b.Frequency == BinEqualWidth || b.Monetary == BinEqualWidth
}

// Result is the scored RFM table.
type Result struct {
	Rows         []Row
	SnapshotDate time.Time
	Binning      Binning
}

// Segment computes RFM scores and segment labels for every customer in the
// dataset. The snapshot date is the latest purchase date in the whole
// dataset; each customer's recency is measured against it in whole days.
// An empty dataset yields an empty result.
func Segment(purchases []purchase.Purchase) *Result {
	summaries := purchase.Aggregate(purchases)
	if len(summaries) == 0 {
		return &Result{}
	}

	snapshot := summaries[0].LastPurchase
	for _, s := range summaries[1:] {
		if s.LastPurchase.After(snapshot) {
			snapshot = s.LastPurchase
		}
	}

	n := len(summaries)
	recency := make([]float64, n)
	freq := make([]float64, n)
	monetary := make([]float64, n)
	for i, s := range summaries {
		recency[i] = float64(daysBetween(s.LastPurchase, snapshot))
		freq[i] = float64(s.PurchaseCount)
		monetary[i] = s.TotalAmount
	}

	rScores, rMethod := scoreQuintiles(recency, true)
	fScores, fMethod := scoreQuintiles(freq, false)
	mScores, mMethod := scoreQuintiles(monetary, false)

	rows := make([]Row, n)
	for i, s := range summaries {
		combined := float64(rScores[i]+fScores[i]+mScores[i]) / 3
		rows[i] = Row{
			CustomerID:    s.CustomerID,
			RecencyDays:   int(recency[i]),
			Frequency:     s.PurchaseCount,
			Monetary:      s.TotalAmount,
			RScore:        rScores[i],
			FScore:        fScores[i],
			MScore:        mScores[i],
			CombinedScore: combined,
			Label:         Classify(combined, rScores[i], fScores[i], mScores[i]),
		}
	}

	return &Result{
		Rows:         rows,
		SnapshotDate: snapshot,
		Binning:      Binning{Recency: rMethod, Frequency: fMethod, Monetary: mMethod},
	}
}

// Classify assigns the segment for one customer's scores. Rules are
// checked in order and the first match wins; a high combined score
// outranks every later rule, so a big spender who only bought once is
// still a champion, not a new customer.
func Classify(combined float64, r, f, m int) Label {
	switch {
	case combined >= 4.5:
		return LabelChampion
	case combined >= 3.5:
		return LabelPromising
	case r <= 2:
		return LabelDormant
	case f == 1 && m >= 4:
		return LabelNewHighValue
	case f == 1:
		return LabelNewCustomer
	default:
		return LabelGeneral
	}
}

// daysBetween counts whole days from a to b, where b is not before a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
