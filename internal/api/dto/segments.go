package dto

// ABCRowResponse is one ranked customer in the ABC table.
type ABCRowResponse struct {
	CustomerID       string  `json:"customer_id"`
	TotalAmount      float64 `json:"total_amount"`
	PurchaseCount    int     `json:"purchase_count"`
	CumulativeAmount float64 `json:"cumulative_amount"`
	CumulativeShare  float64 `json:"cumulative_share"`
	Tier             string  `json:"tier"`
}

// TierSummaryResponse describes one ABC tier.
type TierSummaryResponse struct {
	Tier         string  `json:"tier"`
	Customers    int     `json:"customers"`
	TotalSales   float64 `json:"total_sales"`
	SalesShare   float64 `json:"sales_share"`
	AverageTotal float64 `json:"average_total"`
	MedianTotal  float64 `json:"median_total"`
}

// ABCResponse is returned by the ABC segmentation endpoint.
type ABCResponse struct {
	Rows       []ABCRowResponse      `json:"rows"`
	Summary    []TierSummaryResponse `json:"summary"`
	GrandTotal float64               `json:"grand_total"`
}

// FrequencyRowResponse is one classified customer.
type FrequencyRowResponse struct {
	CustomerID    string  `json:"customer_id"`
	TotalAmount   float64 `json:"total_amount"`
	PurchaseCount int     `json:"purchase_count"`
	Segment       string  `json:"segment"`
	SegmentName   string  `json:"segment_name"`
}

// FrequencySummaryResponse describes one loyalty tier.
type FrequencySummaryResponse struct {
	Segment      string  `json:"segment"`
	SegmentName  string  `json:"segment_name"`
	Customers    int     `json:"customers"`
	TotalSales   float64 `json:"total_sales"`
	SalesShare   float64 `json:"sales_share"`
	AverageTotal float64 `json:"average_total"`
	AverageCount float64 `json:"average_count"`
}

// FrequencyResponse is returned by the frequency segmentation endpoint.
type FrequencyResponse struct {
	Rows    []FrequencyRowResponse     `json:"rows"`
	Summary []FrequencySummaryResponse `json:"summary"`
}

// RFMRowResponse is one scored customer.
type RFMRowResponse struct {
	CustomerID    string  `json:"customer_id"`
	RecencyDays   int     `json:"recency_days"`
	Frequency     int     `json:"frequency"`
	Monetary      float64 `json:"monetary"`
	RScore        int     `json:"r_score"`
	FScore        int     `json:"f_score"`
	MScore        int     `json:"m_score"`
	CombinedScore float64 `json:"combined_score"`
	Segment       string  `json:"segment"`
	SegmentName   string  `json:"segment_name"`
}

// RFMSummaryResponse describes one RFM segment.
type RFMSummaryResponse struct {
	Segment      string  `json:"segment"`
	SegmentName  string  `json:"segment_name"`
	Customers    int     `json:"customers"`
	MonetarySum  float64 `json:"monetary_sum"`
	MeanCombined float64 `json:"mean_combined"`
	MeanR        float64 `json:"mean_r"`
	MeanF        float64 `json:"mean_f"`
	MeanM        float64 `json:"mean_m"`
}

// RFMBinningResponse reports which binning strategy scored each metric.
type RFMBinningResponse struct {
	Recency   string `json:"recency"`
	Frequency string `json:"frequency"`
	Monetary  string `json:"monetary"`
}

// RFMResponse is returned by the RFM segmentation endpoint.
type RFMResponse struct {
	Rows         []RFMRowResponse     `json:"rows"`
	Summary      []RFMSummaryResponse `json:"summary"`
	SnapshotDate string               `json:"snapshot_date,omitempty"`
	Binning      RFMBinningResponse   `json:"binning"`
}
