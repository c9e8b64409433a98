package dto

// OverviewResponse is the headline metric block.
type OverviewResponse struct {
	TotalSales       float64 `json:"total_sales"`
	CustomerCount    int     `json:"customer_count"`
	TransactionCount int     `json:"transaction_count"`
	AverageAmount    float64 `json:"average_amount"`
}

// SeriesPointResponse is one bucket of a sales time series.
type SeriesPointResponse struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
}

// TimeseriesResponse is returned by the timeseries endpoint.
type TimeseriesResponse struct {
	Interval string                `json:"interval"`
	Points   []SeriesPointResponse `json:"points"`
}

// BreakdownRowResponse is one group in an attribute breakdown.
type BreakdownRowResponse struct {
	Key          string  `json:"key"`
	Total        float64 `json:"total"`
	Share        float64 `json:"share"`
	Average      float64 `json:"average"`
	Transactions int     `json:"transactions"`
}

// BreakdownResponse is returned for single-attribute breakdowns.
type BreakdownResponse struct {
	By   string                 `json:"by"`
	Rows []BreakdownRowResponse `json:"rows"`
}

// GenderAgeRowResponse is one gender and age band combination.
type GenderAgeRowResponse struct {
	Gender  string  `json:"gender"`
	AgeBand string  `json:"age_band"`
	Total   float64 `json:"total"`
}

// GenderAgeResponse is returned for the gender_age breakdown.
type GenderAgeResponse struct {
	By   string                 `json:"by"`
	Rows []GenderAgeRowResponse `json:"rows"`
}

// MatrixResponse is a two-dimensional sales pivot, zero-filled.
type MatrixResponse struct {
	By      string      `json:"by"`
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}
