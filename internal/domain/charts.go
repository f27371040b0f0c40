package domain

// SetupChartEntry is total P&L for one setup label.
type SetupChartEntry struct {
	Setup   string  `json:"setup"`
	TotalPL float64 `json:"total_pl"`
}

// RMultipleData holds the realized R-multiple histogram: one count per
// fixed bucket, labels and counts in matching order.
type RMultipleData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// SeriesData is a label/value parallel pair for bar charts
// (P&L by weekday, P&L by hour).
type SeriesData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}
