package domain

// RevenueByMonth aggregates the charges of closed sessions by the calendar
// month ("2006-01") of their exit time.
type RevenueByMonth struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}
