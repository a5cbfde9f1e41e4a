package models

import "time"

// SentimentHistoryRecord is the persisted snapshot of one aggregation run.
// Append-only; multiple records per trading date are expected under the
// periodic trigger. Indicators and details are stored as JSON blobs.
type SentimentHistoryRecord struct {
	TradingDate string
	Score       int
	Status      Status
	Indicators  string // JSON map[IndicatorType]float64
	Details     string // JSON CalculationDetails
	CreatedAt   time.Time
}

// HistoryPoint is the projection returned by the history query.
type HistoryPoint struct {
	Date   string `json:"date"`
	Score  int    `json:"score"`
	Status Status `json:"status"`
}

// StatsSummary aggregates history records over a date range.
// Numeric fields cover records with a numeric score; the status
// histogram counts every record including no_data runs.
type StatsSummary struct {
	AvgScore     int            `json:"avg_score"`
	MaxScore     int            `json:"max_score"`
	MinScore     int            `json:"min_score"`
	Volatility   float64        `json:"volatility"` // population standard deviation
	StatusCounts map[Status]int `json:"status_counts"`
	Records      int            `json:"records"`
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"`
}
