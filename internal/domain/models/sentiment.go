package models

import "time"

// Status is the discrete sentiment classification.
type Status string

const (
	StatusExtremeFear  Status = "extreme_fear"
	StatusFear         Status = "fear"
	StatusNeutral      Status = "neutral"
	StatusGreed        Status = "greed"
	StatusExtremeGreed Status = "extreme_greed"

	// StatusNoData is produced only when zero indicators were usable.
	// It sits outside the numeric scale and never results from a score.
	StatusNoData Status = "no_data"
)

// ScoreMissing is the sentinel score reported alongside StatusNoData.
const ScoreMissing = -1

// Computation method tags recorded in CalculationDetails.
const (
	MethodPrimary  = "primary"
	MethodFallback = "fallback"
)

// SentimentResult is the composite index output of one aggregation run.
// Immutable once returned.
type SentimentResult struct {
	Score      int                       `json:"score"` // 0..100, or ScoreMissing
	Status     Status                    `json:"status"`
	Color      string                    `json:"color"`
	Advice     string                    `json:"advice"`
	Indicators map[IndicatorType]float64 `json:"indicators"` // normalized values, MissingValue when absent
	Details    CalculationDetails        `json:"calculation_details"`
	Timestamp  time.Time                 `json:"timestamp"`
}

// CalculationDetails is the audit trail required for reproducibility and
// backtesting. Everything needed to re-derive the score is recorded.
type CalculationDetails struct {
	Method      string                      `json:"method"` // MethodPrimary | MethodFallback
	Weights     map[IndicatorType]float64   `json:"weights"`
	Snapshot    map[IndicatorType]float64   `json:"snapshot"` // normalized inputs, MissingValue when absent
	WeightedSum float64                     `json:"weighted_sum"`
	TotalWeight float64                     `json:"total_weight"`
	ValidCount  int                         `json:"valid_count"`
	Freshness   map[IndicatorType]time.Time `json:"freshness,omitempty"` // captured-at per contributing indicator
	ComputedAt  time.Time                   `json:"computed_at"`
}
