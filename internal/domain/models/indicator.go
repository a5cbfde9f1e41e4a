package models

import "time"

// IndicatorType identifies one of the market indicators feeding the index.
type IndicatorType string

const (
	IndicatorVolatility IndicatorType = "volatility"
	IndicatorBreadth    IndicatorType = "breadth"
	IndicatorVolume     IndicatorType = "volume"
	IndicatorMargin     IndicatorType = "margin"
	IndicatorForeign    IndicatorType = "foreign"
)

// AllIndicators returns the indicator types in canonical order.
// Aggregation iterates this slice so floating point accumulation is stable.
func AllIndicators() []IndicatorType {
	return []IndicatorType{
		IndicatorVolatility,
		IndicatorBreadth,
		IndicatorVolume,
		IndicatorMargin,
		IndicatorForeign,
	}
}

// Known reports whether t is a recognized indicator type.
func (t IndicatorType) Known() bool {
	switch t {
	case IndicatorVolatility, IndicatorBreadth, IndicatorVolume, IndicatorMargin, IndicatorForeign:
		return true
	}
	return false
}

// MissingValue is the wire-level sentinel for an absent normalized value.
// In-process code uses Normalized instead; the sentinel only appears in
// serialized payloads and persisted rows.
const MissingValue float64 = -1

// Normalized is an optional value on the [0,1] sentiment scale.
type Normalized struct {
	Value float64
	Valid bool
}

// Present wraps an in-range normalized value.
func Present(v float64) Normalized { return Normalized{Value: v, Valid: true} }

// Absent is the missing-value state.
func Absent() Normalized { return Normalized{} }

// Sentinel collapses the optional to its wire representation.
func (n Normalized) Sentinel() float64 {
	if !n.Valid {
		return MissingValue
	}
	return n.Value
}

// IndicatorReading is a raw observation persisted by the collection layer.
// The aggregation core treats readings as read-only input.
type IndicatorReading struct {
	Type        IndicatorType `json:"type"`
	RawValue    float64       `json:"raw_value"`
	Normalized  float64       `json:"normalized"` // [0,1] or MissingValue
	Source      string        `json:"source"`
	TradingDate string        `json:"trading_date"` // YYYY-MM-DD bucket
	CapturedAt  time.Time     `json:"captured_at"`
	Valid       bool          `json:"valid"`
	ErrorMsg    string        `json:"error,omitempty"`
}
