package sentiment

import (
	"math"

	"SentiPulse/internal/domain/models"
)

// Calibration maps a raw indicator reading onto the [0,1] sentiment scale
// with clamped linear scaling. Inverted indicators scale on reversed bounds
// (a high raw value means fear, e.g. the volatility proxy).
type Calibration struct {
	Min      float64
	Max      float64
	Inverted bool
}

// Empirically calibrated bounds per indicator. The breadth ratio is already
// on [0,1] by construction; the volume ratio is scaled against its rolling
// average so 1.0 means parity and 2.0 means double the usual volume.
var calibrations = map[models.IndicatorType]Calibration{
	models.IndicatorVolatility: {Min: 10, Max: 50, Inverted: true},
	models.IndicatorBreadth:    {Min: 0, Max: 1},
	models.IndicatorVolume:     {Min: 0, Max: 2},
	models.IndicatorMargin:     {Min: -0.05, Max: 0.05},
	models.IndicatorForeign:    {Min: -1e9, Max: 1e9},
}

// CalibrationFor exposes the bounds used for an indicator type.
func CalibrationFor(t models.IndicatorType) (Calibration, bool) {
	c, ok := calibrations[t]
	return c, ok
}

// Normalize maps a raw reading to [0,1] or Absent. Missing and invalid
// inputs never produce an error; that is the expected common case.
func Normalize(t models.IndicatorType, raw float64, valid bool) models.Normalized {
	if !valid || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return models.Absent()
	}
	cal, ok := calibrations[t]
	if !ok {
		return models.Absent()
	}
	span := cal.Max - cal.Min
	if span <= 0 {
		return models.Absent()
	}
	// Inverted bounds divide from the far edge directly. 1-(raw-min)/span
	// drifts off the nearest representable result (raw 42 on 10..50 must
	// map to 0.2, not 0.19999999999999996).
	var f float64
	if cal.Inverted {
		f = (cal.Max - raw) / span
	} else {
		f = (raw - cal.Min) / span
	}
	return models.Present(clamp01(f))
}

// FromStored revalidates a persisted normalized value. Anything outside
// [0,1] (including the -1 sentinel) is treated as missing.
func FromStored(v float64) models.Normalized {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return models.Absent()
	}
	return models.Present(v)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
