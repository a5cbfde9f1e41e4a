package sentiment

import (
	"math"
	"testing"

	"SentiPulse/internal/domain/models"
)

func TestNormalizeLinear(t *testing.T) {
	// breadth is calibrated 0..1, not inverted
	n := Normalize(models.IndicatorBreadth, 0.65, true)
	if !n.Valid {
		t.Fatalf("expected present value")
	}
	if math.Abs(n.Value-0.65) > 1e-12 {
		t.Fatalf("value = %v, want 0.65", n.Value)
	}
}

func TestNormalizeClamps(t *testing.T) {
	if n := Normalize(models.IndicatorBreadth, 1.8, true); n.Value != 1 {
		t.Fatalf("above max: value = %v, want 1", n.Value)
	}
	if n := Normalize(models.IndicatorBreadth, -0.3, true); n.Value != 0 {
		t.Fatalf("below min: value = %v, want 0", n.Value)
	}
}

func TestNormalizeInvertedVolatility(t *testing.T) {
	// volatility 10..50 inverted: 10 -> 1 (calm), 50 -> 0 (panic)
	if n := Normalize(models.IndicatorVolatility, 10, true); n.Value != 1 {
		t.Fatalf("vol=10: value = %v, want 1", n.Value)
	}
	if n := Normalize(models.IndicatorVolatility, 50, true); n.Value != 0 {
		t.Fatalf("vol=50: value = %v, want 0", n.Value)
	}
	n := Normalize(models.IndicatorVolatility, 30, true)
	if math.Abs(n.Value-0.5) > 1e-12 {
		t.Fatalf("vol=30: value = %v, want 0.5", n.Value)
	}
}

func TestNormalizeInvertedExact(t *testing.T) {
	// interior points land on the same double a direct literal would,
	// so downstream sums and the rounded score stay reproducible
	if n := Normalize(models.IndicatorVolatility, 42, true); n.Value != 0.2 {
		t.Fatalf("vol=42: value = %v, want exactly 0.2", n.Value)
	}
	if n := Normalize(models.IndicatorVolatility, 18, true); n.Value != 0.8 {
		t.Fatalf("vol=18: value = %v, want exactly 0.8", n.Value)
	}
}

func TestNormalizeInvalidInputs(t *testing.T) {
	if n := Normalize(models.IndicatorBreadth, 0.5, false); n.Valid {
		t.Fatalf("invalid reading must be absent")
	}
	if n := Normalize(models.IndicatorBreadth, math.NaN(), true); n.Valid {
		t.Fatalf("NaN must be absent")
	}
	if n := Normalize(models.IndicatorType("unknown"), 0.5, true); n.Valid {
		t.Fatalf("unknown type must be absent")
	}
}

func TestNormalizeNeverNaN(t *testing.T) {
	for _, typ := range models.AllIndicators() {
		for _, raw := range []float64{-1e12, 0, 1e12} {
			n := Normalize(typ, raw, true)
			if n.Valid && (math.IsNaN(n.Value) || n.Value < 0 || n.Value > 1) {
				t.Fatalf("%s raw=%v: out of range value %v", typ, raw, n.Value)
			}
		}
	}
}

func TestFromStored(t *testing.T) {
	if n := FromStored(0.4); !n.Valid || n.Value != 0.4 {
		t.Fatalf("in-range value rejected: %+v", n)
	}
	for _, v := range []float64{-1, -0.01, 1.01, math.NaN()} {
		if n := FromStored(v); n.Valid {
			t.Fatalf("value %v must be treated as missing", v)
		}
	}
}

func TestSentinelRoundTrip(t *testing.T) {
	if models.Absent().Sentinel() != models.MissingValue {
		t.Fatalf("absent sentinel mismatch")
	}
	if models.Present(0.7).Sentinel() != 0.7 {
		t.Fatalf("present sentinel mismatch")
	}
}
