package sentiment

import (
	"math"
	"testing"

	"SentiPulse/internal/domain/models"
)

func fullSnapshot() map[models.IndicatorType]models.Normalized {
	return map[models.IndicatorType]models.Normalized{
		models.IndicatorVolatility: models.Present(0.2),
		models.IndicatorBreadth:    models.Present(0.6),
		models.IndicatorVolume:     models.Present(0.7),
		models.IndicatorMargin:     models.Present(0.5),
		models.IndicatorForeign:    models.Present(0.3),
	}
}

func TestAggregateEndToEnd(t *testing.T) {
	c, err := Aggregate(fullSnapshot(), Weights)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if c.Score != 46 {
		t.Fatalf("score = %d, want 46", c.Score)
	}
	if math.Abs(c.WeightedSum-0.455) > 1e-12 {
		t.Fatalf("weighted sum = %v, want 0.455", c.WeightedSum)
	}
	if math.Abs(c.TotalWeight-1.0) > 1e-12 {
		t.Fatalf("total weight = %v, want 1.0", c.TotalWeight)
	}
	if c.ValidCount != 5 {
		t.Fatalf("valid count = %d, want 5", c.ValidCount)
	}
}

func TestAggregateDeterminism(t *testing.T) {
	a, err := Aggregate(fullSnapshot(), Weights)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Aggregate(fullSnapshot(), Weights)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a != b {
		t.Fatalf("runs differ: %+v vs %+v", a, b)
	}
}

func TestAggregateRenormalizesMissing(t *testing.T) {
	snap := map[models.IndicatorType]models.Normalized{
		models.IndicatorBreadth: models.Present(1.0),
	}
	c, err := Aggregate(snap, Weights)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	// The single present indicator absorbs the full denominator.
	if c.Score != 100 {
		t.Fatalf("score = %d, want 100", c.Score)
	}
	if c.ValidCount != 1 {
		t.Fatalf("valid count = %d, want 1", c.ValidCount)
	}
	if math.Abs(c.TotalWeight-Weights[models.IndicatorBreadth]) > 1e-12 {
		t.Fatalf("total weight = %v, want %v", c.TotalWeight, Weights[models.IndicatorBreadth])
	}
}

func TestAggregateAllMissing(t *testing.T) {
	snap := map[models.IndicatorType]models.Normalized{
		models.IndicatorVolatility: models.Absent(),
		models.IndicatorBreadth:    models.Absent(),
	}
	c, err := Aggregate(snap, Weights)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !c.NoData {
		t.Fatalf("expected no-data composite")
	}
	if c.Score != models.ScoreMissing {
		t.Fatalf("score = %d, want sentinel %d", c.Score, models.ScoreMissing)
	}
}

func TestAggregateEmptySnapshot(t *testing.T) {
	c, err := Aggregate(map[models.IndicatorType]models.Normalized{}, Weights)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !c.NoData {
		t.Fatalf("expected no-data composite")
	}
}

func TestAggregateClampsFraction(t *testing.T) {
	// Present values above 1 should not normally occur but must be defended.
	snap := map[models.IndicatorType]models.Normalized{
		models.IndicatorBreadth: models.Present(1.7),
	}
	c, err := Aggregate(snap, Weights)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if c.Score != 100 {
		t.Fatalf("score = %d, want clamped 100", c.Score)
	}
}

func TestAggregateUnknownIndicator(t *testing.T) {
	snap := map[models.IndicatorType]models.Normalized{
		models.IndicatorType("momentum"): models.Present(0.5),
	}
	if _, err := Aggregate(snap, Weights); err == nil {
		t.Fatalf("expected error for unknown indicator type")
	}
}

func TestValidateWeights(t *testing.T) {
	if err := ValidateWeights(Weights); err != nil {
		t.Fatalf("fixed table should validate: %v", err)
	}
	bad := map[models.IndicatorType]float64{
		models.IndicatorVolatility: 0.5,
		models.IndicatorBreadth:    0.6,
	}
	if err := ValidateWeights(bad); err == nil {
		t.Fatalf("expected error for sum != 1")
	}
	neg := map[models.IndicatorType]float64{
		models.IndicatorVolatility: 1.2,
		models.IndicatorBreadth:    -0.2,
	}
	if err := ValidateWeights(neg); err == nil {
		t.Fatalf("expected error for negative weight")
	}
	if err := ValidateWeights(nil); err == nil {
		t.Fatalf("expected error for empty table")
	}
}
