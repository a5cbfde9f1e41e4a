package sentiment

import (
	"fmt"
	"math"

	"SentiPulse/internal/domain/models"
)

// Weights is the fixed weight table for the composite index. The sum is
// exactly 1.0; ValidateWeights enforces this at startup and on every run.
var Weights = map[models.IndicatorType]float64{
	models.IndicatorVolatility: 0.30,
	models.IndicatorBreadth:    0.25,
	models.IndicatorVolume:     0.20,
	models.IndicatorMargin:     0.15,
	models.IndicatorForeign:    0.10,
}

const weightSumTolerance = 1e-9

// ErrNoValidIndicators is not an error condition of Aggregate itself;
// callers that require a numeric score use it to escalate a no-data
// composite, e.g. the scheduled runner tags its alert log with it.
var ErrNoValidIndicators = fmt.Errorf("sentiment: no valid indicators within freshness window")

// Composite is the raw aggregation outcome before classification.
type Composite struct {
	Score       int // 0..100, or models.ScoreMissing when NoData
	WeightedSum float64
	TotalWeight float64
	ValidCount  int
	NoData      bool
}

// ValidateWeights rejects malformed weight tables: unknown indicator
// types, negative weights, or a sum away from 1.0.
func ValidateWeights(weights map[models.IndicatorType]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("sentiment: empty weight table")
	}
	var sum float64
	for t, w := range weights {
		if !t.Known() {
			return fmt.Errorf("sentiment: unknown indicator type %q in weight table", t)
		}
		if w < 0 {
			return fmt.Errorf("sentiment: negative weight %f for %q", w, t)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("sentiment: weight table sums to %f, want 1.0", sum)
	}
	return nil
}

// Aggregate combines normalized indicators into a composite score.
// Missing indicators are excluded from both the weighted sum and the
// denominator, which re-normalizes the weights of the present ones
// instead of penalizing the score. Zero valid indicators yields a
// no-data composite, never a division by zero.
//
// Iteration follows the canonical indicator order so repeated runs over
// identical inputs produce bit-identical sums.
func Aggregate(snapshot map[models.IndicatorType]models.Normalized, weights map[models.IndicatorType]float64) (Composite, error) {
	if err := ValidateWeights(weights); err != nil {
		return Composite{}, err
	}
	for t := range snapshot {
		if _, ok := weights[t]; !ok {
			return Composite{}, fmt.Errorf("sentiment: indicator %q not in weight table", t)
		}
	}

	var weightedSum, totalWeight float64
	valid := 0
	for _, t := range models.AllIndicators() {
		w, ok := weights[t]
		if !ok {
			continue
		}
		v, ok := snapshot[t]
		if !ok || !v.Valid {
			continue
		}
		weightedSum += v.Value * w
		totalWeight += w
		valid++
	}

	if valid == 0 || totalWeight == 0 {
		return Composite{Score: models.ScoreMissing, NoData: true}, nil
	}

	fraction := weightedSum / totalWeight
	score := int(math.Round(clamp01(fraction) * 100))
	return Composite{
		Score:       score,
		WeightedSum: weightedSum,
		TotalWeight: totalWeight,
		ValidCount:  valid,
	}, nil
}
