package sentiment

import "SentiPulse/internal/domain/models"

// Classification bands with inclusive upper bounds, ascending. First match wins.
type band struct {
	Upper  int
	Status models.Status
}

var bands = []band{
	{25, models.StatusExtremeFear},
	{40, models.StatusFear},
	{60, models.StatusNeutral},
	{75, models.StatusGreed},
	{100, models.StatusExtremeGreed},
}

var statusColors = map[models.Status]string{
	models.StatusExtremeFear:  "#8B0000",
	models.StatusFear:         "#FF6347",
	models.StatusNeutral:      "#FFD700",
	models.StatusGreed:        "#9ACD32",
	models.StatusExtremeGreed: "#228B22",
	models.StatusNoData:       "#9E9E9E",
}

var statusAdvice = map[models.Status]string{
	models.StatusExtremeFear:  "Market in extreme fear; contrarian buying opportunities may exist",
	models.StatusFear:         "Market is fearful; consider gradual accumulation",
	models.StatusNeutral:      "Market sentiment balanced; hold current positions",
	models.StatusGreed:        "Market is greedy; consider trimming positions",
	models.StatusExtremeGreed: "Market in extreme greed; caution against chasing highs",
	models.StatusNoData:       "Insufficient indicator data; no assessment available",
}

// Classify maps a numeric score to a status. Out-of-range scores are
// clamped into [0,100] before classification, never after.
func Classify(score int) models.Status {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	for _, b := range bands {
		if score <= b.Upper {
			return b.Status
		}
	}
	return models.StatusExtremeGreed
}

// ColorFor returns the fixed display color for a status.
func ColorFor(s models.Status) string { return statusColors[s] }

// AdviceFor returns the fixed advice string for a status.
func AdviceFor(s models.Status) string { return statusAdvice[s] }
