package sentiment

import (
	"testing"

	"SentiPulse/internal/domain/models"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  models.Status
	}{
		{0, models.StatusExtremeFear},
		{25, models.StatusExtremeFear},
		{26, models.StatusFear},
		{40, models.StatusFear},
		{41, models.StatusNeutral},
		{60, models.StatusNeutral},
		{61, models.StatusGreed},
		{75, models.StatusGreed},
		{76, models.StatusExtremeGreed},
		{100, models.StatusExtremeGreed},
	}
	for _, c := range cases {
		if got := Classify(c.score); got != c.want {
			t.Fatalf("score %d: got %s, want %s", c.score, got, c.want)
		}
	}
}

func TestClassifyClampsOutOfRange(t *testing.T) {
	if got := Classify(-10); got != models.StatusExtremeFear {
		t.Fatalf("score -10: got %s", got)
	}
	if got := Classify(250); got != models.StatusExtremeGreed {
		t.Fatalf("score 250: got %s", got)
	}
}

func TestClassifyNeverNoData(t *testing.T) {
	for score := -5; score <= 105; score++ {
		if Classify(score) == models.StatusNoData {
			t.Fatalf("score %d classified as no_data", score)
		}
	}
}

func TestStatusTables(t *testing.T) {
	statuses := []models.Status{
		models.StatusExtremeFear, models.StatusFear, models.StatusNeutral,
		models.StatusGreed, models.StatusExtremeGreed, models.StatusNoData,
	}
	for _, s := range statuses {
		if ColorFor(s) == "" {
			t.Fatalf("no color for %s", s)
		}
		if AdviceFor(s) == "" {
			t.Fatalf("no advice for %s", s)
		}
	}
}
