package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"SentiPulse/internal/domain/models"
)

func seededHistory(scores []int, base time.Time) *fakeHistoryStore {
	h := &fakeHistoryStore{}
	for i, s := range scores {
		created := base.Add(time.Duration(i) * time.Hour)
		status := models.StatusNeutral
		if s == models.ScoreMissing {
			status = models.StatusNoData
		}
		h.recs = append(h.recs, models.SentimentHistoryRecord{
			TradingDate: created.Format("2006-01-02"),
			Score:       s,
			Status:      status,
			CreatedAt:   created,
		})
	}
	return h
}

func TestHistoryDaysZero(t *testing.T) {
	svc := NewHistoryService(seededHistory([]int{50, 60}, testNow.Add(-2*time.Hour)),
		WithHistoryClock(func() time.Time { return testNow }))
	points, err := svc.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if points == nil || len(points) != 0 {
		t.Fatalf("want empty slice, got %v", points)
	}
}

func TestHistoryProjection(t *testing.T) {
	svc := NewHistoryService(seededHistory([]int{40, 60}, testNow.Add(-3*time.Hour)),
		WithHistoryClock(func() time.Time { return testNow }))
	points, err := svc.History(context.Background(), 7)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].Score != 40 || points[1].Score != 60 {
		t.Fatalf("unexpected order: %+v", points)
	}
	if points[0].Date == "" || points[0].Status == "" {
		t.Fatalf("projection incomplete: %+v", points[0])
	}
}

func TestStatsEmptyRangeIsNil(t *testing.T) {
	svc := NewHistoryService(&fakeHistoryStore{})
	s, err := svc.Stats(context.Background(), testNow.Add(-24*time.Hour), testNow)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s != nil {
		t.Fatalf("want nil summary for empty range, got %+v", s)
	}
}

func TestStatsConstantSeries(t *testing.T) {
	base := testNow.Add(-10 * time.Hour)
	svc := NewHistoryService(seededHistory([]int{50, 50, 50}, base))
	s, err := svc.Stats(context.Background(), base, testNow)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s == nil {
		t.Fatalf("nil summary")
	}
	if s.Volatility != 0 {
		t.Fatalf("volatility = %v, want 0", s.Volatility)
	}
	if s.AvgScore != 50 || s.MaxScore != 50 || s.MinScore != 50 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestStatsVolatility(t *testing.T) {
	base := testNow.Add(-10 * time.Hour)
	svc := NewHistoryService(seededHistory([]int{40, 60}, base))
	s, err := svc.Stats(context.Background(), base, testNow)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if math.Abs(s.Volatility-10) > 1e-12 {
		t.Fatalf("volatility = %v, want 10", s.Volatility)
	}
	if s.AvgScore != 50 {
		t.Fatalf("avg = %d, want 50", s.AvgScore)
	}
	if s.MaxScore != 60 || s.MinScore != 40 {
		t.Fatalf("max/min = %d/%d", s.MaxScore, s.MinScore)
	}
}

func TestStatsHistogramCountsNoData(t *testing.T) {
	base := testNow.Add(-10 * time.Hour)
	svc := NewHistoryService(seededHistory([]int{50, models.ScoreMissing, 60}, base))
	s, err := svc.Stats(context.Background(), base, testNow)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s.Records != 3 {
		t.Fatalf("records = %d, want 3", s.Records)
	}
	if s.StatusCounts[models.StatusNoData] != 1 {
		t.Fatalf("no_data count = %d, want 1", s.StatusCounts[models.StatusNoData])
	}
	if s.StatusCounts[models.StatusNeutral] != 2 {
		t.Fatalf("neutral count = %d, want 2", s.StatusCounts[models.StatusNeutral])
	}
	// sentinel scores stay out of the numeric aggregates
	if s.AvgScore != 55 {
		t.Fatalf("avg = %d, want 55", s.AvgScore)
	}
	if s.MinScore != 50 {
		t.Fatalf("min = %d, want 50", s.MinScore)
	}
}
