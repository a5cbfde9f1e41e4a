package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"SentiPulse/internal/domain/models"
	domrepo "SentiPulse/internal/domain/repository"
)

// HistoryService reconstructs historical series and summary statistics.
type HistoryService struct {
	store domrepo.HistoryStore
	now   func() time.Time
}

func NewHistoryService(store domrepo.HistoryStore, opts ...HistoryOption) *HistoryService {
	h := &HistoryService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type HistoryOption func(*HistoryService)

// WithHistoryClock injects a clock for deterministic tests.
func WithHistoryClock(now func() time.Time) HistoryOption {
	return func(h *HistoryService) { h.now = now }
}

// History returns records newer than now-days, ascending, projected to
// {date, score, status}. days <= 0 yields an empty slice, not an error.
func (h *HistoryService) History(ctx context.Context, days int) ([]models.HistoryPoint, error) {
	if days <= 0 {
		return []models.HistoryPoint{}, nil
	}
	since := h.now().AddDate(0, 0, -days)
	recs, err := h.store.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	points := make([]models.HistoryPoint, 0, len(recs))
	for _, r := range recs {
		points = append(points, models.HistoryPoint{
			Date:   r.TradingDate,
			Score:  r.Score,
			Status: r.Status,
		})
	}
	return points, nil
}

// Stats aggregates records in [start, end]. A nil summary distinguishes
// "no data in range" from a range of genuinely low scores. Numeric
// aggregates cover records with a numeric score; the status histogram
// counts every record including no_data runs.
func (h *HistoryService) Stats(ctx context.Context, start, end time.Time) (*models.StatsSummary, error) {
	recs, err := h.store.ListRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list range: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	counts := make(map[models.Status]int)
	scores := make([]float64, 0, len(recs))
	maxScore, minScore := models.ScoreMissing, models.ScoreMissing
	for _, r := range recs {
		counts[r.Status]++
		if r.Score == models.ScoreMissing {
			continue
		}
		scores = append(scores, float64(r.Score))
		if maxScore == models.ScoreMissing || r.Score > maxScore {
			maxScore = r.Score
		}
		if minScore == models.ScoreMissing || r.Score < minScore {
			minScore = r.Score
		}
	}

	summary := &models.StatsSummary{
		AvgScore:     models.ScoreMissing,
		MaxScore:     maxScore,
		MinScore:     minScore,
		StatusCounts: counts,
		Records:      len(recs),
		Start:        start,
		End:          end,
	}
	if len(scores) > 0 {
		mean := meanOf(scores)
		summary.AvgScore = int(math.Round(mean))
		summary.Volatility = populationStdDev(scores, mean)
	}
	return summary, nil
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// populationStdDev is a stable two-pass formula: reproducible bit-for-bit
// for the same input sequence, unlike an online approximation.
func populationStdDev(xs []float64, mean float64) float64 {
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)))
}
