package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SentiPulse/internal/domain/models"
	"SentiPulse/internal/usecase"
	applogger "SentiPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type seededHistoryStore struct {
	recs []models.SentimentHistoryRecord
}

func (s *seededHistoryStore) Append(_ context.Context, rec *models.SentimentHistoryRecord) error {
	s.recs = append(s.recs, *rec)
	return nil
}

func (s *seededHistoryStore) ListSince(_ context.Context, since time.Time) ([]models.SentimentHistoryRecord, error) {
	var out []models.SentimentHistoryRecord
	for _, r := range s.recs {
		if r.CreatedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *seededHistoryStore) ListRange(_ context.Context, start, end time.Time) ([]models.SentimentHistoryRecord, error) {
	var out []models.SentimentHistoryRecord
	for _, r := range s.recs {
		if !r.CreatedAt.Before(start) && !r.CreatedAt.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestHandler(t *testing.T, recs ...models.SentimentHistoryRecord) *SentimentEchoHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	hist := usecase.NewHistoryService(&seededHistoryStore{recs: recs})
	return NewSentimentEchoHandler(l, nil, hist, nil, nil, 30*time.Minute)
}

func statsRequest(t *testing.T, h *SentimentEchoHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/sentiment/stats?"+query, nil)
	w := httptest.NewRecorder()
	if err := h.Stats(e.NewContext(req, w)); err != nil {
		t.Fatalf("stats: %v", err)
	}
	return w
}

// A record captured during the end day must count when the bounds come in
// as bare dates: [2025-06-01, 2025-06-02] covers all of June 2.
func TestStatsIncludesWholeEndDay(t *testing.T) {
	h := newTestHandler(t, models.SentimentHistoryRecord{
		TradingDate: "2025-06-02",
		Score:       46,
		Status:      models.StatusNeutral,
		CreatedAt:   time.Date(2025, 6, 2, 9, 40, 0, 0, time.UTC),
	})

	w := statsRequest(t, h, "start=2025-06-01&end=2025-06-02")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"records":1`) {
		t.Fatalf("end-day record missing from summary: %s", w.Body.String())
	}
}

func TestStatsEmptyRangeIsNotFound(t *testing.T) {
	h := newTestHandler(t)
	w := statsRequest(t, h, "start=2025-06-01&end=2025-06-02")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestStatsRejectsReversedRange(t *testing.T) {
	h := newTestHandler(t)
	w := statsRequest(t, h, "start=2025-06-02&end=2025-06-01")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCurrentMaxAgeBounds(t *testing.T) {
	h := newTestHandler(t) // query window 30m
	cases := []struct {
		min  int
		want time.Duration
	}{
		{0, 30 * time.Minute},    // absent: fall back to the window
		{10, 10 * time.Minute},   // explicit value within the window
		{1440, 30 * time.Minute}, // capped at the window
	}
	for _, c := range cases {
		if got := h.maxAge(&models.CurrentRequest{MaxAgeMin: c.min}); got != c.want {
			t.Fatalf("maxAge(%d) = %v, want %v", c.min, got, c.want)
		}
	}
}
