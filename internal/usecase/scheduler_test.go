package usecase

import (
	"context"
	"testing"
	"time"

	"SentiPulse/internal/domain/models"
)

func TestRunnerRecordsNoDataRun(t *testing.T) {
	hist := &fakeHistoryStore{}
	svc := newService(t, &fakeMarketStore{}, hist)
	r := NewRunner(svc, time.Minute, testLogger(t))

	r.runOnce(context.Background())

	if len(hist.recs) != 1 {
		t.Fatalf("records = %d, want 1", len(hist.recs))
	}
	if hist.recs[0].Score != models.ScoreMissing {
		t.Fatalf("score = %d, want sentinel", hist.recs[0].Score)
	}
	if hist.recs[0].Status != models.StatusNoData {
		t.Fatalf("status = %s, want no_data", hist.recs[0].Status)
	}
}

func TestRunnerStopIdempotent(t *testing.T) {
	svc := newService(t, &fakeMarketStore{readings: fullReadings()}, &fakeHistoryStore{})
	r := NewRunner(svc, time.Hour, testLogger(t))
	r.Start(context.Background())
	r.Stop()
	r.Stop()
}
