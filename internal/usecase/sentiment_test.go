package usecase

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"SentiPulse/internal/domain/models"
	applogger "SentiPulse/pkg/logger"
)

type fakeMarketStore struct {
	readings map[models.IndicatorType]models.IndicatorReading
	batchErr error
}

func (f *fakeMarketStore) GetLatestValid(_ context.Context, t models.IndicatorType, _ time.Duration) (*models.IndicatorReading, error) {
	if r, ok := f.readings[t]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeMarketStore) GetLatestValidBatch(_ context.Context, _ time.Duration) (map[models.IndicatorType]models.IndicatorReading, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make(map[models.IndicatorType]models.IndicatorReading, len(f.readings))
	for k, v := range f.readings {
		out[k] = v
	}
	return out, nil
}

func (f *fakeMarketStore) Store(_ context.Context, _ *models.IndicatorReading) error { return nil }
func (f *fakeMarketStore) Health(_ context.Context) error                            { return nil }

type fakeHistoryStore struct {
	recs      []models.SentimentHistoryRecord
	appendErr error
}

func (f *fakeHistoryStore) Append(_ context.Context, rec *models.SentimentHistoryRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.recs = append(f.recs, *rec)
	return nil
}

func (f *fakeHistoryStore) ListSince(_ context.Context, since time.Time) ([]models.SentimentHistoryRecord, error) {
	var out []models.SentimentHistoryRecord
	for _, r := range f.recs {
		if r.CreatedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHistoryStore) ListRange(_ context.Context, start, end time.Time) ([]models.SentimentHistoryRecord, error) {
	var out []models.SentimentHistoryRecord
	for _, r := range f.recs {
		if !r.CreatedAt.Before(start) && !r.CreatedAt.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordAggregation(string)      {}
func (nopMetrics) RecordScore(float64)           {}
func (nopMetrics) RecordReadingIngested(string)  {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

var testNow = time.Date(2025, 6, 2, 9, 40, 0, 0, time.UTC)

// raw values chosen so normalization yields
// {volatility: 0.2, breadth: 0.6, volume: 0.7, margin: 0.5, foreign: 0.3}
func fullReadings() map[models.IndicatorType]models.IndicatorReading {
	captured := testNow.Add(-5 * time.Minute)
	mk := func(t models.IndicatorType, raw float64) models.IndicatorReading {
		return models.IndicatorReading{
			Type: t, RawValue: raw, Source: "test",
			TradingDate: "2025-06-02", CapturedAt: captured, Valid: true,
		}
	}
	return map[models.IndicatorType]models.IndicatorReading{
		models.IndicatorVolatility: mk(models.IndicatorVolatility, 42),     // 1-(42-10)/40 = 0.2
		models.IndicatorBreadth:    mk(models.IndicatorBreadth, 0.6),       // 0.6
		models.IndicatorVolume:     mk(models.IndicatorVolume, 1.4),        // 1.4/2 = 0.7
		models.IndicatorMargin:     mk(models.IndicatorMargin, 0),          // midpoint = 0.5
		models.IndicatorForeign:    mk(models.IndicatorForeign, -0.4e9),    // 0.3
	}
}

func newService(t *testing.T, market *fakeMarketStore, hist *fakeHistoryStore, opts ...SentimentOption) *SentimentService {
	t.Helper()
	l := testLogger(t)
	opts = append(opts, WithClock(func() time.Time { return testNow }))
	svc, err := NewSentimentService(
		NewStoreProvider(market),
		NewFallbackProvider(market, l),
		hist,
		nopMetrics{},
		l,
		opts...,
	)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc
}

func TestComputePrimary(t *testing.T) {
	svc := newService(t, &fakeMarketStore{readings: fullReadings()}, &fakeHistoryStore{})
	res, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Score != 46 {
		t.Fatalf("score = %d, want 46", res.Score)
	}
	if res.Status != models.StatusNeutral {
		t.Fatalf("status = %s, want neutral", res.Status)
	}
	if res.Details.Method != models.MethodPrimary {
		t.Fatalf("method = %s, want primary", res.Details.Method)
	}
	if res.Details.ValidCount != 5 {
		t.Fatalf("valid count = %d, want 5", res.Details.ValidCount)
	}
	if len(res.Details.Freshness) != 5 {
		t.Fatalf("freshness entries = %d, want 5", len(res.Details.Freshness))
	}
}

func TestComputeDeterministic(t *testing.T) {
	svc := newService(t, &fakeMarketStore{readings: fullReadings()}, &fakeHistoryStore{})
	a, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestComputeFallsBack(t *testing.T) {
	store := &fakeMarketStore{readings: fullReadings(), batchErr: fmt.Errorf("store down")}
	svc := newService(t, store, &fakeHistoryStore{})
	res, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// identical weights and thresholds on the degraded path
	if res.Score != 46 {
		t.Fatalf("fallback score = %d, want 46", res.Score)
	}
	if res.Details.Method != models.MethodFallback {
		t.Fatalf("method = %s, want fallback", res.Details.Method)
	}
}

func TestComputeNoData(t *testing.T) {
	svc := newService(t, &fakeMarketStore{}, &fakeHistoryStore{})
	res, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Score != models.ScoreMissing {
		t.Fatalf("score = %d, want sentinel", res.Score)
	}
	if res.Status != models.StatusNoData {
		t.Fatalf("status = %s, want no_data", res.Status)
	}
	if res.Color == "" || res.Advice == "" {
		t.Fatalf("no_data result missing color/advice")
	}
	for _, v := range res.Indicators {
		if v != models.MissingValue {
			t.Fatalf("indicator value = %v, want sentinel", v)
		}
	}
}

func TestComputeSingleIndicator(t *testing.T) {
	captured := testNow.Add(-time.Minute)
	store := &fakeMarketStore{readings: map[models.IndicatorType]models.IndicatorReading{
		models.IndicatorBreadth: {
			Type: models.IndicatorBreadth, RawValue: 1.0, Source: "test",
			CapturedAt: captured, Valid: true,
		},
	}}
	svc := newService(t, store, &fakeHistoryStore{})
	res, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Score != 100 {
		t.Fatalf("score = %d, want 100", res.Score)
	}
}

func TestComputeAndRecord(t *testing.T) {
	hist := &fakeHistoryStore{}
	svc := newService(t, &fakeMarketStore{readings: fullReadings()}, hist)
	res, err := svc.ComputeAndRecord(context.Background())
	if err != nil {
		t.Fatalf("compute and record: %v", err)
	}
	if len(hist.recs) != 1 {
		t.Fatalf("records = %d, want 1", len(hist.recs))
	}
	rec := hist.recs[0]
	if rec.TradingDate != "2025-06-02" {
		t.Fatalf("trading date = %s", rec.TradingDate)
	}
	if rec.Score != res.Score || rec.Status != res.Status {
		t.Fatalf("record does not match result: %+v", rec)
	}
	if rec.Indicators == "" || rec.Details == "" {
		t.Fatalf("record missing serialized audit trail")
	}
}

func TestComputeAndRecordSurfacesAppendFailure(t *testing.T) {
	hist := &fakeHistoryStore{appendErr: fmt.Errorf("disk full")}
	svc := newService(t, &fakeMarketStore{readings: fullReadings()}, hist)
	res, err := svc.ComputeAndRecord(context.Background())
	if err == nil {
		t.Fatalf("expected persistence failure to surface")
	}
	if res == nil {
		t.Fatalf("computed result should accompany the error")
	}
}

type captureSink struct{ got []*models.SentimentResult }

func (c *captureSink) Publish(_ context.Context, res *models.SentimentResult) error {
	c.got = append(c.got, res)
	return nil
}
func (c *captureSink) Close() error { return nil }

func TestComputeAndRecordNotifiesSinks(t *testing.T) {
	sink := &captureSink{}
	svc := newService(t, &fakeMarketStore{readings: fullReadings()}, &fakeHistoryStore{},
		WithResultSinks(sink))
	if _, err := svc.ComputeAndRecord(context.Background()); err != nil {
		t.Fatalf("compute and record: %v", err)
	}
	if len(sink.got) != 1 {
		t.Fatalf("sink publishes = %d, want 1", len(sink.got))
	}
}
