package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"SentiPulse/internal/domain/models"
)

type memorySink struct {
	mu     sync.Mutex
	stored []models.IndicatorReading
	fail   bool
}

func (s *memorySink) Store(_ context.Context, r *models.IndicatorReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("store down")
	}
	s.stored = append(s.stored, *r)
	return nil
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

type countingMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: make(map[string]int)}
}

func (m *countingMetrics) RecordAggregation(string)      {}
func (m *countingMetrics) RecordScore(float64)           {}
func (m *countingMetrics) RecordReadingIngested(string)  {}
func (m *countingMetrics) RecordLatency(string, float64) {}
func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *countingMetrics) errorCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func validReading() *models.IndicatorReading {
	return &models.IndicatorReading{
		Type:        models.IndicatorBreadth,
		RawValue:    0.6,
		Normalized:  0.6,
		Source:      "test",
		TradingDate: "2025-06-02",
		CapturedAt:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Valid:       true,
	}
}

func TestProcessStores(t *testing.T) {
	sink := &memorySink{}
	p := NewIngestPipeline(sink, newCountingMetrics())
	if err := p.Process(context.Background(), validReading()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if sink.count() != 1 {
		t.Fatalf("stored = %d, want 1", sink.count())
	}
}

func TestProcessRejectsInvalid(t *testing.T) {
	sink := &memorySink{}
	m := newCountingMetrics()
	p := NewIngestPipeline(sink, m)

	cases := []*models.IndicatorReading{
		nil,
		{Type: "rsi", Source: "test", CapturedAt: time.Now(), Valid: true},
		{Type: models.IndicatorBreadth, Source: "test", Valid: true}, // zero captured_at
		{Type: models.IndicatorBreadth, CapturedAt: time.Now(), Valid: true},
	}
	for i, r := range cases {
		if err := p.Process(context.Background(), r); err == nil {
			t.Fatalf("case %d: invalid reading accepted", i)
		}
	}
	if sink.count() != 0 {
		t.Fatalf("invalid readings reached the sink")
	}
	if m.errorCount("ingest_validate") != len(cases) {
		t.Fatalf("validate errors = %d, want %d", m.errorCount("ingest_validate"), len(cases))
	}
}

func TestProcessDemotesOutOfRangeNormalized(t *testing.T) {
	sink := &memorySink{}
	p := NewIngestPipeline(sink, newCountingMetrics())

	r := validReading()
	r.Normalized = 1.7
	if err := p.Process(context.Background(), r); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := sink.stored[0].Normalized; got != models.MissingValue {
		t.Fatalf("normalized = %v, want sentinel", got)
	}
}

func TestProcessThrottles(t *testing.T) {
	sink := &memorySink{}
	m := newCountingMetrics()
	p := NewIngestPipeline(sink, m, WithMaxRate(1, 2))

	for i := 0; i < 10; i++ {
		if err := p.Process(context.Background(), validReading()); err != nil {
			t.Fatalf("process %d: %v", i, err)
		}
	}
	if sink.count() >= 10 {
		t.Fatalf("no throttling: stored = %d", sink.count())
	}
	if m.errorCount("ingest_throttle") == 0 {
		t.Fatalf("expected throttle events")
	}
}

func TestProcessBuffersOnStoreFailure(t *testing.T) {
	sink := &memorySink{fail: true}
	m := newCountingMetrics()
	p := NewIngestPipeline(sink, m, WithBufferSize(4))

	if err := p.Process(context.Background(), validReading()); err == nil {
		t.Fatalf("store failure should surface")
	}
	if m.errorCount("ingest_store") != 1 {
		t.Fatalf("store errors = %d, want 1", m.errorCount("ingest_store"))
	}

	// recovery: background flush drains the buffer once the sink heals
	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sink.count() == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("buffered reading was not flushed")
}
