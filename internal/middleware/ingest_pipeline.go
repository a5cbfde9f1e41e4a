package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SentiPulse/internal/domain/models"
	domrepo "SentiPulse/internal/domain/repository"
	"SentiPulse/internal/sentiment"
	"SentiPulse/internal/service/ratelimit"
)

// ReadingSink is the minimal store interface the pipeline needs.
type ReadingSink interface {
	Store(ctx context.Context, r *models.IndicatorReading) error
}

// IngestPipeline sits between the Kafka readings consumer and the market
// data store. It validates readings, throttles per indicator type, and
// buffers when the store is unavailable.
type IngestPipeline struct {
	sink    ReadingSink
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter

	maxPerSec float64
	burst     float64
	bufCh     chan *models.IndicatorReading
	stopCh    chan struct{}
	started   bool
	mu        sync.Mutex
}

type PipelineOption func(*IngestPipeline)

// WithMaxRate sets the accepted readings per second per indicator type.
func WithMaxRate(perSec, burst float64) PipelineOption {
	return func(p *IngestPipeline) {
		if perSec > 0 {
			p.maxPerSec = perSec
		}
		if burst > 0 {
			p.burst = burst
		}
	}
}

// WithBufferSize sets the retry buffer capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufCh = make(chan *models.IndicatorReading, n)
		}
	}
}

func NewIngestPipeline(sink ReadingSink, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		sink:      sink,
		metrics:   metrics,
		limiter:   ratelimit.New(),
		maxPerSec: 5,
		burst:     10,
		bufCh:     make(chan *models.IndicatorReading, 500),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches background flushing of buffered readings.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case r := <-p.bufCh:
				if r == nil {
					continue
				}
				if err := p.sink.Store(ctx, r); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("ingest_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- r:
					default:
						p.metrics.RecordError("ingest_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a reading, buffering on store
// failure so collection bursts survive transient outages.
func (p *IngestPipeline) Process(ctx context.Context, r *models.IndicatorReading) error {
	start := time.Now()
	if err := validateReading(r); err != nil {
		p.metrics.RecordError("ingest_validate")
		return err
	}
	// stored normalized values outside [0,1] are demoted to missing
	if r.Valid && !sentiment.FromStored(r.Normalized).Valid {
		r.Normalized = models.MissingValue
	}
	if !p.limiter.Allow(string(r.Type), p.burst, p.maxPerSec) {
		p.metrics.RecordError("ingest_throttle")
		return nil
	}

	if err := p.sink.Store(ctx, r); err != nil {
		p.metrics.RecordError("ingest_store")
		select {
		case p.bufCh <- r:
		default:
			p.metrics.RecordError("ingest_buffer_full")
		}
		return fmt.Errorf("ingest store: %w", err)
	}
	p.metrics.RecordReadingIngested(string(r.Type))
	p.metrics.RecordLatency("ingest_process", time.Since(start).Seconds())
	return nil
}

func validateReading(r *models.IndicatorReading) error {
	if r == nil {
		return fmt.Errorf("reading nil")
	}
	if !r.Type.Known() {
		return fmt.Errorf("unknown indicator type %q", r.Type)
	}
	if r.CapturedAt.IsZero() {
		return fmt.Errorf("captured_at missing")
	}
	if r.Source == "" {
		return fmt.Errorf("source empty")
	}
	return nil
}
