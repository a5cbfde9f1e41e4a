package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SentiPulse/internal/domain/models"
	domrepo "SentiPulse/internal/domain/repository"
	"SentiPulse/internal/sentiment"
	"SentiPulse/pkg/cache"
	applogger "SentiPulse/pkg/logger"
	"SentiPulse/pkg/util"
)

const currentResultKey = "sentiment:current"

// ReadingProvider supplies the latest usable reading per indicator type.
// Primary and fallback computation are the same pipeline with a different
// provider, never forked weighting logic.
type ReadingProvider interface {
	Method() string
	Latest(ctx context.Context, window time.Duration) (map[models.IndicatorType]models.IndicatorReading, error)
}

// StoreProvider is the primary strategy: one batched latest-per-type query.
type StoreProvider struct {
	store domrepo.MarketDataStore
}

func NewStoreProvider(store domrepo.MarketDataStore) *StoreProvider {
	return &StoreProvider{store: store}
}

func (p *StoreProvider) Method() string { return models.MethodPrimary }

func (p *StoreProvider) Latest(ctx context.Context, window time.Duration) (map[models.IndicatorType]models.IndicatorReading, error) {
	return p.store.GetLatestValidBatch(ctx, window)
}

// FallbackProvider pulls each indicator individually, tolerating per-type
// failures: an indicator whose query fails is simply missing.
type FallbackProvider struct {
	store  domrepo.MarketDataStore
	logger *applogger.Logger
}

func NewFallbackProvider(store domrepo.MarketDataStore, l *applogger.Logger) *FallbackProvider {
	return &FallbackProvider{store: store, logger: l}
}

func (p *FallbackProvider) Method() string { return models.MethodFallback }

func (p *FallbackProvider) Latest(ctx context.Context, window time.Duration) (map[models.IndicatorType]models.IndicatorReading, error) {
	out := make(map[models.IndicatorType]models.IndicatorReading, len(models.AllIndicators()))
	for _, t := range models.AllIndicators() {
		r, err := p.store.GetLatestValid(ctx, t, window)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("fallback indicator fetch failed",
					applogger.String("indicator", string(t)),
					applogger.Error(err),
				)
			}
			continue
		}
		if r != nil {
			out[t] = *r
		}
	}
	return out, nil
}

// SentimentService runs the normalize/aggregate/classify pipeline and
// records results. Stateless per invocation; safe for concurrent calls.
type SentimentService struct {
	primary  ReadingProvider
	fallback ReadingProvider
	history  domrepo.HistoryStore
	sinks    []domrepo.ResultSink
	cache    cache.Service
	metrics  domrepo.Metrics
	logger   *applogger.Logger

	weights  map[models.IndicatorType]float64
	window   time.Duration
	cacheTTL time.Duration
	now      func() time.Time
}

type SentimentOption func(*SentimentService)

// WithClock injects a clock for deterministic tests.
func WithClock(now func() time.Time) SentimentOption {
	return func(s *SentimentService) { s.now = now }
}

// WithResultSinks registers sinks notified after every recorded run.
func WithResultSinks(sinks ...domrepo.ResultSink) SentimentOption {
	return func(s *SentimentService) { s.sinks = append(s.sinks, sinks...) }
}

// WithResultCache enables caching of the current result.
func WithResultCache(c cache.Service, ttl time.Duration) SentimentOption {
	return func(s *SentimentService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithFreshnessWindow overrides the default 1h aggregation window.
func WithFreshnessWindow(d time.Duration) SentimentOption {
	return func(s *SentimentService) {
		if d > 0 {
			s.window = d
		}
	}
}

func NewSentimentService(
	primary, fallback ReadingProvider,
	history domrepo.HistoryStore,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	opts ...SentimentOption,
) (*SentimentService, error) {
	if err := sentiment.ValidateWeights(sentiment.Weights); err != nil {
		return nil, err
	}
	s := &SentimentService{
		primary:  primary,
		fallback: fallback,
		history:  history,
		metrics:  metrics,
		logger:   logger,
		weights:  sentiment.Weights,
		window:   time.Hour,
		cacheTTL: time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Compute runs the pipeline once without recording. The primary provider
// is tried first; if it fails entirely the fallback provider re-runs the
// identical pipeline and the result is tagged accordingly.
func (s *SentimentService) Compute(ctx context.Context) (*models.SentimentResult, error) {
	start := s.now()
	res, err := s.computeWith(ctx, s.primary)
	if err != nil {
		s.metrics.RecordError("primary_provider")
		s.logger.Warn("primary provider failed, running fallback", applogger.Error(err))
		res, err = s.computeWith(ctx, s.fallback)
		if err != nil {
			s.metrics.RecordError("fallback_provider")
			return nil, fmt.Errorf("fallback compute: %w", err)
		}
	}
	s.metrics.RecordAggregation(res.Details.Method)
	s.metrics.RecordLatency("compute", s.now().Sub(start).Seconds())
	if res.Score != models.ScoreMissing {
		s.metrics.RecordScore(float64(res.Score))
	}
	return res, nil
}

func (s *SentimentService) computeWith(ctx context.Context, p ReadingProvider) (*models.SentimentResult, error) {
	readings, err := p.Latest(ctx, s.window)
	if err != nil {
		return nil, fmt.Errorf("%s readings: %w", p.Method(), err)
	}

	snapshot := make(map[models.IndicatorType]models.Normalized, len(models.AllIndicators()))
	freshness := make(map[models.IndicatorType]time.Time)
	for _, t := range models.AllIndicators() {
		r, ok := readings[t]
		if !ok {
			snapshot[t] = models.Absent()
			continue
		}
		snapshot[t] = sentiment.Normalize(t, r.RawValue, r.Valid)
		if snapshot[t].Valid {
			freshness[t] = r.CapturedAt
		}
	}

	comp, err := sentiment.Aggregate(snapshot, s.weights)
	if err != nil {
		return nil, err
	}

	status := sentiment.Classify(comp.Score)
	if comp.NoData {
		status = models.StatusNoData
	}

	now := s.now()
	indicators := make(map[models.IndicatorType]float64, len(snapshot))
	for t, v := range snapshot {
		indicators[t] = v.Sentinel()
	}

	return &models.SentimentResult{
		Score:      comp.Score,
		Status:     status,
		Color:      sentiment.ColorFor(status),
		Advice:     sentiment.AdviceFor(status),
		Indicators: indicators,
		Details: models.CalculationDetails{
			Method:      p.Method(),
			Weights:     s.weights,
			Snapshot:    indicators,
			WeightedSum: comp.WeightedSum,
			TotalWeight: comp.TotalWeight,
			ValidCount:  comp.ValidCount,
			Freshness:   freshness,
			ComputedAt:  now,
		},
		Timestamp: now,
	}, nil
}

// ComputeAndRecord runs the pipeline and appends the result to history.
// Persistence failures are surfaced alongside the computed result; the
// caller decides between log-and-continue and propagation.
func (s *SentimentService) ComputeAndRecord(ctx context.Context) (*models.SentimentResult, error) {
	res, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := historyRecord(res)
	if err != nil {
		return res, fmt.Errorf("encode history record: %w", err)
	}
	if err := s.history.Append(ctx, rec); err != nil {
		s.metrics.RecordError("history_append")
		return res, fmt.Errorf("append history: %w", err)
	}

	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, res); err != nil {
			s.metrics.RecordError("result_sink")
			s.logger.Warn("result sink publish failed", applogger.Error(err))
		}
	}
	s.cacheResult(ctx, res)
	return res, nil
}

// Current returns the cached result when fresh, computing otherwise.
// On-demand computation does not append to history.
func (s *SentimentService) Current(ctx context.Context) (*models.SentimentResult, error) {
	return s.CurrentWithin(ctx, s.cacheTTL)
}

// CurrentWithin accepts a cached result no older than maxAge and recomputes
// past that. maxAge <= 0 always recomputes.
func (s *SentimentService) CurrentWithin(ctx context.Context, maxAge time.Duration) (*models.SentimentResult, error) {
	if s.cache != nil && maxAge > 0 {
		var cached models.SentimentResult
		if err := s.cache.Get(ctx, currentResultKey, &cached); err == nil {
			if s.now().Sub(cached.Timestamp) <= maxAge {
				return &cached, nil
			}
		}
	}
	res, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheResult(ctx, res)
	return res, nil
}

func (s *SentimentService) cacheResult(ctx context.Context, res *models.SentimentResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, currentResultKey, res, s.cacheTTL); err != nil {
		s.metrics.RecordError("cache_set")
	}
}

func historyRecord(res *models.SentimentResult) (*models.SentimentHistoryRecord, error) {
	ind, err := json.Marshal(res.Indicators)
	if err != nil {
		return nil, err
	}
	det, err := json.Marshal(res.Details)
	if err != nil {
		return nil, err
	}
	return &models.SentimentHistoryRecord{
		TradingDate: util.TradingDate(res.Timestamp),
		Score:       res.Score,
		Status:      res.Status,
		Indicators:  string(ind),
		Details:     string(det),
		CreatedAt:   res.Timestamp,
	}, nil
}
