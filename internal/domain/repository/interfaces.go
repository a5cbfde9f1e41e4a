package repository

import (
	"context"
	"time"

	"SentiPulse/internal/domain/models"
)

// MarketDataStore serves the latest collected indicator readings.
// The aggregation core only reads; writes come from the ingest path.
type MarketDataStore interface {
	// GetLatestValid returns the newest valid reading for one indicator
	// within the freshness window, or (nil, nil) when none qualifies.
	GetLatestValid(ctx context.Context, t models.IndicatorType, window time.Duration) (*models.IndicatorReading, error)
	// GetLatestValidBatch returns the newest valid reading per indicator
	// type within the freshness window in a single query.
	GetLatestValidBatch(ctx context.Context, window time.Duration) (map[models.IndicatorType]models.IndicatorReading, error)
	Store(ctx context.Context, r *models.IndicatorReading) error
	Health(ctx context.Context) error
}

// HistoryStore persists aggregation results. Append-only by contract:
// implementations must never overwrite prior records for the same day.
type HistoryStore interface {
	Append(ctx context.Context, rec *models.SentimentHistoryRecord) error
	// ListSince returns records created after the given instant, ascending.
	ListSince(ctx context.Context, since time.Time) ([]models.SentimentHistoryRecord, error)
	// ListRange returns records created within [start, end], ascending.
	ListRange(ctx context.Context, start, end time.Time) ([]models.SentimentHistoryRecord, error)
}

// ResultSink receives every recorded aggregation result (Kafka topic,
// WebSocket broadcast, ...). Sink failures must not fail the run.
type ResultSink interface {
	Publish(ctx context.Context, res *models.SentimentResult) error
	Close() error
}

type Metrics interface {
	RecordAggregation(method string)
	RecordScore(score float64)
	RecordReadingIngested(indicator string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
