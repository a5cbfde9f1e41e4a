package usecase

import (
	"context"
	"encoding/json"
	"time"

	"SentiPulse/internal/domain/models"
	domrepo "SentiPulse/internal/domain/repository"
	mid "SentiPulse/internal/middleware"
	pkgkafka "SentiPulse/pkg/kafka"
)

// KafkaReadingsHandler consumes indicator readings published by the
// collection layer and routes them through the ingest pipeline.
type KafkaReadingsHandler struct {
	topic   string
	pipe    *mid.IngestPipeline
	metrics domrepo.Metrics
}

func NewKafkaReadingsHandler(topic string, pipe *mid.IngestPipeline, metrics domrepo.Metrics) *KafkaReadingsHandler {
	return &KafkaReadingsHandler{topic: topic, pipe: pipe, metrics: metrics}
}

func (h *KafkaReadingsHandler) Topic() string { return h.topic }

// incoming message schema: {type, raw_value, normalized, source, trading_date, captured_at, valid, error}
func (h *KafkaReadingsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Type        string  `json:"type"`
		RawValue    float64 `json:"raw_value"`
		Normalized  float64 `json:"normalized"`
		Source      string  `json:"source"`
		TradingDate string  `json:"trading_date"`
		CapturedAt  int64   `json:"captured_at"`
		Valid       bool    `json:"valid"`
		ErrorMsg    string  `json:"error"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.CapturedAt > 1e11 { // ms
		m.CapturedAt = m.CapturedAt / 1000
	}
	captured := time.Unix(m.CapturedAt, 0).UTC()
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(captured).Seconds())

	return h.pipe.Process(ctx, &models.IndicatorReading{
		Type:        models.IndicatorType(m.Type),
		RawValue:    m.RawValue,
		Normalized:  m.Normalized,
		Source:      m.Source,
		TradingDate: m.TradingDate,
		CapturedAt:  captured,
		Valid:       m.Valid,
		ErrorMsg:    m.ErrorMsg,
	})
}

var _ pkgkafka.MessageHandler = (*KafkaReadingsHandler)(nil)
