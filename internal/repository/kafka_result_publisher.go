package repository

import (
	"context"

	"SentiPulse/internal/domain/models"
	pkgkafka "SentiPulse/pkg/kafka"
	applogger "SentiPulse/pkg/logger"
)

// KafkaResultPublisher implements ResultSink by publishing recorded results
// to a Kafka topic, keyed by trading date so per-day ordering holds.
type KafkaResultPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaResultPublisher(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaResultPublisher {
	return &KafkaResultPublisher{producer: producer, topic: topic, l: l}
}

func (p *KafkaResultPublisher) Publish(ctx context.Context, res *models.SentimentResult) error {
	key := []byte(res.Timestamp.UTC().Format("2006-01-02"))
	if err := p.producer.Publish(ctx, p.topic, key, res); err != nil {
		if p.l != nil {
			p.l.Error("kafka result publish error",
				applogger.String("topic", p.topic),
				applogger.Error(err),
			)
		}
		return err
	}
	return nil
}

func (p *KafkaResultPublisher) Close() error {
	return nil // producer lifetime is owned by the app
}
