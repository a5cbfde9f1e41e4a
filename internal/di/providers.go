package di

import (
	"context"
	"fmt"
	"time"

	"SentiPulse/internal/domain/repository"
	"SentiPulse/internal/handler/api"
	mid "SentiPulse/internal/middleware"
	internalrepo "SentiPulse/internal/repository"
	"SentiPulse/internal/usecase"
	"SentiPulse/pkg/cache"
	pkgch "SentiPulse/pkg/clickhouse"
	"SentiPulse/pkg/config"
	xhttp "SentiPulse/pkg/http"
	pkgkafka "SentiPulse/pkg/kafka"
	applogger "SentiPulse/pkg/logger"
	"SentiPulse/pkg/metrics"
	"SentiPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client and applies schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer, nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the result cache: layered memory+Redis when Redis
// is configured, memory-only otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize)), nil
}

// ProvideMarketDataStore creates the ClickHouse indicator reading store.
func ProvideMarketDataStore(ch *pkgch.Client, l *applogger.Logger) repository.MarketDataStore {
	store := internalrepo.NewCHIndicatorStore(ch)
	store.SetLogger(l)
	return store
}

// ProvideHistoryStore creates the ClickHouse sentiment history store.
func ProvideHistoryStore(ch *pkgch.Client, l *applogger.Logger) repository.HistoryStore {
	store := internalrepo.NewCHHistoryStore(ch)
	store.SetLogger(l)
	return store
}

// ProvideStreamHub creates the websocket result broadcast hub.
func ProvideStreamHub(l *applogger.Logger) *api.StreamHub {
	return api.NewStreamHub(l)
}

// ProvideResultSinks assembles the fan-out targets for recorded results.
func ProvideResultSinks(
	producer *pkgkafka.Producer,
	hub *api.StreamHub,
	cfg *config.Config,
	l *applogger.Logger,
) []repository.ResultSink {
	sinks := []repository.ResultSink{hub}
	if producer != nil && cfg.Kafka.ResultsTopic != "" {
		sinks = append(sinks, internalrepo.NewKafkaResultPublisher(producer, cfg.Kafka.ResultsTopic, l))
	}
	return sinks
}

// ProvideIngestPipeline creates the validated, throttled ingest path.
func ProvideIngestPipeline(store repository.MarketDataStore, m repository.Metrics) *mid.IngestPipeline {
	return mid.NewIngestPipeline(store, m,
		mid.WithMaxRate(5, 10),
		mid.WithBufferSize(500),
	)
}

// ProvideReadingsHandler registers the handler for the readings topic.
func ProvideReadingsHandler(cfg *config.Config, pipe *mid.IngestPipeline, m repository.Metrics) *usecase.KafkaReadingsHandler {
	return usecase.NewKafkaReadingsHandler(cfg.Kafka.ReadingsTopic, pipe, m)
}

// ProvideSentimentService creates the aggregation use case.
func ProvideSentimentService(
	store repository.MarketDataStore,
	history repository.HistoryStore,
	m repository.Metrics,
	c cache.Service,
	sinks []repository.ResultSink,
	cfg *config.Config,
	l *applogger.Logger,
) (*usecase.SentimentService, error) {
	return usecase.NewSentimentService(
		usecase.NewStoreProvider(store),
		usecase.NewFallbackProvider(store, l),
		history,
		m,
		l,
		usecase.WithFreshnessWindow(cfg.Sentiment.FreshnessWindow),
		usecase.WithResultCache(c, cfg.Sentiment.CacheTTL),
		usecase.WithResultSinks(sinks...),
	)
}

// ProvideHistoryService creates the history/stats use case.
func ProvideHistoryService(history repository.HistoryStore) *usecase.HistoryService {
	return usecase.NewHistoryService(history)
}

// ProvideRunner creates the periodic aggregation trigger.
func ProvideRunner(svc *usecase.SentimentService, cfg *config.Config, l *applogger.Logger) *usecase.Runner {
	return usecase.NewRunner(svc, cfg.Scheduler.Interval, l)
}

// ProvideHTTPHandler creates the Echo route registrar.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	svc *usecase.SentimentService,
	hist *usecase.HistoryService,
	store repository.MarketDataStore,
	hub *api.StreamHub,
) xhttp.Handler {
	return api.NewSentimentEchoHandler(l, svc, hist, store, hub, cfg.Sentiment.QueryWindow)
}

// kafkaLogPublisher adapts the Kafka producer to the log collector.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaReadingsHandler,
	pipe *mid.IngestPipeline,
	runner *usecase.Runner,
	sinks []repository.ResultSink,
	httpHandler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	// Aggregated error logs ship to Kafka when a logs topic is configured
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      kafkaLogPublisher{producer: producer},
		})
	}
	return server.New(cfg, l, chClient, producer, consumer, kh, pipe, runner, sinks, httpHandler)
}
