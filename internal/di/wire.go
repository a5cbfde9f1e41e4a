//go:build wireinject
// +build wireinject

package di

import (
	"SentiPulse/pkg/config"
	"SentiPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideMarketDataStore,
		ProvideHistoryStore,
		ProvideStreamHub,
		ProvideResultSinks,

		// Ingest path
		ProvideIngestPipeline,
		ProvideReadingsHandler,

		// Use cases
		ProvideSentimentService,
		ProvideHistoryService,
		ProvideRunner,

		// HTTP and application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
