//go:build wireinject
// +build wireinject

package di

import (
	"StockSleuth/pkg/config"
	"StockSleuth/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Research constants
		ProvideDefaults,

		// External service clients
		ProvideReasoner,
		ProvideNewsSource,

		// Infrastructure clients (optional sinks)
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideReportStore,
		ProvideReportPublisher,

		// Use cases
		ProvidePipeline,
		ProvideReportSink,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
