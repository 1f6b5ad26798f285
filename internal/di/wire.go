//go:build wireinject
// +build wireinject

package di

import (
	"PremCast/pkg/config"
	"PremCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideResultCache,

		// Repositories
		ProvideRunStore,
		ProvideRunPublisher,

		// Use cases
		ProvideRunProcessor,
		ProvideRunSink,
		ProvideProjector,
		ProvideRequestsHandler,

		// Application
		ProvideApp,
	)
	return nil, nil
}
