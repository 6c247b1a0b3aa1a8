//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"brainstorm/infrastructure/config"

	"github.com/google/wire"
)

// ConfigProviders provides logging and engine tuning
var ConfigProviders = wire.NewSet(
	ProvideLogger,
	ProvideEngineWatcher,
	ProvideEngineConfig,
)

// InfrastructureProviders provides AWS clients, the guarded data source and event delivery
var InfrastructureProviders = wire.NewSet(
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideBreakerDataService,
	ProvideGraphDataService,
	ProvideEventPublisher,
	ProvideCollector,
	ProvideTracer,
	ProvideBusMetrics,
	ProvideQueryCache,
)

// ApplicationProviders provides sessions and the CQRS buses
var ApplicationProviders = wire.NewSet(
	ProvideSessionRegistry,
	ProvideCommandBus,
	ProvideQueryBus,
)

// InterfaceProviders provides the HTTP surface
var InterfaceProviders = wire.NewSet(
	ProvideRouter,
	ProvideHTTPHandler,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ConfigProviders,
	InfrastructureProviders,
	ApplicationProviders,
	InterfaceProviders,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container; cleanup releases it in reverse order
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
