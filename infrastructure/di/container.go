// Package di assembles the application from its providers.
package di

import (
	"net/http"

	"brainstorm/application/commands/bus"
	"brainstorm/application/ports"
	querybus "brainstorm/application/queries/bus"
	"brainstorm/application/services"
	"brainstorm/infrastructure/config"
	"brainstorm/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Data       ports.GraphDataService
	Publisher  ports.EventPublisher
	Sessions   *services.SessionRegistry
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Collector  *observability.Collector
	Handler    http.Handler
}
