// Package application wires command and query handlers onto their buses.
package application

import (
	"fmt"

	"brainstorm/application/commands"
	"brainstorm/application/commands/bus"
	commandhandlers "brainstorm/application/commands/handlers"
	"brainstorm/application/ports"
	"brainstorm/application/queries"
	querybus "brainstorm/application/queries/bus"
	queryhandlers "brainstorm/application/queries/handlers"
	"brainstorm/application/services"

	"go.uber.org/zap"
)

// RegisterCommandHandlers registers every navigation command on the bus
func RegisterCommandHandlers(
	commandBus *bus.CommandBus,
	sessions *services.SessionRegistry,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreatePostCommand{}, bus.Typed(commandhandlers.NewCreatePostHandler(sessions, logger).Handle)},
		{commands.DeleteNodeCommand{}, bus.Typed(commandhandlers.NewDeleteNodeHandler(sessions, publisher, logger).Handle)},
		{commands.RecordInteractionCommand{}, bus.Typed(commandhandlers.NewRecordInteractionHandler(sessions).Handle)},
		{commands.AddEdgeCommand{}, bus.Typed(commandhandlers.NewAddEdgeHandler(sessions).Handle)},
		{commands.DeleteEdgeCommand{}, bus.Typed(commandhandlers.NewDeleteEdgeHandler(sessions).Handle)},
		{commands.CloseLayoutCommand{}, bus.Typed(commandhandlers.NewCloseLayoutHandler(sessions).Handle)},
		{commands.SubmitCameraCommand{}, bus.Typed(commandhandlers.NewSubmitCameraHandler(sessions).Handle)},
		{commands.EndSessionCommand{}, bus.Typed(commandhandlers.NewEndSessionHandler(sessions, logger).Handle)},
		{commands.ContinueThreadCommand{}, bus.Typed(commandhandlers.NewContinueThreadHandler(sessions, logger).Handle)},
		{commands.ClearThreadCommand{}, bus.Typed(commandhandlers.NewClearThreadHandler(sessions).Handle)},
	}

	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return fmt.Errorf("register command %T: %w", r.cmd, err)
		}
	}
	return nil
}

// RegisterQueryHandlers registers every navigation query on the bus
func RegisterQueryHandlers(
	queryBus *querybus.QueryBus,
	sessions *services.SessionRegistry,
	data ports.GraphDataService,
	logger *zap.Logger,
) error {
	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetThreadQuery{}, querybus.Typed(queryhandlers.NewGetThreadHandler(sessions, logger).Handle)},
		{queries.GetQueueQuery{}, querybus.Typed(queryhandlers.NewGetQueueHandler(sessions).Handle)},
		{queries.GetFeedQuery{}, querybus.Typed(queryhandlers.NewGetFeedHandler(sessions).Handle)},
		{queries.GetLayoutQuery{}, querybus.Typed(queryhandlers.NewGetLayoutHandler(sessions).Handle)},
		{queries.GetVisibleQuery{}, querybus.Typed(queryhandlers.NewGetVisibleHandler(sessions).Handle)},
		{queries.GetSoftLinksQuery{}, querybus.Typed(queryhandlers.NewGetSoftLinksHandler(sessions).Handle)},
		{queries.GetNeighborsQuery{}, querybus.Typed(queryhandlers.NewGetNeighborsHandler(sessions).Handle)},
		{queries.GetNodeQuery{}, querybus.Typed(queryhandlers.NewGetNodeHandler(data, logger).Handle)},
	}

	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return fmt.Errorf("register query %T: %w", r.query, err)
		}
	}
	return nil
}
