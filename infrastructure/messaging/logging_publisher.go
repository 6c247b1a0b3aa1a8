// Package messaging delivers domain events off the navigation path.
package messaging

import (
	"context"

	"brainstorm/application/ports"
	"brainstorm/domain/events"

	"go.uber.org/zap"
)

// LoggingPublisher writes events to the log; used for local runs without an event bus
type LoggingPublisher struct {
	logger *zap.Logger
}

var _ ports.EventPublisher = (*LoggingPublisher)(nil)

// NewLoggingPublisher creates a new LoggingPublisher
func NewLoggingPublisher(logger *zap.Logger) *LoggingPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingPublisher{logger: logger}
}

// Publish logs each event
func (p *LoggingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	for _, e := range evts {
		p.logger.Info("Domain event",
			zap.String("eventType", e.GetEventType()),
			zap.String("aggregateID", e.GetAggregateID()),
			zap.Time("timestamp", e.GetTimestamp()),
			zap.Any("event", e),
		)
	}
	return nil
}
