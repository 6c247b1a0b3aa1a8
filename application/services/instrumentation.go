package services

import (
	"context"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/events"

	"go.uber.org/zap"
)

// EngineMetrics receives navigation engine measurements
type EngineMetrics interface {
	RecordRemoteFetch(operation string, err error)
	RecordHandoff()
	RecordLayout(nodes int, duration time.Duration)
}

// Tracer wraps a unit of work in a trace segment
type Tracer interface {
	Trace(ctx context.Context, name string, fn func(context.Context) error) error
}

// Instrumentation bundles the optional observability hooks of the engine.
// Nil fields are replaced with no-ops.
type Instrumentation struct {
	Metrics EngineMetrics
	Tracer  Tracer
}

func (i Instrumentation) withDefaults() Instrumentation {
	if i.Metrics == nil {
		i.Metrics = noopMetrics{}
	}
	if i.Tracer == nil {
		i.Tracer = noopTracer{}
	}
	return i
}

type noopMetrics struct{}

func (noopMetrics) RecordRemoteFetch(string, error) {}
func (noopMetrics) RecordHandoff()                  {}
func (noopMetrics) RecordLayout(int, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Trace(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

// publishBestEffort publishes without ever failing the caller
func publishBestEffort(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, evts ...events.DomainEvent) {
	if publisher == nil || len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.Warn("Failed to publish events",
			zap.String("eventType", evts[0].GetEventType()),
			zap.Int("count", len(evts)),
			zap.Error(err),
		)
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
