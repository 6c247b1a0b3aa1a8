package messaging

import (
	"context"
	"sync"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/events"

	"go.uber.org/zap"
)

// AsyncPublisher queues events and hands them to the wrapped publisher on a background worker.
// When the queue is full new events are dropped and counted.
type AsyncPublisher struct {
	next    ports.EventPublisher
	queue   chan []events.DomainEvent
	timeout time.Duration
	logger  *zap.Logger
	onDrop  func(n int)

	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
}

var _ ports.EventPublisher = (*AsyncPublisher)(nil)

// AsyncOption configures an AsyncPublisher
type AsyncOption func(*AsyncPublisher)

// WithDropHook is called with the number of events dropped on a full queue
func WithDropHook(fn func(n int)) AsyncOption {
	return func(p *AsyncPublisher) { p.onDrop = fn }
}

// WithPublishTimeout bounds each delivery to the wrapped publisher
func WithPublishTimeout(d time.Duration) AsyncOption {
	return func(p *AsyncPublisher) { p.timeout = d }
}

// NewAsyncPublisher starts a worker delivering to next
func NewAsyncPublisher(next ports.EventPublisher, capacity int, logger *zap.Logger, opts ...AsyncOption) *AsyncPublisher {
	if capacity <= 0 {
		capacity = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &AsyncPublisher{
		next:    next,
		queue:   make(chan []events.DomainEvent, capacity),
		timeout: 5 * time.Second,
		logger:  logger,
		onDrop:  func(int) {},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.wg.Add(1)
	go p.run()
	return p
}

// Publish enqueues events without waiting for delivery
func (p *AsyncPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.onDrop(len(evts))
		return nil
	}

	select {
	case p.queue <- evts:
	default:
		p.logger.Warn("Event queue full, dropping events", zap.Int("count", len(evts)))
		p.onDrop(len(evts))
	}
	return nil
}

// Close stops accepting events and waits for queued ones to be delivered
func (p *AsyncPublisher) Close() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *AsyncPublisher) run() {
	defer p.wg.Done()
	for batch := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, batch...); err != nil {
			p.logger.Error("Failed to deliver events",
				zap.Int("count", len(batch)),
				zap.String("eventType", batch[0].GetEventType()),
				zap.Error(err),
			)
		}
		cancel()
	}
}
