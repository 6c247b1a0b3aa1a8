package messaging

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"brainstorm/domain/core/valueobjects"
	"brainstorm/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type collectingPublisher struct {
	mu     sync.Mutex
	got    []events.DomainEvent
	block  chan struct{}
	failed bool
}

func (c *collectingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, evts...)
	if c.failed {
		return assert.AnError
	}
	return nil
}

func (c *collectingPublisher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func removed(id string) events.DomainEvent {
	return events.NewNodeRemoved(valueobjects.NodeID(id), 0, time.Now())
}

func TestAsyncPublisher_DeliversInBackground(t *testing.T) {
	next := &collectingPublisher{}
	p := NewAsyncPublisher(next, 8, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), removed("A"), removed("B")))
	require.NoError(t, p.Publish(context.Background()))
	p.Close()

	assert.Equal(t, 2, next.count())
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	next := &collectingPublisher{block: make(chan struct{})}
	var dropped atomic.Int64
	p := NewAsyncPublisher(next, 1, nil, WithDropHook(func(n int) { dropped.Add(int64(n)) }))

	// The worker takes the first batch and blocks; the second fills the queue
	require.NoError(t, p.Publish(context.Background(), removed("A")))
	assert.Eventually(t, func() bool { return len(p.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, p.Publish(context.Background(), removed("B")))
	require.NoError(t, p.Publish(context.Background(), removed("C"), removed("D")))

	assert.Equal(t, int64(2), dropped.Load())

	close(next.block)
	p.Close()
	assert.Equal(t, 2, next.count())

	require.NoError(t, p.Publish(context.Background(), removed("E")))
	assert.Equal(t, int64(3), dropped.Load(), "events after close are dropped")
}

func TestAsyncPublisher_DeliveryErrorsAreSwallowed(t *testing.T) {
	next := &collectingPublisher{failed: true}
	p := NewAsyncPublisher(next, 4, nil)

	assert.NoError(t, p.Publish(context.Background(), removed("A")))
	p.Close()
	assert.Equal(t, 1, next.count())
}

func TestLoggingPublisher(t *testing.T) {
	assert.NoError(t, NewLoggingPublisher(nil).Publish(context.Background(), removed("A")))
}
