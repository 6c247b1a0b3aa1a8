package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"brainstorm/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// putMetricDataLimit is the most data points CloudWatch accepts per call
const putMetricDataLimit = 1000

// CloudWatchClient is the subset of the CloudWatch API Metrics needs
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics buffers bus measurements and flushes them to CloudWatch periodically
type Metrics struct {
	namespace string
	client    CloudWatchClient
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	buffer []types.MetricDatum

	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

var _ ports.Metrics = (*Metrics)(nil)

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client CloudWatchClient, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Increment implements ports.Metrics
func (m *Metrics) Increment(metric, label string) {
	m.add(metric, label, 1, types.StandardUnitCount)
}

// StartTimer implements ports.Metrics
func (m *Metrics) StartTimer(metric, label string) ports.Timer {
	return &cloudWatchTimer{metrics: m, metric: metric, label: label, start: m.now()}
}

type cloudWatchTimer struct {
	metrics *Metrics
	metric  string
	label   string
	start   time.Time
}

func (t *cloudWatchTimer) Stop() {
	elapsed := t.metrics.now().Sub(t.start)
	t.metrics.add(t.metric, t.label, float64(elapsed.Milliseconds()), types.StandardUnitMilliseconds)
}

func (m *Metrics) add(metric, label string, value float64, unit types.StandardUnit) {
	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Dimensions: []types.Dimension{{Name: aws.String("Name"), Value: aws.String(label)}},
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(m.now()),
	}

	m.mu.Lock()
	m.buffer = append(m.buffer, datum)
	m.mu.Unlock()
}

// Pending returns the number of buffered data points
func (m *Metrics) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffer)
}

// Flush sends buffered data points. Failed chunks are logged and discarded.
func (m *Metrics) Flush(ctx context.Context) error {
	m.mu.Lock()
	pending := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	var firstErr error
	for i := 0; i < len(pending); i += putMetricDataLimit {
		end := i + putMetricDataLimit
		if end > len(pending) {
			end = len(pending)
		}
		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: pending[i:end],
		})
		if err != nil {
			m.logger.Warn("Failed to send metrics", zap.Int("count", end-i), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Start flushes every interval until Close
func (m *Metrics) Start(interval time.Duration) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = m.Flush(context.Background())
			case <-m.stop:
				return
			}
		}
	}()
}

// Close stops the flush loop started by Start and sends what is left
func (m *Metrics) Close(ctx context.Context) error {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	if m.started.Load() {
		select {
		case <-m.done:
		case <-ctx.Done():
		}
	}
	return m.Flush(ctx)
}
