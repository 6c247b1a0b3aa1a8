package bus

import (
	"context"
	"errors"
	"testing"

	"brainstorm/application/ports"
	pkgerrors "brainstorm/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupQuery struct {
	Key string
}

func (q lookupQuery) Validate() error {
	if q.Key == "" {
		return pkgerrors.NewValidationError("key is required")
	}
	return nil
}

func (q lookupQuery) CacheKey() string { return q.Key }

type listQuery struct{}

func (listQuery) Validate() error { return nil }

type mapCache map[string]interface{}

func (c mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	v, ok := c[key]
	return v, ok
}

func (c mapCache) Set(_ context.Context, key string, value interface{}) {
	c[key] = value
}

func TestQueryBus_Ask(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(lookupQuery{}, Typed(func(_ context.Context, q lookupQuery) (string, error) {
		return "value of " + q.Key, nil
	})))

	result, err := b.Ask(context.Background(), lookupQuery{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, "value of a", result)

	_, err = b.Ask(context.Background(), lookupQuery{})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = b.Ask(context.Background(), listQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	assert.Error(t, b.Register(lookupQuery{}, Typed(func(context.Context, lookupQuery) (string, error) { return "", nil })))
}

func TestCachingMiddleware(t *testing.T) {
	calls := 0
	cache := mapCache{}
	b := NewQueryBus(NewCachingMiddleware(cache))
	require.NoError(t, b.Register(lookupQuery{}, Typed(func(_ context.Context, q lookupQuery) (int, error) {
		calls++
		if q.Key == "bad" {
			return 0, errors.New("boom")
		}
		return calls, nil
	})))
	require.NoError(t, b.Register(listQuery{}, Typed(func(context.Context, listQuery) (int, error) {
		calls++
		return calls, nil
	})))

	first, err := b.Ask(context.Background(), lookupQuery{Key: "a"})
	require.NoError(t, err)
	second, err := b.Ask(context.Background(), lookupQuery{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	_, err = b.Ask(context.Background(), lookupQuery{Key: "bad"})
	assert.Error(t, err)
	assert.NotContains(t, cache, "bus.lookupQuery:bad", "errors are not cached")

	_, _ = b.Ask(context.Background(), listQuery{})
	_, _ = b.Ask(context.Background(), listQuery{})
	assert.Equal(t, 4, calls, "queries without a cache key always run")
}

type countingMetrics struct {
	counters map[string]int
}

type noopTimer struct{}

func (noopTimer) Stop() {}

func TestMetricsMiddleware(t *testing.T) {
	metrics := &countingMetrics{counters: map[string]int{}}
	b := NewQueryBus(NewMetricsMiddleware(metrics))
	require.NoError(t, b.Register(lookupQuery{}, Typed(func(_ context.Context, q lookupQuery) (string, error) {
		if q.Key == "bad" {
			return "", errors.New("boom")
		}
		return q.Key, nil
	})))

	_, _ = b.Ask(context.Background(), lookupQuery{Key: "a"})
	_, _ = b.Ask(context.Background(), lookupQuery{Key: "bad"})

	assert.Equal(t, 2, metrics.counters["query_count/lookupQuery"])
	assert.Equal(t, 1, metrics.counters["query_success/lookupQuery"])
	assert.Equal(t, 1, metrics.counters["query_errors/lookupQuery"])
}

func (m *countingMetrics) StartTimer(string, string) ports.Timer { return noopTimer{} }

func (m *countingMetrics) Increment(metric, label string) { m.counters[metric+"/"+label]++ }
