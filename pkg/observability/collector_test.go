package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "brainstorm/pkg/errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_EngineMetrics(t *testing.T) {
	c := NewCollector("brainstorm")

	c.RecordRemoteFetch("children", nil)
	c.RecordRemoteFetch("children", nil)
	c.RecordRemoteFetch("node", pkgerrors.NewNotFoundError("node"))
	c.RecordRemoteFetch("node", context.Canceled)
	c.RecordRemoteFetch("recent", assert.AnError)
	c.RecordHandoff()
	c.RecordLayout(12, 30*time.Millisecond)
	c.RecordDroppedEvents(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RemoteFetches.WithLabelValues("children", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RemoteFetches.WithLabelValues("node", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RemoteFetches.WithLabelValues("node", "canceled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RemoteFetches.WithLabelValues("recent", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FeedHandoffs))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.EventsDropped))
	assert.Equal(t, 1, testutil.CollectAndCount(c.LayoutNodes))
}

func TestCollector_BusMetricsAndHandler(t *testing.T) {
	c := NewCollector("brainstorm")

	c.Increment("command_count", "CreatePostCommand")
	c.StartTimer("command_duration", "CreatePostCommand").Stop()
	c.RecordHTTPRequest(http.MethodGet, "/api/v2/feed", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.BusOperations.WithLabelValues("command_count", "CreatePostCommand")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/v2/feed", "200")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "brainstorm_bus_duration_seconds")
	assert.Contains(t, rec.Body.String(), "brainstorm_http_requests_total")
}

func TestMultiMetrics(t *testing.T) {
	first, second := NewCollector("a"), NewCollector("b")
	multi := MultiMetrics{first, second}

	multi.Increment("query_count", "GetFeedQuery")
	multi.StartTimer("query_duration", "GetFeedQuery").Stop()

	for _, c := range []*Collector{first, second} {
		assert.Equal(t, 1.0, testutil.ToFloat64(c.BusOperations.WithLabelValues("query_count", "GetFeedQuery")))
	}
}
