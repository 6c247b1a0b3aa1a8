package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"brainstorm/application"
	"brainstorm/application/commands/bus"
	"brainstorm/application/ports"
	querybus "brainstorm/application/queries/bus"
	"brainstorm/application/services"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/infrastructure/persistence/memory"
	"brainstorm/interfaces/http/rest/middleware"
	"brainstorm/pkg/auth"
	"brainstorm/pkg/common"
	"brainstorm/pkg/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *common.ErrorInfo `json:"error"`
}

type threadPayload struct {
	Items []struct {
		Type string `json:"type"`
		From string `json:"from"`
		Node struct {
			ID    string `json:"id"`
			Views int64  `json:"views"`
		} `json:"node"`
	} `json:"items"`
	FetchingMore bool `json:"fetching_more"`
}

func (p threadPayload) ids() []string {
	out := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, item.Type+":"+item.Node.ID)
	}
	return out
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

type testServer struct {
	handler http.Handler
	data    *memory.DataService
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	logger := zap.NewNop()

	data := memory.NewDataService("graph-1")
	for i, id := range []string{"A", "B", "C", "D"} {
		data.PutNode(ports.NodeRecord{
			ID:        valueobjects.NodeID(id),
			Title:     "Post " + id,
			Content:   "post " + id,
			Author:    "user-1",
			CreatedAt: fixtures.BaseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	data.PutRelation("A", "B", valueobjects.RelationHard)
	data.PutRelation("B", "C", valueobjects.RelationHard)
	data.PutRelation("B", "D", valueobjects.RelationSoft)

	registry := services.NewSessionRegistry(data, nil, nil, services.Instrumentation{}, time.Hour, logger)
	t.Cleanup(registry.Close)

	commandBus := bus.NewCommandBus()
	queryBus := querybus.NewQueryBus()
	require.NoError(t, application.RegisterCommandHandlers(commandBus, registry, nil, logger))
	require.NoError(t, application.RegisterQueryHandlers(queryBus, registry, data, logger))

	if opts.Auth.Validator == nil && opts.Auth.DevUserID == "" {
		opts.Auth.DevUserID = "user-1"
	}
	return &testServer{
		handler: NewRouter(commandBus, queryBus, opts, logger).Setup(),
		data:    data,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

var tab1 = map[string]string{middleware.SessionHeader: "tab-1"}

func decodeThread(t *testing.T, env envelope) threadPayload {
	t.Helper()
	var payload threadPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload
}

func TestRouter_HealthAndReady(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec, env := srv.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), "healthy")

	rec, _ = srv.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresSessionHeader(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec, env := srv.do(t, http.MethodGet, "/api/v2/threads", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v2/nodes/A", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "single post reads need no session")
}

func TestRouter_ThreadLifecycle(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec, env := srv.do(t, http.MethodGet, "/api/v2/threads/B", "", tab1)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"post:A", "post:B", "post:C"}, decodeThread(t, env).ids())

	rec, env = srv.do(t, http.MethodPost, "/api/v2/threads/continue", "", tab1)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	thread := decodeThread(t, env)
	ids := thread.ids()
	require.GreaterOrEqual(t, len(ids), 2)
	assert.Equal(t, []string{"handoff:D", "post:D"}, ids[len(ids)-2:])
	assert.Equal(t, "B", thread.Items[len(ids)-2].From)

	rec, _ = srv.do(t, http.MethodDelete, "/api/v2/threads", "", tab1)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = srv.do(t, http.MethodGet, "/api/v2/threads", "", tab1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeThread(t, env).Items)

	rec, env = srv.do(t, http.MethodGet, "/api/v2/threads/ghost", "", tab1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRouter_Feed(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
	}{
		{name: "newest first", query: "?limit=3", wantStatus: http.StatusOK, wantIDs: []string{"post:D", "post:C", "post:B"}},
		{name: "author filter", query: "?author=someone-else", wantStatus: http.StatusOK, wantIDs: []string{}},
		{name: "malformed limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "limit out of range", query: "?limit=100000", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, Options{})
			rec, env := srv.do(t, http.MethodGet, "/api/v2/feed"+tt.query, "", tab1)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantIDs != nil {
				assert.Equal(t, tt.wantIDs, decodeThread(t, env).ids())
			}
		})
	}
}

func TestRouter_Posts(t *testing.T) {
	srv := newTestServer(t, Options{})
	_, _ = srv.do(t, http.MethodGet, "/api/v2/threads/A", "", tab1)

	rec, env := srv.do(t, http.MethodPost, "/api/v2/nodes", `{"content":"a new idea","parent_id":"A"}`, tab1)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)

	rec, env = srv.do(t, http.MethodGet, "/api/v2/nodes/A/neighbors", "", tab1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), created.ID)

	rec, _ = srv.do(t, http.MethodPost, "/api/v2/nodes", `{"content":"x","colour":"red"}`, tab1)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec, _ = srv.do(t, http.MethodPost, "/api/v2/nodes", `{"title":"empty"}`, tab1)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "content is required")

	rec, _ = srv.do(t, http.MethodPost, "/api/v2/nodes", `{"content":"orphan","parent_id":"ghost"}`, tab1)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = srv.do(t, http.MethodDelete, "/api/v2/nodes/"+created.ID, "", tab1)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = srv.do(t, http.MethodDelete, "/api/v2/nodes/"+created.ID, "", tab1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Interactions(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec, _ := srv.do(t, http.MethodPost, "/api/v2/nodes/A/interactions", `{"kind":"view"}`, tab1)
	assert.Equal(t, http.StatusNotFound, rec.Code, "the post is not loaded in this session yet")

	_, _ = srv.do(t, http.MethodGet, "/api/v2/threads/A", "", tab1)

	rec, _ = srv.do(t, http.MethodPost, "/api/v2/nodes/A/interactions", `{"kind":"bogus"}`, tab1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = srv.do(t, http.MethodPost, "/api/v2/nodes/A/interactions", `{"kind":"view"}`, tab1)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	assert.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v2/nodes/A", "", nil)
		var node struct {
			Views int64 `json:"views"`
		}
		return json.Unmarshal(env.Data, &node) == nil && node.Views == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRouter_Edges(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec, _ := srv.do(t, http.MethodPost, "/api/v2/edges", `{"source_id":"A","target_id":"A","kind":"hard"}`, tab1)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "self links are rejected")

	rec, _ = srv.do(t, http.MethodPost, "/api/v2/edges", `{"source_id":"A","target_id":"C","kind":"sideways"}`, tab1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := srv.do(t, http.MethodPost, "/api/v2/edges", `{"source_id":"A","target_id":"C","kind":"soft"}`, tab1)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, _ = srv.do(t, http.MethodDelete, "/api/v2/edges/"+created.ID, "", tab1)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = srv.do(t, http.MethodDelete, "/api/v2/edges/"+created.ID, "", tab1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_LayoutAndViewport(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec, env := srv.do(t, http.MethodGet, "/api/v2/layouts/A?graph_id=graph-1", "", tab1)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"classes"`)

	rec, _ = srv.do(t, http.MethodPut, "/api/v2/viewport", `{"width":800,"height":600,"zoom":1.5,"immediate":true}`, tab1)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = srv.do(t, http.MethodPut, "/api/v2/viewport", `{"width":800,"height":600,"zoom":0}`, tab1)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "zoom must be positive")

	rec, env = srv.do(t, http.MethodGet, "/api/v2/viewport/visible", "", tab1)
	require.Equal(t, http.StatusOK, rec.Code)
	var visible struct {
		Camera struct {
			Zoom float64 `json:"zoom"`
		} `json:"camera"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &visible))
	assert.Equal(t, 1.5, visible.Camera.Zoom)
	assert.NotEmpty(t, visible.Nodes)

	rec, _ = srv.do(t, http.MethodDelete, "/api/v2/layouts", "", tab1)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v2/layouts/ghost", "", tab1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Sessions(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec, env := srv.do(t, http.MethodPost, "/api/v2/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.NotEmpty(t, session.SessionID)

	rec, _ = srv.do(t, http.MethodDelete, "/api/v2/sessions", "", map[string]string{middleware.SessionHeader: session.SessionID})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_Authentication(t *testing.T) {
	jwtCfg := auth.JWTConfig{SecretKey: "test-secret", Issuer: "brainstorm"}
	validator, err := auth.NewJWTValidator(jwtCfg)
	require.NoError(t, err)
	srv := newTestServer(t, Options{Auth: middleware.AuthConfig{Validator: validator, TrustGateway: true}})

	token, err := auth.GenerateToken(jwtCfg, "user-9", nil, time.Hour)
	require.NoError(t, err)
	forged, err := auth.GenerateToken(auth.JWTConfig{SecretKey: "other", Issuer: "brainstorm"}, "user-9", nil, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "missing token", headers: map[string]string{}, want: http.StatusUnauthorized},
		{name: "forged token", headers: map[string]string{"Authorization": "Bearer " + forged}, want: http.StatusUnauthorized},
		{name: "valid token", headers: map[string]string{"Authorization": "Bearer " + token}, want: http.StatusOK},
		{name: "gateway headers", headers: map[string]string{"X-API-Gateway-Authorized": "true", "X-User-ID": "user-3"}, want: http.StatusOK},
		{name: "gateway without user", headers: map[string]string{"X-API-Gateway-Authorized": "true"}, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{middleware.SessionHeader: "tab-1"}
			for k, v := range tt.headers {
				headers[k] = v
			}
			rec, _ := srv.do(t, http.MethodGet, "/api/v2/threads", "", headers)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rec, _ := srv.do(t, http.MethodGet, "/api/v2/threads", "", tab1)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, env := srv.do(t, http.MethodGet, "/api/v2/threads", "", tab1)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMIT", env.Error.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v2/threads", "", map[string]string{
		middleware.SessionHeader: "tab-1",
		"X-User-ID":              "user-2",
	})
	assert.Equal(t, http.StatusOK, rec.Code, "buckets are per user")
}

func TestRouter_RecordsRoutePatterns(t *testing.T) {
	recorder := &fakeRecorder{}
	srv := newTestServer(t, Options{Metrics: recorder, MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})})

	_, _ = srv.do(t, http.MethodGet, "/api/v2/threads/B", "", tab1)

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "metrics", strings.TrimSpace(rec.Body.String()))

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.NotEmpty(t, recorder.requests)
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "/api/v2/threads/{nodeID}", status: http.StatusOK}, recorder.requests[0])
}
