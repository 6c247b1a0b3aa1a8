package services

import (
	"context"
	"testing"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/services/viewport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionRegistry_Get(t *testing.T) {
	registry := NewSessionRegistry(newDataService([]string{"A"}), nil, testConfig(), Instrumentation{}, time.Hour, zap.NewNop())
	defer registry.Close()

	first := registry.Get("user-1", "tab-1")
	again := registry.Get("user-1", "tab-1")
	other := registry.Get("user-1", "tab-2")
	foreign := registry.Get("user-2", "tab-1")

	assert.Same(t, first, again)
	assert.NotSame(t, first, other)
	assert.NotSame(t, first, foreign)
	assert.Equal(t, 3, registry.Count())
	assert.Equal(t, "tab-1", first.ID)
	assert.Equal(t, "user-1", first.UserID)
	assert.NotSame(t, first.Store, other.Store, "sessions never share navigation state")
}

func TestSessionRegistry_End(t *testing.T) {
	registry := NewSessionRegistry(newDataService([]string{"A"}), nil, testConfig(), Instrumentation{}, time.Hour, nil)
	defer registry.Close()

	session := registry.Get("user-1", "tab-1")
	_, err := session.Layout.Navigate(context.Background(), "A", ports.NodeFilter{})
	require.NoError(t, err)

	registry.End("user-1", "tab-1")

	assert.Equal(t, 0, registry.Count())
	assert.True(t, session.Layout.IsClosed())
	assert.NotSame(t, session, registry.Get("user-1", "tab-1"))
}

func TestSessionRegistry_IdleSessionsExpire(t *testing.T) {
	registry := NewSessionRegistry(newDataService(nil), nil, testConfig(), Instrumentation{}, 10*time.Millisecond, nil)
	defer registry.Close()

	stale := registry.Get("user-1", "tab-1")
	time.Sleep(30 * time.Millisecond)

	fresh := registry.Get("user-1", "tab-1")
	assert.NotSame(t, stale, fresh)
	assert.True(t, stale.Layout.IsClosed(), "the expired session is closed when replaced")
	assert.Equal(t, 1, registry.Count())
}

func TestSessionRegistry_SetConfigAppliesToNewSessions(t *testing.T) {
	registry := NewSessionRegistry(newDataService(nil), nil, testConfig(), Instrumentation{}, time.Hour, nil)
	defer registry.Close()

	before := registry.Get("user-1", "tab-1")

	updated := testConfig()
	updated.MaxZoom = 5
	registry.SetConfig(updated)
	registry.SetConfig(nil)

	after := registry.Get("user-1", "tab-2")
	before.Viewport.SubmitCamera(viewport.Camera{Width: 10, Height: 10, Zoom: 4})
	before.Viewport.Flush()
	after.Viewport.SubmitCamera(viewport.Camera{Width: 10, Height: 10, Zoom: 4})
	after.Viewport.Flush()

	assert.Same(t, updated, registry.Config())
	assert.Equal(t, 3.0, before.Viewport.Camera().Zoom, "open sessions keep their config")
	assert.Equal(t, 4.0, after.Viewport.Camera().Zoom)
}
