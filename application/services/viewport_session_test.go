package services

import (
	"context"
	"testing"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/services/viewport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportSession_CoalescesCameraUpdates(t *testing.T) {
	session := NewViewportSession(NewLayoutView(newTestEngine(newDataService(nil), nil), nil, nil), testConfig())
	assert.Equal(t, DefaultCamera, session.Camera())

	session.SubmitCamera(viewport.Camera{Width: 640, Height: 480, Zoom: 2, PanX: 10})
	session.SubmitCamera(viewport.Camera{Width: 640, Height: 480, Zoom: 2.5, PanX: 20})
	assert.Equal(t, DefaultCamera, session.Camera(), "updates wait for the next frame")

	session.Flush()
	assert.Equal(t, viewport.Camera{Width: 640, Height: 480, Zoom: 2.5, PanX: 20}, session.Camera())
}

func TestViewportSession_SanitizesCamera(t *testing.T) {
	tests := []struct {
		name   string
		submit viewport.Camera
		want   viewport.Camera
	}{
		{
			name:   "zoom above range",
			submit: viewport.Camera{Width: 100, Height: 100, Zoom: 10},
			want:   viewport.Camera{Width: 100, Height: 100, Zoom: 3},
		},
		{
			name:   "zoom below range",
			submit: viewport.Camera{Width: 100, Height: 100, Zoom: 0.1},
			want:   viewport.Camera{Width: 100, Height: 100, Zoom: 0.5},
		},
		{
			name:   "missing surface size",
			submit: viewport.Camera{Zoom: 1, PanY: -5},
			want:   viewport.Camera{Width: 1280, Height: 800, Zoom: 1, PanY: -5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewViewportSession(NewLayoutView(newTestEngine(newDataService(nil), nil), nil, nil), testConfig())
			session.SubmitCamera(tt.submit)
			session.Flush()
			assert.Equal(t, tt.want, session.Camera())
		})
	}
}

func TestViewportSession_Visible(t *testing.T) {
	data := newDataService([]string{"R", "A", "B"}, hard("R", "A"), hard("A", "B"))
	view := NewLayoutView(newTestEngine(data, withoutDistant), nil, nil)
	session := NewViewportSession(view, testConfig())

	assert.Empty(t, session.Visible(), "nothing is visible without a layout")

	_, err := view.Navigate(context.Background(), "R", ports.NodeFilter{})
	require.NoError(t, err)

	visuals := session.Visible()
	require.Len(t, visuals, 3)
	last := visuals[len(visuals)-1]
	assert.Equal(t, entities.ClassRoot, last.Class, "the root is drawn last")
	assert.Equal(t, 640.0, last.ScreenX)
	assert.Equal(t, 400.0, last.ScreenY)

	session.SubmitCamera(viewport.Camera{Width: 200, Height: 200, Zoom: 1, PanY: -2000})
	session.Flush()
	assert.Empty(t, session.Visible(), "panned far away from every node")
}

func TestViewportSession_StartAppliesPerFrame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := NewViewportSession(NewLayoutView(newTestEngine(newDataService(nil), nil), nil, nil), testConfig())
	session.Start(ctx)
	session.SubmitCamera(viewport.Camera{Width: 300, Height: 300, Zoom: 1.5})

	assert.Eventually(t, func() bool {
		return session.Camera().Zoom == 1.5
	}, time.Second, 5*time.Millisecond)
}
