package services

import (
	"context"
	"sync"

	"brainstorm/domain/config"
	"brainstorm/domain/services/viewport"
	"brainstorm/pkg/scheduler"
)

// DefaultCamera is the camera of a fresh session
var DefaultCamera = viewport.Camera{Width: 1280, Height: 800, Zoom: 1}

// ViewportSession keeps the camera of one rendering surface and styles the current layout for it.
// Camera updates go through a coalescer so only the latest zoom and pan per frame are applied.
type ViewportSession struct {
	view      *LayoutView
	config    *config.EngineConfig
	coalescer *scheduler.Coalescer[viewport.Camera]

	mu     sync.RWMutex
	camera viewport.Camera
}

// NewViewportSession creates a viewport session over view
func NewViewportSession(view *LayoutView, cfg *config.EngineConfig) *ViewportSession {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	s := &ViewportSession{
		view:   view,
		config: cfg,
		camera: DefaultCamera,
	}
	s.coalescer = scheduler.NewCoalescer(cfg.FrameInterval, s.applyCamera)
	return s
}

// Start applies submitted cameras once per frame until ctx is done
func (s *ViewportSession) Start(ctx context.Context) {
	go s.coalescer.Run(ctx)
}

// SubmitCamera queues a camera update for the next frame
func (s *ViewportSession) SubmitCamera(c viewport.Camera) {
	s.coalescer.Submit(c)
}

// Flush applies a pending camera update immediately
func (s *ViewportSession) Flush() {
	s.coalescer.Flush()
}

// Camera returns the applied camera
func (s *ViewportSession) Camera() viewport.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

// Visible styles the nodes of the current layout that fall inside the camera.
// It returns nothing when no layout is open.
func (s *ViewportSession) Visible() []viewport.NodeVisual {
	layout, ok := s.view.Current()
	if !ok {
		return []viewport.NodeVisual{}
	}
	return viewport.Compute(layout, s.Camera(), s.config)
}

func (s *ViewportSession) applyCamera(c viewport.Camera) {
	c.Zoom = s.config.ClampZoom(c.Zoom)
	if c.Width <= 0 {
		c.Width = DefaultCamera.Width
	}
	if c.Height <= 0 {
		c.Height = DefaultCamera.Height
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
}
