package services

import (
	"context"
	"sync"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/domain/events"
	pkgerrors "brainstorm/pkg/errors"

	"go.uber.org/zap"
)

// LayoutView is one open layout on screen. Navigating cancels the computation in flight;
// results arriving after a newer navigation or after Close are discarded.
type LayoutView struct {
	engine    *LayoutEngine
	publisher ports.EventPublisher
	logger    *zap.Logger

	mu         sync.Mutex
	current    *entities.Layout
	cancel     context.CancelFunc
	generation uint64
	closed     bool
}

// NewLayoutView creates a new layout view
func NewLayoutView(engine *LayoutEngine, publisher ports.EventPublisher, logger *zap.Logger) *LayoutView {
	return &LayoutView{
		engine:    engine,
		publisher: publisher,
		logger:    orNop(logger),
	}
}

// Navigate recomputes positions around rootID and applies the result if it is still wanted.
// A request overtaken by a newer one, or by Close, returns a conflict error and changes nothing.
func (v *LayoutView) Navigate(ctx context.Context, rootID valueobjects.NodeID, filter ports.NodeFilter) (*entities.Layout, error) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	generation := v.generation
	v.closed = false
	computeCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()

	start := time.Now()
	layout, err := v.engine.Compute(computeCtx, rootID, filter)
	cancel()

	v.mu.Lock()
	if v.closed || v.generation != generation {
		v.mu.Unlock()
		v.logger.Debug("Discarding stale layout", zap.String("rootID", rootID.String()))
		return nil, pkgerrors.NewConflictError("layout request was superseded")
	}
	v.cancel = nil
	if err != nil {
		v.mu.Unlock()
		return nil, err
	}
	v.current = layout
	v.mu.Unlock()

	decorative := 0
	for _, n := range layout.Nodes {
		if n.IsDecorative() {
			decorative++
		}
	}
	publishBestEffort(ctx, v.publisher, v.logger,
		events.NewLayoutComputed(rootID, len(layout.Nodes), decorative, time.Since(start), time.Now().UTC()))

	return layout, nil
}

// Close cancels any computation in flight and drops the current layout
func (v *LayoutView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.generation++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.current = nil
}

// Current returns the applied layout
func (v *LayoutView) Current() (*entities.Layout, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.current != nil
}

// IsClosed reports whether the view has been closed since its last navigation
func (v *LayoutView) IsClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
