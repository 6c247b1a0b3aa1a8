package handlers

import (
	"context"

	"brainstorm/application/queries"
)

// GetLayoutHandler handles layout navigation queries
type GetLayoutHandler struct {
	sessions SessionProvider
}

// NewGetLayoutHandler creates a new get layout handler
func NewGetLayoutHandler(sessions SessionProvider) *GetLayoutHandler {
	return &GetLayoutHandler{sessions: sessions}
}

// Handle executes the get layout query
func (h *GetLayoutHandler) Handle(ctx context.Context, query queries.GetLayoutQuery) (*queries.LayoutResult, error) {
	layout, err := h.sessions.Get(query.UserID, query.SessionID).Layout.Navigate(ctx, query.NodeID, query.Filter())
	if err != nil {
		return nil, err
	}
	return queries.LayoutResultFrom(layout), nil
}

// GetVisibleHandler handles viewport queries
type GetVisibleHandler struct {
	sessions SessionProvider
}

// NewGetVisibleHandler creates a new get visible handler
func NewGetVisibleHandler(sessions SessionProvider) *GetVisibleHandler {
	return &GetVisibleHandler{sessions: sessions}
}

// Handle executes the get visible query
func (h *GetVisibleHandler) Handle(_ context.Context, query queries.GetVisibleQuery) (*queries.VisibleResult, error) {
	vp := h.sessions.Get(query.UserID, query.SessionID).Viewport
	return &queries.VisibleResult{
		Camera: vp.Camera(),
		Nodes:  vp.Visible(),
	}, nil
}
