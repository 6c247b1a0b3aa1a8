package handlers

import (
	"context"

	"brainstorm/application/ports"
	"brainstorm/application/queries"
	"brainstorm/domain/core/aggregates"
	pkgerrors "brainstorm/pkg/errors"

	"go.uber.org/zap"
)

// GetSoftLinksHandler handles soft link queries
type GetSoftLinksHandler struct {
	sessions SessionProvider
}

// NewGetSoftLinksHandler creates a new get soft links handler
func NewGetSoftLinksHandler(sessions SessionProvider) *GetSoftLinksHandler {
	return &GetSoftLinksHandler{sessions: sessions}
}

// Handle executes the get soft links query
func (h *GetSoftLinksHandler) Handle(_ context.Context, query queries.GetSoftLinksQuery) (*queries.SoftLinksResult, error) {
	links := h.sessions.Get(query.UserID, query.SessionID).Store.SoftLinksForPost(query.NodeID)
	if links == nil {
		links = []aggregates.SoftLink{}
	}
	return &queries.SoftLinksResult{NodeID: query.NodeID.String(), Links: links}, nil
}

// GetNeighborsHandler handles hard neighbor queries
type GetNeighborsHandler struct {
	sessions SessionProvider
}

// NewGetNeighborsHandler creates a new get neighbors handler
func NewGetNeighborsHandler(sessions SessionProvider) *GetNeighborsHandler {
	return &GetNeighborsHandler{sessions: sessions}
}

// Handle executes the get neighbors query
func (h *GetNeighborsHandler) Handle(_ context.Context, query queries.GetNeighborsQuery) (*queries.NeighborsResult, error) {
	store := h.sessions.Get(query.UserID, query.SessionID).Store
	if !store.Has(query.NodeID) {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return &queries.NeighborsResult{
		NodeID:    query.NodeID.String(),
		Neighbors: queries.NodeViews(store.HardNeighborsFor(query.NodeID)),
	}, nil
}

// GetNodeHandler handles single post reads against the data service
type GetNodeHandler struct {
	data   ports.GraphDataService
	logger *zap.Logger
}

// NewGetNodeHandler creates a new get node handler
func NewGetNodeHandler(data ports.GraphDataService, logger *zap.Logger) *GetNodeHandler {
	return &GetNodeHandler{data: data, logger: logger}
}

// Handle executes the get node query
func (h *GetNodeHandler) Handle(ctx context.Context, query queries.GetNodeQuery) (*queries.NodeView, error) {
	record, err := h.data.FetchNodeByID(ctx, query.NodeID)
	if err != nil {
		h.logger.Warn("Failed to fetch node", zap.String("nodeID", query.NodeID.String()), zap.Error(err))
		return nil, pkgerrors.NewExternalError("graph data service", err)
	}
	if record == nil {
		return nil, pkgerrors.NewNotFoundError("node")
	}

	node, err := record.ToNode()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid node record")
	}
	view := queries.NodeViewFrom(node)
	return &view, nil
}
