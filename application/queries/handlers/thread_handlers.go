package handlers

import (
	"context"

	"brainstorm/application/queries"
	"brainstorm/application/services"

	"go.uber.org/zap"
)

// SessionProvider resolves the navigation session of a reader
type SessionProvider interface {
	Get(userID, sessionID string) *services.Session
}

// GetThreadHandler handles thread selection queries
type GetThreadHandler struct {
	sessions SessionProvider
	logger   *zap.Logger
}

// NewGetThreadHandler creates a new get thread handler
func NewGetThreadHandler(sessions SessionProvider, logger *zap.Logger) *GetThreadHandler {
	return &GetThreadHandler{sessions: sessions, logger: logger}
}

// Handle executes the get thread query.
// The thread is hydrated from the data service first, so a missing post is a not found error.
func (h *GetThreadHandler) Handle(ctx context.Context, query queries.GetThreadQuery) (*queries.ThreadResult, error) {
	session := h.sessions.Get(query.UserID, query.SessionID)

	if err := session.Assembler.HydrateThread(ctx, query.NodeID); err != nil {
		h.logger.Debug("Thread could not be loaded",
			zap.String("nodeID", query.NodeID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	items := session.Assembler.RebuildFromSelection(query.NodeID)
	return queries.ThreadResultFrom(items, session.Assembler.IsFetchingMore()), nil
}

// GetQueueHandler handles feed snapshot queries
type GetQueueHandler struct {
	sessions SessionProvider
}

// NewGetQueueHandler creates a new get queue handler
func NewGetQueueHandler(sessions SessionProvider) *GetQueueHandler {
	return &GetQueueHandler{sessions: sessions}
}

// Handle executes the get queue query
func (h *GetQueueHandler) Handle(_ context.Context, query queries.GetQueueQuery) (*queries.ThreadResult, error) {
	assembler := h.sessions.Get(query.UserID, query.SessionID).Assembler
	return queries.ThreadResultFrom(assembler.Queue(), assembler.IsFetchingMore()), nil
}

// GetFeedHandler handles full feed queries
type GetFeedHandler struct {
	sessions SessionProvider
}

// NewGetFeedHandler creates a new get feed handler
func NewGetFeedHandler(sessions SessionProvider) *GetFeedHandler {
	return &GetFeedHandler{sessions: sessions}
}

// Handle executes the get feed query
func (h *GetFeedHandler) Handle(ctx context.Context, query queries.GetFeedQuery) (*queries.ThreadResult, error) {
	assembler := h.sessions.Get(query.UserID, query.SessionID).Assembler
	items, err := assembler.LoadFeed(ctx, query.Filter(), query.Limit)
	if err != nil {
		return nil, err
	}
	return queries.ThreadResultFrom(items, assembler.IsFetchingMore()), nil
}
