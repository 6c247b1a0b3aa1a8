package handlers

import (
	"context"
	"time"

	"brainstorm/application/commands"
	"brainstorm/application/ports"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/domain/events"
	pkgerrors "brainstorm/pkg/errors"

	"go.uber.org/zap"
)

// CreatePostHandler handles optimistic post creation
type CreatePostHandler struct {
	sessions SessionProvider
	logger   *zap.Logger
}

// NewCreatePostHandler creates a new create post handler
func NewCreatePostHandler(sessions SessionProvider, logger *zap.Logger) *CreatePostHandler {
	return &CreatePostHandler{sessions: sessions, logger: logger}
}

// Handle executes the create post command
func (h *CreatePostHandler) Handle(_ context.Context, cmd commands.CreatePostCommand) error {
	store := h.sessions.Get(cmd.UserID, cmd.SessionID).Store

	var link *entities.Edge
	if !cmd.ParentID.IsZero() {
		if !store.Has(cmd.ParentID) {
			return pkgerrors.NewNotFoundError("parent node")
		}
		kind := cmd.Kind
		if kind == "" {
			kind = valueobjects.RelationHard
		}
		edge, err := entities.NewEdge(cmd.ParentID, cmd.NodeID, kind)
		if err != nil {
			return err
		}
		link = edge
	}

	post, err := entities.NewPost(cmd.NodeID, cmd.UserID, cmd.Title, cmd.Content)
	if err != nil {
		return err
	}
	store.AddNode(post)
	store.AddEdge(link)

	h.logger.Debug("Post inserted",
		zap.String("nodeID", post.ID().String()),
		zap.Bool("linked", link != nil),
	)
	return nil
}

// DeleteNodeHandler handles node deletion commands
type DeleteNodeHandler struct {
	sessions  SessionProvider
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteNodeHandler creates a new delete node handler
func NewDeleteNodeHandler(sessions SessionProvider, publisher ports.EventPublisher, logger *zap.Logger) *DeleteNodeHandler {
	return &DeleteNodeHandler{sessions: sessions, publisher: publisher, logger: logger}
}

// Handle executes the delete node command
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd commands.DeleteNodeCommand) error {
	store := h.sessions.Get(cmd.UserID, cmd.SessionID).Store

	edgesBefore := len(store.Edges())
	if !store.DeleteNode(cmd.NodeID) {
		return pkgerrors.NewNotFoundError("node")
	}
	removed := edgesBefore - len(store.Edges())

	event := events.NewNodeRemoved(cmd.NodeID, removed, time.Now().UTC())
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("Failed to publish deletion event", zap.Error(err))
		}
	}

	h.logger.Info("Node deleted",
		zap.String("nodeID", cmd.NodeID.String()),
		zap.String("userID", cmd.UserID),
		zap.Int("edgesRemoved", removed),
	)
	return nil
}

// RecordInteractionHandler handles engagement commands
type RecordInteractionHandler struct {
	sessions SessionProvider
}

// NewRecordInteractionHandler creates a new record interaction handler
func NewRecordInteractionHandler(sessions SessionProvider) *RecordInteractionHandler {
	return &RecordInteractionHandler{sessions: sessions}
}

// Handle executes the record interaction command
func (h *RecordInteractionHandler) Handle(ctx context.Context, cmd commands.RecordInteractionCommand) error {
	return h.sessions.Get(cmd.UserID, cmd.SessionID).Assembler.RecordInteraction(ctx, cmd.NodeID, cmd.Kind)
}

// AddEdgeHandler handles optimistic edge creation
type AddEdgeHandler struct {
	sessions SessionProvider
}

// NewAddEdgeHandler creates a new add edge handler
func NewAddEdgeHandler(sessions SessionProvider) *AddEdgeHandler {
	return &AddEdgeHandler{sessions: sessions}
}

// Handle executes the add edge command
func (h *AddEdgeHandler) Handle(_ context.Context, cmd commands.AddEdgeCommand) error {
	edge, err := entities.NewEdge(cmd.SourceID, cmd.TargetID, cmd.Kind)
	if err != nil {
		return err
	}
	edge.ID = cmd.EdgeID
	h.sessions.Get(cmd.UserID, cmd.SessionID).Store.AddEdge(edge)
	return nil
}

// DeleteEdgeHandler handles edge deletion commands
type DeleteEdgeHandler struct {
	sessions SessionProvider
}

// NewDeleteEdgeHandler creates a new delete edge handler
func NewDeleteEdgeHandler(sessions SessionProvider) *DeleteEdgeHandler {
	return &DeleteEdgeHandler{sessions: sessions}
}

// Handle executes the delete edge command
func (h *DeleteEdgeHandler) Handle(_ context.Context, cmd commands.DeleteEdgeCommand) error {
	if !h.sessions.Get(cmd.UserID, cmd.SessionID).Store.DeleteEdge(cmd.EdgeID) {
		return pkgerrors.NewNotFoundError("edge")
	}
	return nil
}
