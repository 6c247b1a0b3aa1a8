package commands

import (
	"brainstorm/domain/core/valueobjects"
	"brainstorm/pkg/validation"
)

// CreatePostCommand inserts a post into the session graph ahead of the data service; NodeID is minted by the caller
type CreatePostCommand struct {
	SessionScope
	NodeID  valueobjects.NodeID `json:"node_id" validate:"required"`
	Title   string              `json:"title" validate:"max=200"`
	Content string              `json:"content" validate:"required,max=10000"`
	// ParentID optionally links the new post under an existing one, as a continuation unless Kind says otherwise
	ParentID valueobjects.NodeID       `json:"parent_id"`
	Kind     valueobjects.RelationKind `json:"kind" validate:"omitempty,relationkind"`
}

// Validate validates the CreatePostCommand
func (c CreatePostCommand) Validate() error {
	return validation.Struct(c)
}

// DeleteNodeCommand removes a post and every relation touching it from the session graph
type DeleteNodeCommand struct {
	SessionScope
	NodeID valueobjects.NodeID `json:"node_id" validate:"required"`
}

// Validate validates the DeleteNodeCommand
func (c DeleteNodeCommand) Validate() error {
	return validation.Struct(c)
}

// RecordInteractionCommand bumps an engagement metric of a post
type RecordInteractionCommand struct {
	SessionScope
	NodeID valueobjects.NodeID          `json:"node_id" validate:"required"`
	Kind   valueobjects.InteractionKind `json:"kind" validate:"required,interactionkind"`
}

// Validate validates the RecordInteractionCommand
func (c RecordInteractionCommand) Validate() error {
	return validation.Struct(c)
}

// AddEdgeCommand inserts a relation optimistically; EdgeID is minted by the caller
type AddEdgeCommand struct {
	SessionScope
	EdgeID   valueobjects.EdgeID       `json:"edge_id" validate:"required"`
	SourceID valueobjects.NodeID       `json:"source_id" validate:"required"`
	TargetID valueobjects.NodeID       `json:"target_id" validate:"required,nefield=SourceID"`
	Kind     valueobjects.RelationKind `json:"kind" validate:"required,relationkind"`
}

// Validate validates the AddEdgeCommand
func (c AddEdgeCommand) Validate() error {
	return validation.Struct(c)
}

// DeleteEdgeCommand removes every relation with the given id
type DeleteEdgeCommand struct {
	SessionScope
	EdgeID valueobjects.EdgeID `json:"edge_id" validate:"required"`
}

// Validate validates the DeleteEdgeCommand
func (c DeleteEdgeCommand) Validate() error {
	return validation.Struct(c)
}
