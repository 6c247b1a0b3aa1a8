package entities

import (
	"time"

	"brainstorm/domain/core/valueobjects"
	pkgerrors "brainstorm/pkg/errors"
)

// Edge is a directed relation between two posts
type Edge struct {
	ID        valueobjects.EdgeID
	SourceID  valueobjects.NodeID
	TargetID  valueobjects.NodeID
	Kind      valueobjects.RelationKind
	CreatedAt time.Time
}

// NewEdge creates a relation with a fresh id
func NewEdge(sourceID, targetID valueobjects.NodeID, kind valueobjects.RelationKind) (*Edge, error) {
	if sourceID.IsZero() || targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("edge endpoints cannot be empty")
	}
	if _, err := valueobjects.ParseRelationKind(string(kind)); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	return &Edge{
		ID:        valueobjects.NewEdgeID(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// IsHard reports whether the edge is a thread continuation
func (e *Edge) IsHard() bool {
	return e.Kind == valueobjects.RelationHard
}

// IsSoft reports whether the edge is an associative link
func (e *Edge) IsSoft() bool {
	return e.Kind == valueobjects.RelationSoft
}

// Touches reports whether the edge references the node at either end
func (e *Edge) Touches(id valueobjects.NodeID) bool {
	return e.SourceID == id || e.TargetID == id
}

// Other returns the endpoint opposite to id
func (e *Edge) Other(id valueobjects.NodeID) valueobjects.NodeID {
	if e.SourceID == id {
		return e.TargetID
	}
	return e.SourceID
}
