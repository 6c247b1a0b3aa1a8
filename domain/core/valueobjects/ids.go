package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// NodeID identifies a post in the brainstorm graph.
// Ids are minted by the external data service; locally created posts get a UUID.
type NodeID string

// NewNodeID creates a new random NodeID
func NewNodeID() NodeID {
	return NodeID(uuid.New().String())
}

// ParseNodeID creates a NodeID from an existing string
func ParseNodeID(id string) (NodeID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("node ID cannot be empty")
	}
	return NodeID(id), nil
}

// String returns the string representation
func (id NodeID) String() string {
	return string(id)
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id == ""
}

// EdgeID identifies a relation between two posts
type EdgeID string

// NewEdgeID creates a new random EdgeID
func NewEdgeID() EdgeID {
	return EdgeID(uuid.New().String())
}

// String returns the string representation
func (id EdgeID) String() string {
	return string(id)
}

// NodeIDs converts raw strings into NodeIDs, skipping blanks
func NodeIDs(raw ...string) []NodeID {
	ids := make([]NodeID, 0, len(raw))
	for _, r := range raw {
		if id, err := ParseNodeID(r); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
