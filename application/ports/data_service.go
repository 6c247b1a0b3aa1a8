package ports

import (
	"context"
	"time"

	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/domain/events"
)

// GraphDataService is the external query layer the engine reads the graph from.
// This is a port in hexagonal architecture - the engine never persists anything itself.
// Not-found is not an error: FetchNodeByID returns (nil, nil).
type GraphDataService interface {
	// FetchNodeByID retrieves a single post
	FetchNodeByID(ctx context.Context, id valueobjects.NodeID) (*NodeRecord, error)

	// ChildrenOf lists the targets of edges leaving id with one of the given kinds
	ChildrenOf(ctx context.Context, id valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ChildRef, error)

	// RelationsTouching lists edges of the given kinds with either endpoint in ids
	RelationsTouching(ctx context.Context, ids []valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]Relation, error)

	// RecentNodes lists posts newest first, skipping excluded ids
	RecentNodes(ctx context.Context, excluding []valueobjects.NodeID, filter NodeFilter, limit int) ([]NodeRecord, error)

	// IncrementInteraction bumps an engagement counter
	IncrementInteraction(ctx context.Context, id valueobjects.NodeID, kind valueobjects.InteractionKind) error
}

// EventPublisher publishes domain events to interested parties
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// NodeFilter narrows RecentNodes
type NodeFilter struct {
	GraphID string `json:"graph_id,omitempty"`
	Author  string `json:"author,omitempty"`
}

// NodeRecord is a post as returned by the data service
type NodeRecord struct {
	ID        valueobjects.NodeID `json:"id"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Author    string              `json:"author,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Views     int64               `json:"views"`
	Thoughts  int64               `json:"thoughts"`
	Tags      []string            `json:"tags,omitempty"`
	Emoji     string              `json:"emoji,omitempty"`
}

// ToNode converts the record into a domain node
func (r NodeRecord) ToNode() (*entities.Node, error) {
	return entities.ReconstructNode(entities.NodeSnapshot{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
		Views:     r.Views,
		Thoughts:  r.Thoughts,
		Tags:      r.Tags,
		Emoji:     r.Emoji,
	})
}

// RecordFromNode converts a domain node into a record
func RecordFromNode(n *entities.Node) NodeRecord {
	s := n.Snapshot()
	return NodeRecord{
		ID:        s.ID,
		Title:     s.Title,
		Content:   s.Content,
		Author:    s.Author,
		CreatedAt: s.CreatedAt,
		Views:     s.Views,
		Thoughts:  s.Thoughts,
		Tags:      s.Tags,
		Emoji:     s.Emoji,
	}
}

// ChildRef points at the target of an outgoing edge
type ChildRef struct {
	ChildID valueobjects.NodeID       `json:"child_id"`
	Kind    valueobjects.RelationKind `json:"kind"`
	EdgeID  valueobjects.EdgeID       `json:"edge_id,omitempty"`
}

// Relation is an edge as returned by the data service
type Relation struct {
	ParentID valueobjects.NodeID       `json:"parent_id"`
	ChildID  valueobjects.NodeID       `json:"child_id"`
	Kind     valueobjects.RelationKind `json:"kind"`
	EdgeID   valueobjects.EdgeID       `json:"edge_id,omitempty"`
}

// ToEdge converts the relation into a domain edge.
// Relations without an id get one derived from their endpoints so merges stay idempotent.
func (r Relation) ToEdge() *entities.Edge {
	id := r.EdgeID
	if id == "" {
		id = valueobjects.EdgeID(r.ParentID.String() + "#" + r.ChildID.String() + "#" + string(r.Kind))
	}
	return &entities.Edge{
		ID:       id,
		SourceID: r.ParentID,
		TargetID: r.ChildID,
		Kind:     r.Kind,
	}
}

// RecordsToNodes converts records, skipping any that fail validation
func RecordsToNodes(records []NodeRecord) []*entities.Node {
	nodes := make([]*entities.Node, 0, len(records))
	for _, r := range records {
		if n, err := r.ToNode(); err == nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
