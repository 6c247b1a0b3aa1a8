// Package fixtures provides builders for graph test data.
package fixtures

import (
	"fmt"
	"time"

	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
)

// BaseTime is the creation time of the first fixture node
var BaseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// NodeBuilder builds nodes for tests
type NodeBuilder struct {
	snapshot entities.NodeSnapshot
}

// NewNodeBuilder creates a builder with sensible defaults
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{
		snapshot: entities.NodeSnapshot{
			ID:        valueobjects.NewNodeID(),
			Content:   "Test post content",
			Author:    "user-1",
			CreatedAt: BaseTime,
		},
	}
}

// WithID sets the node ID
func (b *NodeBuilder) WithID(id string) *NodeBuilder {
	b.snapshot.ID = valueobjects.NodeID(id)
	return b
}

// WithTitle sets the title
func (b *NodeBuilder) WithTitle(title string) *NodeBuilder {
	b.snapshot.Title = title
	return b
}

// WithContent sets the content
func (b *NodeBuilder) WithContent(content string) *NodeBuilder {
	b.snapshot.Content = content
	return b
}

// WithCreatedAt sets the creation time
func (b *NodeBuilder) WithCreatedAt(t time.Time) *NodeBuilder {
	b.snapshot.CreatedAt = t
	return b
}

// WithEngagement sets views and thoughts
func (b *NodeBuilder) WithEngagement(views, thoughts int64) *NodeBuilder {
	b.snapshot.Views = views
	b.snapshot.Thoughts = thoughts
	return b
}

// Build creates the node
func (b *NodeBuilder) Build() (*entities.Node, error) {
	return entities.ReconstructNode(b.snapshot)
}

// MustBuild creates the node and panics on error
func (b *NodeBuilder) MustBuild() *entities.Node {
	node, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build node: %v", err))
	}
	return node
}

// Nodes builds one node per id, each created a minute after the previous one
func Nodes(ids ...string) []*entities.Node {
	nodes := make([]*entities.Node, 0, len(ids))
	for i, id := range ids {
		nodes = append(nodes, NewNodeBuilder().
			WithID(id).
			WithTitle("Post "+id).
			WithCreatedAt(BaseTime.Add(time.Duration(i)*time.Minute)).
			MustBuild())
	}
	return nodes
}

// Edge builds an edge with a deterministic id
func Edge(source, target string, kind valueobjects.RelationKind) *entities.Edge {
	return &entities.Edge{
		ID:        valueobjects.EdgeID(fmt.Sprintf("%s->%s:%s", source, target, kind)),
		SourceID:  valueobjects.NodeID(source),
		TargetID:  valueobjects.NodeID(target),
		Kind:      kind,
		CreatedAt: BaseTime,
	}
}

// Hard builds a hard edge
func Hard(source, target string) *entities.Edge {
	return Edge(source, target, valueobjects.RelationHard)
}

// Soft builds a soft edge
func Soft(source, target string) *entities.Edge {
	return Edge(source, target, valueobjects.RelationSoft)
}

// IDs extracts node ids in order
func IDs(nodes []*entities.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID().String())
	}
	return ids
}
