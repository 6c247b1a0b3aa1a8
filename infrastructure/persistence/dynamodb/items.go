package dynamodb

import (
	"fmt"
	"strings"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/core/valueobjects"
)

// sortableTime keeps a fixed width so GSI4SK sorts chronologically as a string
const sortableTime = "2006-01-02T15:04:05.000000000Z07:00"

const (
	entityNode = "NODE"
	entityEdge = "EDGE"
)

// nodeItem represents the DynamoDB item structure for a post
type nodeItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	NodeID     string   `dynamodbav:"NodeID"`
	GraphID    string   `dynamodbav:"GraphID"`
	Title      string   `dynamodbav:"Title"`
	Content    string   `dynamodbav:"Content"`
	Author     string   `dynamodbav:"Author,omitempty"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	Views      int64    `dynamodbav:"Views"`
	Thoughts   int64    `dynamodbav:"Thoughts"`
	Tags       []string `dynamodbav:"Tags,omitempty,stringset"`
	Emoji      string   `dynamodbav:"Emoji,omitempty"`

	// GSI1 for direct lookups by node id
	GSI1PK string `dynamodbav:"GSI1PK"` // NODEID#nodeId
	GSI1SK string `dynamodbav:"GSI1SK"` // NODE

	// GSI4 for newest-first listings per graph
	GSI4PK string `dynamodbav:"GSI4PK"` // GRAPH#graphId
	GSI4SK string `dynamodbav:"GSI4SK"` // CreatedAt
}

// edgeItem represents the DynamoDB item structure for a relation.
// One relation exists per ordered pair of posts.
type edgeItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	EdgeID     string `dynamodbav:"EdgeID"`
	GraphID    string `dynamodbav:"GraphID"`
	SourceID   string `dynamodbav:"SourceID"`
	TargetID   string `dynamodbav:"TargetID"`
	Kind       string `dynamodbav:"Kind"`
	CreatedAt  string `dynamodbav:"CreatedAt"`

	// GSI2 for outgoing relations of a source
	GSI2PK string `dynamodbav:"GSI2PK"` // NODE#sourceId
	GSI2SK string `dynamodbav:"GSI2SK"` // EDGE#edgeId

	// GSI3 for incoming relations of a target
	GSI3PK string `dynamodbav:"GSI3PK"` // TARGET#targetId
	GSI3SK string `dynamodbav:"GSI3SK"` // EDGE#edgeId
}

func graphKey(graphID string) string                  { return "GRAPH#" + graphID }
func nodeKey(id valueobjects.NodeID) string           { return "NODE#" + id.String() }
func nodeLookupKey(id valueobjects.NodeID) string     { return "NODEID#" + id.String() }
func targetKey(id valueobjects.NodeID) string         { return "TARGET#" + id.String() }
func edgeSortKey(src, dst valueobjects.NodeID) string { return fmt.Sprintf("EDGE#%s#%s", src, dst) }

func newNodeItem(graphID string, r ports.NodeRecord) nodeItem {
	created := r.CreatedAt.UTC().Format(sortableTime)
	return nodeItem{
		PK:         graphKey(graphID),
		SK:         nodeKey(r.ID),
		EntityType: entityNode,
		NodeID:     r.ID.String(),
		GraphID:    graphID,
		Title:      r.Title,
		Content:    r.Content,
		Author:     r.Author,
		CreatedAt:  created,
		Views:      r.Views,
		Thoughts:   r.Thoughts,
		Tags:       r.Tags,
		Emoji:      r.Emoji,
		GSI1PK:     nodeLookupKey(r.ID),
		GSI1SK:     entityNode,
		GSI4PK:     graphKey(graphID),
		GSI4SK:     created,
	}
}

func (i nodeItem) toRecord() ports.NodeRecord {
	created, err := time.Parse(sortableTime, i.CreatedAt)
	if err != nil {
		created, _ = time.Parse(time.RFC3339, i.CreatedAt)
	}
	return ports.NodeRecord{
		ID:        valueobjects.NodeID(i.NodeID),
		Title:     i.Title,
		Content:   i.Content,
		Author:    i.Author,
		CreatedAt: created,
		Views:     i.Views,
		Thoughts:  i.Thoughts,
		Tags:      i.Tags,
		Emoji:     i.Emoji,
	}
}

func newEdgeItem(graphID string, r ports.Relation, createdAt time.Time) edgeItem {
	id := r.ToEdge().ID.String()
	return edgeItem{
		PK:         graphKey(graphID),
		SK:         edgeSortKey(r.ParentID, r.ChildID),
		EntityType: entityEdge,
		EdgeID:     id,
		GraphID:    graphID,
		SourceID:   r.ParentID.String(),
		TargetID:   r.ChildID.String(),
		Kind:       string(r.Kind),
		CreatedAt:  createdAt.UTC().Format(sortableTime),
		GSI2PK:     nodeKey(r.ParentID),
		GSI2SK:     "EDGE#" + id,
		GSI3PK:     targetKey(r.ChildID),
		GSI3SK:     "EDGE#" + id,
	}
}

// toRelation reports false for items whose kind is not a known relation kind
func (i edgeItem) toRelation() (ports.Relation, bool) {
	kind, err := valueobjects.ParseRelationKind(strings.ToLower(i.Kind))
	if err != nil {
		return ports.Relation{}, false
	}
	return ports.Relation{
		ParentID: valueobjects.NodeID(i.SourceID),
		ChildID:  valueobjects.NodeID(i.TargetID),
		Kind:     kind,
		EdgeID:   valueobjects.EdgeID(i.EdgeID),
	}, true
}
