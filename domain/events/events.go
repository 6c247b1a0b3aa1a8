package events

import (
	"time"

	"brainstorm/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

const (
	TypeThreadExtended      = "thread.extended"
	TypeNodeRemoved         = "node.removed"
	TypeInteractionRecorded = "interaction.recorded"
	TypeLayoutComputed      = "layout.computed"
)

func newBase(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

// ThreadExtended is raised when the feed hands off from one thread into another
type ThreadExtended struct {
	BaseEvent
	FromID   valueobjects.NodeID `json:"from_id"`
	TargetID valueobjects.NodeID `json:"target_id"`
	Appended int                 `json:"appended"`
}

// NewThreadExtended creates a ThreadExtended event
func NewThreadExtended(from, target valueobjects.NodeID, appended int, timestamp time.Time) ThreadExtended {
	return ThreadExtended{
		BaseEvent: newBase(target.String(), TypeThreadExtended, timestamp),
		FromID:    from,
		TargetID:  target,
		Appended:  appended,
	}
}

// NodeRemoved is raised when a node and its edges leave the loaded graph
type NodeRemoved struct {
	BaseEvent
	NodeID       valueobjects.NodeID `json:"node_id"`
	EdgesRemoved int                 `json:"edges_removed"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(nodeID valueobjects.NodeID, edgesRemoved int, timestamp time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent:    newBase(nodeID.String(), TypeNodeRemoved, timestamp),
		NodeID:       nodeID,
		EdgesRemoved: edgesRemoved,
	}
}

// InteractionRecorded is raised when a view or thought is counted
type InteractionRecorded struct {
	BaseEvent
	NodeID valueobjects.NodeID          `json:"node_id"`
	Kind   valueobjects.InteractionKind `json:"kind"`
}

// NewInteractionRecorded creates an InteractionRecorded event
func NewInteractionRecorded(nodeID valueobjects.NodeID, kind valueobjects.InteractionKind, timestamp time.Time) InteractionRecorded {
	return InteractionRecorded{
		BaseEvent: newBase(nodeID.String(), TypeInteractionRecorded, timestamp),
		NodeID:    nodeID,
		Kind:      kind,
	}
}

// LayoutComputed is raised when a layout view applies a new layout
type LayoutComputed struct {
	BaseEvent
	RootID     valueobjects.NodeID `json:"root_id"`
	NodeCount  int                 `json:"node_count"`
	Decorative int                 `json:"decorative"`
	Duration   time.Duration       `json:"duration"`
}

// NewLayoutComputed creates a LayoutComputed event
func NewLayoutComputed(rootID valueobjects.NodeID, nodeCount, decorative int, duration time.Duration, timestamp time.Time) LayoutComputed {
	return LayoutComputed{
		BaseEvent:  newBase(rootID.String(), TypeLayoutComputed, timestamp),
		RootID:     rootID,
		NodeCount:  nodeCount,
		Decorative: decorative,
		Duration:   duration,
	}
}
