// Package queries defines the reads of a reader's navigation state.
package queries

import (
	"brainstorm/application/ports"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/pkg/validation"
)

// SessionScope identifies the navigation session a query reads
type SessionScope struct {
	UserID    string `json:"user_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required,max=128"`
}

// GetThreadQuery loads the thread containing a post and presents it as the feed
type GetThreadQuery struct {
	SessionScope
	NodeID valueobjects.NodeID `json:"node_id" validate:"required"`
}

// Validate validates the GetThreadQuery
func (q GetThreadQuery) Validate() error {
	return validation.Struct(q)
}

// GetQueueQuery returns the presented feed as it stands
type GetQueueQuery struct {
	SessionScope
}

// Validate validates the GetQueueQuery
func (q GetQueueQuery) Validate() error {
	return validation.Struct(q)
}

// GetFeedQuery loads the newest posts and presents all of them, newest first
type GetFeedQuery struct {
	SessionScope
	GraphID string `json:"graph_id"`
	Author  string `json:"author"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=500"`
}

// Validate validates the GetFeedQuery
func (q GetFeedQuery) Validate() error {
	return validation.Struct(q)
}

// Filter returns the data service filter of the query
func (q GetFeedQuery) Filter() ports.NodeFilter {
	return ports.NodeFilter{GraphID: q.GraphID, Author: q.Author}
}

// GetLayoutQuery navigates the session's layout view to a new root
type GetLayoutQuery struct {
	SessionScope
	NodeID  valueobjects.NodeID `json:"node_id" validate:"required"`
	GraphID string              `json:"graph_id"`
	Author  string              `json:"author"`
}

// Validate validates the GetLayoutQuery
func (q GetLayoutQuery) Validate() error {
	return validation.Struct(q)
}

// Filter returns the filter applied to decorative posts
func (q GetLayoutQuery) Filter() ports.NodeFilter {
	return ports.NodeFilter{GraphID: q.GraphID, Author: q.Author}
}

// GetVisibleQuery styles the nodes the session's camera currently shows
type GetVisibleQuery struct {
	SessionScope
}

// Validate validates the GetVisibleQuery
func (q GetVisibleQuery) Validate() error {
	return validation.Struct(q)
}

// GetSoftLinksQuery lists a post's outgoing soft links in the loaded graph
type GetSoftLinksQuery struct {
	SessionScope
	NodeID valueobjects.NodeID `json:"node_id" validate:"required"`
}

// Validate validates the GetSoftLinksQuery
func (q GetSoftLinksQuery) Validate() error {
	return validation.Struct(q)
}

// GetNeighborsQuery lists the posts joined to a post by a hard link in the loaded graph
type GetNeighborsQuery struct {
	SessionScope
	NodeID valueobjects.NodeID `json:"node_id" validate:"required"`
}

// Validate validates the GetNeighborsQuery
func (q GetNeighborsQuery) Validate() error {
	return validation.Struct(q)
}

// GetNodeQuery reads a single post straight from the data service
type GetNodeQuery struct {
	NodeID valueobjects.NodeID `json:"node_id" validate:"required"`
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	return validation.Struct(q)
}

// CacheKey implements bus.Cacheable; posts are shared between sessions
func (q GetNodeQuery) CacheKey() string {
	return q.NodeID.String()
}
