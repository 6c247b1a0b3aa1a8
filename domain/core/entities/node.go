package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"brainstorm/domain/core/valueobjects"
	pkgerrors "brainstorm/pkg/errors"
)

// Node is a post in the brainstorm graph.
// Engagement metrics are mutated in place; the position is assigned by the layout and never persisted.
type Node struct {
	id        valueobjects.NodeID
	title     string
	content   string
	author    string
	createdAt time.Time
	views     int64
	thoughts  int64
	tags      []string
	emoji     string
	position  valueobjects.Position
}

// NewPost creates a post for optimistic insertion before the data service confirms it.
// A zero id is replaced with a fresh UUID.
func NewPost(id valueobjects.NodeID, author, title, content string) (*Node, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}
	if author == "" {
		return nil, pkgerrors.NewValidationError("author cannot be empty")
	}

	if id.IsZero() {
		id = valueobjects.NewNodeID()
	}

	return &Node{
		id:        id,
		title:     strings.TrimSpace(title),
		content:   content,
		author:    author,
		createdAt: time.Now().UTC(),
		tags:      []string{},
	}, nil
}

// NodeSnapshot carries the persisted attributes of a node between layers
type NodeSnapshot struct {
	ID        valueobjects.NodeID
	Title     string
	Content   string
	Author    string
	CreatedAt time.Time
	Views     int64
	Thoughts  int64
	Tags      []string
	Emoji     string
}

// ReconstructNode rebuilds a node from fetched data
func ReconstructNode(s NodeSnapshot) (*Node, error) {
	if s.ID.IsZero() {
		return nil, pkgerrors.NewValidationError("node id cannot be empty")
	}

	tags := make([]string, len(s.Tags))
	copy(tags, s.Tags)

	return &Node{
		id:        s.ID,
		title:     s.Title,
		content:   s.Content,
		author:    s.Author,
		createdAt: s.CreatedAt,
		views:     s.Views,
		thoughts:  s.Thoughts,
		tags:      tags,
		emoji:     s.Emoji,
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Title returns the optional title
func (n *Node) Title() string {
	return n.title
}

// Content returns the post body
func (n *Node) Content() string {
	return n.content
}

// Author returns the author's ID
func (n *Node) Author() string {
	return n.author
}

// CreatedAt returns when the post was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// Views returns the view count
func (n *Node) Views() int64 {
	return n.views
}

// Thoughts returns the number of thoughts left on the post
func (n *Node) Thoughts() int64 {
	return n.thoughts
}

// Engagement is the combined engagement score used for ranking
func (n *Node) Engagement() int64 {
	return n.views + n.thoughts
}

// Tags returns a copy of the post's tags
func (n *Node) Tags() []string {
	tags := make([]string, len(n.tags))
	copy(tags, n.tags)
	return tags
}

// Emoji returns the optional emoji marker
func (n *Node) Emoji() string {
	return n.emoji
}

// Position returns the layout-assigned position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// DisplayTitle falls back to the first line of content when no title is set
func (n *Node) DisplayTitle() string {
	if n.title != "" {
		return n.title
	}
	line, _, _ := strings.Cut(n.content, "\n")
	const maxRunes = 80
	if utf8.RuneCountInString(line) <= maxRunes {
		return line
	}
	return string([]rune(line)[:maxRunes])
}

// PlaceAt assigns the layout position
func (n *Node) PlaceAt(p valueobjects.Position) {
	n.position = p
}

// SetEmoji sets the emoji marker
func (n *Node) SetEmoji(emoji string) {
	n.emoji = emoji
}

// AddTag adds a tag, ignoring duplicates
func (n *Node) AddTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return pkgerrors.NewValidationError("tag cannot be empty")
	}
	for _, t := range n.tags {
		if t == tag {
			return nil
		}
	}
	n.tags = append(n.tags, tag)
	return nil
}

// Record increments the metric for an interaction kind
func (n *Node) Record(kind valueobjects.InteractionKind) {
	switch kind {
	case valueobjects.InteractionView:
		n.views++
	case valueobjects.InteractionThought:
		n.thoughts++
	}
}

// Snapshot exports the persisted attributes
func (n *Node) Snapshot() NodeSnapshot {
	return NodeSnapshot{
		ID:        n.id,
		Title:     n.title,
		Content:   n.content,
		Author:    n.author,
		CreatedAt: n.createdAt,
		Views:     n.views,
		Thoughts:  n.thoughts,
		Tags:      n.Tags(),
		Emoji:     n.emoji,
	}
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	c := *n
	c.tags = n.Tags()
	return &c
}
