package valueobjects

import "fmt"

// RelationKind is the semantic of an edge between two posts
type RelationKind string

const (
	// RelationHard means the target continues the source; hard edges form threads
	RelationHard RelationKind = "hard"
	// RelationSoft is an associative cross-reference with no continuation semantics
	RelationSoft RelationKind = "soft"
)

// ParseRelationKind validates a raw relation kind
func ParseRelationKind(raw string) (RelationKind, error) {
	switch RelationKind(raw) {
	case RelationHard, RelationSoft:
		return RelationKind(raw), nil
	default:
		return "", fmt.Errorf("unknown relation kind %q", raw)
	}
}

// Label returns the human readable label shown next to a link
func (k RelationKind) Label() string {
	switch k {
	case RelationHard:
		return "Continues"
	case RelationSoft:
		return "Inspired by"
	default:
		return string(k)
	}
}

// AllRelationKinds lists every relation kind
func AllRelationKinds() []RelationKind {
	return []RelationKind{RelationHard, RelationSoft}
}

// InteractionKind is an engagement metric that can be incremented
type InteractionKind string

const (
	InteractionView    InteractionKind = "view"
	InteractionThought InteractionKind = "thought"
)

// ParseInteractionKind validates a raw interaction kind
func ParseInteractionKind(raw string) (InteractionKind, error) {
	switch InteractionKind(raw) {
	case InteractionView, InteractionThought:
		return InteractionKind(raw), nil
	default:
		return "", fmt.Errorf("unknown interaction kind %q", raw)
	}
}
