package aggregates

import (
	"brainstorm/domain/config"
	"brainstorm/domain/core/entities"
)

// SoftLinkRanker chooses the next thread to hand off to among soft-linked candidates.
// Candidates arrive in edge insertion order; Pick returns nil when the slice is empty.
type SoftLinkRanker interface {
	Pick(candidates []*entities.Node) *entities.Node
}

// FirstFoundRanker returns the first candidate
type FirstFoundRanker struct{}

// Pick implements SoftLinkRanker
func (FirstFoundRanker) Pick(candidates []*entities.Node) *entities.Node {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// EngagementRanker returns the candidate with the most views plus thoughts; ties keep insertion order
type EngagementRanker struct{}

// Pick implements SoftLinkRanker
func (EngagementRanker) Pick(candidates []*entities.Node) *entities.Node {
	var best *entities.Node
	for _, c := range candidates {
		if best == nil || c.Engagement() > best.Engagement() {
			best = c
		}
	}
	return best
}

// RankerFor maps the configured ranking to a strategy
func RankerFor(ranking config.SoftLinkRanking) SoftLinkRanker {
	if ranking == config.RankingEngagement {
		return EngagementRanker{}
	}
	return FirstFoundRanker{}
}
