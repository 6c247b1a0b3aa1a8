// Package cache decorates a graph data service with read-through caching of posts.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/core/valueobjects"
	ttlcache "brainstorm/pkg/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachingDataService caches FetchNodeByID results for a short TTL and collapses
// concurrent identical reads into a single remote call.
type CachingDataService struct {
	next   ports.GraphDataService
	nodes  *ttlcache.TTLCache[ports.NodeRecord]
	flight singleflight.Group
	logger *zap.Logger
}

var _ ports.GraphDataService = (*CachingDataService)(nil)

// NewCachingDataService wraps next; a non-positive ttl disables the post cache but keeps deduplication
func NewCachingDataService(next ports.GraphDataService, ttl time.Duration, logger *zap.Logger) *CachingDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CachingDataService{
		next:   next,
		logger: logger,
	}
	if ttl > 0 {
		s.nodes = ttlcache.New[ports.NodeRecord](ttl)
		s.nodes.StartCleanup(ttl)
	}
	return s
}

// Close stops the cache cleanup loop
func (s *CachingDataService) Close() {
	if s.nodes != nil {
		s.nodes.Close()
	}
}

// FetchNodeByID implements ports.GraphDataService. Absent posts are not cached.
func (s *CachingDataService) FetchNodeByID(ctx context.Context, id valueobjects.NodeID) (*ports.NodeRecord, error) {
	if s.nodes != nil {
		if record, ok := s.nodes.Get(id.String()); ok {
			return &record, nil
		}
	}

	v, err := s.do(ctx, "node:"+id.String(), func() (interface{}, error) {
		record, err := s.next.FetchNodeByID(ctx, id)
		if err != nil || record == nil {
			return record, err
		}
		if s.nodes != nil {
			s.nodes.Set(id.String(), *record)
		}
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	record, _ := v.(*ports.NodeRecord)
	if record == nil {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// ChildrenOf implements ports.GraphDataService
func (s *CachingDataService) ChildrenOf(ctx context.Context, id valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.ChildRef, error) {
	v, err := s.do(ctx, "children:"+id.String()+":"+kindsKey(kinds), func() (interface{}, error) {
		return s.next.ChildrenOf(ctx, id, kinds)
	})
	if err != nil {
		return nil, err
	}
	children, _ := v.([]ports.ChildRef)
	return append([]ports.ChildRef(nil), children...), nil
}

// RelationsTouching implements ports.GraphDataService
func (s *CachingDataService) RelationsTouching(ctx context.Context, ids []valueobjects.NodeID, kinds []valueobjects.RelationKind) ([]ports.Relation, error) {
	return s.next.RelationsTouching(ctx, ids, kinds)
}

// RecentNodes implements ports.GraphDataService
func (s *CachingDataService) RecentNodes(ctx context.Context, excluding []valueobjects.NodeID, filter ports.NodeFilter, limit int) ([]ports.NodeRecord, error) {
	return s.next.RecentNodes(ctx, excluding, filter, limit)
}

// IncrementInteraction implements ports.GraphDataService and drops the cached post
func (s *CachingDataService) IncrementInteraction(ctx context.Context, id valueobjects.NodeID, kind valueobjects.InteractionKind) error {
	if s.nodes != nil {
		s.nodes.Delete(id.String())
	}
	return s.next.IncrementInteraction(ctx, id, kind)
}

// do runs fn once per key among concurrent callers. Waiters give up when their own ctx ends.
func (s *CachingDataService) do(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, error) {
	ch := s.flight.DoChan(key, fn)
	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Shared in-flight fetch", zap.String("key", key))
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func kindsKey(kinds []valueobjects.RelationKind) string {
	if len(kinds) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, string(k))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
