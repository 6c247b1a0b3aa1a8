package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/config"
	"brainstorm/domain/core/aggregates"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
	"brainstorm/domain/events"
	domainservices "brainstorm/domain/services"
	pkgerrors "brainstorm/pkg/errors"

	"go.uber.org/zap"
)

var (
	hardOnly = []valueobjects.RelationKind{valueobjects.RelationHard}
	softOnly = []valueobjects.RelationKind{valueobjects.RelationSoft}
)

// ThreadAssembler maintains the presented feed: one thread rebuilt from a selection,
// extended by soft-link handoffs into further threads as the reader scrolls.
// The data service is optional; without it the assembler works on the loaded graph only.
type ThreadAssembler struct {
	store     *aggregates.GraphStore
	walker    *domainservices.ChainWalker
	data      ports.GraphDataService
	publisher ports.EventPublisher
	config    *config.EngineConfig
	inst      Instrumentation
	logger    *zap.Logger

	mu         sync.Mutex
	queue      []entities.ThreadItem
	generation uint64

	fetching   atomic.Int32
	continuing atomic.Bool
	background sync.WaitGroup
}

// NewThreadAssembler creates a new thread assembler
func NewThreadAssembler(
	store *aggregates.GraphStore,
	data ports.GraphDataService,
	publisher ports.EventPublisher,
	cfg *config.EngineConfig,
	inst Instrumentation,
	logger *zap.Logger,
) *ThreadAssembler {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	return &ThreadAssembler{
		store:     store,
		walker:    domainservices.NewChainWalker(store),
		data:      data,
		publisher: publisher,
		config:    cfg,
		inst:      inst.withDefaults(),
		logger:    orNop(logger),
	}
}

// RebuildFromSelection replaces the queue with the thread containing id and selects id.
// An id that is not loaded yields an empty queue and leaves the selection untouched.
func (a *ThreadAssembler) RebuildFromSelection(id valueobjects.NodeID) []entities.ThreadItem {
	chain := a.walker.BuildFullHardChainFrom(id)
	if len(chain) > 0 {
		a.store.Select(id)
	}
	return a.replace(entities.PostItems(chain))
}

// RebuildFullFeed replaces the queue with every loaded post, newest first
func (a *ThreadAssembler) RebuildFullFeed() []entities.ThreadItem {
	nodes := a.store.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt().Equal(nodes[j].CreatedAt()) {
			return nodes[i].CreatedAt().After(nodes[j].CreatedAt())
		}
		return nodes[i].ID() < nodes[j].ID()
	})
	return a.replace(entities.PostItems(nodes))
}

// LoadFeed pulls the newest posts and the relations between them from the data service,
// then rebuilds the full feed. Without a data service it only rebuilds from the loaded graph.
func (a *ThreadAssembler) LoadFeed(ctx context.Context, filter ports.NodeFilter, limit int) ([]entities.ThreadItem, error) {
	if limit <= 0 {
		limit = a.config.FeedLimit
	}
	if a.data == nil {
		return a.RebuildFullFeed(), nil
	}

	done := a.beginFetch()
	records, err := a.data.RecentNodes(ctx, nil, filter, limit)
	a.inst.Metrics.RecordRemoteFetch("recent_nodes", err)
	if err != nil {
		done()
		return nil, pkgerrors.NewExternalError("graph data service", err)
	}

	nodes := ports.RecordsToNodes(records)
	ids := make([]valueobjects.NodeID, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	a.store.MergeNodes(nodes)

	if len(ids) > 0 {
		relations, err := a.data.RelationsTouching(ctx, ids, nil)
		a.inst.Metrics.RecordRemoteFetch("relations_touching", err)
		if err != nil {
			a.logger.Warn("Feed relation discovery failed", zap.Int("posts", len(ids)), zap.Error(err))
		}
		edges := make([]*entities.Edge, 0, len(relations))
		for _, r := range relations {
			edges = append(edges, r.ToEdge())
		}
		a.store.MergeEdges(edges)
	}
	done()

	return a.RebuildFullFeed(), nil
}

// ClearThread empties the queue
func (a *ThreadAssembler) ClearThread() {
	a.replace(nil)
}

// Queue returns a copy of the presented queue
func (a *ThreadAssembler) Queue() []entities.ThreadItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyItems(a.queue)
}

// IsFetchingMore reports whether a navigation fetch triggered by the assembler is in flight.
// Background interaction increments are not counted.
func (a *ThreadAssembler) IsFetchingMore() bool {
	return a.fetching.Load() > 0
}

// ContinueAfterEnd extends the feed past the end of the current thread.
// The posts of the trailing thread are scanned from the last one backwards for an outgoing soft link
// to a post not yet in the queue; the first hit becomes the next thread, appended after a handoff marker.
// It returns the appended items, or nothing when the feed has ended or a fetch is already in flight.
func (a *ThreadAssembler) ContinueAfterEnd(ctx context.Context) ([]entities.ThreadItem, error) {
	if a.IsFetchingMore() || !a.continuing.CompareAndSwap(false, true) {
		return nil, nil
	}
	defer a.continuing.Store(false)

	var appended []entities.ThreadItem
	err := a.inst.Tracer.Trace(ctx, "ThreadAssembler.ContinueAfterEnd", func(ctx context.Context) error {
		appended = a.continueAfterEnd(ctx)
		return nil
	})
	return appended, err
}

func (a *ThreadAssembler) continueAfterEnd(ctx context.Context) []entities.ThreadItem {
	a.mu.Lock()
	generation := a.generation
	segment, inQueue := trailingSegment(a.queue)
	a.mu.Unlock()

	if len(segment) == 0 {
		return nil
	}
	skip := func(id valueobjects.NodeID) bool { return inQueue[id] }

	from, next, ok := a.pickNext(segment, skip)
	if !ok && a.data != nil {
		a.hydrateSoftLinks(ctx, segment)
		from, next, ok = a.pickNext(segment, skip)
	}
	if !ok {
		a.logger.Debug("Feed reached its end", zap.String("lastID", segment[len(segment)-1].String()))
		return nil
	}

	if a.data != nil {
		if err := a.hydrateThread(ctx, next.ID()); err != nil {
			a.logger.Warn("Failed to hydrate handoff thread",
				zap.String("nodeID", next.ID().String()),
				zap.Error(err),
			)
		}
	}

	chain := a.walker.BuildFullHardChainFrom(next.ID())
	if len(chain) == 0 {
		chain = []*entities.Node{next}
	}
	items := append([]entities.ThreadItem{entities.ThreadItemHandoff{From: from, Target: next}}, entities.PostItems(chain)...)

	a.mu.Lock()
	if a.generation != generation {
		a.mu.Unlock()
		a.logger.Debug("Queue replaced during continuation, dropping result")
		return nil
	}
	a.queue = append(a.queue, items...)
	a.mu.Unlock()

	a.inst.Metrics.RecordHandoff()
	publishBestEffort(ctx, a.publisher, a.logger,
		events.NewThreadExtended(from, next.ID(), len(items), time.Now().UTC()))

	return copyItems(items)
}

// pickNext scans the segment backwards and returns the first post with an eligible soft link
func (a *ThreadAssembler) pickNext(segment []valueobjects.NodeID, skip func(valueobjects.NodeID) bool) (valueobjects.NodeID, *entities.Node, bool) {
	for i := len(segment) - 1; i >= 0; i-- {
		if next, ok := a.store.TopSoftLinkExcluding(segment[i], skip); ok {
			return segment[i], next, true
		}
	}
	return "", nil, false
}

// hydrateSoftLinks loads the outgoing soft links of the segment and their targets
func (a *ThreadAssembler) hydrateSoftLinks(ctx context.Context, segment []valueobjects.NodeID) {
	done := a.beginFetch()
	defer done()

	relations, err := a.data.RelationsTouching(ctx, segment, softOnly)
	a.inst.Metrics.RecordRemoteFetch("relations_touching", err)
	if err != nil {
		a.logger.Warn("Soft link discovery failed", zap.Int("posts", len(segment)), zap.Error(err))
		return
	}

	inSegment := make(map[valueobjects.NodeID]bool, len(segment))
	for _, id := range segment {
		inSegment[id] = true
	}

	var edges []*entities.Edge
	var targets []valueobjects.NodeID
	for _, r := range relations {
		if !inSegment[r.ParentID] {
			continue
		}
		edges = append(edges, r.ToEdge())
		if !a.store.Has(r.ChildID) {
			targets = append(targets, r.ChildID)
		}
	}

	a.store.MergeNodes(a.fetchNodes(ctx, targets))
	a.store.MergeEdges(edges)
}

// HydrateThread loads the hard thread containing id from the data service into the store.
// The walk follows hard relations in both directions, bounded by the configured hydration limit.
func (a *ThreadAssembler) HydrateThread(ctx context.Context, id valueobjects.NodeID) error {
	if id.IsZero() {
		return pkgerrors.NewValidationError("node id is required")
	}
	if a.data == nil {
		if !a.store.Has(id) {
			return pkgerrors.NewNotFoundError("node")
		}
		return nil
	}
	return a.hydrateThread(ctx, id)
}

func (a *ThreadAssembler) hydrateThread(ctx context.Context, id valueobjects.NodeID) error {
	done := a.beginFetch()
	defer done()

	if !a.store.Has(id) {
		record, err := a.data.FetchNodeByID(ctx, id)
		a.inst.Metrics.RecordRemoteFetch("fetch_node", err)
		if err != nil {
			return pkgerrors.NewExternalError("graph data service", err)
		}
		if record == nil {
			return pkgerrors.NewNotFoundError("node")
		}
		node, err := record.ToNode()
		if err != nil {
			return err
		}
		a.store.MergeNodes([]*entities.Node{node})
	}

	visited := map[valueobjects.NodeID]bool{id: true}
	frontier := []valueobjects.NodeID{id}
	for len(frontier) > 0 && len(visited) < a.config.MaxChainHydration {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		relations, err := a.data.RelationsTouching(ctx, frontier, hardOnly)
		a.inst.Metrics.RecordRemoteFetch("relations_touching", err)
		if err != nil {
			a.logger.Warn("Hard chain discovery failed",
				zap.String("nodeID", id.String()),
				zap.Int("loaded", len(visited)),
				zap.Error(err),
			)
			return nil
		}

		var edges []*entities.Edge
		var discovered []valueobjects.NodeID
		for _, r := range relations {
			edges = append(edges, r.ToEdge())
			for _, endpoint := range []valueobjects.NodeID{r.ParentID, r.ChildID} {
				if visited[endpoint] || len(visited) >= a.config.MaxChainHydration {
					continue
				}
				visited[endpoint] = true
				discovered = append(discovered, endpoint)
			}
		}

		var missing []valueobjects.NodeID
		for _, d := range discovered {
			if !a.store.Has(d) {
				missing = append(missing, d)
			}
		}
		a.store.MergeNodes(a.fetchNodes(ctx, missing))
		a.store.MergeEdges(edges)
		frontier = discovered
	}
	return nil
}

// fetchNodes fetches posts one by one; missing posts and failures are skipped
func (a *ThreadAssembler) fetchNodes(ctx context.Context, ids []valueobjects.NodeID) []*entities.Node {
	nodes := make([]*entities.Node, 0, len(ids))
	for _, id := range ids {
		record, err := a.data.FetchNodeByID(ctx, id)
		a.inst.Metrics.RecordRemoteFetch("fetch_node", err)
		if err != nil {
			a.logger.Warn("Failed to fetch node", zap.String("nodeID", id.String()), zap.Error(err))
			continue
		}
		if record == nil {
			continue
		}
		if node, err := record.ToNode(); err == nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// RecordInteraction counts a view or thought locally right away and forwards it to the data service
// in the background. Remote failures are logged and never roll back the local count.
func (a *ThreadAssembler) RecordInteraction(ctx context.Context, id valueobjects.NodeID, kind valueobjects.InteractionKind) error {
	if _, err := valueobjects.ParseInteractionKind(string(kind)); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	if !a.store.UpdateNode(id, func(n *entities.Node) { n.Record(kind) }) {
		return pkgerrors.NewNotFoundError("node")
	}

	detached := context.WithoutCancel(ctx)
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		// Not counted as fetching; the increment must never hold up ContinueAfterEnd
		if a.data != nil {
			err := a.data.IncrementInteraction(detached, id, kind)
			a.inst.Metrics.RecordRemoteFetch("increment_interaction", err)
			if err != nil {
				a.logger.Debug("Interaction increment failed",
					zap.String("nodeID", id.String()),
					zap.String("kind", string(kind)),
					zap.Error(err),
				)
			}
		}
		publishBestEffort(detached, a.publisher, a.logger,
			events.NewInteractionRecorded(id, kind, time.Now().UTC()))
	}()
	return nil
}

// Wait blocks until background interaction calls have finished
func (a *ThreadAssembler) Wait() {
	a.background.Wait()
}

func (a *ThreadAssembler) beginFetch() func() {
	a.fetching.Add(1)
	return func() { a.fetching.Add(-1) }
}

func (a *ThreadAssembler) replace(items []entities.ThreadItem) []entities.ThreadItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = items
	a.generation++
	return copyItems(items)
}

// trailingSegment returns the post ids after the last handoff, plus every id present in the queue
func trailingSegment(queue []entities.ThreadItem) ([]valueobjects.NodeID, map[valueobjects.NodeID]bool) {
	inQueue := make(map[valueobjects.NodeID]bool, len(queue))
	var segment []valueobjects.NodeID
	for _, item := range queue {
		inQueue[item.NodeID()] = true
		switch item.(type) {
		case entities.ThreadItemHandoff:
			segment = segment[:0]
		case entities.ThreadItemPost:
			segment = append(segment, item.NodeID())
		}
	}
	return segment, inQueue
}

func copyItems(items []entities.ThreadItem) []entities.ThreadItem {
	if items == nil {
		return []entities.ThreadItem{}
	}
	out := make([]entities.ThreadItem, len(items))
	copy(out, items)
	return out
}
