package services

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/config"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
	pkgerrors "brainstorm/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LayoutEngine discovers the neighbourhood of a root post through the data service
// and assigns every discovered post a position on a radial canvas.
type LayoutEngine struct {
	data   ports.GraphDataService
	config *config.EngineConfig
	inst   Instrumentation
	logger *zap.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewLayoutEngine creates a new layout engine
func NewLayoutEngine(data ports.GraphDataService, cfg *config.EngineConfig, inst Instrumentation, logger *zap.Logger) *LayoutEngine {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	seed := uint64(time.Now().UnixNano())
	return &LayoutEngine{
		data:   data,
		config: cfg,
		inst:   inst.withDefaults(),
		logger: orNop(logger),
		rand:   rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// WithRandom replaces the random source used for decorative placement
func (e *LayoutEngine) WithRandom(r *rand.Rand) *LayoutEngine {
	e.randMu.Lock()
	defer e.randMu.Unlock()
	e.rand = r
	return e
}

// descent carries the state of one tree walk. It is passed explicitly through the recursion.
type descent struct {
	visited     map[valueobjects.NodeID]bool
	nodes       []entities.LayoutNode
	connections []entities.LayoutConnection
}

// Compute builds the layout around rootID.
// A missing root is a NotFound error and a failed root fetch an upstream error; every other
// failure only trims the result, since the soft and distant passes are decorative.
func (e *LayoutEngine) Compute(ctx context.Context, rootID valueobjects.NodeID, filter ports.NodeFilter) (*entities.Layout, error) {
	if rootID.IsZero() {
		return nil, pkgerrors.NewValidationError("root node id is required")
	}

	var layout *entities.Layout
	err := e.inst.Tracer.Trace(ctx, "LayoutEngine.Compute", func(ctx context.Context) error {
		var err error
		layout, err = e.compute(ctx, rootID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return layout, nil
}

func (e *LayoutEngine) compute(ctx context.Context, rootID valueobjects.NodeID, filter ports.NodeFilter) (*entities.Layout, error) {
	start := time.Now()

	root, err := e.data.FetchNodeByID(ctx, rootID)
	e.inst.Metrics.RecordRemoteFetch("fetch_node", err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pkgerrors.NewExternalError("graph data service", err).WithDetails(map[string]interface{}{
			"root_id": rootID.String(),
		})
	}
	if root == nil {
		return nil, pkgerrors.NewNotFoundError("root node")
	}

	state := &descent{visited: map[valueobjects.NodeID]bool{rootID: true}}
	if err := e.descend(ctx, state, *root, 0, e.config.RootAngle, ""); err != nil {
		return nil, err
	}

	discovered := make([]valueobjects.NodeID, 0, len(state.nodes))
	for _, n := range state.nodes {
		discovered = append(discovered, n.ID)
	}

	var soft []entities.LayoutConnection
	var distant []entities.LayoutNode
	var g errgroup.Group
	if e.config.IncludeSoftPass {
		g.Go(func() error {
			soft = e.softPass(ctx, state.nodes, discovered)
			return nil
		})
	}
	if e.config.IncludeDistantPass && e.config.DistantLimit > 0 {
		g.Go(func() error {
			distant = e.distantPass(ctx, discovered, filter)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layout := &entities.Layout{
		RootID:      rootID,
		Nodes:       append(state.nodes, distant...),
		Connections: append(state.connections, soft...),
		ComputedAt:  time.Now().UTC(),
	}

	duration := time.Since(start)
	e.inst.Metrics.RecordLayout(len(layout.Nodes), duration)
	e.logger.Debug("Layout computed",
		zap.String("rootID", rootID.String()),
		zap.Int("treeNodes", len(state.nodes)),
		zap.Int("distantNodes", len(distant)),
		zap.Int("connections", len(layout.Connections)),
		zap.Duration("duration", duration),
	)
	return layout, nil
}

// descend places node at depth and angle, then fans out over its hard children.
// Children are visited one after another so positions follow the order the data service returned.
func (e *LayoutEngine) descend(ctx context.Context, state *descent, node ports.NodeRecord, depth int, angle float64, parentID valueobjects.NodeID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pos := valueobjects.Polar(angle, float64(depth)*e.config.RadiusStep)
	state.nodes = append(state.nodes, entities.LayoutNode{
		ID:       node.ID,
		Title:    displayTitle(node),
		Content:  node.Content,
		X:        pos.X,
		Y:        pos.Y,
		Depth:    depth,
		ParentID: parentID,
	})
	if !parentID.IsZero() {
		state.connections = append(state.connections, entities.LayoutConnection{
			From: parentID,
			To:   node.ID,
			Kind: valueobjects.RelationHard,
		})
	}

	if depth >= e.config.MaxDepth {
		return nil
	}

	children, err := e.data.ChildrenOf(ctx, node.ID, hardOnly)
	e.inst.Metrics.RecordRemoteFetch("children_of", err)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Warn("Failed to load children, ending branch",
			zap.String("nodeID", node.ID.String()),
			zap.Int("depth", depth),
			zap.Error(err),
		)
		return nil
	}

	var eligible []valueobjects.NodeID
	for _, c := range children {
		if state.visited[c.ChildID] {
			continue
		}
		state.visited[c.ChildID] = true
		eligible = append(eligible, c.ChildID)
	}

	for i, childID := range eligible {
		record, err := e.data.FetchNodeByID(ctx, childID)
		e.inst.Metrics.RecordRemoteFetch("fetch_node", err)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Warn("Failed to load child, ending branch",
				zap.String("nodeID", childID.String()),
				zap.Error(err),
			)
			continue
		}
		if record == nil {
			continue
		}
		childAngle := FanAngle(angle, i, len(eligible), e.config.FanArc)
		if err := e.descend(ctx, state, *record, depth+1, childAngle, node.ID); err != nil {
			return err
		}
	}
	return nil
}

// FanAngle spreads k children evenly across arc, centered on the parent's angle.
// A sole child keeps the parent's angle.
func FanAngle(parentAngle float64, i, k int, arc float64) float64 {
	if k <= 1 {
		return parentAngle
	}
	return parentAngle - arc/2 + float64(i)*arc/float64(k-1)
}

// softPass records soft relations between already positioned posts
func (e *LayoutEngine) softPass(ctx context.Context, placed []entities.LayoutNode, discovered []valueobjects.NodeID) []entities.LayoutConnection {
	relations, err := e.data.RelationsTouching(ctx, discovered, softOnly)
	e.inst.Metrics.RecordRemoteFetch("relations_touching", err)
	if err != nil {
		e.logger.Warn("Soft link pass failed", zap.Int("nodes", len(discovered)), zap.Error(err))
		return nil
	}

	positioned := make(map[valueobjects.NodeID]bool, len(placed))
	for _, n := range placed {
		positioned[n.ID] = true
	}

	type pair struct{ from, to valueobjects.NodeID }
	seen := make(map[pair]bool)
	var connections []entities.LayoutConnection
	for _, r := range relations {
		p := pair{r.ParentID, r.ChildID}
		if !positioned[r.ParentID] || !positioned[r.ChildID] || seen[p] {
			continue
		}
		seen[p] = true
		connections = append(connections, entities.LayoutConnection{
			From: r.ParentID,
			To:   r.ChildID,
			Kind: valueobjects.RelationSoft,
		})
	}
	return connections
}

// distantPass scatters unrelated recent posts on the outer ring
func (e *LayoutEngine) distantPass(ctx context.Context, discovered []valueobjects.NodeID, filter ports.NodeFilter) []entities.LayoutNode {
	records, err := e.data.RecentNodes(ctx, discovered, filter, e.config.DistantLimit)
	e.inst.Metrics.RecordRemoteFetch("recent_nodes", err)
	if err != nil {
		e.logger.Warn("Distant node pass failed", zap.Error(err))
		return nil
	}

	skip := make(map[valueobjects.NodeID]bool, len(discovered))
	for _, id := range discovered {
		skip[id] = true
	}

	e.randMu.Lock()
	defer e.randMu.Unlock()

	nodes := make([]entities.LayoutNode, 0, len(records))
	for _, r := range records {
		if skip[r.ID] || len(nodes) >= e.config.DistantLimit {
			continue
		}
		skip[r.ID] = true
		angle := e.rand.Float64() * 2 * math.Pi
		radius := e.config.DistantRadiusMin + e.rand.Float64()*(e.config.DistantRadiusMax-e.config.DistantRadiusMin)
		pos := valueobjects.Polar(angle, radius)
		nodes = append(nodes, entities.LayoutNode{
			ID:      r.ID,
			Title:   displayTitle(r),
			Content: r.Content,
			X:       pos.X,
			Y:       pos.Y,
			Depth:   entities.DecorativeDepth,
		})
	}
	return nodes
}

func displayTitle(r ports.NodeRecord) string {
	if n, err := r.ToNode(); err == nil {
		return n.DisplayTitle()
	}
	return r.Title
}
