package viewport

import (
	"fmt"
	"testing"

	"brainstorm/domain/config"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDepths = []int{0, 1, 2, 3, 4, entities.DecorativeDepth}

func zoomSteps() []float64 {
	var steps []float64
	for z := 0.5; z <= 3.0+1e-9; z += 0.05 {
		steps = append(steps, z)
	}
	return steps
}

func TestOpacity_TotalAndBounded(t *testing.T) {
	for _, depth := range testDepths {
		t.Run(fmt.Sprintf("depth %d", depth), func(t *testing.T) {
			base := LayerFor(depth).BaseOpacity
			upper := base
			if depth == 0 {
				upper = max(base, rootOpacityFloor)
			}

			prev := -1.0
			for _, zoom := range zoomSteps() {
				got := Opacity(depth, zoom, base)
				assert.GreaterOrEqual(t, got, 0.0, "zoom %.2f", zoom)
				assert.LessOrEqual(t, got, upper+1e-9, "zoom %.2f", zoom)
				assert.GreaterOrEqual(t, got, prev-1e-9, "opacity must not decrease, zoom %.2f", zoom)
				prev = got
			}
		})
	}
}

func TestOpacity_RootFloor(t *testing.T) {
	for _, base := range []float64{0, 0.3, 0.45, 0.75, 1} {
		assert.GreaterOrEqual(t, Opacity(0, 0.5, base), rootOpacityFloor, "base %.2f", base)
	}
	assert.Equal(t, 1.0, Opacity(0, 0.5, 1.0))
}

func TestOpacity_FadeWindows(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		zoom  float64
		base  float64
		want  float64
	}{
		{name: "depth 1 before window", depth: 1, zoom: 0.5, base: 1, want: 0},
		{name: "depth 1 mid window", depth: 1, zoom: 0.7, base: 1, want: 0.5},
		{name: "depth 1 after window", depth: 1, zoom: 1.2, base: 1, want: 1},
		{name: "depth 2 mid window", depth: 2, zoom: 1.0, base: 0.75, want: 0.375},
		{name: "depth 4 below window", depth: 4, zoom: 1.3, base: 0.45, want: 0},
		{name: "depth 4 saturated", depth: 4, zoom: 2.0, base: 0.45, want: 0.45},
		{name: "decorative hidden", depth: entities.DecorativeDepth, zoom: 1.79, base: 0.45, want: 0},
		{name: "decorative ramping", depth: entities.DecorativeDepth, zoom: 2.0, base: 0.45, want: 0.225},
		{name: "decorative saturated", depth: entities.DecorativeDepth, zoom: 3.0, base: 0.45, want: 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Opacity(tt.depth, tt.zoom, tt.base), 1e-9)
		})
	}
}

func TestLayerFor(t *testing.T) {
	tests := []struct {
		depth int
		want  Layer
	}{
		{0, LayerForeground},
		{1, LayerForeground},
		{2, LayerMidfield},
		{3, LayerMidfield},
		{4, LayerBackground},
		{entities.DecorativeDepth, LayerBackground},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LayerFor(tt.depth).Layer, "depth %d", tt.depth)
	}
}

func TestBlur(t *testing.T) {
	assert.Equal(t, 0.0, Blur(0, 0.5))
	assert.InDelta(t, 2.0, Blur(2, 0.5), 1e-9)
	assert.InDelta(t, 0.5, Blur(3, 2.0), 1e-9)
	assert.Greater(t, Blur(4, 1.0), Blur(4, 2.0))
}

func TestSize_StableJitter(t *testing.T) {
	ids := []valueobjects.NodeID{"a", "b", "post-42", "0f4e2a31-9d"}
	for _, id := range ids {
		j := Jitter(id)
		assert.GreaterOrEqual(t, j, 0.9)
		assert.LessOrEqual(t, j, 1.1+1e-9)
		assert.Equal(t, j, Jitter(id), "jitter must be stable for %s", id)
	}

	atOne := Size("a", entities.ClassRoot, 1.0)
	assert.InDelta(t, 64*Jitter("a"), atOne, 1e-9)
	assert.InDelta(t, atOne*1.2, Size("a", entities.ClassRoot, 2.0), 1e-9)
	assert.Equal(t, atOne, Size("a", entities.ClassRoot, 0.5), "no shrink below zoom 1")
	assert.Greater(t, Size("x", entities.ClassRoot, 1), Size("x", entities.ClassCrosslink, 1))
	assert.Greater(t, Size("x", entities.ClassCrosslink, 1), Size("x", entities.ClassDecorative, 1))
}

func TestLabelVisible(t *testing.T) {
	tests := []struct {
		depth int
		zoom  float64
		want  bool
	}{
		{0, 0.5, true},
		{1, 0.7, false},
		{1, 0.8, true},
		{3, 1.4, false},
		{3, 1.5, true},
		{4, 2.0, false},
		{4, 2.1, true},
		{entities.DecorativeDepth, 1.9, false},
		{entities.DecorativeDepth, 2.5, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelVisible(tt.depth, tt.zoom), "depth %d zoom %.1f", tt.depth, tt.zoom)
	}
}

func TestCull(t *testing.T) {
	nodes := []entities.LayoutNode{
		{ID: "inside", X: 590, Y: 0},
		{ID: "outside", X: 610, Y: 0},
		{ID: "edge", X: 0, Y: 500},
		{ID: "below", X: 0, Y: 501},
	}

	tests := []struct {
		name   string
		camera Camera
		want   []valueobjects.NodeID
	}{
		{
			name:   "centered",
			camera: Camera{Width: 800, Height: 600, Zoom: 1},
			want:   []valueobjects.NodeID{"inside", "edge"},
		},
		{
			name:   "panned right hides the right side",
			camera: Camera{Width: 800, Height: 600, Zoom: 1, PanX: 100},
			want:   []valueobjects.NodeID{"edge"},
		},
		{
			name:   "zoomed out shows everything",
			camera: Camera{Width: 800, Height: 600, Zoom: 0.5},
			want:   []valueobjects.NodeID{"inside", "outside", "edge", "below"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []valueobjects.NodeID
			for _, n := range Cull(nodes, tt.camera, 200) {
				got = append(got, n.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCamera_RoundTrip(t *testing.T) {
	c := Camera{Width: 1024, Height: 768, Zoom: 1.5, PanX: -40, PanY: 25}
	sx, sy := c.WorldToScreen(120, -80)
	x, y := c.ScreenToWorld(sx, sy)
	assert.InDelta(t, 120, x, 1e-9)
	assert.InDelta(t, -80, y, 1e-9)
}

func TestCompute(t *testing.T) {
	layout := &entities.Layout{
		RootID: "root",
		Nodes: []entities.LayoutNode{
			{ID: "root", Title: "Root"},
			{ID: "child", X: 0, Y: -120, Depth: 1, ParentID: "root"},
			{ID: "near", X: 100, Y: 100, Depth: entities.DecorativeDepth},
			{ID: "far", X: 5000, Y: 0, Depth: entities.DecorativeDepth},
		},
		Connections: []entities.LayoutConnection{
			{From: "root", To: "child", Kind: valueobjects.RelationHard},
			{From: "child", To: "near", Kind: valueobjects.RelationSoft},
		},
	}

	visuals := Compute(layout, Camera{Width: 800, Height: 600, Zoom: 9}, config.DefaultEngineConfig())
	require.Len(t, visuals, 3)

	assert.Equal(t, valueobjects.NodeID("near"), visuals[0].ID, "background is drawn first")
	assert.Equal(t, entities.ClassDecorative, visuals[0].Class)

	byID := make(map[valueobjects.NodeID]NodeVisual)
	for _, v := range visuals {
		byID[v.ID] = v
	}
	assert.Equal(t, entities.ClassRoot, byID["root"].Class)
	assert.Equal(t, entities.ClassCrosslink, byID["child"].Class)
	assert.Equal(t, 1.0, byID["root"].Opacity)
	assert.True(t, byID["child"].ShowLabel)
	assert.Equal(t, 400.0, byID["root"].ScreenX)

	assert.Nil(t, Compute(nil, Camera{}, nil))
}
