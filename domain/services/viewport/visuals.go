package viewport

import (
	"hash/fnv"
	"math"
	"sort"

	"brainstorm/domain/config"
	"brainstorm/domain/core/entities"
	"brainstorm/domain/core/valueobjects"
)

// Layer is the depth bucket a node is drawn in
type Layer string

const (
	LayerForeground Layer = "foreground"
	LayerMidfield   Layer = "midfield"
	LayerBackground Layer = "background"
)

// LayerStyle is the fixed base styling of a layer
type LayerStyle struct {
	Layer       Layer
	BaseOpacity float64
	Blur        float64
}

var (
	foreground = LayerStyle{Layer: LayerForeground, BaseOpacity: 1.0, Blur: 0}
	midfield   = LayerStyle{Layer: LayerMidfield, BaseOpacity: 0.75, Blur: 1.0}
	background = LayerStyle{Layer: LayerBackground, BaseOpacity: 0.45, Blur: 2.5}
)

const (
	rootOpacityFloor = 0.8
	rootRampEndZoom  = 0.5

	decorativeFadeStart = 1.8
	decorativeFadeEnd   = 2.2

	depthFadeOrigin = 0.5
	depthFadeStep   = 0.3
	depthFadeWidth  = 0.4

	deepLabelZoom = 2.0
	nearLabelZoom = 0.8
	midLabelZoom  = 1.5

	sizeGrowthPerZoom = 0.2
	jitterSpread      = 0.2
)

var baseSizes = map[entities.NodeClass]float64{
	entities.ClassRoot:       64,
	entities.ClassThread:     44,
	entities.ClassCrosslink:  32,
	entities.ClassDecorative: 18,
}

// LayerFor buckets a depth: 0-1 foreground, 2-3 midfield, deeper and decorative background
func LayerFor(depth int) LayerStyle {
	switch {
	case depth <= 1:
		return foreground
	case depth <= 3:
		return midfield
	default:
		return background
	}
}

// Opacity returns the continuous opacity of a node at a zoom level.
// The root never drops below 0.8. Decorative nodes stay hidden until zoom 1.8 and reach base at 2.2.
// Every other depth fades in over its own zoom window.
func Opacity(depth int, zoom, base float64) float64 {
	switch {
	case depth <= 0:
		return math.Max(rootOpacityFloor, base*ramp(zoom, 0, rootRampEndZoom))
	case depth == entities.DecorativeDepth:
		return base * ramp(zoom, decorativeFadeStart, decorativeFadeEnd)
	default:
		start := FadeWindowStart(depth)
		return base * ramp(zoom, start, start+depthFadeWidth)
	}
}

// FadeWindowStart is the zoom at which a depth starts fading in
func FadeWindowStart(depth int) float64 {
	return depthFadeOrigin + float64(depth-1)*depthFadeStep
}

// Blur returns the blur radius of a node; it sharpens as the zoom grows
func Blur(depth int, zoom float64) float64 {
	if depth <= 0 {
		return 0
	}
	return LayerFor(depth).Blur / math.Max(zoom, fallbackZoom)
}

// Size returns the rendered size of a node.
// The per-id jitter is derived from an FNV-1a hash so it never changes between renders.
func Size(id valueobjects.NodeID, class entities.NodeClass, zoom float64) float64 {
	base, ok := baseSizes[class]
	if !ok {
		base = baseSizes[entities.ClassThread]
	}
	return base * Jitter(id) * (1 + sizeGrowthPerZoom*math.Max(0, zoom-1))
}

// Jitter maps an id to a stable factor in [0.9, 1.1]
func Jitter(id valueobjects.NodeID) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return 1 - jitterSpread/2 + jitterSpread*float64(h.Sum32()%1001)/1000
}

// LabelVisible reports whether a node's label is drawn at a zoom level
func LabelVisible(depth int, zoom float64) bool {
	switch {
	case depth <= 0:
		return true
	case depth >= 4:
		return zoom > deepLabelZoom
	case depth <= 1:
		return zoom >= nearLabelZoom
	default:
		return zoom >= midLabelZoom
	}
}

// NodeVisual is everything a renderer needs to draw one node
type NodeVisual struct {
	ID        valueobjects.NodeID `json:"id"`
	Title     string              `json:"title"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	ScreenX   float64             `json:"screen_x"`
	ScreenY   float64             `json:"screen_y"`
	Depth     int                 `json:"depth"`
	Class     entities.NodeClass  `json:"class"`
	Layer     Layer               `json:"layer"`
	Opacity   float64             `json:"opacity"`
	Blur      float64             `json:"blur"`
	Size      float64             `json:"size"`
	ShowLabel bool                `json:"show_label"`
}

// Compute culls a layout against the camera and styles every remaining node.
// Visuals come back in draw order, background first.
func Compute(layout *entities.Layout, camera Camera, cfg *config.EngineConfig) []NodeVisual {
	if layout == nil {
		return nil
	}
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	camera.Zoom = cfg.ClampZoom(camera.Zoom)

	visible := Cull(layout.Nodes, camera, cfg.CullPadding)
	visuals := make([]NodeVisual, 0, len(visible))
	for _, n := range visible {
		class := layout.Class(n.ID)
		style := LayerFor(n.Depth)
		sx, sy := camera.WorldToScreen(n.X, n.Y)
		visuals = append(visuals, NodeVisual{
			ID:        n.ID,
			Title:     n.Title,
			X:         n.X,
			Y:         n.Y,
			ScreenX:   sx,
			ScreenY:   sy,
			Depth:     n.Depth,
			Class:     class,
			Layer:     style.Layer,
			Opacity:   Opacity(n.Depth, camera.Zoom, style.BaseOpacity),
			Blur:      Blur(n.Depth, camera.Zoom),
			Size:      Size(n.ID, class, camera.Zoom),
			ShowLabel: LabelVisible(n.Depth, camera.Zoom),
		})
	}

	sort.SliceStable(visuals, func(i, j int) bool {
		return visuals[i].Depth > visuals[j].Depth
	})
	return visuals
}

func ramp(zoom, start, end float64) float64 {
	if end <= start {
		if zoom >= end {
			return 1
		}
		return 0
	}
	return math.Max(0, math.Min(1, (zoom-start)/(end-start)))
}
