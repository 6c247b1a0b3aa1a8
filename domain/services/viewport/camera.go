// Package viewport computes per-node visibility and visual parameters for a rendered layout.
// Everything here is pure so it can be tested without a drawing surface.
package viewport

import "brainstorm/domain/core/entities"

// fallbackZoom replaces a non-positive zoom so the math stays total
const fallbackZoom = 0.5

// Camera is the zoom and pan state of a rendering surface
type Camera struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Zoom   float64 `json:"zoom"`
	PanX   float64 `json:"pan_x"`
	PanY   float64 `json:"pan_y"`
}

// Bounds is an axis aligned rectangle in world coordinates
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Contains reports whether a point lies inside or on the rectangle
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

func (c Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return fallbackZoom
	}
	return c.Zoom
}

// WorldToScreen maps a world point to surface pixels
func (c Camera) WorldToScreen(x, y float64) (float64, float64) {
	z := c.zoom()
	return x*z + c.PanX + c.Width/2, y*z + c.PanY + c.Height/2
}

// ScreenToWorld is the inverse of WorldToScreen
func (c Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	z := c.zoom()
	return (sx - c.PanX - c.Width/2) / z, (sy - c.PanY - c.Height/2) / z
}

// VisibleBounds returns the world rectangle covered by the surface, grown by padding on every side
func VisibleBounds(c Camera, padding float64) Bounds {
	minX, minY := c.ScreenToWorld(0, 0)
	maxX, maxY := c.ScreenToWorld(c.Width, c.Height)
	return Bounds{
		MinX: minX - padding,
		MinY: minY - padding,
		MaxX: maxX + padding,
		MaxY: maxY + padding,
	}
}

// Cull keeps the nodes whose position falls within the padded visible rectangle
func Cull(nodes []entities.LayoutNode, c Camera, padding float64) []entities.LayoutNode {
	bounds := VisibleBounds(c, padding)
	visible := make([]entities.LayoutNode, 0, len(nodes))
	for _, n := range nodes {
		if bounds.Contains(n.X, n.Y) {
			visible = append(visible, n)
		}
	}
	return visible
}
