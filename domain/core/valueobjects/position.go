package valueobjects

import "math"

// Position is a layout-assigned point on the 2D canvas
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Polar places a point at the given angle (radians) and radius around the origin
func Polar(angle, radius float64) Position {
	return Position{
		X: math.Cos(angle) * radius,
		Y: math.Sin(angle) * radius,
	}
}

// DistanceTo calculates Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Radius returns the distance from the origin
func (p Position) Radius() float64 {
	return math.Hypot(p.X, p.Y)
}
