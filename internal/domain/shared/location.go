package shared

import "math"

// Location is a point on the business floor plan
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewLocation creates a location from coordinates
func NewLocation(x, y float64) Location {
	return Location{X: x, Y: y}
}

// DistanceTo returns the euclidean distance to other
func (l Location) DistanceTo(other Location) float64 {
	dx := other.X - l.X
	dy := other.Y - l.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// MoveToward steps at most maxStep toward target and returns the new position
func (l Location) MoveToward(target Location, maxStep float64) Location {
	dist := l.DistanceTo(target)
	if dist <= maxStep || dist == 0 {
		return target
	}
	ratio := maxStep / dist
	return Location{
		X: l.X + (target.X-l.X)*ratio,
		Y: l.Y + (target.Y-l.Y)*ratio,
	}
}
