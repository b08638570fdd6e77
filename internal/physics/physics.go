// Package physics provides vector math, distance utilities and the
// wrap-around arena topology shared by every moving entity.
package physics

import "math"

// Vec2 is a point or direction in the XY plane.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the magnitude of v.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Heading returns the unit vector a craft rotated by rot radians points along.
// Rotation 0 faces +Y; positive rotation turns toward -X.
func Heading(rot float64) Vec2 {
	return Vec2{X: -math.Sin(rot), Y: math.Cos(rot)}
}

// DistanceSquared calculates the flat squared distance between two points.
// It does not account for the arena seam, so objects on opposite edges are far apart.
func DistanceSquared(a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// PointInCircle checks if a point lies strictly inside a circle.
func PointInCircle(p, center Vec2, radius float64) bool {
	return DistanceSquared(p, center) < radius*radius
}
