package model

import "math"

// Point3 представляет координаты в игровом мире.
// Value type, передаётся по значению (immutable).
type Point3 struct {
	X float64
	Y float64
	Z float64
}

// NewPoint3 создаёт Point3 с указанными координатами.
func NewPoint3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum.
func (p Point3) Add(o Point3) Point3 {
	return Point3{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Scale returns p with every component multiplied by f.
func (p Point3) Scale(f float64) Point3 {
	return Point3{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// WeightedDistanceSquared returns the squared distance with the Z axis of
// both points multiplied by weight before subtraction.
func (p Point3) WeightedDistanceSquared(o Point3, weight float64) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z*weight - o.Z*weight
	return dx*dx + dy*dy + dz*dz
}

// WeightedDistance is the Euclidean distance with the vertical axis scaled by weight.
// A weight of 1 gives the plain Euclidean distance.
func (p Point3) WeightedDistance(o Point3, weight float64) float64 {
	return math.Sqrt(p.WeightedDistanceSquared(o, weight))
}

// PlanarDistanceSquared ignores Z (без sqrt для производительности).
func (p Point3) PlanarDistanceSquared(o Point3) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// HeadingTo returns the yaw in radians that faces target from p.
// 0 points along +Y, angles grow clockwise toward +X.
func (p Point3) HeadingTo(target Point3) float64 {
	h := math.Atan2(target.X-p.X, target.Y-p.Y)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}
