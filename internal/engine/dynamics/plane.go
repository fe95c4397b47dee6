package dynamics

import (
	"errors"

	"github.com/Faultbox/kinema/pkg/math"
)

// ErrZeroNormal is returned when a plane cannot be given a unit normal.
var ErrZeroNormal = errors.New("plane normal must not be zero")

// Plane is the set of points p with dot(p, Normal) == Offset. Normal has unit length.
type Plane struct {
	Normal math.Vec3
	Offset float32
}

// NewPlane creates a plane from a normal (normalized here) and its distance to the origin.
func NewPlane(normal math.Vec3, offset float32) (Plane, error) {
	n := normal.Normalize()
	if n.IsZero() {
		return Plane{}, ErrZeroNormal
	}
	return Plane{Normal: n, Offset: offset}, nil
}

// PlaneThroughPoint creates the plane with the given normal passing through point.
func PlaneThroughPoint(normal, point math.Vec3) (Plane, error) {
	n := normal.Normalize()
	if n.IsZero() {
		return Plane{}, ErrZeroNormal
	}
	return Plane{Normal: n, Offset: point.Dot(n)}, nil
}

// PlaneFromPoints creates the plane through a, b and c with normal (b-a) x (c-a).
// Collinear points are rejected.
func PlaneFromPoints(a, b, c math.Vec3) (Plane, error) {
	return PlaneThroughPoint(b.Sub(a).Cross(c.Sub(a)), a)
}

// SignedDistance returns the distance from p to the plane, positive on the normal side.
func (pl Plane) SignedDistance(p math.Vec3) float32 {
	return p.Dot(pl.Normal) - pl.Offset
}
