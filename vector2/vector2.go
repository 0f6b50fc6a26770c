// Package vector2 provides the 2D vector and rotation primitives the
// narrow-phase kernel is built on: dot/cross products and rotation by
// angle, on top of github.com/go-gl/mathgl's Vec2.
//
// mgl64 has no 2D cross product (a scalar in 2D, a vector in 3D) and no
// rotate-a-point-by-angle helper for Vec2, so both are added here.
package vector2

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector2 is a pair of real scalars. Pure value type.
type Vector2 = mgl64.Vec2

// New builds a Vector2 from its components.
func New(x, y float64) Vector2 {
	return Vector2{x, y}
}

// Cross returns the z-component of the 3D cross product of a and b,
// treating both as lying in the z=0 plane. This is the scalar "2D cross"
// used throughout the reference-face and k-factor math.
func Cross(a, b Vector2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossScalarVector computes the planar equivalent of s * (ẑ × v): a
// scalar crossed with a vector, yielding a vector perpendicular to v.
func CrossScalarVector(s float64, v Vector2) Vector2 {
	return Vector2{-s * v[1], s * v[0]}
}

// Rotate rotates v by angle radians counter-clockwise.
func Rotate(v Vector2, angle float64) Vector2 {
	sin, cos := math.Sincos(angle)
	return Vector2{
		v[0]*cos - v[1]*sin,
		v[0]*sin + v[1]*cos,
	}
}

// NearEqual reports whether a and b are within tolerance of each other
// on both axes. Used to decide whether a clipped endpoint coincides with
// one of the original segment endpoints (§4.1).
func NearEqual(a, b Vector2, tolerance float64) bool {
	return math.Abs(a[0]-b[0]) < tolerance && math.Abs(a[1]-b[1]) < tolerance
}

// FloatNearEqual reports whether a and b differ by less than tolerance.
// Used to decide whether a contact lies on the chosen reference face (§4.4).
func FloatNearEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
