// Package aabb implements axis-aligned bounding boxes: construction from
// extremes, point-in-box tests with tolerance, and expansion by point.
package aabb

import (
	"math"

	"github.com/hexfault/rect2d/vector2"
)

// AABB is an axis-aligned box: left <= right, bottom <= top.
type AABB struct {
	Left, Right, Bottom, Top float64
}

// New builds an AABB from its four extreme scalars.
func New(left, right, bottom, top float64) AABB {
	return AABB{Left: left, Right: right, Bottom: bottom, Top: top}
}

// Empty returns a degenerate AABB suitable as the seed for Expand: its
// bounds are inverted so the first Expand call always wins.
func Empty() AABB {
	return AABB{
		Left:   math.Inf(1),
		Right:  math.Inf(-1),
		Bottom: math.Inf(1),
		Top:    math.Inf(-1),
	}
}

// FromPoints builds the tightest AABB containing all of points.
func FromPoints(points ...vector2.Vector2) AABB {
	box := Empty()
	for _, p := range points {
		box = box.Expand(p)
	}
	return box
}

// Expand returns the box grown (if necessary) to contain p.
func (a AABB) Expand(p vector2.Vector2) AABB {
	return AABB{
		Left:   math.Min(a.Left, p[0]),
		Right:  math.Max(a.Right, p[0]),
		Bottom: math.Min(a.Bottom, p[1]),
		Top:    math.Max(a.Top, p[1]),
	}
}

// ContainsPoint reports whether p lies inside the box, within tolerance
// on each axis (tolerance may be 0 for an exact test).
func (a AABB) ContainsPoint(p vector2.Vector2, tolerance float64) bool {
	return p[0] >= a.Left-tolerance && p[0] <= a.Right+tolerance &&
		p[1] >= a.Bottom-tolerance && p[1] <= a.Top+tolerance
}

// Overlaps reports whether a and b share any area.
func (a AABB) Overlaps(b AABB) bool {
	return a.Right >= b.Left && a.Left <= b.Right &&
		a.Top >= b.Bottom && a.Bottom <= b.Top
}
