// Package clip implements the segment-vs-box Liang-Barsky clipper and the
// rectangle clipping pass built on top of it (spec §4.1-4.2).
//
// The algorithm traces back to Zhang Fan's pygame physics module, which
// clips a rectangle's four directed edges against the other rectangle's
// local AABB to find the overlap polygon -- the same trick Box2D Lite and
// Chipmunk use, but with a single clip pass instead of a dedicated SAT
// separating-axis search.
package clip

import (
	"github.com/hexfault/rect2d/aabb"
	"github.com/hexfault/rect2d/vector2"
)

// Segment clips the directed segment p->q against box using the
// Liang-Barsky parametric method. ok is false if the segment lies
// entirely outside box. When ok is true, pClipped/qClipped are the
// portion of the segment inside box, and pInside/qInside report whether
// the clipped endpoint equals the original one (i.e. the original
// endpoint was already inside box).
func Segment(box aabb.AABB, p, q vector2.Vector2) (pClipped, qClipped vector2.Vector2, pInside, qInside, ok bool) {
	dx := q[0] - p[0]
	dy := q[1] - p[1]

	// Parametric interval [tEnter, tLeave] of the segment that lies
	// inside the box, tested against each of the four box edges in turn.
	tEnter, tLeave := 0.0, 1.0

	edges := [4]struct {
		p, q float64 // p: -direction component, q: signed distance to the edge
	}{
		{-dx, p[0] - box.Left},   // left
		{dx, box.Right - p[0]},   // right
		{-dy, p[1] - box.Bottom}, // bottom
		{dy, box.Top - p[1]},     // top
	}

	for _, e := range edges {
		if e.p == 0 {
			// Segment parallel to this edge: reject if it starts outside.
			if e.q < 0 {
				return pClipped, qClipped, false, false, false
			}
			continue
		}

		t := e.q / e.p
		if e.p < 0 {
			if t > tLeave {
				return pClipped, qClipped, false, false, false
			}
			if t > tEnter {
				tEnter = t
			}
		} else {
			if t < tEnter {
				return pClipped, qClipped, false, false, false
			}
			if t < tLeave {
				tLeave = t
			}
		}
	}

	if tEnter > tLeave {
		return pClipped, qClipped, false, false, false
	}

	pClipped = vector2.New(p[0]+tEnter*dx, p[1]+tEnter*dy)
	qClipped = vector2.New(p[0]+tLeave*dx, p[1]+tLeave*dy)

	const tolerance = 1e-9
	pInside = vector2.NearEqual(pClipped, p, tolerance)
	qInside = vector2.NearEqual(qClipped, q, tolerance)

	return pClipped, qClipped, pInside, qInside, true
}
