package clip

import (
	"github.com/hexfault/rect2d/aabb"
	"github.com/hexfault/rect2d/vector2"
)

// MaxContacts bounds the working buffer a rectangle clipping pass can
// fill: 4 original corners plus up to 2 clip points per edge across 4
// edges. Two convex rectangles can never actually produce more than 8
// overlap-polygon vertices; 16 is the safety margin the original
// algorithm carries.
const MaxContacts = 16

// Buffer is a fixed-size, allocation-free accumulator for clipped
// contact points, reused across successive clipping passes.
type Buffer struct {
	Points [MaxContacts]vector2.Vector2
	Count  int
}

// Reset empties the buffer for reuse.
func (b *Buffer) Reset() {
	b.Count = 0
}

// Add appends a point computed outside the clipper itself -- used for
// the clipping body's (bodyA's) own corners that land inside the other
// body's box without needing to be clipped (spec §4.2's second contact
// source).
func (b *Buffer) Add(p vector2.Vector2) {
	b.append(p)
}

func (b *Buffer) append(p vector2.Vector2) {
	if b.Count >= MaxContacts {
		panic("clip: contact buffer overflow, cannot exceed MaxContacts for two convex rectangles")
	}
	b.Points[b.Count] = p
	b.Count++
}

// Rectangle runs the clipper over the four directed edges of a
// rectangle (corners listed in cyclic order: bottomleft, bottomright,
// topright, topleft) against box, the other rectangle's local AABB.
// Interior intersection points are appended to out, and corners that
// were already inside the box (rather than clipped onto it) are
// preserved as well. apart is true if no edge overlapped the box at
// all -- in that case out is left untouched.
func Rectangle(corners [4]vector2.Vector2, box aabb.AABB, out *Buffer) (apart bool) {
	var insideCorner [4]bool
	apart = true

	for i := 0; i < 4; i++ {
		i1 := (i + 1) % 4
		pf, pt, pInside, qInside, ok := Segment(box, corners[i], corners[i1])
		if !ok {
			continue
		}

		apart = false

		if pInside {
			insideCorner[i] = true
		} else {
			out.append(pf)
		}

		if qInside {
			insideCorner[i1] = true
		} else {
			out.append(pt)
		}
	}

	if apart {
		return true
	}

	for i := 0; i < 4; i++ {
		if insideCorner[i] {
			out.append(corners[i])
		}
	}

	return false
}
