// Package sat picks the separating face for an already-known-overlapping
// rectangle pair and turns the overlap polygon into a world-space
// manifold. It is the second half of the clip-then-SAT pipeline Zhang
// Fan's pygame physics module uses in place of a full separating-axis
// search (spec §4.3-4.4): once clip has produced the candidate contact
// points, this package decides which of the two bodies is the
// reference, which face of it the collision resolves against, and what
// the world-space normal and per-contact impulse weights are.
package sat

import (
	"math"

	"github.com/hexfault/rect2d/aabb"
	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/contact"
	"github.com/hexfault/rect2d/vector2"
)

// Face identifies one of a rectangle's four local axis-aligned edges.
// The order mirrors the original CF_LEFT..CF_TOP enumeration and is
// significant: when two faces tie for minimum penetration, the earlier
// one in this list wins.
type Face int

const (
	FaceLeft Face = iota
	FaceRight
	FaceBottom
	FaceTop
)

// maxCandidates bounds the working arrays below: clip.Rectangle can
// produce at most clip.MaxContacts points, but in practice two
// rectangles overlap in at most 8.
const maxCandidates = 16

// Selection is the result of choosing a reference face for a pair of
// candidate contacts expressed in bodyA's local frame.
type Selection struct {
	Ref, Inc *actor.RigidBody
	Face     Face
	// Normal and Contacts are in the reference body's local frame; the
	// caller (BuildManifold) rotates them into world space.
	Normal   vector2.Vector2
	Contacts []vector2.Vector2
	MinDepth float64
}

// SelectReferenceFace implements the original _SATFindCollisionProperty:
// contacts (already known to lie in bodyA's local frame, the output of
// clipping bodyB against bodyA's box plus any of bodyA's own corners
// found inside bodyB) are summed against all four faces of both boxA
// (bodyA's local box) and boxB (bodyB's local box, reached by
// translating each contact into bodyB's frame). Whichever body yields
// the smaller total penetration becomes the reference; face ties
// resolve to the earliest Face constant (matching the original's strict
// "<" loop), and an exact reference tie resolves to bodyA -- a
// deliberate correction over the original engine, which would favor
// bodyB.
func SelectReferenceFace(bodyA, bodyB *actor.RigidBody, boxA, boxB aabb.AABB, contacts []vector2.Vector2) Selection {
	var local [2][maxCandidates]vector2.Vector2
	n := len(contacts)
	for i, c := range contacts {
		local[0][i] = c
		local[1][i] = actor.BodyToBodyLocal(bodyB, bodyA, c)
	}

	box := [2]aabb.AABB{boxA, boxB}
	var minDep [2]float64
	var face [2]Face

	for k := 0; k <= 1; k++ {
		var deps [4]float64
		for i := 0; i < n; i++ {
			p := local[k][i]
			deps[FaceLeft] += math.Abs(p[0] - box[k].Left)
			deps[FaceRight] += math.Abs(box[k].Right - p[0])
			deps[FaceBottom] += math.Abs(p[1] - box[k].Bottom)
			deps[FaceTop] += math.Abs(box[k].Top - p[1])
		}

		minDep[k] = math.Inf(1)
		for f := FaceLeft; f <= FaceTop; f++ {
			if deps[f] < minDep[k] {
				minDep[k] = deps[f]
				face[k] = f
			}
		}
	}

	// Whichever body has the smaller total penetration becomes the
	// reference; an exact tie resolves to bodyA, deliberately departing
	// from the original engine's strict "<" (which would favor bodyB).
	k := 0
	if minDep[1] < minDep[0] {
		k = 1
	}

	self := [2]*actor.RigidBody{bodyA, bodyB}
	inc := [2]*actor.RigidBody{bodyB, bodyA}

	var normal vector2.Vector2
	var filtered []vector2.Vector2
	const tolerance = 1e-9

	switch face[k] {
	case FaceLeft:
		normal = vector2.New(-1, 0)
		for i := 0; i < n; i++ {
			if !vector2.FloatNearEqual(local[k][i][0], box[k].Left, tolerance) {
				filtered = append(filtered, local[k][i])
			}
		}
	case FaceRight:
		normal = vector2.New(1, 0)
		for i := 0; i < n; i++ {
			if !vector2.FloatNearEqual(local[k][i][0], box[k].Right, tolerance) {
				filtered = append(filtered, local[k][i])
			}
		}
	case FaceBottom:
		normal = vector2.New(0, -1)
		for i := 0; i < n; i++ {
			if !vector2.FloatNearEqual(local[k][i][1], box[k].Bottom, tolerance) {
				filtered = append(filtered, local[k][i])
			}
		}
	case FaceTop:
		normal = vector2.New(0, 1)
		for i := 0; i < n; i++ {
			if !vector2.FloatNearEqual(local[k][i][1], box[k].Top, tolerance) {
				filtered = append(filtered, local[k][i])
			}
		}
	}

	return Selection{
		Ref:      self[k],
		Inc:      inc[k],
		Face:     face[k],
		Normal:   normal,
		Contacts: filtered,
		MinDepth: minDep[k],
	}
}

// BuildManifold rotates a Selection's local-frame normal and contacts
// into world space and produces one contact.Contact per surviving
// point, all sharing m. It returns nil if filtering left no contacts
// (every candidate point sat exactly on the reference face).
func BuildManifold(sel Selection, m *contact.Manifold) []*contact.Contact {
	if len(sel.Contacts) == 0 {
		return nil
	}

	worldNormal := vector2.Rotate(sel.Normal, sel.Ref.Transform.Rotation)

	contacts := make([]*contact.Contact, 0, len(sel.Contacts))
	for _, local := range sel.Contacts {
		worldPos := vector2.Rotate(local, sel.Ref.Transform.Rotation).Add(sel.Ref.Transform.Position)

		c := contact.New(sel.Ref, sel.Inc, m)
		c.Position = worldPos
		c.Normal = worldNormal
		c.Depth = sel.MinDepth
		c.Weight = float64(len(sel.Contacts))
		c.KFactor = contact.KFactor(sel.Ref, sel.Inc, worldPos, worldNormal)

		contacts = append(contacts, c)
	}

	return contacts
}
