package rect2d

import (
	"github.com/hexfault/rect2d/aabb"
	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/clip"
	"github.com/hexfault/rect2d/contact"
	"github.com/hexfault/rect2d/sat"
	"github.com/hexfault/rect2d/vector2"
)

// StiffCompliance is the stiffest preset, equal to concrete's. It is not
// the solver's fallback for an unset compliance; that is
// contact.DefaultCompliance.
const StiffCompliance = ConcreteCompliance

// Material compliance presets, carried over from the teacher engine's
// own constants and now used to populate actor.Material.Compliance.
const (
	ConcreteCompliance = 0.04e-9
	WoodCompliance     = 0.16e-9
	LeatherCompliance  = 14e-8
	TendonCompliance   = 0.2e-7
	RubberCompliance   = 1e-6
	MuscleCompliance   = 0.2e-3
	FatCompliance      = 1e-3
)

// CollisionPair represents a pair of rigid bodies that potentially collide.
type CollisionPair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// BroadPhase performs broad-phase collision detection using AABB overlap
// tests. It returns pairs of bodies whose AABBs overlap and might be
// colliding. This is an O(n²) brute-force approach suitable for small
// numbers of bodies; SpatialGrid.FindPairs is the sublinear alternative
// World.Step reaches for once a grid is configured.
func BroadPhase(bodies []*actor.RigidBody) []CollisionPair {
	pairs := make([]CollisionPair, 0)

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			bodyA := bodies[i]
			bodyB := bodies[j]

			if bodyA.BodyType == actor.BodyTypeStatic && bodyB.BodyType == actor.BodyTypeStatic {
				continue
			}
			if bodyA.IsSleeping && bodyB.IsSleeping {
				continue
			}

			if bodyA.Shape.GetAABB().Overlaps(bodyB.Shape.GetAABB()) {
				pairs = append(pairs, CollisionPair{bodyA, bodyB})
			}
		}
	}

	return pairs
}

// NarrowPhase runs RectRectCollide over every broad-phase candidate pair
// and assembles one contact.Constraint per pair that actually overlaps.
func NarrowPhase(pairs []CollisionPair) []*contact.Constraint {
	constraints := make([]*contact.Constraint, 0, len(pairs))

	var contacts []*contact.Contact
	for _, pair := range pairs {
		contacts = contacts[:0]
		if !RectRectCollide(pair.BodyA, pair.BodyB, &contacts) {
			continue
		}

		points := make([]*contact.Contact, len(contacts))
		copy(points, contacts)

		constraints = append(constraints, &contact.Constraint{
			BodyA:  points[0].Ref,
			BodyB:  points[0].Inc,
			Normal: points[0].Normal,
			Points: points,
		})
	}

	return constraints
}

// RectRectCollide is the narrow-phase entry point: it clips bodyB's
// corners against bodyA's local box (and vice versa for bodyA's own
// corners resting inside bodyB), picks the reference face with
// sat.SelectReferenceFace, and appends the resulting world-space
// contacts to out. It returns false if the shapes don't actually
// overlap, or if every candidate contact point was filtered out for
// lying on the reference face itself.
//
// The algorithm traces back to Zhang Fan's pygame physics module (the
// same lineage Box2D Lite and Chipmunk share): clip the overlap
// polygon first, run a minimal four-face SAT only to pick which side
// of which body the contact resolves against.
func RectRectCollide(bodyA, bodyB *actor.RigidBody, out *[]*contact.Contact) bool {
	shapeA, okA := bodyA.Shape.(*actor.RectShape)
	shapeB, okB := bodyB.Shape.(*actor.RectShape)
	if !okA || !okB {
		return false
	}

	cornersA := shapeA.Corners()
	cornersB := shapeB.Corners()

	boxA := aabb.FromPoints(cornersA[0], cornersA[1], cornersA[2], cornersA[3])
	boxB := aabb.FromPoints(cornersB[0], cornersB[1], cornersB[2], cornersB[3])

	var cornersBInA, cornersAInB [4]vector2.Vector2
	for i := 0; i < 4; i++ {
		cornersBInA[i] = actor.BodyToBodyLocal(bodyA, bodyB, cornersB[i])
		cornersAInB[i] = actor.BodyToBodyLocal(bodyB, bodyA, cornersA[i])
	}

	var buf clip.Buffer
	buf.Reset()
	// clip.Rectangle leaves buf untouched when the bodies' edges don't
	// cross at all -- that alone doesn't mean they're disjoint, since one
	// body can sit entirely inside the other without either body's edges
	// ever crossing the other's box (e.g. bodyB's edges never come near
	// bodyA's box if bodyA is tiny and deep in bodyB's interior). The
	// corner-containment step below is what catches that case, so both
	// steps always run and only their combined result decides apart-ness.
	clip.Rectangle(cornersBInA, boxA, &buf)

	for i := 0; i < 4; i++ {
		if boxB.ContainsPoint(cornersAInB[i], 0) {
			buf.Add(cornersA[i])
		}
	}

	if buf.Count == 0 {
		return false
	}

	sel := sat.SelectReferenceFace(bodyA, bodyB, boxA, boxB, buf.Points[:buf.Count])

	manifold := &contact.Manifold{}
	built := sat.BuildManifold(sel, manifold)
	if built == nil {
		return false
	}

	*out = append(*out, built...)
	return true
}

// UpdateAABB recomputes a body's cached world-space AABB from its
// current transform. Callers run this after moving a body outside the
// normal Integrate/Update cycle (e.g. teleporting a kinematic body).
func UpdateAABB(body *actor.RigidBody) {
	body.Shape.ComputeAABB(body.Transform)
}
