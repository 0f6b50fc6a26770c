// Package contact defines the narrow phase's output records (spec.md
// §3's Contact type) and a minimal position/velocity solver that
// consumes them -- the impulse-based response solver is named in
// spec.md §1/§6 as an external collaborator the kernel does not
// implement; this package provides a concrete one so the repository has
// a complete, runnable pipeline.
package contact

import (
	"math"

	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/vector2"
)

// Manifold is the shared state one rectangle-vs-rectangle collision's
// contacts all point back into. The original pygame implementation this
// spec distills gave each contact a pointer-to-pointer
// (ppAccMoment/ppSplitAccMoment) so one accumulator could be shared
// across contacts while each contact kept its own handle; spec.md §9
// re-expresses that as the manifold owning the accumulator directly and
// each Contact holding a plain pointer to its Manifold. The double
// indirection is gone without loss of semantics.
type Manifold struct {
	AccMoment      vector2.Vector2
	SplitAccMoment vector2.Vector2
}

// Contact is one point of a rectangle-vs-rectangle collision manifold.
type Contact struct {
	Ref, Inc *actor.RigidBody

	Position vector2.Vector2 // world space
	Normal   vector2.Vector2 // world space unit normal, reference -> incident
	Depth    float64         // penetration depth, shared by the whole manifold
	KFactor  float64         // precomputed impulse denominator
	Weight   float64         // manifold size at emission time

	Manifold *Manifold
}

// New allocates an empty contact bound to ref/inc and sharing m.
func New(ref, inc *actor.RigidBody, m *Manifold) *Contact {
	return &Contact{Ref: ref, Inc: inc, Manifold: m}
}

// KFactor computes the impulse-denominator scalar for a contact at pos
// with the given world-space unit normal, given the reference and
// incident bodies (spec.md §4.4):
//
//	k = 1/m_ref + 1/m_inc + ((r_ref x n) x r_ref) . n / I_ref
//	                      + ((r_inc x n) x r_inc) . n / I_inc
func KFactor(ref, inc *actor.RigidBody, pos, normal vector2.Vector2) float64 {
	rRef := pos.Sub(ref.Transform.Position)
	rInc := pos.Sub(inc.Transform.Position)

	angularRef := vector2.CrossScalarVector(vector2.Cross(rRef, normal), rRef).Dot(normal) * ref.GetInverseInertiaWorld()
	angularInc := vector2.CrossScalarVector(vector2.Cross(rInc, normal), rInc).Dot(normal) * inc.GetInverseInertiaWorld()

	return 1/ref.Material.GetMass() + 1/inc.Material.GetMass() + angularRef + angularInc
}

// clampSmallVelocities zeroes out velocities too small to matter,
// avoiding perpetual jitter from floating point noise.
func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = vector2.New(0, 0)
	}
	if math.Abs(rb.AngularVelocity) < velocityThreshold {
		rb.AngularVelocity = 0
	}
}
