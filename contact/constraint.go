package contact

import (
	"math"

	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/vector2"
)

// DefaultCompliance controls soft constraint stiffness for contact
// resolution. Lower values = stiffer contacts (less penetration,
// potential jitter). Higher values = softer contacts (more penetration,
// smoother). Typical range: 1e-10 (very stiff) to 1e-6 (soft).
const DefaultCompliance = 1e-7

// Constraint is a rectangle-vs-rectangle contact manifold ready for the
// solver: a shared normal and depth plus the individual contact points.
type Constraint struct {
	BodyA, BodyB *actor.RigidBody
	Points       []*Contact
	Normal       vector2.Vector2
}

func ComputeRestitution(a, b actor.Material) float64 {
	return (a.Restitution + b.Restitution) / 2.0
}

func ComputeStaticFriction(a, b actor.Material) float64 {
	return math.Sqrt(a.StaticFriction * b.StaticFriction)
}

func ComputeDynamicFriction(a, b actor.Material) float64 {
	return math.Sqrt(a.DynamicFriction * b.DynamicFriction)
}

// SolvePosition resolves penetration, XPBD style (no lambda accumulation
// across steps), following the teacher engine's soft-constraint approach.
func (c *Constraint) SolvePosition(dt float64) {
	if len(c.Points) == 0 || (c.BodyA.IsSleeping && c.BodyB.IsSleeping) {
		return
	}

	bodyA, bodyB := c.BodyA, c.BodyB
	bodyA.Mutex.Lock()
	bodyB.Mutex.Lock()
	defer bodyA.Mutex.Unlock()
	defer bodyB.Mutex.Unlock()

	invMassA := 1.0 / bodyA.Material.GetMass()
	invMassB := 1.0 / bodyB.Material.GetMass()
	invIA := bodyA.GetInverseInertiaWorld()
	invIB := bodyB.GetInverseInertiaWorld()

	var totalWeight, totalPenetration float64
	for _, pt := range c.Points {
		if pt.Depth <= 1e-8 {
			continue
		}

		rA := pt.Position.Sub(bodyA.Transform.Position)
		rB := pt.Position.Sub(bodyB.Transform.Position)

		rACrossN := vector2.Cross(rA, c.Normal)
		rBCrossN := vector2.Cross(rB, c.Normal)

		wA := invMassA + invIA*rACrossN*rACrossN
		wB := invMassB + invIB*rBCrossN*rBCrossN
		totalWeight += wA + wB
		totalPenetration += pt.Depth
	}

	if totalWeight <= 1e-8 {
		return
	}

	compliance := math.Max(bodyA.Material.Compliance, bodyB.Material.Compliance)
	if compliance <= 0 {
		compliance = DefaultCompliance
	}
	alphaTilde := compliance / (dt * dt)
	deltaLambda := -totalPenetration / (totalWeight + alphaTilde)
	impulse := c.Normal.Mul(deltaLambda)

	if bodyA.BodyType != actor.BodyTypeStatic {
		bodyA.Transform.Position = bodyA.Transform.Position.Add(impulse.Mul(invMassA))
	}
	if bodyB.BodyType != actor.BodyTypeStatic {
		bodyB.Transform.Position = bodyB.Transform.Position.Sub(impulse.Mul(invMassB))
	}

	var torqueA, torqueB float64
	for _, pt := range c.Points {
		if pt.Depth <= 1e-8 {
			continue
		}
		rA := pt.Position.Sub(bodyA.Transform.Position)
		rB := pt.Position.Sub(bodyB.Transform.Position)
		torqueA += vector2.Cross(rA, impulse)
		torqueB += vector2.Cross(rB, impulse.Mul(-1))
	}

	if bodyA.BodyType != actor.BodyTypeStatic {
		bodyA.Transform.Rotation += invIA * torqueA
	}
	if bodyB.BodyType != actor.BodyTypeStatic {
		bodyB.Transform.Rotation += invIB * torqueB
	}
}

// SolveVelocity applies restitution and Coulomb friction.
func (c *Constraint) SolveVelocity(dt float64) {
	if len(c.Points) == 0 || (c.BodyA.IsSleeping && c.BodyB.IsSleeping) {
		return
	}

	bodyA, bodyB := c.BodyA, c.BodyB
	bodyA.Mutex.Lock()
	bodyB.Mutex.Lock()
	defer bodyA.Mutex.Unlock()
	defer bodyB.Mutex.Unlock()

	invMassA := 1.0 / bodyA.Material.GetMass()
	invMassB := 1.0 / bodyB.Material.GetMass()
	invIA := bodyA.GetInverseInertiaWorld()
	invIB := bodyB.GetInverseInertiaWorld()

	restitution := ComputeRestitution(bodyA.Material, bodyB.Material)
	staticFriction := ComputeStaticFriction(bodyA.Material, bodyB.Material)
	dynamicFriction := ComputeDynamicFriction(bodyA.Material, bodyB.Material)

	var linA, linB vector2.Vector2
	var angA, angB float64

	for _, pt := range c.Points {
		rA := pt.Position.Sub(bodyA.Transform.Position)
		rB := pt.Position.Sub(bodyB.Transform.Position)

		vA := bodyA.Velocity.Add(vector2.CrossScalarVector(bodyA.AngularVelocity, rA))
		vB := bodyB.Velocity.Add(vector2.CrossScalarVector(bodyB.AngularVelocity, rB))
		relVel := vB.Sub(vA)
		normalVel := relVel.Dot(c.Normal)

		vAPrev := bodyA.PresolveVelocity.Add(vector2.CrossScalarVector(bodyA.PresolveAngularVelocity, rA))
		vBPrev := bodyB.PresolveVelocity.Add(vector2.CrossScalarVector(bodyB.PresolveAngularVelocity, rB))
		normalVelPrev := vBPrev.Sub(vAPrev).Dot(c.Normal)

		rACrossN := vector2.Cross(rA, c.Normal)
		rBCrossN := vector2.Cross(rB, c.Normal)
		effMassNormal := invMassA + invMassB + invIA*rACrossN*rACrossN + invIB*rBCrossN*rBCrossN
		if effMassNormal < 1e-10 {
			continue
		}

		targetVel := -restitution * normalVelPrev
		lambdaNormal := (targetVel - normalVel) / effMassNormal
		if lambdaNormal < 0 {
			lambdaNormal = 0
		}

		normalImpulse := c.Normal.Mul(lambdaNormal)
		linA = linA.Sub(normalImpulse.Mul(invMassA))
		linB = linB.Add(normalImpulse.Mul(invMassB))
		angA += invIA * vector2.Cross(rA, normalImpulse.Mul(-1))
		angB += invIB * vector2.Cross(rB, normalImpulse)

		if lambdaNormal <= 0 {
			continue
		}

		tangentVel := relVel.Sub(c.Normal.Mul(normalVel))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed <= 1e-6 {
			continue
		}
		tangentDir := tangentVel.Mul(1.0 / tangentSpeed)

		rACrossT := vector2.Cross(rA, tangentDir)
		rBCrossT := vector2.Cross(rB, tangentDir)
		effMassTangent := invMassA + invMassB + invIA*rACrossT*rACrossT + invIB*rBCrossT*rBCrossT
		if effMassTangent < 1e-10 {
			continue
		}

		lambdaTangent := -tangentSpeed / effMassTangent
		maxStatic := staticFriction * math.Abs(lambdaNormal)

		var frictionImpulse vector2.Vector2
		if math.Abs(lambdaTangent) <= maxStatic {
			frictionImpulse = tangentDir.Mul(lambdaTangent)
		} else {
			maxDynamic := dynamicFriction * math.Abs(lambdaNormal)
			frictionImpulse = tangentDir.Mul(-math.Copysign(maxDynamic, tangentSpeed))
		}

		linA = linA.Sub(frictionImpulse.Mul(invMassA))
		linB = linB.Add(frictionImpulse.Mul(invMassB))
		angA += invIA * vector2.Cross(rA, frictionImpulse.Mul(-1))
		angB += invIB * vector2.Cross(rB, frictionImpulse)
	}

	bodyA.Velocity = bodyA.Velocity.Add(linA)
	bodyB.Velocity = bodyB.Velocity.Add(linB)
	bodyA.AngularVelocity += angA
	bodyB.AngularVelocity += angB

	clampSmallVelocities(bodyA)
	clampSmallVelocities(bodyB)
}
