package actor

import (
	"math"
	"sync"

	"github.com/hexfault/rect2d/vector2"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0 = no rebound, 1 = perfect restitution

	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64 // 0.0 - 1.0, typical: 0.01
	AngularDamping  float64 // 0.0 - 1.0, typical: 0.05

	// Compliance is the XPBD soft-constraint compliance for contacts
	// touching this body (lower = stiffer). Zero means "unset"; the
	// solver falls back to contact.DefaultCompliance.
	Compliance float64
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the 2D physics simulation. It is
// the kernel's only input type: the narrow phase reads Transform, mass,
// shape corners and inertia from it and writes nothing back.
type RigidBody struct {
	// Identity, used by the event system to key collision pairs and by
	// callers to associate a body with their own scene-graph node.
	Id any

	PreviousTransform Transform
	Transform         Transform

	Velocity         vector2.Vector2
	AngularVelocity  float64 // rad/s, rotation about the implicit z axis
	PresolveVelocity vector2.Vector2
	PresolveAngularVelocity float64

	InertiaLocal        float64
	InverseInertiaLocal float64

	accumulatedForce  vector2.Vector2
	accumulatedTorque float64

	IsSleeping bool
	SleepTimer float64
	IsTrigger  bool

	Material Material
	BodyType BodyType

	Shape ShapeInterface

	// Mutex guards the fields the solver mutates when multiple
	// contacts touching this body are resolved concurrently.
	Mutex sync.Mutex
}

// NewRigidBody creates a new rigid body with the given properties.
// density is used to calculate mass for dynamic bodies (ignored for static).
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		BodyType:          bodyType,
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{
			Density: 0,
			mass:    math.Inf(1),
		}
	} else {
		rb.Material = Material{
			Density:     density,
			mass:        shape.ComputeMass(density),
			Restitution: 0.0,
		}
	}

	rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
	if bodyType == BodyTypeStatic {
		rb.InverseInertiaLocal = 0
	} else {
		rb.InverseInertiaLocal = 1 / rb.InertiaLocal
	}
	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

func (rb *RigidBody) TrySleep(dt, timeThreshold, velocityThreshold float64) {
	if rb.Velocity.Len() < velocityThreshold && math.Abs(rb.AngularVelocity) < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
	rb.Velocity = vector2.New(0, 0)
	rb.AngularVelocity = 0
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate advances the body's predicted position and rotation by dt
// under the given gravity, following semi-implicit Euler as the teacher
// engine does in 3D.
func (rb *RigidBody) Integrate(dt float64, gravity vector2.Vector2) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.PreviousTransform.Position = rb.Transform.Position
	rb.PreviousTransform.Rotation = rb.Transform.Rotation

	invMass := 1.0 / rb.Material.GetMass()
	forces := gravity.Mul(dt)
	forces = forces.Add(rb.accumulatedForce.Mul(invMass * dt))
	rb.Velocity = rb.Velocity.Add(forces)
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	angularAccel := rb.InverseInertiaLocal * (rb.accumulatedTorque)
	rb.AngularVelocity += angularAccel * dt
	rb.AngularVelocity *= math.Exp(-rb.Material.AngularDamping * dt)
	rb.Transform.Rotation += rb.AngularVelocity * dt

	rb.PresolveVelocity = rb.Velocity
	rb.PresolveAngularVelocity = rb.AngularVelocity

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
}

// Update commits the predicted position to the actual velocity, mirroring
// the PBD-style velocity reconstruction the teacher performs post-solve.
func (rb *RigidBody) Update(dt float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.Velocity = rb.Transform.Position.Sub(rb.PreviousTransform.Position).Mul(1.0 / dt)
	rb.AngularVelocity = (rb.Transform.Rotation - rb.PreviousTransform.Rotation) / dt
}

// AddForce applies a force in newtons.
func (rb *RigidBody) AddForce(force vector2.Vector2) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque applies a torque in newton-meters.
func (rb *RigidBody) AddTorque(torque float64) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()
		rb.accumulatedTorque += torque
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = vector2.New(0, 0)
	rb.accumulatedTorque = 0
}

// LocalToWorld transforms a point in this body's local frame to world space.
func (rb *RigidBody) LocalToWorld(local vector2.Vector2) vector2.Vector2 {
	return vector2.Rotate(local, rb.Transform.Rotation).Add(rb.Transform.Position)
}

// WorldToLocal transforms a world-space point into this body's local frame.
func (rb *RigidBody) WorldToLocal(world vector2.Vector2) vector2.Vector2 {
	return vector2.Rotate(world.Sub(rb.Transform.Position), -rb.Transform.Rotation)
}

// BodyToBodyLocal transforms a point in source's local frame into
// target's local frame -- applying source's world transform then the
// inverse of target's, exactly as spec.md §6 specifies.
func BodyToBodyLocal(target, source *RigidBody, point vector2.Vector2) vector2.Vector2 {
	return target.WorldToLocal(source.LocalToWorld(point))
}

// GetInverseInertiaWorld returns the world-space inverse inertia, which
// in 2D is rotation-invariant (a scalar moment about the z axis).
func (rb *RigidBody) GetInverseInertiaWorld() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}
	return rb.InverseInertiaLocal
}
