package main

import (
	"fmt"

	"github.com/hexfault/rect2d"
	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/contact"
	"github.com/hexfault/rect2d/vector2"
)

// CollisionDebugger instruments the narrow phase so a step-by-step demo
// can print what the solver is doing.
type CollisionDebugger interface {
	DebugContacts(bodyA, bodyB *actor.RigidBody, contacts []*contact.Contact)
	DebugConstraint(c *contact.Constraint)
}

// SimpleDebugger prints collision details to stdout.
type SimpleDebugger struct{}

func (d *SimpleDebugger) DebugContacts(bodyA, bodyB *actor.RigidBody, contacts []*contact.Contact) {
	fmt.Printf("contact: %d point(s)\n", len(contacts))
	for i, c := range contacts {
		fmt.Printf("  point %d: position=%v normal=%v depth=%.6f\n", i, c.Position, c.Normal, c.Depth)
	}
}

func (d *SimpleDebugger) DebugConstraint(c *contact.Constraint) {
	fmt.Printf("constraint: bodyA.velocity=%v bodyB.velocity=%v normal=%v points=%d\n",
		c.BodyA.Velocity, c.BodyB.Velocity, c.Normal, len(c.Points))
}

// SetupScene creates a ground box with a dynamic crate falling onto it.
func SetupScene() (*rect2d.World, *actor.RigidBody, *actor.RigidBody, CollisionDebugger) {
	debugger := &SimpleDebugger{}
	world := &rect2d.World{
		Gravity:  vector2.New(0, -9.81),
		Substeps: 4,
		Events:   rect2d.NewEvents(),
	}

	groundShape, err := actor.NewRectShape(20.0, 1.0, 0)
	if err != nil {
		panic(err)
	}
	groundBody := actor.NewRigidBody(actor.Transform{Position: vector2.New(0, 0)}, groundShape, actor.BodyTypeStatic, 0.0)
	groundBody.Material.Compliance = rect2d.ConcreteCompliance
	world.AddBody(groundBody)

	crateShape, err := actor.NewRectShape(1.5, 1.5, 0)
	if err != nil {
		panic(err)
	}
	crateBody := actor.NewRigidBody(actor.Transform{Position: vector2.New(0.3, 6.0), Rotation: 0.35}, crateShape, actor.BodyTypeDynamic, 1.0)
	crateBody.Material.Restitution = 0.4
	crateBody.Material.Compliance = rect2d.WoodCompliance
	world.AddBody(crateBody)

	return world, groundBody, crateBody, debugger
}

// RunFallingCrate steps the scene forward, printing any contacts detected
// against the ground each frame and the crate's state every 30 frames.
func RunFallingCrate() {
	fmt.Println("falling crate demo")
	fmt.Println("===================")

	world, groundBody, crateBody, debugger := SetupScene()

	fmt.Printf("ground position: %v\n", groundBody.Transform.Position)
	fmt.Printf("crate starting position: %v, rotation: %.3f\n", crateBody.Transform.Position, crateBody.Transform.Rotation)
	fmt.Printf("gravity: %v\n\n", world.Gravity)

	const dt float64 = 1.0 / 60.0
	const maxSteps int = 180

	for step := 0; step < maxSteps; step++ {
		var contacts []*contact.Contact
		if rect2d.RectRectCollide(groundBody, crateBody, &contacts) {
			debugger.DebugContacts(groundBody, crateBody, contacts)
		}

		world.Step(dt)

		if step%30 == 0 {
			fmt.Printf("step %3d: crate position=%v velocity=%v angular=%.4f\n",
				step, crateBody.Transform.Position, crateBody.Velocity, crateBody.AngularVelocity)
		}
	}

	fmt.Printf("\nfinal crate position: %v (sleeping=%v)\n", crateBody.Transform.Position, crateBody.IsSleeping)
}

func main() {
	RunFallingCrate()
}
