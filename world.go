package rect2d

import (
	"github.com/hexfault/rect2d/actor"
	"github.com/hexfault/rect2d/contact"
	"github.com/hexfault/rect2d/vector2"
	"github.com/hexfault/rect2d/worldcfg"
)

const DefaultWorkers = 1

// NewWorldFromConfig builds a World from a decoded scene document. The
// spatial grid is only attached when the document enables one; otherwise
// the world falls back to brute-force BroadPhase.
func NewWorldFromConfig(cfg *worldcfg.Config) *World {
	w := &World{
		Gravity:  cfg.Gravity,
		Substeps: cfg.Substeps,
		Workers:  cfg.Workers,
		Events:   NewEvents(),
	}

	if cfg.SpatialGrid.Enabled {
		w.SpatialGrid = NewSpatialGrid(cfg.SpatialGrid.CellSize, cfg.SpatialGrid.NumCells)
	}

	return w
}

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s^2, or N/kg)
	Gravity     vector2.Vector2
	Substeps    int
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events
}

// AddBody adds a rigid body to the world.
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world.
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	delete(w.Events.sleepStates, body)
	for pair := range w.Events.previousActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(w.Events.previousActivePairs, pair)
		}
	}
}

func (w *World) Step(dt float64) {
	w.Workers = max(DefaultWorkers, w.Workers)
	h := dt / float64(w.Substeps)

	for range w.Substeps {
		w.integrate(h)

		// Phase 2.0: Collision pair finding - Broad phase
		// Phase 2.1: Collision pair finding - narrow phase
		constraints := w.detectCollision()

		constraints = w.Events.recordCollisions(constraints)

		// Phase 3: Solver, only one iteration is required thanks to substeps
		w.solvePosition(h, constraints)

		// Phase 4: Update Position & Velocity
		// Calculate final velocities and commit positions
		w.update(h)

		// Phase 5: Velocity
		w.solveVelocity(h, constraints)

		w.trySleep(h)
	}

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(chunk []*actor.RigidBody) {
		for _, body := range chunk {
			body.Integrate(h, w.Gravity)
		}
	})
}

func (w *World) detectCollision() []*contact.Constraint {
	var pairs []CollisionPair
	if w.SpatialGrid != nil {
		pairs = w.SpatialGrid.FindPairs(w.Bodies)
	} else {
		pairs = BroadPhase(w.Bodies)
	}
	return NarrowPhase(pairs)
}

func (w *World) solvePosition(h float64, constraints []*contact.Constraint) {
	task(w.Workers, constraints, func(chunk []*contact.Constraint) {
		for _, c := range chunk {
			c.SolvePosition(h)
		}
	})
}

func (w *World) update(h float64) {
	task(w.Workers, w.Bodies, func(chunk []*actor.RigidBody) {
		for _, body := range chunk {
			body.Update(h)
		}
	})
}

func (w *World) solveVelocity(h float64, constraints []*contact.Constraint) {
	task(w.Workers, constraints, func(chunk []*contact.Constraint) {
		for _, c := range chunk {
			c.SolveVelocity(h)
		}
	})
}

// trySleep sets the body to sleep if its velocity is lower than the
// threshold, for a given duration. Too simple a loop to dispatch through
// task: splitting it across goroutines slows it down in practice.
func (w *World) trySleep(h float64) {
	for _, body := range w.Bodies {
		body.TrySleep(h, 0.1, 0.05)
	}
}
