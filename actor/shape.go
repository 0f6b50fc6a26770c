package actor

import (
	"fmt"

	"github.com/hexfault/rect2d/aabb"
	"github.com/hexfault/rect2d/vector2"
)

// ShapeInterface is the interface collision shapes must implement. The
// rectangle kernel this repository implements has exactly one concrete
// shape. There is no shape registry or dispatch table: rect2d.RectRectCollide
// type-asserts both shapes to *RectShape and reports no collision for any
// other shape kind.
type ShapeInterface interface {
	// ComputeAABB recomputes and caches the shape's world AABB for the
	// given body transform.
	ComputeAABB(transform Transform)
	GetAABB() aabb.AABB
	ComputeMass(density float64) float64
	// ComputeInertia returns the rotational inertia scalar for a body
	// of the given mass carrying this shape.
	ComputeInertia(mass float64) float64
	// Corners returns the shape's four local-frame corners in cyclic
	// order: bottomleft, bottomright, topright, topleft.
	Corners() [4]vector2.Vector2
}

// RectShape is an oriented rectangle collision shape. Its four corners
// are stored in the body's local frame, already rotated by the shape's
// own intrinsic orientation at construction time (spec.md §3) -- this is
// distinct from, and composes with, the owning body's own Transform.Rotation.
type RectShape struct {
	Width, Height float64
	corners       [4]vector2.Vector2
	inertiaFactor float64 // (Width^2 + Height^2) / 12, precomputed
	box           aabb.AABB
}

// NewRectShape builds a rectangle of the given width and height, with
// its corners pre-rotated by seta radians. Mirrors
// _RectShape_InitInternal from the original pygame physics module this
// spec distills: corners are listed bottomleft, bottomright, topright,
// topleft, each rotated in place.
func NewRectShape(width, height, seta float64) (*RectShape, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rect2d: degenerate rectangle shape (width=%v, height=%v), caller must reject non-positive dimensions", width, height)
	}

	hw, hh := width/2, height/2
	corners := [4]vector2.Vector2{
		vector2.New(-hw, -hh),
		vector2.New(hw, -hh),
		vector2.New(hw, hh),
		vector2.New(-hw, hh),
	}
	for i := range corners {
		corners[i] = vector2.Rotate(corners[i], seta)
	}

	return &RectShape{
		Width:         width,
		Height:        height,
		corners:       corners,
		inertiaFactor: (width*width + height*height) / 12,
	}, nil
}

func (r *RectShape) Corners() [4]vector2.Vector2 {
	return r.corners
}

// ComputeAABB recomputes the shape's world-space AABB by transforming
// the four local corners into world space and expanding an empty box
// over them (spec.md §4.7's AABB-update collaborator).
func (r *RectShape) ComputeAABB(transform Transform) {
	box := aabb.Empty()
	for _, c := range r.corners {
		world := vector2.Rotate(c, transform.Rotation).Add(transform.Position)
		box = box.Expand(world)
	}
	r.box = box
}

func (r *RectShape) GetAABB() aabb.AABB {
	return r.box
}

func (r *RectShape) ComputeMass(density float64) float64 {
	return density * r.Width * r.Height
}

func (r *RectShape) ComputeInertia(mass float64) float64 {
	return mass * r.inertiaFactor
}
