package actor

import "github.com/hexfault/rect2d/vector2"

// Transform represents a body's pose in 2D world space: a position and a
// rotation angle in radians.
type Transform struct {
	Position vector2.Vector2
	Rotation float64
}

// NewTransform creates an identity transform.
func NewTransform() Transform {
	return Transform{Position: vector2.New(0, 0), Rotation: 0}
}
