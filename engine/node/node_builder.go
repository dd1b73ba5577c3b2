package node

import "github.com/go-gl/mathgl/mgl32"

// BuilderOption is a function that configures the shared node state during construction.
// Every node variant accepts these options.
type BuilderOption func(*Base)

// WithName is an option builder that sets the node name.
// An empty name keeps the bracketed identifier default.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - BuilderOption: a function that applies the name option
func WithName(name string) BuilderOption {
	return func(b *Base) {
		b.name = name
	}
}

// WithBaseMatrix is an option builder that sets the base matrix baked into the node.
//
// Parameters:
//   - m: the base matrix (column-major)
//
// Returns:
//   - BuilderOption: a function that applies the base matrix option
func WithBaseMatrix(m mgl32.Mat4) BuilderOption {
	return func(b *Base) {
		b.baseMatrix = m
	}
}

// WithPosition is an option builder that sets the initial translation offset.
//
// Parameters:
//   - position: the translation offset
//
// Returns:
//   - BuilderOption: a function that applies the position option
func WithPosition(position mgl32.Vec3) BuilderOption {
	return func(b *Base) {
		b.position = position
	}
}

// WithRotation is an option builder that sets the initial Euler rotation offset in degrees.
//
// Parameters:
//   - rotation: rotation around X, Y and Z in degrees
//
// Returns:
//   - BuilderOption: a function that applies the rotation option
func WithRotation(rotation mgl32.Vec3) BuilderOption {
	return func(b *Base) {
		b.rotation = rotation
	}
}

// WithScale is an option builder that sets the initial scale offset.
//
// Parameters:
//   - scale: the scale factors
//
// Returns:
//   - BuilderOption: a function that applies the scale option
func WithScale(scale mgl32.Vec3) BuilderOption {
	return func(b *Base) {
		b.scale = scale
	}
}
