package light

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithNode is an option builder that forwards options for the shared node state.
//
// Parameters:
//   - options: node options such as node.WithName or node.WithBaseMatrix
//
// Returns:
//   - LightBuilderOption: a function that records the node options on a light
func WithNode(options ...node.BuilderOption) LightBuilderOption {
	return func(l *lightImpl) {
		l.nodeOptions = append(l.nodeOptions, options...)
	}
}

// WithColor is an option builder that sets the diffuse and specular color of the light.
//
// Parameters:
//   - c: the RGB color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetColor(c)
	}
}

// WithAmbient is an option builder that sets the ambient color term.
//
// Parameters:
//   - c: the RGB ambient color
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a lightImpl
func WithAmbient(c mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = c
	}
}

// WithRadius is an option builder that sets the attenuation radius.
//
// Parameters:
//   - r: the radius
//
// Returns:
//   - LightBuilderOption: a function that applies the radius option to a lightImpl
func WithRadius(r float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.radius = r
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - d: the direction
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(d mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetDirection(d)
	}
}

// WithSpotCone is an option builder that sets the spot cutoff angle and falloff exponent.
//
// Parameters:
//   - cutoffDeg: cone half-angle in degrees
//   - exponent: falloff exponent
//
// Returns:
//   - LightBuilderOption: a function that applies the cone option to a lightImpl
func WithSpotCone(cutoffDeg, exponent float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetCutoff(cutoffDeg)
		l.SetExponent(exponent)
	}
}
