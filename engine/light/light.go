package light

import (
	"log"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the emission model of a light. The numeric values match the light
// subtype byte stored in OVO files.
type LightType uint8

const (
	// LightTypePoint emits in every direction from the light position.
	LightTypePoint LightType = iota
	// LightTypeDirectional emits parallel rays along the light direction.
	LightTypeDirectional
	// LightTypeSpot emits a cone along the light direction.
	LightTypeSpot
)

// String returns the lower-case name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypePoint:
		return "point"
	case LightTypeDirectional:
		return "directional"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// MaxLights is the number of light slots the per-draw block carries. Lights beyond this
// count are dropped for the frame.
const MaxLights = 8

// Defaults applied by NewLight.
const (
	DefaultRadius   float32 = 1.0
	DefaultCutoff   float32 = 45.0
	DefaultExponent float32 = 8.0
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	node.Base

	lightType LightType
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	radius    float32
	direction mgl32.Vec3
	cutoff    float32
	exponent  float32

	nodeOptions []node.BuilderOption
}

// Light is a scene node that illuminates meshes. Lights are ordered after meshes in the
// render list and are gathered each frame into the per-draw light block.
type Light interface {
	node.Node

	// Type returns the emission model.
	Type() LightType

	// SetType changes the emission model. Type-specific parameters are left untouched.
	SetType(t LightType)

	// Ambient returns the ambient color term.
	Ambient() mgl32.Vec3

	// Diffuse returns the diffuse color term.
	Diffuse() mgl32.Vec3

	// Specular returns the specular color term.
	Specular() mgl32.Vec3

	// SetAmbient sets the ambient color term.
	SetAmbient(c mgl32.Vec3)

	// SetDiffuse sets the diffuse color term.
	SetDiffuse(c mgl32.Vec3)

	// SetSpecular sets the specular color term.
	SetSpecular(c mgl32.Vec3)

	// SetColor sets both the diffuse and specular terms to c.
	//
	// Parameters:
	//   - c: the RGB color
	SetColor(c mgl32.Vec3)

	// Radius returns the attenuation radius of point and spot lights.
	Radius() float32

	// SetRadius sets the attenuation radius.
	SetRadius(r float32)

	// Direction returns the emission direction in the light's local space.
	Direction() mgl32.Vec3

	// SetDirection sets the emission direction. Zero-length directions are ignored.
	SetDirection(d mgl32.Vec3)

	// Cutoff returns the spot cone half-angle in degrees.
	Cutoff() float32

	// SetCutoff sets the spot cone half-angle in degrees, clamped to [0, 90].
	SetCutoff(deg float32)

	// Exponent returns the spot falloff exponent.
	Exponent() float32

	// SetExponent sets the spot falloff exponent. Negative values are clamped to zero.
	SetExponent(e float32)
}

var _ Light = &lightImpl{}

// NewLight creates a light node of the given type with default parameters.
//
// Parameters:
//   - lightType: the emission model
//   - options: light options; use WithNode for the shared node state
//
// Returns:
//   - Light: the new light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	if lightType > LightTypeSpot {
		log.Printf("[Light] WARNING: unknown light type %d, using point", lightType)
		lightType = LightTypePoint
	}
	l := &lightImpl{
		lightType: lightType,
		ambient:   mgl32.Vec3{0, 0, 0},
		diffuse:   mgl32.Vec3{1, 1, 1},
		specular:  mgl32.Vec3{1, 1, 1},
		radius:    DefaultRadius,
		direction: mgl32.Vec3{0, 1, 0},
		cutoff:    DefaultCutoff,
		exponent:  DefaultExponent,
	}
	for _, opt := range options {
		opt(l)
	}
	node.Init(&l.Base, l, node.KindLight, node.PriorityLight, l.nodeOptions...)
	l.nodeOptions = nil
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) SetType(t LightType) {
	l.lightType = t
}

func (l *lightImpl) Ambient() mgl32.Vec3 {
	return l.ambient
}

func (l *lightImpl) Diffuse() mgl32.Vec3 {
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec3 {
	return l.specular
}

func (l *lightImpl) SetAmbient(c mgl32.Vec3) {
	l.ambient = c
}

func (l *lightImpl) SetDiffuse(c mgl32.Vec3) {
	l.diffuse = c
}

func (l *lightImpl) SetSpecular(c mgl32.Vec3) {
	l.specular = c
}

func (l *lightImpl) SetColor(c mgl32.Vec3) {
	l.diffuse = c
	l.specular = c
}

func (l *lightImpl) Radius() float32 {
	return l.radius
}

func (l *lightImpl) SetRadius(r float32) {
	l.radius = r
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) SetDirection(d mgl32.Vec3) {
	if d.Len() == 0 {
		return
	}
	l.direction = d.Normalize()
}

func (l *lightImpl) Cutoff() float32 {
	return l.cutoff
}

func (l *lightImpl) SetCutoff(deg float32) {
	l.cutoff = mgl32.Clamp(deg, 0, 90)
}

func (l *lightImpl) Exponent() float32 {
	return l.exponent
}

func (l *lightImpl) SetExponent(e float32) {
	if e < 0 {
		e = 0
	}
	l.exponent = e
}
