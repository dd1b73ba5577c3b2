package material

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultColor is the grey used for the ambient, diffuse and specular colors of a fresh material.
	DefaultColor float32 = 0.75

	// DefaultShininess is the specular exponent of a fresh material.
	DefaultShininess float32 = 64

	// MaxShininess is the specular exponent of a perfectly smooth surface.
	MaxShininess float32 = 128
)

// material is the implementation of the Material interface.
type material struct {
	name      string
	emission  mgl32.Vec3
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	shininess float32
	texture   *Texture
}

// Material describes the surface of a mesh with a classic emission / ambient / diffuse / specular
// model and an optional diffuse texture.
//
// Materials are shared: any number of meshes may reference the same instance, so a change is
// visible on every mesh using it from the next frame on.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Emission retrieves the self-illumination color.
	//
	// Returns:
	//   - mgl32.Vec3: the emission color
	Emission() mgl32.Vec3

	// Ambient retrieves the color reflected under ambient light.
	//
	// Returns:
	//   - mgl32.Vec3: the ambient color
	Ambient() mgl32.Vec3

	// Diffuse retrieves the color reflected under direct light.
	//
	// Returns:
	//   - mgl32.Vec3: the diffuse color
	Diffuse() mgl32.Vec3

	// Specular retrieves the color of specular highlights.
	//
	// Returns:
	//   - mgl32.Vec3: the specular color
	Specular() mgl32.Vec3

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the specular exponent
	Shininess() float32

	// Texture retrieves the diffuse texture, or nil when the material is untextured.
	//
	// Returns:
	//   - *Texture: the diffuse texture or nil
	Texture() *Texture

	// SetEmission sets the self-illumination color.
	SetEmission(color mgl32.Vec3)

	// SetAmbient sets the ambient color.
	SetAmbient(color mgl32.Vec3)

	// SetDiffuse sets the diffuse color.
	SetDiffuse(color mgl32.Vec3)

	// SetSpecular sets the specular color.
	SetSpecular(color mgl32.Vec3)

	// SetShininess sets the specular exponent.
	SetShininess(shininess float32)

	// SetTexture sets the diffuse texture. Pass nil to make the material untextured.
	SetTexture(texture *Texture)
}

var _ Material = &material{}

// NewMaterial creates a new Material with the engine defaults (no emission, 0.75 grey,
// shininess 64, untextured) and applies the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	grey := mgl32.Vec3{DefaultColor, DefaultColor, DefaultColor}
	m := &material{
		ambient:   grey,
		diffuse:   grey,
		specular:  grey,
		shininess: DefaultShininess,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewShadowMaterial creates the flat black material used by the planar shadow pass.
//
// Returns:
//   - Material: a black, non-shiny, untextured material
func NewShadowMaterial() Material {
	return NewMaterial(
		WithName("shadow"),
		WithAmbient(mgl32.Vec3{}),
		WithDiffuse(mgl32.Vec3{}),
		WithSpecular(mgl32.Vec3{}),
		WithShininess(0),
	)
}

// ShininessFromRoughness converts a roughness factor into a specular exponent:
// (1 - sqrt(roughness)) * 128. Roughness is clamped to [0, 1].
//
// Parameters:
//   - roughness: the roughness factor
//
// Returns:
//   - float32: the specular exponent
func ShininessFromRoughness(roughness float32) float32 {
	roughness = mgl32.Clamp(roughness, 0, 1)
	return (1 - math32.Sqrt(roughness)) * MaxShininess
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Emission() mgl32.Vec3 {
	return m.emission
}

func (m *material) Ambient() mgl32.Vec3 {
	return m.ambient
}

func (m *material) Diffuse() mgl32.Vec3 {
	return m.diffuse
}

func (m *material) Specular() mgl32.Vec3 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Texture() *Texture {
	return m.texture
}

func (m *material) SetEmission(color mgl32.Vec3) {
	m.emission = color
}

func (m *material) SetAmbient(color mgl32.Vec3) {
	m.ambient = color
}

func (m *material) SetDiffuse(color mgl32.Vec3) {
	m.diffuse = color
}

func (m *material) SetSpecular(color mgl32.Vec3) {
	m.specular = color
}

func (m *material) SetShininess(shininess float32) {
	m.shininess = shininess
}

func (m *material) SetTexture(texture *Texture) {
	m.texture = texture
}
