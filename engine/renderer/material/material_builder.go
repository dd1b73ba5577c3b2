package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithEmission is an option builder that sets the self-illumination color.
//
// Parameters:
//   - color: the emission color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emission option to a material
func WithEmission(color mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.emission = color
	}
}

// WithAmbient is an option builder that sets the ambient color.
//
// Parameters:
//   - color: the ambient color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient option to a material
func WithAmbient(color mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = color
	}
}

// WithDiffuse is an option builder that sets the diffuse color.
//
// Parameters:
//   - color: the diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(color mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = color
	}
}

// WithSpecular is an option builder that sets the specular color.
//
// Parameters:
//   - color: the specular color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(color mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.specular = color
	}
}

// WithAlbedo is an option builder that uses one color for the ambient, diffuse and specular terms,
// the way OVO materials store a single albedo.
//
// Parameters:
//   - color: the albedo color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo option to a material
func WithAlbedo(color mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = color
		m.diffuse = color
		m.specular = color
	}
}

// WithShininess is an option builder that sets the specular exponent.
//
// Parameters:
//   - shininess: the specular exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = shininess
	}
}

// WithTexture is an option builder that sets the diffuse texture.
//
// Parameters:
//   - texture: the diffuse texture, or nil for an untextured material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(texture *Texture) MaterialBuilderOption {
	return func(m *material) {
		m.texture = texture
	}
}
