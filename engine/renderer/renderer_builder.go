package renderer

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend sets the GPU collaborator draws are issued to.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b Backend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithShader replaces the built-in shader. The shader must declare every uniform the
// renderer stages, otherwise the first draw fails with shader.ErrUniformNotFound.
//
// Parameters:
//   - s: the parsed shader
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader option to a renderer
func WithShader(s shader.Shader) RendererBuilderOption {
	return func(r *renderer) {
		r.shader = s
	}
}

// WithShadows enables or disables the planar shadow pass.
//
// Parameters:
//   - enabled: true to draw shadows of shadow-casting meshes
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadows option to a renderer
func WithShadows(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.shadows = enabled
	}
}

// WithMaxLights sets the capacity of the per-frame light set, clamped to [1, light.MaxLights].
//
// Parameters:
//   - n: the number of lights bound per frame
//
// Returns:
//   - RendererBuilderOption: a function that applies the max lights option to a renderer
func WithMaxLights(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.maxLights = min(max(n, 1), light.MaxLights)
	}
}

// WithSkyColor sets the initial clear color.
//
// Parameters:
//   - color: RGBA clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the sky color option to a renderer
func WithSkyColor(color mgl32.Vec4) RendererBuilderOption {
	return func(r *renderer) {
		r.skyColor = color
	}
}

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - width, height: the viewport size in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the viewport option to a renderer
func WithViewport(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}
