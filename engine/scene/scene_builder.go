package scene

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithPath records the file the scene was loaded from, used by hot reload.
//
// Parameters:
//   - path: the scene file path
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPath(path string) SceneBuilderOption {
	return func(s *scene) {
		s.path = path
	}
}

// WithSkyColor sets the initial clear color.
//
// Parameters:
//   - color: the RGBA clear color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkyColor(color mgl32.Vec4) SceneBuilderOption {
	return func(s *scene) {
		s.skyColor = color
	}
}

// WithCameras attaches cameras directly under the root. A camera that already has a
// parent is left where it is.
//
// Parameters:
//   - cams: the cameras to attach
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCameras(cams ...camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		for _, cam := range cams {
			if cam.Parent() == nil {
				_ = s.root.AddChild(cam)
			}
		}
	}
}
