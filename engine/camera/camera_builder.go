package camera

import "github.com/Carmen-Shannon/oxy-ovo/engine/node"

type CameraBuilderOption func(*cameraImpl)

// WithNode forwards options for the shared node state.
//
// Parameters:
//   - options: node options such as node.WithName or node.WithBaseMatrix
//
// Returns:
//   - CameraBuilderOption: a function that records the node options on the camera
func WithNode(options ...node.BuilderOption) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.nodeOptions = append(c.nodeOptions, options...)
	}
}

// WithFov sets the camera's vertical field of view in degrees.
//
// Parameters:
//   - deg: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(deg float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetFov(deg)
	}
}

// WithClip sets the camera's near and far clipping planes.
//
// Parameters:
//   - near: the near plane distance
//   - far: the far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clipping planes
func WithClip(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetClip(near, far)
	}
}

// WithZoom sets the ortho zoom factor.
//
// Parameters:
//   - zoom: the zoom factor, clamped to be non-negative
//
// Returns:
//   - CameraBuilderOption: a function that sets the zoom
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetZoom(zoom)
	}
}

// WithActive marks the camera active at construction.
//
// Parameters:
//   - active: true to activate
//
// Returns:
//   - CameraBuilderOption: a function that sets the active flag
func WithActive(active bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.active = active
	}
}

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - width, height: viewport size in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the viewport
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetViewport(width, height)
	}
}
