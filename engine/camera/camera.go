package camera

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraType selects the projection a camera produces.
type CameraType uint8

const (
	// CameraTypePerspective projects with a symmetric perspective frustum.
	CameraTypePerspective CameraType = iota
	// CameraTypeOrtho projects with an orthographic box scaled by the zoom factor.
	CameraTypeOrtho
)

// String returns the lower-case name of the camera type.
func (t CameraType) String() string {
	if t == CameraTypeOrtho {
		return "ortho"
	}
	return "perspective"
}

// Defaults applied by NewCamera.
const (
	DefaultFov  float32 = 90.0
	DefaultNear float32 = 0.01
	DefaultFar  float32 = 1000.0
	DefaultZoom float32 = 1.0
)

type cameraImpl struct {
	node.Base

	cameraType CameraType
	fov        float32
	near       float32
	far        float32
	zoom       float32
	active     bool

	width  int
	height int

	nodeOptions []node.BuilderOption
}

// Camera is a scene node that supplies the projection matrix and, through its world matrix,
// the view transform of a frame. Cameras are ordered last in the render list.
type Camera interface {
	node.Node

	// Type returns the projection type.
	//
	// Returns:
	//   - CameraType: perspective or ortho
	Type() CameraType

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Zoom returns the ortho zoom factor. Perspective cameras ignore it.
	//
	// Returns:
	//   - float32: zoom factor, never negative
	Zoom() float32

	// Active reports whether the camera is the one frames are rendered from.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// Viewport returns the viewport size in pixels last set with SetViewport.
	//
	// Returns:
	//   - width, height: viewport size
	Viewport() (width, height int)

	// ProjectionMatrix computes the projection for the current viewport. A zero-sized
	// viewport is treated as square.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	ProjectionMatrix() mgl32.Mat4

	// SetFov sets the vertical field of view in degrees.
	//
	// Parameters:
	//   - deg: field of view in degrees
	SetFov(deg float32)

	// SetClip sets the near and far clipping plane distances.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	SetClip(near, far float32)

	// SetZoom sets the ortho zoom factor, clamped to be non-negative.
	//
	// Parameters:
	//   - zoom: zoom factor
	SetZoom(zoom float32)

	// SetActive marks the camera active or inactive.
	//
	// Parameters:
	//   - active: true to activate
	SetActive(active bool)

	// SetViewport records the viewport size used by ProjectionMatrix.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	SetViewport(width, height int)
}

var _ Camera = &cameraImpl{}

// NewCamera creates an inactive camera node with default clip planes and field of view.
//
// Parameters:
//   - cameraType: the projection type
//   - options: functional options to configure the camera; use WithNode for node state
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(cameraType CameraType, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		cameraType: cameraType,
		fov:        DefaultFov,
		near:       DefaultNear,
		far:        DefaultFar,
		zoom:       DefaultZoom,
	}
	for _, option := range options {
		option(c)
	}
	node.Init(&c.Base, c, node.KindCamera, node.PriorityCamera, c.nodeOptions...)
	c.nodeOptions = nil
	return c
}

func (c *cameraImpl) Type() CameraType {
	return c.cameraType
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) Zoom() float32 {
	return c.zoom
}

func (c *cameraImpl) Active() bool {
	return c.active
}

func (c *cameraImpl) Viewport() (width, height int) {
	return c.width, c.height
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	w, h := float32(c.width), float32(c.height)
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	if c.cameraType == CameraTypeOrtho {
		longest := math32.Max(w, h)
		ow := w / longest * c.zoom
		oh := h / longest * c.zoom
		return mgl32.Ortho(-ow/2, ow/2, -oh/2, oh/2, c.near, c.far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.fov), w/h, c.near, c.far)
}

func (c *cameraImpl) SetFov(deg float32) {
	c.fov = deg
}

func (c *cameraImpl) SetClip(near, far float32) {
	c.near = near
	c.far = far
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.zoom = math32.Max(zoom, 0)
}

func (c *cameraImpl) SetActive(active bool) {
	c.active = active
}

func (c *cameraImpl) SetViewport(width, height int) {
	c.width = width
	c.height = height
}
