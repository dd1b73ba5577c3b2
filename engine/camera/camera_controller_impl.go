package camera

import (
	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
)

// Field of view bounds used when zooming a perspective camera, in degrees.
const (
	minZoomFov float32 = 5
	maxZoomFov float32 = 170
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	target node.Node

	moveSpeed  float32
	turnSpeed  float32
	zoomSpeed  float32
	boost      float32
	pitchLimit float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a detached fly controller with sensible defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		moveSpeed:  1.0,
		turnSpeed:  2.0,
		zoomSpeed:  0.1,
		boost:      5.0,
		pitchLimit: 89.0,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

// --- internal helpers ---

// localAxes returns the right and forward axes of the target in its parent space, derived
// from the rotation offset alone.
func (cc *cameraControllerImpl) localAxes() (right, forward mgl32.Vec3) {
	rot := common.OffsetMatrix(mgl32.Vec3{}, cc.target.Rotation(), mgl32.Vec3{1, 1, 1})
	right = common.TransformDirection(rot, mgl32.Vec3{1, 0, 0})
	forward = common.TransformDirection(rot, mgl32.Vec3{0, 0, -1})
	return right, forward
}

func (cc *cameraControllerImpl) translate(axis mgl32.Vec3, delta float32) {
	if cc.target == nil {
		return
	}
	cc.target.SetPosition(cc.target.Position().Add(axis.Mul(delta * cc.moveSpeed)))
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Target() node.Node {
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(n node.Node) {
	cc.target = n
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cam, ok := cc.target.(Camera)
	if !ok {
		return
	}
	if cam.Type() == CameraTypeOrtho {
		cam.SetZoom(cam.Zoom() * (1 - delta*cc.zoomSpeed))
		return
	}
	fov := cam.Fov() * (1 - delta*cc.zoomSpeed)
	cam.SetFov(mgl32.Clamp(fov, minZoomFov, maxZoomFov))
}

func (cc *cameraControllerImpl) HandleKey(key int, boost bool) bool {
	step := float32(1)
	if boost {
		step = cc.boost
	}
	switch key {
	case common.KeyW:
		cc.MoveForward(step)
	case common.KeyS:
		cc.MoveForward(-step)
	case common.KeyD:
		cc.MoveRight(step)
	case common.KeyA:
		cc.MoveRight(-step)
	case common.KeyE:
		cc.MoveUp(step)
	case common.KeyQ:
		cc.MoveUp(-step)
	case common.KeyLeft:
		cc.Yaw(step)
	case common.KeyRight:
		cc.Yaw(-step)
	case common.KeyUp:
		cc.Pitch(step)
	case common.KeyDown:
		cc.Pitch(-step)
	case common.KeyZ:
		cc.Zoom(1)
	case common.KeyX:
		cc.Zoom(-1)
	default:
		return false
	}
	return true
}

// --- flyCameraController implementation ---

func (cc *cameraControllerImpl) MoveForward(delta float32) {
	if cc.target == nil {
		return
	}
	_, forward := cc.localAxes()
	cc.translate(forward, delta)
}

func (cc *cameraControllerImpl) MoveRight(delta float32) {
	if cc.target == nil {
		return
	}
	right, _ := cc.localAxes()
	cc.translate(right, delta)
}

func (cc *cameraControllerImpl) MoveUp(delta float32) {
	cc.translate(mgl32.Vec3{0, 1, 0}, delta)
}

func (cc *cameraControllerImpl) Yaw(delta float32) {
	if cc.target == nil {
		return
	}
	rot := cc.target.Rotation()
	rot[1] += delta * cc.turnSpeed
	cc.target.SetRotation(rot)
}

func (cc *cameraControllerImpl) Pitch(delta float32) {
	if cc.target == nil {
		return
	}
	rot := cc.target.Rotation()
	rot[0] = mgl32.Clamp(rot[0]+delta*cc.turnSpeed, -cc.pitchLimit, cc.pitchLimit)
	cc.target.SetRotation(rot)
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) TurnSpeed() float32 {
	return cc.turnSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	return cc.zoomSpeed
}
