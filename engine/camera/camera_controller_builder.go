package camera

import "github.com/Carmen-Shannon/oxy-ovo/engine/node"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithControllerTarget attaches the controller to a node at construction.
//
// Parameters:
//   - n: the node to drive
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithControllerTarget(n node.Node) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = n
	}
}

// WithMoveSpeed sets the translation per step.
//
// Parameters:
//   - speed: world units per step
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithTurnSpeed sets the rotation per step.
//
// Parameters:
//   - speed: degrees per step
//
// Returns:
//   - CameraControllerOption: functional option to set the turn speed
func WithTurnSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.turnSpeed = speed
	}
}

// WithZoomSpeed sets the zoom change per step.
//
// Parameters:
//   - speed: fraction of the current zoom applied per step
//
// Returns:
//   - CameraControllerOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithBoost sets the multiplier applied to key steps while a shift key is held.
//
// Parameters:
//   - boost: step multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the boost factor
func WithBoost(boost float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.boost = boost
	}
}

// WithPitchLimit sets the absolute pitch bound in degrees.
//
// Parameters:
//   - deg: maximum absolute pitch
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithPitchLimit(deg float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitchLimit = deg
	}
}
