package camera

import "github.com/Carmen-Shannon/oxy-ovo/engine/node"

// CameraController moves a node through its runtime offsets (position and Euler rotation).
// It never touches the base matrix, so the pose authored in the scene file is kept as the
// reference frame the offsets are layered on. Controllers are not safe for concurrent use and
// must be driven from the goroutine that renders frames.
type CameraController interface {
	flyCameraController

	// Target returns the node being driven, or nil when detached.
	//
	// Returns:
	//   - node.Node: the driven node
	Target() node.Node

	// SetTarget attaches the controller to n. A nil node detaches it.
	//
	// Parameters:
	//   - n: the node to drive, usually the active camera
	SetTarget(n node.Node)

	// Zoom changes the ortho zoom of an ortho camera target, or narrows the field of view
	// of a perspective camera target. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// HandleKey applies the movement bound to key for one step.
	//
	// Parameters:
	//   - key: a key code from the common package
	//   - boost: true to multiply movement by the boost factor
	//
	// Returns:
	//   - bool: true if the key was consumed
	HandleKey(key int, boost bool) bool
}

// flyCameraController defines the free-flight control methods.
// Translation follows the node's local axes derived from its rotation offset; vertical
// movement follows the world Y axis.
type flyCameraController interface {
	// MoveForward translates along the local forward axis (-Z).
	//
	// Parameters:
	//   - delta: movement amount scaled by MoveSpeed
	MoveForward(delta float32)

	// MoveRight translates along the local right axis (+X).
	//
	// Parameters:
	//   - delta: movement amount scaled by MoveSpeed
	MoveRight(delta float32)

	// MoveUp translates along the world up axis (+Y).
	//
	// Parameters:
	//   - delta: movement amount scaled by MoveSpeed
	MoveUp(delta float32)

	// Yaw rotates around the Y axis.
	//
	// Parameters:
	//   - delta: rotation amount scaled by TurnSpeed, in degrees
	Yaw(delta float32)

	// Pitch rotates around the X axis, clamped to the pitch limit.
	//
	// Parameters:
	//   - delta: rotation amount scaled by TurnSpeed, in degrees
	Pitch(delta float32)

	// MoveSpeed returns the translation per step in world units.
	//
	// Returns:
	//   - float32: units per step
	MoveSpeed() float32

	// TurnSpeed returns the rotation per step in degrees.
	//
	// Returns:
	//   - float32: degrees per step
	TurnSpeed() float32

	// ZoomSpeed returns the zoom change per step.
	//
	// Returns:
	//   - float32: zoom multiplier
	ZoomSpeed() float32
}
