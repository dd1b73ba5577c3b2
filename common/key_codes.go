package common

// Virtual key codes used by the fly controller and the viewer.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW = 87 // move forward
	KeyA = 65 // strafe left
	KeyS = 83 // move back
	KeyD = 68 // strafe right
	KeyQ = 81 // move down
	KeyE = 69 // move up
	KeyC = 67 // cycle active camera
	KeyR = 82 // reload scene
	KeyZ = 90 // ortho zoom in
	KeyX = 88 // ortho zoom out
	KeyH = 72 // toggle planar shadows

	KeyRight = 262 // yaw right (GLFW)
	KeyLeft  = 263 // yaw left (GLFW)
	KeyDown  = 264 // pitch down (GLFW)
	KeyUp    = 265 // pitch up (GLFW)
	KeyEsc   = 256 // Escape key (GLFW)
)
