package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSkyColor is the clear color of a scene that never set one.
var DefaultSkyColor = mgl32.Vec4{0.1, 0.1, 0.1, 1}

// Scene owns one node tree together with the state rendered alongside it: the sky color and
// the file it was loaded from. Cameras are ordinary nodes of the tree.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Path returns the file the scene was loaded from, or "" for a scene built in code.
	Path() string

	// Root returns the root of the node tree.
	Root() node.Node

	// SetRoot replaces the node tree. Cameras of the old tree move to the new one, under the
	// node carrying their old parent's name when it exists and under the root otherwise.
	//
	// Parameters:
	//   - root: the new tree root (must not be nil)
	//
	// Returns:
	//   - error: the attach errors of cameras that could not be moved; those are left detached
	SetRoot(root node.Node) error

	// Cameras returns every camera of the tree in pre-order.
	//
	// Returns:
	//   - []camera.Camera: the cameras, empty when the tree has none
	Cameras() []camera.Camera

	// AddCamera attaches a camera to the tree.
	//
	// Parameters:
	//   - cam: the camera
	//   - parent: the node the camera hangs from, nil for the root
	//
	// Returns:
	//   - error: node.ErrAlreadyParented or node.ErrCycle from the attach
	AddCamera(cam camera.Camera, parent node.Node) error

	// SkyColor returns the RGBA clear color.
	SkyColor() mgl32.Vec4

	// SetSkyColor sets the clear color. Alpha is always 1.
	SetSkyColor(r, g, b float32)

	// FindByName returns the first node below the root named name, depth-first.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - node.Node: the node, nil when not found
	//   - bool: whether a node was found
	FindByName(name string) (node.Node, bool)

	// Count returns the number of nodes in the tree, root included.
	Count() int
}

type scene struct {
	mu *sync.RWMutex

	name     string
	path     string
	root     node.Node
	skyColor mgl32.Vec4
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene wraps a node tree into a Scene. The root is required and NewScene panics if it
// is nil.
//
// Parameters:
//   - name: the name of the scene
//   - root: the tree root (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, root node.Node, options ...SceneBuilderOption) Scene {
	if root == nil {
		panic("scene: NewScene requires a non-nil root")
	}

	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		root:     root,
		skyColor: DefaultSkyColor,
	}

	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

func (s *scene) Root() node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

func (s *scene) SetRoot(root node.Node) error {
	if root == nil {
		panic("scene: SetRoot requires a non-nil root")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.root
	cams := camerasOf(old)
	s.root = root
	var errs []error
	for _, cam := range cams {
		parent := cam.Parent()
		target := root
		if parent != nil && parent != old {
			if found, ok := node.FindByName(root, parent.Name()); ok {
				target = found
			}
		}
		if parent != nil {
			parent.RemoveChild(cam)
		}
		if err := target.AddChild(cam); err != nil {
			errs = append(errs, fmt.Errorf("move camera %s: %w", cam.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Cameras() []camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return camerasOf(s.root)
}

func (s *scene) AddCamera(cam camera.Camera, parent node.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if parent == nil {
		parent = s.root
	}
	return parent.AddChild(cam)
}

func (s *scene) SkyColor() mgl32.Vec4 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skyColor
}

func (s *scene) SetSkyColor(r, g, b float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skyColor = mgl32.Vec4{r, g, b, 1}
}

func (s *scene) FindByName(name string) (node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return node.FindByName(s.root, name)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return node.Count(s.root)
}

// camerasOf collects the cameras below root in pre-order.
func camerasOf(root node.Node) []camera.Camera {
	var cams []camera.Camera
	node.Walk(root, func(n node.Node, _ int) bool {
		if cam, ok := n.(camera.Camera); ok {
			cams = append(cams, cam)
		}
		return true
	})
	return cams
}
