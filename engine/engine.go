package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"
	"github.com/Carmen-Shannon/oxy-ovo/engine/loader"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ovo/engine/scene"
	"github.com/Carmen-Shannon/oxy-ovo/engine/window"
)

var (
	// ErrNodeNotFound is returned by FindByName when no descendant of the scene root has the name.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoScene is returned by operations that need a current scene.
	ErrNoScene = errors.New("no scene set")
)

// engineContext implements the EngineContext interface.
type engineContext struct {
	mu sync.Mutex

	renderer renderer.Renderer
	loader   loader.Loader
	window   window.Window

	scene        scene.Scene
	activeCamera camera.Camera
	width        int
	height       int

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate         time.Duration
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	tickCallback     func(deltaTime float32)
	renderCallback   func(stats renderer.DrawStats)
	reloadCallback   func(s scene.Scene, err error)
	watchDebounce    time.Duration

	// work queued for the render goroutine while Run is active
	taskMu  sync.Mutex
	tasks   []func()
	running bool

	wg          sync.WaitGroup
	tickSignal  chan struct{}
	quitChannel chan struct{}
	quitOnce    sync.Once
}

// EngineContext owns the current scene, its active camera and the renderer drawing it.
// All methods are safe for concurrent use. Node changes made by the context itself
// (camera activation, viewport sizes, reloaded trees) go through Do, so while Run is active
// they happen on the render goroutine between frames.
type EngineContext interface {
	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// Loader returns the scene loader used by LoadScene and Reload.
	Loader() loader.Loader

	// Window returns the window given with WithWindow, or nil when headless.
	Window() window.Window

	// Profiler returns the frame rate counter ticked by RenderFrame.
	Profiler() *profiler.Profiler

	// LoadScene reads an OVO file into a new scene named after the file. The scene is not
	// made current.
	//
	// Parameters:
	//   - path: the scene file path
	//
	// Returns:
	//   - scene.Scene: the loaded scene, with its path recorded for Reload and Watch
	//   - error: a loader error (loader.ErrFileNotFound, loader.ErrTruncatedStream, loader.ErrUnsupportedChunk)
	LoadScene(path string) (scene.Scene, error)

	// Scene returns the current scene, or nil.
	Scene() scene.Scene

	// SetScene makes s current. The active camera becomes the first active camera of s in
	// pre-order, or none.
	//
	// Parameters:
	//   - s: the scene to render, or nil to clear
	SetScene(s scene.Scene)

	// ActiveCamera returns the camera frames are rendered from, or nil.
	ActiveCamera() camera.Camera

	// SetActiveCamera makes c the camera of subsequent frames. Through Do, the previous camera
	// is deactivated and c is activated and sized to the current viewport. A nil c only
	// deactivates.
	//
	// Parameters:
	//   - c: the new active camera
	SetActiveCamera(c camera.Camera)

	// CycleCamera activates the camera following the active one in the scene's pre-order,
	// wrapping around.
	//
	// Returns:
	//   - camera.Camera: the new active camera, or nil if the scene has none
	CycleCamera() camera.Camera

	// Resize records the viewport size and propagates it to the active camera and the backend.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// RenderFrame draws the current scene from the active camera with the scene's sky color.
	// With no scene or no active camera it draws nothing and returns zero stats.
	//
	// Returns:
	//   - renderer.DrawStats: counters of the frame
	//   - error: a renderer error
	RenderFrame() (renderer.DrawStats, error)

	// FindByName returns the first descendant of the scene root, depth-first, with the name.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - node.Node: the node
	//   - error: ErrNoScene or ErrNodeNotFound
	FindByName(name string) (node.Node, error)

	// SetSkyColor sets the clear color of the current scene and the renderer. Alpha is 1.
	//
	// Parameters:
	//   - r, g, b: the color components in [0, 1]
	SetSkyColor(r, g, b float32)

	// Reload reads the current scene's file again and swaps the new tree in through Do,
	// keeping the scene's cameras. The reload callback runs after the swap. On error the
	// current tree is kept.
	//
	// Returns:
	//   - error: ErrNoScene, or a loader error
	Reload() error

	// Watch reloads the current scene whenever its file changes, until ctx is done or the
	// scene is replaced.
	//
	// Parameters:
	//   - ctx: cancels the watch
	//
	// Returns:
	//   - error: ErrNoScene or a watcher setup error
	Watch(ctx context.Context) error

	// EnableProfiler enables frame rate logging.
	EnableProfiler()

	// DisableProfiler disables frame rate logging.
	DisableProfiler()

	// SetTickCallback registers the function called at the tick rate while Run is active.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each frame rendered by Run.
	//
	// Parameters:
	//   - callback: function receiving the frame statistics
	SetRenderCallback(callback func(stats renderer.DrawStats))

	// Do runs fn on the goroutine that renders frames. While Run is active fn is queued and
	// runs before the next frame, after the tick callback; otherwise fn runs before Do
	// returns. Code that moves, attaches or detaches nodes of the current scene while Run is
	// active belongs in fn.
	//
	// Parameters:
	//   - fn: the function to run
	Do(fn func())

	// Run starts the tick and render goroutines and blocks until the window closes, or
	// until Quit when there is no window. The tick callback, the functions queued with Do
	// and frame rendering all run on the render goroutine; the tick goroutine only paces
	// the ticks. Functions queued after the last frame run before Run returns. A context
	// runs at most once.
	Run()

	// Quit signals the Run goroutines to stop. Safe to call multiple times.
	Quit()
}

var _ EngineContext = &engineContext{}

// NewEngineContext creates an EngineContext. Without WithRenderer a renderer on a
// HeadlessBackend is created; without WithLoader an OVO loader with default options is used.
// When a window is given its resize events are forwarded to Resize.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - EngineContext: the new context
//   - error: error if the default renderer cannot be created
func NewEngineContext(options ...EngineBuilderOption) (EngineContext, error) {
	e := &engineContext{
		profiler:      profiler.NewProfiler(),
		tickRate:      time.Second / 60,
		watchDebounce: 100 * time.Millisecond,
		tickSignal:    make(chan struct{}, 1),
		quitChannel:   make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.renderer == nil {
		r, err := renderer.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("create renderer: %w", err)
		}
		e.renderer = r
	}
	if e.loader == nil {
		e.loader = loader.NewLoader(loader.BackendTypeOVO)
	}
	e.width, e.height = e.renderer.Viewport()

	if e.window != nil {
		e.Resize(e.window.Width(), e.window.Height())
		e.window.SetResizeCallback(e.Resize)
	}
	return e, nil
}

func (e *engineContext) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engineContext) Loader() loader.Loader {
	return e.loader
}

func (e *engineContext) Window() window.Window {
	return e.window
}

func (e *engineContext) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engineContext) LoadScene(path string) (scene.Scene, error) {
	root, err := e.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return scene.NewScene(sceneName(path), root, scene.WithPath(path)), nil
}

func (e *engineContext) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engineContext) SetScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scene = s
	e.activeCamera = nil
	if s == nil {
		return
	}
	for _, cam := range s.Cameras() {
		if cam.Active() {
			e.setActiveCamera(cam)
			return
		}
	}
}

func (e *engineContext) ActiveCamera() camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeCamera
}

func (e *engineContext) SetActiveCamera(c camera.Camera) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setActiveCamera(c)
}

// setActiveCamera must be called with mu held.
func (e *engineContext) setActiveCamera(c camera.Camera) {
	prev, width, height := e.activeCamera, e.width, e.height
	e.activeCamera = c
	e.Do(func() {
		if prev != nil && prev != c {
			prev.SetActive(false)
		}
		if c == nil {
			return
		}
		if width > 0 && height > 0 {
			c.SetViewport(width, height)
		}
		c.SetActive(true)
	})
}

func (e *engineContext) CycleCamera() camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scene == nil {
		return nil
	}
	cams := e.scene.Cameras()
	if len(cams) == 0 {
		return nil
	}
	next := 0
	for i, cam := range cams {
		if cam == e.activeCamera {
			next = (i + 1) % len(cams)
			break
		}
	}
	e.setActiveCamera(cams[next])
	return cams[next]
}

func (e *engineContext) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.width = width
	e.height = height
	cam := e.activeCamera
	e.Do(func() {
		if cam != nil {
			cam.SetViewport(width, height)
		}
		e.renderer.Resize(width, height)
	})
}

func (e *engineContext) RenderFrame() (renderer.DrawStats, error) {
	e.mu.Lock()
	s, cam, profiling := e.scene, e.activeCamera, e.profilingEnabled
	e.mu.Unlock()

	if s == nil || cam == nil {
		return renderer.DrawStats{}, nil
	}

	sky := s.SkyColor()
	e.renderer.SetSkyColor(sky.X(), sky.Y(), sky.Z())
	stats, err := e.renderer.RenderFrame(s.Root(), cam)
	if err != nil {
		return stats, fmt.Errorf("render %s: %w", s.Name(), err)
	}

	if profiling {
		e.profiler.Tick()
	}
	return stats, nil
}

func (e *engineContext) FindByName(name string) (node.Node, error) {
	s := e.Scene()
	if s == nil {
		return nil, ErrNoScene
	}
	n, ok := s.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrNodeNotFound, name, s.Name())
	}
	return n, nil
}

func (e *engineContext) SetSkyColor(r, g, b float32) {
	if s := e.Scene(); s != nil {
		s.SetSkyColor(r, g, b)
	}
	e.renderer.SetSkyColor(r, g, b)
}

func (e *engineContext) Reload() error {
	s := e.Scene()
	if s == nil {
		return ErrNoScene
	}
	if s.Path() == "" {
		return fmt.Errorf("%w: scene %s has no file", ErrNoScene, s.Name())
	}

	root, err := e.loader.Load(s.Path())
	if err != nil {
		if e.reloadCallback != nil {
			e.reloadCallback(s, err)
		}
		return err
	}

	e.Do(func() {
		err := s.SetRoot(root)
		if err != nil {
			log.Printf("[Engine] reload %s: %v", s.Path(), err)
		} else {
			log.Printf("[Engine] reloaded %s (%d nodes)", s.Path(), s.Count())
		}
		if e.reloadCallback != nil {
			e.reloadCallback(s, err)
		}
	})
	return nil
}

func (e *engineContext) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engineContext) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engineContext) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engineContext) SetRenderCallback(callback func(stats renderer.DrawStats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

// sceneName is the file name without its extension.
func sceneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
