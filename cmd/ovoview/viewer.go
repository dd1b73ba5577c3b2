package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine"
	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"
	"github.com/Carmen-Shannon/oxy-ovo/engine/config"
	"github.com/Carmen-Shannon/oxy-ovo/engine/window"
)

// viewerCameraName is the name of the camera the viewer adds to every scene it opens.
const viewerCameraName = "Viewer Camera"

// viewer maps window input onto an EngineContext. Input arrives on the window thread; camera
// moves are applied on the engine tick and zoom through EngineContext.Do, both on the render
// goroutine.
type viewer struct {
	engine     engine.EngineContext
	cfg        config.Config
	controller camera.CameraController
	setTitle   func(string)

	mu    sync.Mutex
	held  map[int]bool
	boost bool

	cancelWatch context.CancelFunc
}

func newViewer(e engine.EngineContext, cfg config.Config, setTitle func(string)) *viewer {
	return &viewer{
		engine:     e,
		cfg:        cfg,
		controller: camera.NewCameraController(),
		setTitle:   setTitle,
		held:       make(map[int]bool),
	}
}

// open loads path, adds the configured camera and makes the scene current. The current
// scene is kept when loading fails.
func (v *viewer) open(path string) error {
	s, err := v.engine.LoadScene(path)
	if err != nil {
		return err
	}
	sky := v.cfg.Renderer.SkyColor
	s.SetSkyColor(sky[0], sky[1], sky[2])

	cam, err := v.cfg.Camera.NewCamera(viewerCameraName)
	if err != nil {
		return err
	}
	if err := s.AddCamera(cam, nil); err != nil {
		return err
	}

	v.engine.SetScene(s)
	v.engine.SetActiveCamera(cam)
	v.mu.Lock()
	v.controller.SetTarget(cam)
	v.mu.Unlock()

	if v.setTitle != nil {
		v.setTitle(fmt.Sprintf("%s - %s (%d nodes)", v.cfg.Window.Title, s.Name(), s.Count()))
	}
	if v.cfg.Watch {
		v.watch()
	}
	return nil
}

// watch restarts the hot reload watcher for the current scene.
func (v *viewer) watch() {
	v.stopWatch()
	ctx, cancel := context.WithCancel(context.Background())
	v.cancelWatch = cancel
	go func() {
		if err := v.engine.Watch(ctx); err != nil {
			log.Printf("[Viewer] %v", err)
		}
	}()
}

func (v *viewer) stopWatch() {
	if v.cancelWatch != nil {
		v.cancelWatch()
		v.cancelWatch = nil
	}
}

// handleKey runs the one-shot commands on press and records movement keys for tick.
func (v *viewer) handleKey(e window.KeyEvent) {
	if e.Action == window.KeyPress {
		switch e.Key {
		case common.KeyC:
			if cam := v.engine.CycleCamera(); cam != nil {
				v.mu.Lock()
				v.controller.SetTarget(cam)
				v.mu.Unlock()
				log.Printf("[Viewer] active camera %q", cam.Name())
			}
			return
		case common.KeyR:
			if err := v.engine.Reload(); err != nil {
				log.Printf("[Viewer] reload: %v", err)
			}
			return
		case common.KeyH:
			r := v.engine.Renderer()
			r.SetShadowsEnabled(!r.ShadowsEnabled())
			return
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.boost = e.Shift
	if e.Down() {
		v.held[e.Key] = true
	} else {
		delete(v.held, e.Key)
	}
}

// handleScroll zooms the target camera between frames.
func (v *viewer) handleScroll(delta float32) {
	v.engine.Do(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.controller.Zoom(delta)
	})
}

func (v *viewer) handleDrop(paths []string) {
	if err := v.open(paths[0]); err != nil {
		log.Printf("[Viewer] open %s: %v", paths[0], err)
	}
}

// tick applies every held movement key once.
func (v *viewer) tick(float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key := range v.held {
		v.controller.HandleKey(key, v.boost)
	}
}
