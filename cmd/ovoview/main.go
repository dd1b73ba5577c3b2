// Command ovoview opens an OVO scene in a window.
//
//	ovoview [-config engine.toml] [-watch] scene.ovo
//
// W/A/S/D/Q/E move the camera, the arrow keys turn it, Z/X or the mouse wheel zoom and
// Shift speeds movement up. C cycles the scene cameras, R reloads the file, H toggles
// shadows and Escape quits. Dropping a file onto the window opens it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-ovo/engine"
	"github.com/Carmen-Shannon/oxy-ovo/engine/config"
	"github.com/Carmen-Shannon/oxy-ovo/engine/loader"
	"github.com/Carmen-Shannon/oxy-ovo/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/wgpu_backend"
	"github.com/Carmen-Shannon/oxy-ovo/engine/window"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	watch := flag.Bool("watch", false, "reload the scene when its file changes")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ovoview [-config file] [-watch] scene.ovo")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("[Viewer] %v", err)
		}
	}
	cfg.Watch = cfg.Watch || *watch

	if err := run(flag.Arg(0), cfg); err != nil {
		log.Fatalf("[Viewer] %v", err)
	}
}

func run(path string, cfg config.Config) error {
	w := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	// the engine has already closed the window if its render loop failed
	defer func() { _ = w.Close() }()

	present := wgpu_backend.PresentModeVSync
	if !cfg.Window.VSync {
		present = wgpu_backend.PresentModeUncapped
	}
	msaa := wgpu_backend.MSAA4x
	if !cfg.Window.MSAA {
		msaa = wgpu_backend.MSAAOff
	}
	backend, err := wgpu_backend.NewBackend(w.SurfaceDescriptor(), w.Width(), w.Height(),
		wgpu_backend.WithPresentMode(present),
		wgpu_backend.WithMSAA(msaa),
	)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(append(cfg.RendererOptions(),
		renderer.WithBackend(backend),
		renderer.WithViewport(w.Width(), w.Height()),
	)...)
	if err != nil {
		backend.Release()
		return err
	}
	defer r.Release()

	e, err := engine.NewEngineContext(
		engine.WithRenderer(r),
		engine.WithLoader(loader.NewLoader(loader.BackendTypeOVO, cfg.LoaderOptions()...)),
		engine.WithWindow(w),
		engine.WithProfiling(cfg.Profiler.Enabled),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithMemoryStats(true))),
	)
	if err != nil {
		return err
	}

	v := newViewer(e, cfg, w.SetTitle)
	defer v.stopWatch()
	if err := v.open(path); err != nil {
		return err
	}

	w.SetKeyCallback(v.handleKey)
	w.SetScrollCallback(v.handleScroll)
	w.SetDropCallback(v.handleDrop)
	e.SetTickCallback(v.tick)

	e.Run()
	return nil
}
