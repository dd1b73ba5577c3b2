package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-ovo/engine/loader"
	"github.com/Carmen-Shannon/oxy-ovo/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ovo/engine/scene"
	"github.com/Carmen-Shannon/oxy-ovo/engine/window"
)

// EngineBuilderOption is a functional option for configuring an EngineContext.
type EngineBuilderOption func(*engineContext)

// WithRenderer sets the renderer frames are drawn with.
//
// Parameters:
//   - r: the renderer, usually on a wgpu or headless backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engineContext) {
		e.renderer = r
	}
}

// WithLoader sets the loader used by LoadScene and Reload.
//
// Parameters:
//   - l: the scene loader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engineContext) {
		e.loader = l
	}
}

// WithWindow attaches a window. Its size becomes the viewport and its resize events are
// forwarded to Resize.
//
// Parameters:
//   - w: an open Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engineContext) {
		e.window = w
	}
}

// WithScene makes s current once the context is built, as SetScene does.
//
// Parameters:
//   - s: the initial scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engineContext) {
		e.scene = s
		for _, cam := range s.Cameras() {
			if cam.Active() {
				e.activeCamera = cam
				return
			}
		}
	}
}

// WithProfiling enables or disables frame rate logging.
//
// Parameters:
//   - enabled: if true, RenderFrame ticks the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engineContext) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler RenderFrame ticks
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engineContext) {
		e.profiler = p
	}
}

// WithTickRate sets how often the tick callback runs while Run is active.
// Values <= 0 are treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engineContext) {
		if fps <= 0 {
			fps = 60.0
		}
		e.tickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithRenderFrameLimit sets an optional frame rate cap for Run.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engineContext) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithReloadCallback registers a function called after every Reload, successful or not.
//
// Parameters:
//   - callback: function receiving the reloaded scene and the load error, if any
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithReloadCallback(callback func(s scene.Scene, err error)) EngineBuilderOption {
	return func(e *engineContext) {
		e.reloadCallback = callback
	}
}

// WithWatchDebounce sets how long Watch waits for further file events before reloading.
//
// Parameters:
//   - d: the quiet period
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWatchDebounce(d time.Duration) EngineBuilderOption {
	return func(e *engineContext) {
		e.watchDebounce = max(d, time.Millisecond)
	}
}
