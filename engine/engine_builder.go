package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-vox/engine/scene"
	"github.com/Carmen-Shannon/oxy-vox/engine/window"
)

// EngineBuilderOption is a functional option applied to an engine during construction via NewEngine.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the frame profiler.
//
// Parameters:
//   - enabled: true to log frame statistics every second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene sets the scene to update and draw.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithRenderFrameLimit caps the frame rate.
//
// Parameters:
//   - fps: maximum frames per second; 0 or less means uncapped
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

// WithModelReload makes the engine reload models named on events and hand them to the scene.
// Typically events and errs are a loader.Watcher's channels and source is the loader.
//
// Parameters:
//   - events: paths of changed model files
//   - errs: watcher errors, logged as they arrive
//   - source: reloads a model by path
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithModelReload(events <-chan string, errs <-chan error, source ModelSource) EngineBuilderOption {
	return func(e *engine) {
		e.reloadEvents = events
		e.reloadErrors = errs
		e.reloadSource = source
	}
}

// withClock replaces the time source and sleep function.
func withClock(now func() time.Time, sleep func(time.Duration)) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
		e.sleep = sleep
	}
}
