package engine

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-vox/engine/model"
	"github.com/Carmen-Shannon/oxy-vox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vox/engine/scene"
	"github.com/Carmen-Shannon/oxy-vox/engine/window"
)

// ModelSource reloads a model from disk. loader.Loader satisfies it.
type ModelSource interface {
	Reload(path string) (model.VoxelModel, error)
}

type engine struct {
	// quitRequested is set by Quit from any goroutine and consumed by the frame on the loop goroutine.
	quitRequested  atomic.Bool
	closeRequested bool

	window window.Window
	scene  scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(dt time.Duration)

	reloadEvents <-chan string
	reloadErrors <-chan error
	reloadSource ModelSource

	now              func() time.Time
	sleep            func(time.Duration)
	lastFrame        time.Time
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine drives the viewer: it routes window input to the scene and, once per
// message-loop iteration, reloads changed models, advances the scene and draws it.
// Everything runs on the goroutine that calls Run.
type Engine interface {
	// Window returns the window the engine is attached to.
	Window() window.Window

	// Scene returns the scene being driven.
	Scene() scene.Scene

	// EnableProfiler turns on per-second frame statistics in the log.
	EnableProfiler()

	// DisableProfiler turns the frame statistics off.
	DisableProfiler()

	// SetTickCallback sets a function called every frame after the scene update.
	//
	// Parameters:
	//   - callback: function receiving the frame's elapsed time
	SetTickCallback(callback func(dt time.Duration))

	// SetRenderFrameLimit caps the frame rate by sleeping out the rest of each frame.
	//
	// Parameters:
	//   - fps: maximum frames per second; 0 or less removes the cap
	SetRenderFrameLimit(fps float64)

	// Run wires the window callbacks and blocks in the window message loop until the window closes.
	Run()

	// Quit asks the message loop to stop. It only sets a flag, so it is safe to call from
	// any goroutine (a signal handler, for instance) and more than once. The window is
	// asked to close at the start of the next frame, on the loop goroutine.
	Quit()
}

// NewEngine creates a new engine. WithWindow and WithScene are required before Run.
//
// Parameters:
//   - options: variadic list of EngineBuilderOption functions
//
// Returns:
//   - Engine: the configured engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(),
		now:      time.Now,
		sleep:    time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(dt time.Duration)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) Run() {
	e.bindWindow()
	e.lastFrame = e.now()
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	e.quitRequested.Store(true)
}

// bindWindow routes window events to the scene.
func (e *engine) bindWindow() {
	e.window.SetKeyCallback(e.scene.HandleKey)
	e.window.SetMouseButtonCallback(e.scene.HandleMouseButton)
	e.window.SetMouseMotionCallback(e.scene.HandleMouseMotion)
	e.window.SetScrollCallback(e.scene.HandleScroll)
	e.window.SetResizeCallback(func(width, height int) {
		if err := e.scene.Resize(width, height); err != nil {
			log.Printf("resize to %dx%d: %v", width, height, err)
		}
	})
	e.window.SetUpdateCallback(e.frame)
}

// frame runs one iteration: honor a pending quit, then reload, update, draw, profile and throttle.
func (e *engine) frame() {
	if e.quitRequested.Load() {
		if !e.closeRequested {
			e.closeRequested = true
			e.window.RequestClose()
		}
		return
	}

	start := e.now()
	dt := start.Sub(e.lastFrame)
	e.lastFrame = start

	e.drainReloads()

	e.scene.Update(dt)
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if err := e.scene.Draw(); err != nil {
		log.Printf("draw: %v", err)
		// A lost or outdated surface recovers after reconfiguring at the current size.
		if rerr := e.scene.Resize(e.window.Width(), e.window.Height()); rerr != nil {
			log.Printf("reconfigure surface: %v", rerr)
		}
	}

	if e.profilingEnabled && e.profiler != nil {
		if m := e.scene.Model(); m != nil {
			e.profiler.SetVoxelCount(m.InstanceCount())
		}
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// drainReloads applies every pending model change without blocking.
func (e *engine) drainReloads() {
	if e.reloadSource == nil {
		return
	}
	for {
		select {
		case path, ok := <-e.reloadEvents:
			if !ok {
				e.reloadEvents = nil
				continue
			}
			m, err := e.reloadSource.Reload(path)
			if err != nil {
				log.Printf("reload %s: %v", path, err)
				continue
			}
			if err := e.scene.SetModel(m); err != nil {
				log.Printf("reload %s: %v", path, err)
				continue
			}
			log.Printf("Reloaded %s (%d voxels)", path, m.InstanceCount())
		case err, ok := <-e.reloadErrors:
			if !ok {
				e.reloadErrors = nil
				continue
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
