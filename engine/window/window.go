package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// MouseButton identifies a mouse button in button callbacks. Values match GLFW.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// Every callback runs on the goroutine that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse wheel and touchpad scroll events.
	//
	// Parameters:
	//   - callback: function receiving the horizontal and vertical offsets in lines
	SetScrollCallback(callback func(xoff, yoff float64))

	// SetKeyCallback sets the callback for key events. Repeats are reported as presses.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code and whether the key is down
	SetKeyCallback(callback func(keyCode uint32, pressed bool))

	// SetMouseButtonCallback sets the callback for mouse button events.
	//
	// Parameters:
	//   - callback: function receiving the button and whether it is down
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool))

	// SetMouseMotionCallback sets the callback for relative mouse motion.
	// Deltas are reported between consecutive cursor positions; the first position after
	// the window opens or the cursor mode changes produces no event.
	//
	// Parameters:
	//   - callback: function receiving the motion delta in screen units
	SetMouseMotionCallback(callback func(dx, dy float64))

	// SetCursorCaptured hides and locks the cursor so motion is unbounded, or restores it.
	//
	// Parameters:
	//   - captured: true to capture the cursor
	SetCursorCaptured(captured bool)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	// Call it from the goroutine running ProcessMessages (for example an update callback).
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop on the calling goroutine.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	// Size limits applied to interactive resizing.
	maxWidth, maxHeight int
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	motion motionTracker

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(xoff, yoff float64)
	onKey         func(keyCode uint32, pressed bool)
	onMouseButton func(button MouseButton, pressed bool)
	onMouseMotion func(dx, dy float64)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured, visible window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

// newEngineWindow applies the defaults and options without creating the platform window.
// The maximum size is unbounded unless WithSizeLimits sets one.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "voxview",
		maxWidth:  glfw.DontCare,
		maxHeight: glfw.DontCare,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(xoff, yoff float64)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyCallback(callback func(keyCode uint32, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button MouseButton, pressed bool)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseMotionCallback(callback func(dx, dy float64)) {
	w.onMouseMotion = callback
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	platformSetCursorCaptured(w, captured)
	w.motion.reset()
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// cursorMoved turns an absolute cursor position into a motion event.
func (w *engineWindow) cursorMoved(x, y float64) {
	dx, dy, ok := w.motion.delta(x, y)
	if ok && w.onMouseMotion != nil {
		w.onMouseMotion(dx, dy)
	}
}

// motionTracker derives relative motion from absolute cursor positions.
type motionTracker struct {
	lastX, lastY float64
	valid        bool
}

// delta records (x, y) and returns the offset from the previous position.
// ok is false for the first position after a reset.
func (m *motionTracker) delta(x, y float64) (dx, dy float64, ok bool) {
	if m.valid {
		dx, dy, ok = x-m.lastX, y-m.lastY, true
	}
	m.lastX, m.lastY, m.valid = x, y, true
	return dx, dy, ok
}

func (m *motionTracker) reset() {
	m.valid = false
}
