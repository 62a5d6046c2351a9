package camera

import "time"

// KeyState is the pressed/released state carried by a keyboard event.
type KeyState int

const (
	// KeyReleased marks a key release.
	KeyReleased KeyState = iota
	// KeyPressed marks a key press (repeats are reported as presses).
	KeyPressed
)

// ScrollDelta is a scroll event in one of the two shapes a platform reports:
// LineDelta (wheel notches) or PixelDelta (touchpads).
type ScrollDelta interface {
	scrollAmount() float32
}

// scrollLinePixels is how many pixel units one scroll line stands for.
const scrollLinePixels = 100.0

// LineDelta is a scroll amount measured in lines.
type LineDelta struct {
	X, Y float32
}

func (d LineDelta) scrollAmount() float32 {
	return d.Y * scrollLinePixels
}

// PixelDelta is a scroll amount measured in physical pixels.
type PixelDelta struct {
	X, Y float64
}

func (d PixelDelta) scrollAmount() float32 {
	return float32(d.Y)
}

// CameraController turns raw input into camera motion in two phases per frame.
//
// Accumulate: ProcessKeyboard, ProcessMouse and ProcessScroll may be called any number of
// times between two updates. Integrate: UpdateCamera is called once per frame with the
// frame's elapsed time; it moves the camera and clears the mouse and scroll input.
// Key state persists until the key is released.
type CameraController interface {
	// ProcessKeyboard records the state of a movement key.
	// W/Up move forward, S/Down backward, A/Left left, D/Right right,
	// LeftShift up and LeftControl down.
	//
	// Parameters:
	//   - key: GLFW key code (see common.Key*)
	//   - state: KeyPressed or KeyReleased
	//
	// Returns:
	//   - bool: true if the key is a movement key and was consumed
	ProcessKeyboard(key uint32, state KeyState) bool

	// ProcessMouse stores the latest mouse motion. Calls within one frame overwrite each other.
	//
	// Parameters:
	//   - dx, dy: raw mouse delta in device units
	ProcessMouse(dx, dy float64)

	// ProcessScroll stores the latest scroll amount, negated: a positive (upward) scroll dollies
	// the camera backward along its view direction. Line deltas are scaled by 100 to match pixel deltas.
	//
	// Parameters:
	//   - delta: a LineDelta or PixelDelta
	ProcessScroll(delta ScrollDelta)

	// UpdateCamera integrates the accumulated input into the camera over dt and clears
	// the rotation and scroll accumulators.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - dt: elapsed time of the frame (non-negative)
	UpdateCamera(cam *Camera, dt time.Duration)

	// Speed returns the movement speed in world units per second.
	Speed() float32

	// SetSpeed sets the movement speed in world units per second.
	//
	// Parameters:
	//   - speed: world units per second
	SetSpeed(speed float32)

	// Sensitivity returns the rotation and dolly multiplier.
	Sensitivity() float32

	// SetSensitivity sets the rotation and dolly multiplier.
	//
	// Parameters:
	//   - sensitivity: unitless multiplier
	SetSensitivity(sensitivity float32)
}
