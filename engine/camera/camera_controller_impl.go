package camera

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/go-gl/mathgl/mgl32"
)

// SafePitch bounds |pitch| in radians. The value is 2/π (about 36.5°), narrower than the
// usual just-under-90° clamp; it is kept as-is so existing scenes frame the same way.
const SafePitch = 2 / math.Pi

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	// Held-key axes, 0 or 1. Persist across frames.
	amountLeft     float32
	amountRight    float32
	amountForward  float32
	amountBackward float32
	amountUp       float32
	amountDown     float32

	// Frame-transient input, cleared by UpdateCamera.
	rotateHorizontal float32
	rotateVertical   float32
	scroll           float32

	speed       float32
	sensitivity float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with no keys held.
//
// Parameters:
//   - speed: movement speed in world units per second
//   - sensitivity: rotation and dolly multiplier
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(speed, sensitivity float32) CameraController {
	return &cameraControllerImpl{
		speed:       speed,
		sensitivity: sensitivity,
	}
}

func (cc *cameraControllerImpl) ProcessKeyboard(key uint32, state KeyState) bool {
	var amount float32
	if state == KeyPressed {
		amount = 1.0
	}

	switch key {
	case common.KeyW, common.KeyUp:
		cc.amountForward = amount
	case common.KeyS, common.KeyDown:
		cc.amountBackward = amount
	case common.KeyA, common.KeyLeft:
		cc.amountLeft = amount
	case common.KeyD, common.KeyRight:
		cc.amountRight = amount
	case common.KeyLeftShift:
		cc.amountUp = amount
	case common.KeyLeftControl:
		cc.amountDown = amount
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) ProcessMouse(dx, dy float64) {
	cc.rotateHorizontal = float32(dx)
	cc.rotateVertical = float32(dy)
}

func (cc *cameraControllerImpl) ProcessScroll(delta ScrollDelta) {
	cc.scroll = -delta.scrollAmount()
}

func (cc *cameraControllerImpl) UpdateCamera(cam *Camera, dt time.Duration) {
	secs := float32(dt.Seconds())

	// Ground movement ignores pitch so looking down does not slow the camera.
	sinYaw, cosYaw := common.SinCos(cam.Yaw)
	forward := mgl32.Vec3{cosYaw, 0, sinYaw}.Normalize()
	right := mgl32.Vec3{-sinYaw, 0, cosYaw}.Normalize()
	cam.Position = cam.Position.
		Add(forward.Mul((cc.amountForward - cc.amountBackward) * cc.speed * secs)).
		Add(right.Mul((cc.amountRight - cc.amountLeft) * cc.speed * secs))

	// Scroll dollies along the full look direction; the field of view never changes.
	scrollward := lookDirection(cam.Yaw, cam.Pitch)
	cam.Position = cam.Position.Add(scrollward.Mul(cc.scroll * cc.speed * cc.sensitivity * secs))
	cc.scroll = 0

	// No roll, so vertical movement is a plain Y offset.
	cam.Position[1] += (cc.amountUp - cc.amountDown) * cc.speed * secs

	cam.Yaw += cc.rotateHorizontal * cc.sensitivity * secs
	cam.Pitch += -cc.rotateVertical * cc.sensitivity * secs
	cc.rotateHorizontal = 0
	cc.rotateVertical = 0

	cam.Pitch = common.Clamp(cam.Pitch, -SafePitch, SafePitch)
}

func (cc *cameraControllerImpl) Speed() float32 {
	return cc.speed
}

func (cc *cameraControllerImpl) SetSpeed(speed float32) {
	cc.speed = speed
}

func (cc *cameraControllerImpl) Sensitivity() float32 {
	return cc.sensitivity
}

func (cc *cameraControllerImpl) SetSensitivity(sensitivity float32) {
	cc.sensitivity = sensitivity
}
