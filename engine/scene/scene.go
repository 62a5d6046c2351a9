package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/Carmen-Shannon/oxy-vox/engine/camera"
	"github.com/Carmen-Shannon/oxy-vox/engine/model"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vox/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNilModel is returned by SetModel when given a nil model.
var ErrNilModel = errors.New("nil voxel model")

// Scene is the viewer's single scene: one voxel model, a fly camera and the input that drives it.
//
// Input handlers only record state; Update integrates it and Draw renders.
// A Scene is not safe for concurrent use; every call is expected on the window goroutine.
type Scene interface {
	Camera() *camera.Camera
	Projection() *camera.Projection
	Controller() camera.CameraController

	// Model returns the model currently shown, or nil.
	Model() model.VoxelModel

	// SetModel replaces the shown model and uploads it to the renderer.
	//
	// Parameters:
	//   - m: the new model
	//
	// Returns:
	//   - error: ErrNilModel, or an upload error from the renderer; the previous model is kept on error
	SetModel(m model.VoxelModel) error

	// FrameModel places the camera so the whole model is in view, keeping yaw and pitch.
	FrameModel()

	// HandleKey routes a key event. LeftAlt toggles the speed boost, R reframes the model,
	// movement keys go to the controller.
	//
	// Parameters:
	//   - key: GLFW key code
	//   - pressed: true on press or repeat
	HandleKey(key uint32, pressed bool)

	// HandleMouseButton starts or stops mouse-look on the left button.
	//
	// Parameters:
	//   - button: the mouse button
	//   - pressed: true on press
	HandleMouseButton(button window.MouseButton, pressed bool)

	// HandleMouseMotion feeds mouse motion to the controller while mouse-look is active.
	//
	// Parameters:
	//   - dx, dy: cursor delta in screen units
	HandleMouseMotion(dx, dy float64)

	// HandleScroll dollies the camera.
	//
	// Parameters:
	//   - xoff, yoff: scroll offsets in lines
	HandleScroll(xoff, yoff float64)

	// Resize updates the projection aspect and the renderer surface.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	//
	// Returns:
	//   - error: a renderer error
	Resize(width, height int) error

	// Update integrates accumulated input over dt.
	//
	// Parameters:
	//   - dt: elapsed frame time
	Update(dt time.Duration)

	// Draw uploads the camera uniform and renders one frame.
	//
	// Returns:
	//   - error: a renderer error
	Draw() error

	// Rotating reports whether mouse-look is active.
	Rotating() bool

	// Boosted reports whether the speed boost key is held.
	Boosted() bool
}

// scene is the implementation of the Scene interface.
type scene struct {
	camera     *camera.Camera
	projection *camera.Projection
	controller camera.CameraController
	renderer   renderer.Renderer
	model      model.VoxelModel

	baseSpeed     float32
	boost         float32
	boosted       bool
	frameDistance float32
	rotating      bool

	captureCursor func(captured bool)
}

var _ Scene = &scene{}

const (
	defaultSpeed         = 20
	defaultSensitivity   = 0.4
	defaultBoost         = 4
	defaultFrameDistance = 1.5
)

// NewScene creates a scene. Without options it has a camera at the origin facing +X,
// a 1280x720 45° projection and a controller at speed 20, sensitivity 0.4.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Scene: the new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		camera:        camera.NewCamera(),
		projection:    camera.NewProjection(1280, 720, mgl32.DegToRad(45), 0.1, 1000),
		controller:    camera.NewCameraController(defaultSpeed, defaultSensitivity),
		boost:         defaultBoost,
		frameDistance: defaultFrameDistance,
	}
	for _, opt := range options {
		opt(s)
	}
	s.baseSpeed = s.controller.Speed()
	return s
}

func (s *scene) Camera() *camera.Camera {
	return s.camera
}

func (s *scene) Projection() *camera.Projection {
	return s.projection
}

func (s *scene) Controller() camera.CameraController {
	return s.controller
}

func (s *scene) Model() model.VoxelModel {
	return s.model
}

func (s *scene) SetModel(m model.VoxelModel) error {
	if m == nil {
		return ErrNilModel
	}
	if s.renderer != nil {
		if err := s.renderer.UploadModel(m); err != nil {
			return fmt.Errorf("upload model %q: %w", m.Name(), err)
		}
	}
	s.model = m
	return nil
}

func (s *scene) FrameModel() {
	if s.model == nil {
		return
	}
	dims := s.model.Dimensions()
	extent := max(dims.X(), dims.Y(), dims.Z(), 1)

	// The model is centered on the origin, so back away from it along the view direction.
	s.camera.Position = s.camera.Direction().Mul(-extent * s.frameDistance)
}

func (s *scene) HandleKey(key uint32, pressed bool) {
	switch key {
	case common.KeyLeftAlt:
		s.boosted = pressed
		speed := s.baseSpeed
		if pressed {
			speed *= s.boost
		}
		s.controller.SetSpeed(speed)
	case common.KeyR:
		if pressed {
			s.FrameModel()
		}
	default:
		state := camera.KeyReleased
		if pressed {
			state = camera.KeyPressed
		}
		s.controller.ProcessKeyboard(key, state)
	}
}

func (s *scene) HandleMouseButton(button window.MouseButton, pressed bool) {
	if button != window.MouseButtonLeft || s.rotating == pressed {
		return
	}
	s.rotating = pressed
	if s.captureCursor != nil {
		s.captureCursor(pressed)
	}
}

func (s *scene) HandleMouseMotion(dx, dy float64) {
	if !s.rotating {
		return
	}
	s.controller.ProcessMouse(dx, dy)
}

func (s *scene) HandleScroll(xoff, yoff float64) {
	s.controller.ProcessScroll(camera.LineDelta{X: float32(xoff), Y: float32(yoff)})
}

func (s *scene) Resize(width, height int) error {
	if width > 0 && height > 0 {
		s.projection.Resize(uint32(width), uint32(height))
	}
	if s.renderer == nil {
		return nil
	}
	return s.renderer.Resize(width, height)
}

func (s *scene) Update(dt time.Duration) {
	s.controller.UpdateCamera(s.camera, dt)
}

func (s *scene) Draw() error {
	if s.renderer == nil {
		return nil
	}
	s.renderer.WriteCamera(camera.NewCameraUniform(s.camera, s.projection))
	return s.renderer.DrawFrame()
}

func (s *scene) Rotating() bool {
	return s.rotating
}

func (s *scene) Boosted() bool {
	return s.boosted
}
