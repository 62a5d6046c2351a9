package scene

import (
	"github.com/Carmen-Shannon/oxy-vox/engine/camera"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the initial camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam *camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = cam
	}
}

// WithProjection sets the projection.
//
// Parameters:
//   - proj: the projection
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProjection(proj *camera.Projection) SceneBuilderOption {
	return func(s *scene) {
		s.projection = proj
	}
}

// WithController sets the camera controller. Its speed at construction becomes the unboosted speed.
//
// Parameters:
//   - cc: the controller
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithController(cc camera.CameraController) SceneBuilderOption {
	return func(s *scene) {
		s.controller = cc
	}
}

// WithRenderer attaches the renderer used by SetModel, Resize and Draw.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.renderer = r
	}
}

// WithBoost sets the speed multiplier applied while LeftAlt is held. Values below 1 are ignored.
//
// Parameters:
//   - boost: the multiplier
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBoost(boost float32) SceneBuilderOption {
	return func(s *scene) {
		if boost >= 1 {
			s.boost = boost
		}
	}
}

// WithFrameDistance sets how far FrameModel backs away, in multiples of the model's largest dimension.
// Non-positive values are ignored.
//
// Parameters:
//   - d: the distance multiplier
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFrameDistance(d float32) SceneBuilderOption {
	return func(s *scene) {
		if d > 0 {
			s.frameDistance = d
		}
	}
}

// WithCursorCapture sets the function called when mouse-look starts (true) or stops (false).
//
// Parameters:
//   - capture: typically Window.SetCursorCaptured
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCursorCapture(capture func(captured bool)) SceneBuilderOption {
	return func(s *scene) {
		s.captureCursor = capture
	}
}
