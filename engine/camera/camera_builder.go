package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*Camera)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Position = mgl32.Vec3{x, y, z}
	}
}

// WithYaw sets the camera's initial yaw.
//
// Parameters:
//   - yaw: horizontal angle in radians (0 = +X axis)
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Yaw = yaw
	}
}

// WithPitch sets the camera's initial pitch. The value is not clamped here; the
// controller clamps it on the first update.
//
// Parameters:
//   - pitch: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Pitch = pitch
	}
}
