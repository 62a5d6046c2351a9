// Package camera holds the free-flying camera used by the viewer: the Camera pose, the
// Projection lens and the CameraController that integrates raw input into the pose.
//
// Conventions: right-handed, Y-up, look-to. The view direction is derived from yaw and
// pitch; there is no target point and no roll. Any graphics binding with a different
// native convention converts at its own boundary.
//
// Nothing in this package is safe for concurrent use. The owning loop must serialize
// every Process*, UpdateCamera, Resize and matrix query onto one goroutine.
package camera

import (
	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the authoritative camera pose. Yaw and Pitch are in radians; yaw rotates
// around the world Y axis with yaw = 0 facing +X.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

// NewCamera creates a new Camera at the origin facing +X, then applies the options.
//
// Parameters:
//   - options: functional options to configure the initial pose
//
// Returns:
//   - *Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) *Camera {
	c := &Camera{}
	for _, option := range options {
		option(c)
	}
	return c
}

// Direction returns the unit view direction for the current yaw and pitch.
//
// Returns:
//   - mgl32.Vec3: normalized look direction
func (c *Camera) Direction() mgl32.Vec3 {
	return lookDirection(c.Yaw, c.Pitch)
}

// CalcMatrix builds the world-to-view matrix for the current pose.
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func (c *Camera) CalcMatrix() mgl32.Mat4 {
	return common.LookToRH(c.Position, c.Direction(), common.WorldUp)
}

// ViewPosition returns the camera position as a homogeneous point (w = 1) for shading.
//
// Returns:
//   - mgl32.Vec4: (x, y, z, 1)
func (c *Camera) ViewPosition() mgl32.Vec4 {
	return c.Position.Vec4(1)
}

// lookDirection converts yaw/pitch into a unit direction vector.
func lookDirection(yaw, pitch float32) mgl32.Vec3 {
	sinPitch, cosPitch := common.SinCos(pitch)
	sinYaw, cosYaw := common.SinCos(yaw)
	return mgl32.Vec3{cosPitch * cosYaw, sinPitch, cosPitch * sinYaw}.Normalize()
}
