package camera

import (
	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Projection holds the perspective lens parameters. Only the aspect ratio changes after
// construction, through Resize.
type Projection struct {
	aspect float32
	fovY   float32
	zNear  float32
	zFar   float32
}

// NewProjection creates a Projection for a viewport of the given size.
// height must be non-zero; a zero height yields an infinite or NaN aspect ratio.
//
// Parameters:
//   - width, height: viewport size in pixels
//   - fovY: vertical field of view in radians
//   - zNear: near clipping plane distance (> 0)
//   - zFar: far clipping plane distance (> zNear)
//
// Returns:
//   - *Projection: the newly created projection
func NewProjection(width, height uint32, fovY, zNear, zFar float32) *Projection {
	return &Projection{
		aspect: float32(width) / float32(height),
		fovY:   fovY,
		zNear:  zNear,
		zFar:   zFar,
	}
}

// Resize recomputes the aspect ratio for a new viewport size.
//
// Parameters:
//   - width, height: new viewport size in pixels
func (p *Projection) Resize(width, height uint32) {
	p.aspect = float32(width) / float32(height)
}

// CalcMatrix builds the right-handed perspective matrix with [0, 1] clip depth.
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func (p *Projection) CalcMatrix() mgl32.Mat4 {
	return common.PerspectiveRH(p.fovY, p.aspect, p.zNear, p.zFar)
}

// Aspect returns the width / height ratio.
func (p *Projection) Aspect() float32 {
	return p.aspect
}

// FovY returns the vertical field of view in radians.
func (p *Projection) FovY() float32 {
	return p.fovY
}

// ZNear returns the near clip distance.
func (p *Projection) ZNear() float32 {
	return p.zNear
}

// ZFar returns the far clip distance.
func (p *Projection) ZFar() float32 {
	return p.zFar
}
