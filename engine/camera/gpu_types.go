package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vox/common"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (80 bytes, std140/std430 aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 80 bytes, tightly packed.
type GPUCameraUniform struct {
	ViewProj     [16]float32 // offset  0: projection * view, column-major (mat4x4<f32>)
	ViewPosition [4]float32  // offset 64: homogeneous world-space camera position (vec4<f32>)
}

// NewCameraUniform computes the uniform for the current camera pose and lens.
//
// Parameters:
//   - cam: the camera pose
//   - proj: the projection
//
// Returns:
//   - GPUCameraUniform: the value to upload this frame
func NewCameraUniform(cam *Camera, proj *Projection) GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:     proj.CalcMatrix().Mul4(cam.CalcMatrix()),
		ViewPosition: cam.ViewPosition(),
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized 80-byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.ViewProj[:]...)
	common.PutFloat32s(buf, 64, g.ViewPosition[:]...)
	return buf
}
