package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the world up axis. The engine is right-handed and Y-up.
var WorldUp = mgl32.Vec3{0, 1, 0}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// PerspectiveRH creates a right-handed perspective projection matrix.
// Clip-space depth maps to [0, 1] as WebGPU expects; mgl32.Perspective targets the
// OpenGL [-1, 1] range and cannot be used directly.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveRH(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	r := far / (near - far)

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = r
	out[11] = -1.0
	out[14] = r * near
	return out
}

// LookToRH creates a right-handed view matrix from an eye position and a view direction.
// Unlike a look-at matrix no target point is involved; dir is normalized internally.
//
// Parameters:
//   - eye: camera position in world space
//   - dir: direction the camera faces
//   - up: up vector defining camera orientation (typically WorldUp)
//
// Returns:
//   - mgl32.Mat4: the column-major world-to-view matrix
func LookToRH(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	f := dir.Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return mgl32.Mat4{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// SinCos returns the sine and cosine of a float32 angle in radians.
func SinCos(angle float32) (sin, cos float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}

// Clamp restricts v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
