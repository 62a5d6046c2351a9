package model

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVoxelInputSource is the canonical WGSL definition of the VertexInput and InstanceInput
// structs consumed by the voxel pipeline. Matches GPUVertex and GPUInstance exactly.
//
//go:embed assets/voxel_input.wgsl
var GPUVoxelInputSource string

// GPUModelUniformSource is the canonical WGSL definition of the ModelUniform struct.
// Matches GPUModelUniform exactly.
//
//go:embed assets/model_uniform.wgsl
var GPUModelUniformSource string

// GPUModelUniform carries the per-model translation applied to every instance.
// Size: 16 bytes.
type GPUModelUniform struct {
	Offset [4]float32 // offset 0: xyz translation in voxel space, w unused
}

// NewModelUniform builds the uniform that centers m on the origin.
//
// Parameters:
//   - m: the model being drawn
//
// Returns:
//   - GPUModelUniform: the uniform ready for upload
func NewModelUniform(m VoxelModel) GPUModelUniform {
	return GPUModelUniform{Offset: m.CenterOffset().Vec4(0)}
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer
func (g *GPUModelUniform) Marshal() []byte {
	buf := make([]byte, 16)
	common.PutFloat32s(buf, 0, g.Offset[:]...)
	return buf
}

// GPUVertex is the GPU-aligned representation of a single cube vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVoxelInputSource).
// Size: 32 bytes, tightly packed.
type GPUVertex struct {
	Position [4]float32 // offset  0: position in the unit cube, w = 1
	Normal   [4]float32 // offset 16: face normal, w = 0
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (32)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.Position[:]...)
	common.PutFloat32s(buf, 16, g.Normal[:]...)
	return buf
}

// GPUInstance is one voxel as the GPU sees it: a grid cell and its resolved color.
// Matches the WGSL InstanceInput struct layout exactly (see GPUVoxelInputSource).
// Size: 8 bytes, tightly packed.
type GPUInstance struct {
	Position [4]uint8 // offset 0: x, y, z grid cell, w unused (Uint8x4)
	Color    [4]uint8 // offset 4: RGBA, normalized in the shader (Unorm8x4)
}

// CubeVertices is the unit cube, four vertices per face so each face carries its own normal.
var CubeVertices = []GPUVertex{
	// top (0, 0, 1)
	{Position: [4]float32{0, 0, 1, 1}, Normal: [4]float32{0, 0, 1, 0}},
	{Position: [4]float32{1, 0, 1, 1}, Normal: [4]float32{0, 0, 1, 0}},
	{Position: [4]float32{1, 1, 1, 1}, Normal: [4]float32{0, 0, 1, 0}},
	{Position: [4]float32{0, 1, 1, 1}, Normal: [4]float32{0, 0, 1, 0}},
	// bottom (0, 0, -1)
	{Position: [4]float32{0, 1, 0, 1}, Normal: [4]float32{0, 0, -1, 0}},
	{Position: [4]float32{1, 1, 0, 1}, Normal: [4]float32{0, 0, -1, 0}},
	{Position: [4]float32{1, 0, 0, 1}, Normal: [4]float32{0, 0, -1, 0}},
	{Position: [4]float32{0, 0, 0, 1}, Normal: [4]float32{0, 0, -1, 0}},
	// right (1, 0, 0)
	{Position: [4]float32{1, 0, 0, 1}, Normal: [4]float32{1, 0, 0, 0}},
	{Position: [4]float32{1, 1, 0, 1}, Normal: [4]float32{1, 0, 0, 0}},
	{Position: [4]float32{1, 1, 1, 1}, Normal: [4]float32{1, 0, 0, 0}},
	{Position: [4]float32{1, 0, 1, 1}, Normal: [4]float32{1, 0, 0, 0}},
	// left (-1, 0, 0)
	{Position: [4]float32{0, 0, 1, 1}, Normal: [4]float32{-1, 0, 0, 0}},
	{Position: [4]float32{0, 1, 1, 1}, Normal: [4]float32{-1, 0, 0, 0}},
	{Position: [4]float32{0, 1, 0, 1}, Normal: [4]float32{-1, 0, 0, 0}},
	{Position: [4]float32{0, 0, 0, 1}, Normal: [4]float32{-1, 0, 0, 0}},
	// front (0, 1, 0)
	{Position: [4]float32{1, 1, 0, 1}, Normal: [4]float32{0, 1, 0, 0}},
	{Position: [4]float32{0, 1, 0, 1}, Normal: [4]float32{0, 1, 0, 0}},
	{Position: [4]float32{0, 1, 1, 1}, Normal: [4]float32{0, 1, 0, 0}},
	{Position: [4]float32{1, 1, 1, 1}, Normal: [4]float32{0, 1, 0, 0}},
	// back (0, -1, 0)
	{Position: [4]float32{1, 0, 1, 1}, Normal: [4]float32{0, -1, 0, 0}},
	{Position: [4]float32{0, 0, 1, 1}, Normal: [4]float32{0, -1, 0, 0}},
	{Position: [4]float32{0, 0, 0, 1}, Normal: [4]float32{0, -1, 0, 0}},
	{Position: [4]float32{1, 0, 0, 1}, Normal: [4]float32{0, -1, 0, 0}},
}

// CubeIndices triangulates CubeVertices, two counter-clockwise triangles per face.
var CubeIndices = []uint16{
	0, 1, 2, 2, 3, 0, // top
	4, 5, 6, 6, 7, 4, // bottom
	8, 9, 10, 10, 11, 8, // right
	12, 13, 14, 14, 15, 12, // left
	16, 17, 18, 18, 19, 16, // front
	20, 21, 22, 22, 23, 20, // back
}

// MarshalCubeVertices serializes CubeVertices for the vertex buffer.
//
// Returns:
//   - []byte: 24 * 32 bytes
func MarshalCubeVertices() []byte {
	buf := make([]byte, 0, len(CubeVertices)*32)
	for i := range CubeVertices {
		buf = append(buf, CubeVertices[i].Marshal()...)
	}
	return buf
}

// MarshalCubeIndices serializes CubeIndices as little-endian uint16 values. The result is
// padded to a multiple of 4 bytes as WriteBuffer requires.
//
// Returns:
//   - []byte: the index buffer contents
func MarshalCubeIndices() []byte {
	size := len(CubeIndices) * 2
	buf := make([]byte, (size+3)&^3)
	for i, idx := range CubeIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// VertexBufferLayout describes the per-vertex cube buffer at locations 0 and 1.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for slot 0
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
		},
	}
}

// InstanceBufferLayout describes the per-instance voxel buffer at locations 2 and 3.
// The shader only advances to the next entry when it starts a new instance.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for slot 1
func InstanceBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 8,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatUint8x4, Offset: 0, ShaderLocation: 2},
			{Format: wgpu.VertexFormatUnorm8x4, Offset: 4, ShaderLocation: 3},
		},
	}
}
