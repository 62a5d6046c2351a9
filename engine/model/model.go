package model

import (
	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/go-gl/mathgl/mgl32"
)

// voxelModel is the implementation of the VoxelModel interface.
type voxelModel struct {
	name       string
	instances  []GPUInstance
	dimensions mgl32.Vec3
}

// VoxelModel defines the interface for a loaded voxel model.
// A VoxelModel is a flat list of colored cube instances plus the size of the grid they
// live in. It is produced by the Loader and consumed by the renderer.
type VoxelModel interface {
	// Name retrieves the model identifier (the path it was loaded from).
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Instances retrieves the per-voxel instance data.
	//
	// Returns:
	//   - []GPUInstance: one entry per filled voxel
	Instances() []GPUInstance

	// Dimensions retrieves the grid size: the component-wise maximum over all sub-models.
	//
	// Returns:
	//   - mgl32.Vec3: grid size in voxels
	Dimensions() mgl32.Vec3

	// InstanceCount returns the number of voxels to draw.
	//
	// Returns:
	//   - int: the instance count
	InstanceCount() int

	// MarshalInstances serializes the instances for the instance buffer.
	//
	// Returns:
	//   - []byte: 8 bytes per instance
	MarshalInstances() []byte

	// CenterOffset returns the translation that moves the grid center to the origin.
	//
	// Returns:
	//   - mgl32.Vec3: -Dimensions/2
	CenterOffset() mgl32.Vec3

	// Bounds returns the axis-aligned box enclosing every filled voxel cell.
	// Both corners are zero for an empty model.
	//
	// Returns:
	//   - mgl32.Vec3: minimum corner
	//   - mgl32.Vec3: maximum corner
	Bounds() (mgl32.Vec3, mgl32.Vec3)
}

var _ VoxelModel = &voxelModel{}

// NewVoxelModel creates a new VoxelModel instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of VoxelModelBuilderOption functions to configure the model
//
// Returns:
//   - VoxelModel: a new instance of VoxelModel configured with the provided options
func NewVoxelModel(options ...VoxelModelBuilderOption) VoxelModel {
	m := &voxelModel{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *voxelModel) Name() string {
	return m.name
}

func (m *voxelModel) Instances() []GPUInstance {
	return m.instances
}

func (m *voxelModel) Dimensions() mgl32.Vec3 {
	return m.dimensions
}

func (m *voxelModel) InstanceCount() int {
	return len(m.instances)
}

func (m *voxelModel) MarshalInstances() []byte {
	// GPUInstance is all bytes, so the in-memory view is already the wire layout.
	return append([]byte(nil), common.SliceToBytes(m.instances)...)
}

func (m *voxelModel) CenterOffset() mgl32.Vec3 {
	return m.dimensions.Mul(-0.5)
}

func (m *voxelModel) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(m.instances) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}

	lo := [3]uint8{255, 255, 255}
	var hi [3]uint8
	for _, inst := range m.instances {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = min(lo[axis], inst.Position[axis])
			hi[axis] = max(hi[axis], inst.Position[axis])
		}
	}
	return mgl32.Vec3{float32(lo[0]), float32(lo[1]), float32(lo[2])},
		mgl32.Vec3{float32(hi[0]) + 1, float32(hi[1]) + 1, float32(hi[2]) + 1}
}
