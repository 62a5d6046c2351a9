package model

import "github.com/go-gl/mathgl/mgl32"

// VoxelModelBuilderOption is a functional option for configuring a VoxelModel via NewVoxelModel.
type VoxelModelBuilderOption func(*voxelModel)

// WithName is an option builder that sets the name of the VoxelModel.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - VoxelModelBuilderOption: a function that applies the name option to a model
func WithName(name string) VoxelModelBuilderOption {
	return func(m *voxelModel) {
		m.name = name
	}
}

// WithInstances is an option builder that sets the voxel instances of the VoxelModel.
//
// Parameters:
//   - instances: one entry per filled voxel
//
// Returns:
//   - VoxelModelBuilderOption: a function that applies the instances option to a model
func WithInstances(instances []GPUInstance) VoxelModelBuilderOption {
	return func(m *voxelModel) {
		m.instances = instances
	}
}

// WithDimensions is an option builder that sets the grid size of the VoxelModel.
//
// Parameters:
//   - dims: grid size in voxels
//
// Returns:
//   - VoxelModelBuilderOption: a function that applies the dimensions option to a model
func WithDimensions(dims mgl32.Vec3) VoxelModelBuilderOption {
	return func(m *voxelModel) {
		m.dimensions = dims
	}
}
