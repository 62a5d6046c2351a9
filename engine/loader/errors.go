package loader

import "errors"

var (
	// ErrInvalidVoxFile is returned when a .vox file is truncated or structurally malformed.
	ErrInvalidVoxFile = errors.New("invalid vox file")

	// ErrUnsupportedFormat is returned when no backend handles a file extension.
	ErrUnsupportedFormat = errors.New("unsupported model format")
)

// ErrEmptyModel is returned when exporting a model with no voxels.
var ErrEmptyModel = errors.New("model has no voxels")
