package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-vox/engine/model"
)

// loaderBackend defines the generic interface for decoding voxel files.
// Concrete implementations (voxLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode reads a complete file from r.
	//
	// Parameters:
	//   - r: the reader providing file data
	//
	// Returns:
	//   - *model.ImportedScene: the decoded sub-models and palette
	//   - error: error if decoding fails
	Decode(r io.Reader) (*model.ImportedScene, error)
}
