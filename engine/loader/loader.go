package loader

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-vox/engine/model"
)

// LoaderBackendType identifies a voxel file format backend.
type LoaderBackendType int

const (
	// BackendTypeVox selects the MagicaVoxel .vox backend.
	BackendTypeVox LoaderBackendType = iota
	// BackendTypeGLB selects the backend for GLB files written by ExportGLB.
	BackendTypeGLB
)

// conversionChunk is the number of voxels one pool task converts to instances.
const conversionChunk = 4096

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.VoxelModel

	backends map[LoaderBackendType]loaderBackend

	workers int
	pool    worker.DynamicWorkerPool
}

// Loader defines the public-facing interface for loading and caching voxel models.
// It hides the file format behind a backend chosen by file extension and keeps a cache
// of previously loaded models keyed by the cleaned path (filepath.Clean), the same form
// a Watcher reports.
type Loader interface {
	// Load decodes a voxel file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.vox, .glb).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.VoxelModel: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.VoxelModel, error)

	// Reload decodes a voxel file regardless of the cache and replaces the cached entry.
	// Used when the file changes on disk.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.VoxelModel: the freshly loaded model
	//   - error: error if loading fails; the cached entry is left untouched
	Reload(path string) (model.VoxelModel, error)

	// LoadReader decodes a model from a reader stream and caches it by the given name.
	// The name's extension selects the backend.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.VoxelModel: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.VoxelModel, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.VoxelModel: the cached model or nil
	Get(name string) model.VoxelModel

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.VoxelModel: all cached models keyed by name
	Models() map[string]model.VoxelModel
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with every backend registered and the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.VoxelModel),
		backends: map[LoaderBackendType]loaderBackend{
			BackendTypeVox: newVoxLoaderBackend(),
			BackendTypeGLB: newGLTFLoaderBackend(),
		},
		workers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(l)
	}

	// Created after options so WithWorkers can override the default.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (model.VoxelModel, error) {
	path = filepath.Clean(path)
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	return l.Reload(path)
}

func (l *loader) Reload(path string) (model.VoxelModel, error) {
	path = filepath.Clean(path)
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	log.Printf("Loading %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	imported, err := backend.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m := l.importedToModel(path, imported)

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (model.VoxelModel, error) {
	name = filepath.Clean(name)
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(name)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m := l.importedToModel(name, imported)

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.VoxelModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[filepath.Clean(name)]
}

func (l *loader) Models() map[string]model.VoxelModel {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.VoxelModel, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".vox":
		return l.backends[BackendTypeVox], nil
	case ".glb":
		return l.backends[BackendTypeGLB], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// importedToModel resolves every voxel against the palette and flattens all sub-models
// into one instance list. Conversion is split into chunks on the worker pool; each chunk
// writes a disjoint range of the output slice.
//
// Parameters:
//   - name: the model name
//   - imported: the decoded scene
//
// Returns:
//   - model.VoxelModel: the engine-ready model
func (l *loader) importedToModel(name string, imported *model.ImportedScene) model.VoxelModel {
	instances := make([]model.GPUInstance, imported.VoxelCount())
	palette := &imported.Palette

	var wg sync.WaitGroup
	taskID := 0
	offset := 0
	for _, sub := range imported.Models {
		for start := 0; start < len(sub.Voxels); start += conversionChunk {
			voxels := sub.Voxels[start:min(start+conversionChunk, len(sub.Voxels))]
			out := instances[offset : offset+len(voxels)]
			offset += len(voxels)

			wg.Add(1)
			id := taskID
			taskID++
			l.pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()
					for i, v := range voxels {
						out[i] = palette.Instance(v)
					}
					return nil, nil
				},
			})
		}
	}
	wg.Wait()

	return model.NewVoxelModel(
		model.WithName(name),
		model.WithInstances(instances),
		model.WithDimensions(imported.Dimensions()),
	)
}
