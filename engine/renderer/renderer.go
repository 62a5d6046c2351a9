package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/Carmen-Shannon/oxy-vox/engine/camera"
	"github.com/Carmen-Shannon/oxy-vox/engine/model"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vox/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed assets/voxel.wgsl
var voxelShaderSource string

// VoxelPipelineKey is the cache key and GPU label of the voxel pipeline.
const VoxelPipelineKey = "voxel"

// ErrPipelineNotReady is returned when drawing or uploading before InitVoxelPipeline.
var ErrPipelineNotReady = errors.New("voxel pipeline not initialized")

const (
	cameraGroup = 0
	modelGroup  = 1
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	voxelPipeline  pipeline.Pipeline
	cameraProvider bind_group_provider.BindGroupProvider
	modelProvider  bind_group_provider.BindGroupProvider
	meshProvider   bind_group_provider.BindGroupProvider

	width, height int

	// World-space box around the uploaded model and whether the last camera can see it.
	hasBounds    bool
	boundsLo     mgl32.Vec3
	boundsHi     mgl32.Vec3
	modelVisible bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *color.RGBA
}

// Renderer draws one voxel model as instanced unit cubes under a camera.
//
// Usage per frame: WriteCamera with the current camera uniform, then DrawFrame.
// UploadModel may be called at any time to replace the model being drawn.
type Renderer interface {
	// InitVoxelPipeline builds the voxel shader, creates the camera and model bind groups,
	// the shared cube mesh buffers and the render pipeline.
	//
	// Returns:
	//   - error: an error if the shader or a GPU object could not be created
	InitVoxelPipeline() error

	// UploadModel replaces the drawn model: its instances and its centering offset.
	// An empty model clears the scene.
	//
	// Parameters:
	//   - m: the model to draw
	//
	// Returns:
	//   - error: ErrPipelineNotReady, or an error if the instance buffer could not be created
	UploadModel(m model.VoxelModel) error

	// WriteCamera uploads the camera uniform used by the next DrawFrame.
	//
	// Parameters:
	//   - u: the camera uniform
	WriteCamera(u camera.GPUCameraUniform)

	// DrawFrame clears the surface, draws the current model and presents.
	// A zero-sized surface (minimized window) draws nothing.
	//
	// Returns:
	//   - error: ErrPipelineNotReady, or an error if the surface texture could not be acquired
	DrawFrame() error

	// Resize reconfigures the surface and the depth target.
	//
	// Parameters:
	//   - width: new framebuffer width in pixels
	//   - height: new framebuffer height in pixels
	//
	// Returns:
	//   - error: an error if the render targets could not be recreated
	Resize(width, height int) error

	// SetPresentMode switches the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: VSync or Uncapped
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	SetPresentMode(mode PresentMode) error

	// SetClearColor sets the background color.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c color.RGBA)

	// Release frees every GPU resource. The Renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer with the specified backend type and window surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial framebuffer size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer with a configured surface
//   - error: an error if no adapter or device is available
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		width:       win.Width(),
		height:      win.Height(),
	}

	// Options first so the fallback flag and sample count are known before the adapter request.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAAOff
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, fmt.Errorf("create renderer backend: %w", err)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(toWGPUColor(*r.pendingClearColor))
	}

	if r.hasSurface() {
		if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
			r.backend.Release()
			return nil, err
		}
	}
	return r, nil
}

func (r *renderer) InitVoxelPipeline() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, layouts, err := buildVoxelShader()
	if err != nil {
		return err
	}

	r.cameraProvider = bind_group_provider.NewBindGroupProvider("Camera")
	var cu camera.GPUCameraUniform
	if err := r.backend.InitBindGroup(r.cameraProvider, layouts[cameraGroup], map[int]uint64{0: uint64(cu.Size())}); err != nil {
		return err
	}

	r.modelProvider = bind_group_provider.NewBindGroupProvider("Model")
	if err := r.backend.InitBindGroup(r.modelProvider, layouts[modelGroup], map[int]uint64{0: 16}); err != nil {
		return err
	}

	r.meshProvider = bind_group_provider.NewBindGroupProvider("Voxel Cube")
	if err := r.backend.InitMeshBuffers(r.meshProvider, model.MarshalCubeVertices(), model.MarshalCubeIndices(), len(model.CubeIndices)); err != nil {
		return err
	}

	r.voxelPipeline = pipeline.NewPipeline(VoxelPipelineKey,
		pipeline.WithSource(source, len(layouts)),
		pipeline.WithVertexLayouts(model.VertexBufferLayout(), model.InstanceBufferLayout()),
	)
	return r.backend.RegisterRenderPipeline(r.voxelPipeline, r.bindGroups())
}

func (r *renderer) UploadModel(m model.VoxelModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.voxelPipeline == nil {
		return ErrPipelineNotReady
	}

	mu := model.NewModelUniform(m)
	r.backend.WriteBuffer(r.modelProvider, 0, mu.Marshal())
	if err := r.backend.UploadInstances(r.meshProvider, m.MarshalInstances(), m.InstanceCount()); err != nil {
		return err
	}

	r.hasBounds = m.InstanceCount() > 0
	r.boundsLo, r.boundsHi = worldBounds(m)
	r.modelVisible = true
	return nil
}

func (r *renderer) WriteCamera(u camera.GPUCameraUniform) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cameraProvider == nil {
		return
	}
	r.backend.WriteBuffer(r.cameraProvider, 0, u.Marshal())

	if r.hasBounds {
		frustum := common.ExtractFrustum(u.ViewProj)
		r.modelVisible = frustum.IntersectsAABB(r.boundsLo, r.boundsHi)
	}
}

func (r *renderer) DrawFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.voxelPipeline == nil {
		return ErrPipelineNotReady
	}
	if !r.hasSurface() {
		return nil
	}

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	// The pass still runs when the model is culled so the surface is cleared.
	if r.hasBounds && r.modelVisible {
		r.backend.DrawCall(r.voxelPipeline, r.meshProvider, r.bindGroups())
	}
	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	if !r.hasSurface() {
		return nil
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.SetPresentMode(mode)
	if !r.hasSurface() {
		return nil
	}
	return r.backend.ConfigureSurface(r.width, r.height)
}

func (r *renderer) SetClearColor(c color.RGBA) {
	r.backend.SetClearColor(toWGPUColor(c))
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.voxelPipeline != nil {
		r.voxelPipeline.Release()
		r.voxelPipeline = nil
	}
	for _, p := range []bind_group_provider.BindGroupProvider{r.cameraProvider, r.modelProvider, r.meshProvider} {
		if p != nil {
			p.Release()
		}
	}
	r.backend.Release()
}

// bindGroups returns the uniform providers in group order. Callers hold r.mu.
func (r *renderer) bindGroups() []bind_group_provider.BindGroupProvider {
	return []bind_group_provider.BindGroupProvider{r.cameraProvider, r.modelProvider}
}

func (r *renderer) hasSurface() bool {
	return r.width > 0 && r.height > 0
}

// buildVoxelShader expands the voxel shader and derives its bind group layouts.
func buildVoxelShader() (string, []wgpu.BindGroupLayoutDescriptor, error) {
	pp := shader.NewPreProcessor()
	source, err := pp.Process(voxelShaderSource)
	if err != nil {
		return "", nil, fmt.Errorf("voxel shader: %w", err)
	}
	layouts, err := shader.BindGroupLayouts(pp.Declarations())
	if err != nil {
		return "", nil, fmt.Errorf("voxel shader: %w", err)
	}
	if len(layouts) != 2 {
		return "", nil, fmt.Errorf("voxel shader: expected 2 bind groups, got %d", len(layouts))
	}
	return source, layouts, nil
}

// worldBounds maps the model's filled cells through the centering offset and the
// Z-up to Y-up rotation the voxel shader applies: (x, y, z) -> (x, z, -y).
func worldBounds(m model.VoxelModel) (mgl32.Vec3, mgl32.Vec3) {
	lo, hi := m.Bounds()
	offset := m.CenterOffset()
	lo, hi = lo.Add(offset), hi.Add(offset)
	return mgl32.Vec3{lo.X(), lo.Z(), -hi.Y()}, mgl32.Vec3{hi.X(), hi.Z(), -lo.Y()}
}

func toWGPUColor(c color.RGBA) wgpu.Color {
	return wgpu.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}
