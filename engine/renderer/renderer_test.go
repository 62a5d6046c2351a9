package renderer

import (
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-vox/engine/camera"
	"github.com/Carmen-Shannon/oxy-vox/engine/model"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeBackend records the calls a renderer makes without touching a GPU.
type fakeBackend struct {
	configured  [][2]int
	presentMode PresentMode
	clearColor  wgpu.Color
	bindGroups  map[string]map[int]uint64
	pipelines   []string
	meshIndices int
	instances   []int
	writes      map[string][]byte
	draws       int
	frames      int
	beginErr    error
	released    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		bindGroups: make(map[string]map[int]uint64),
		writes:     make(map[string][]byte),
	}
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.configured = append(f.configured, [2]int{width, height})
	return nil
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }

func (f *fakeBackend) SetClearColor(c wgpu.Color) { f.clearColor = c }

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizes map[int]uint64) error {
	f.bindGroups[provider.Label()] = bufferSizes
	return nil
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline, groups []bind_group_provider.BindGroupProvider) error {
	if len(groups) != p.BindGroupCount() {
		return errors.New("bind group count mismatch")
	}
	f.pipelines = append(f.pipelines, p.PipelineKey())
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	provider.SetIndexCount(indexCount)
	f.meshIndices = indexCount
	return nil
}

func (f *fakeBackend) UploadInstances(provider bind_group_provider.BindGroupProvider, data []byte, count int) error {
	f.instances = append(f.instances, count)
	return nil
}

func (f *fakeBackend) WriteBuffer(provider bind_group_provider.BindGroupProvider, binding int, data []byte) {
	f.writes[provider.Label()] = data
}

func (f *fakeBackend) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.frames++
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) {
	f.draws++
}

func (f *fakeBackend) EndFrame() {}

func (f *fakeBackend) Present() {}

func (f *fakeBackend) Release() { f.released = true }

func newTestRenderer(width, height int) (*renderer, *fakeBackend) {
	fb := newFakeBackend()
	return &renderer{mu: &sync.Mutex{}, backend: fb, width: width, height: height}, fb
}

func TestBuildVoxelShader(t *testing.T) {
	source, layouts, err := buildVoxelShader()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"struct CameraUniform",
		"struct ModelUniform",
		"struct VertexInput",
		"struct InstanceInput",
		"@group(0) @binding(0) var<uniform> camera: CameraUniform;",
		"@group(1) @binding(0) var<uniform> model: ModelUniform;",
		"fn vs_main",
		"fn fs_main",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("expected voxel shader to contain %q", want)
		}
	}
	if len(layouts) != 2 {
		t.Fatalf("expected 2 bind group layouts, got %d", len(layouts))
	}
}

func TestInitVoxelPipeline(t *testing.T) {
	r, fb := newTestRenderer(800, 600)

	if err := r.InitVoxelPipeline(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb.pipelines) != 1 || fb.pipelines[0] != VoxelPipelineKey {
		t.Errorf("expected the voxel pipeline to be registered, got %v", fb.pipelines)
	}
	if fb.bindGroups["Camera"][0] != 80 || fb.bindGroups["Model"][0] != 16 {
		t.Errorf("unexpected uniform buffer sizes %v", fb.bindGroups)
	}
	if fb.meshIndices != 36 {
		t.Errorf("expected 36 cube indices, got %d", fb.meshIndices)
	}
}

func TestRequiresPipeline(t *testing.T) {
	r, _ := newTestRenderer(800, 600)

	if err := r.DrawFrame(); !errors.Is(err, ErrPipelineNotReady) {
		t.Errorf("expected ErrPipelineNotReady from DrawFrame, got %v", err)
	}
	if err := r.UploadModel(model.NewVoxelModel()); !errors.Is(err, ErrPipelineNotReady) {
		t.Errorf("expected ErrPipelineNotReady from UploadModel, got %v", err)
	}
	// Writing the camera early is a no-op rather than a crash.
	r.WriteCamera(camera.GPUCameraUniform{})
}

func TestUploadModelWritesOffsetAndInstances(t *testing.T) {
	r, fb := newTestRenderer(800, 600)
	if err := r.InitVoxelPipeline(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := model.NewVoxelModel(
		model.WithInstances(make([]model.GPUInstance, 5)),
		model.WithDimensions(mgl32.Vec3{2, 4, 6}),
	)
	if err := r.UploadModel(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fb.instances) != 1 || fb.instances[0] != 5 {
		t.Errorf("expected 5 instances uploaded, got %v", fb.instances)
	}
	want := model.NewModelUniform(m)
	if got := fb.writes["Model"]; string(got) != string(want.Marshal()) {
		t.Errorf("expected model uniform %v, got %v", want.Marshal(), got)
	}
}

func TestDrawFrame(t *testing.T) {
	r, fb := newTestRenderer(800, 600)
	if err := r.InitVoxelPipeline(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.DrawFrame(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.frames != 1 || fb.draws != 0 {
		t.Errorf("expected a cleared frame without a draw before any model, got %d/%d", fb.frames, fb.draws)
	}

	if err := r.UploadModel(model.NewVoxelModel(
		model.WithInstances(make([]model.GPUInstance, 1)),
		model.WithDimensions(mgl32.Vec3{1, 1, 1}),
	)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ten units back along -X, facing the origin.
	cam := camera.NewCamera(camera.WithPosition(-10, 0, 0))
	u := camera.NewCameraUniform(cam, camera.NewProjection(800, 600, 1, 0.1, 100))
	r.WriteCamera(u)
	if got := fb.writes["Camera"]; len(got) != 80 {
		t.Fatalf("expected 80 camera bytes, got %d", len(got))
	}

	if err := r.DrawFrame(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.frames != 2 || fb.draws != 1 {
		t.Errorf("expected a second frame with one draw, got %d/%d", fb.frames, fb.draws)
	}

	fb.beginErr = errors.New("surface lost")
	if err := r.DrawFrame(); err == nil || !errors.Is(err, fb.beginErr) {
		t.Errorf("expected wrapped surface error, got %v", err)
	}
}

func TestModelOutsideViewIsCulled(t *testing.T) {
	r, fb := newTestRenderer(800, 600)
	if err := r.InitVoxelPipeline(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.UploadModel(model.NewVoxelModel(
		model.WithInstances(make([]model.GPUInstance, 1)),
		model.WithDimensions(mgl32.Vec3{1, 1, 1}),
	)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proj := camera.NewProjection(800, 600, 1, 0.1, 100)

	// Facing +X from ten units along +X puts the model behind the camera.
	r.WriteCamera(camera.NewCameraUniform(camera.NewCamera(camera.WithPosition(10, 0, 0)), proj))
	if err := r.DrawFrame(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.frames != 1 || fb.draws != 0 {
		t.Errorf("expected a cleared frame with the model culled, got %d/%d", fb.frames, fb.draws)
	}

	r.WriteCamera(camera.NewCameraUniform(camera.NewCamera(camera.WithPosition(-10, 0, 0)), proj))
	if err := r.DrawFrame(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.draws != 1 {
		t.Errorf("expected the model drawn once back in view, got %d draws", fb.draws)
	}
}

func TestWorldBounds(t *testing.T) {
	instances := []model.GPUInstance{
		{Position: [4]uint8{0, 0, 0, 0}},
		{Position: [4]uint8{3, 1, 5, 0}},
	}
	m := model.NewVoxelModel(model.WithInstances(instances), model.WithDimensions(mgl32.Vec3{4, 2, 6}))

	// Local cells span [-2, 2] x [-1, 1] x [-3, 3]; Z becomes up and Y points into -Z.
	lo, hi := worldBounds(m)
	if lo != (mgl32.Vec3{-2, -3, -1}) || hi != (mgl32.Vec3{2, 3, 1}) {
		t.Errorf("expected (-2,-3,-1)..(2,3,1), got %v..%v", lo, hi)
	}
}

func TestZeroSizedSurfaceSkipsWork(t *testing.T) {
	r, fb := newTestRenderer(800, 600)
	if err := r.InitVoxelPipeline(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Resize(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.DrawFrame(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb.configured) != 0 || fb.frames != 0 {
		t.Errorf("expected no surface work while minimized, got %v configures and %d frames", fb.configured, fb.frames)
	}

	if err := r.Resize(1024, 768); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb.configured) != 1 || fb.configured[0] != [2]int{1024, 768} {
		t.Errorf("expected reconfigure to 1024x768, got %v", fb.configured)
	}
}

func TestPresentModeAndClearColor(t *testing.T) {
	r, fb := newTestRenderer(640, 480)

	if err := r.SetPresentMode(PresentModeUncapped); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.presentMode != PresentModeUncapped || len(fb.configured) != 1 {
		t.Errorf("expected uncapped mode with a reconfigure, got %v/%v", fb.presentMode, fb.configured)
	}

	r.SetClearColor(color.RGBA{R: 255, G: 0, B: 51, A: 255})
	if fb.clearColor != (wgpu.Color{R: 1, G: 0, B: 0.2, A: 1}) {
		t.Errorf("unexpected clear color %+v", fb.clearColor)
	}

	r.Release()
	if !fb.released {
		t.Error("expected backend released")
	}
}

func TestParseRendererSettings(t *testing.T) {
	if m, err := ParsePresentMode("uncapped"); err != nil || m != PresentModeUncapped {
		t.Errorf("expected uncapped, got %v (%v)", m, err)
	}
	if _, err := ParsePresentMode("adaptive"); err == nil {
		t.Error("expected error for unknown present mode")
	}
	if c, err := ParseMSAASampleCount(4); err != nil || c != MSAA4x {
		t.Errorf("expected 4x, got %v (%v)", c, err)
	}
	if _, err := ParseMSAASampleCount(2); err == nil {
		t.Error("expected error for 2 samples")
	}
}
