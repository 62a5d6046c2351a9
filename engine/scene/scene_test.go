package scene

import (
	"errors"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/Carmen-Shannon/oxy-vox/engine/camera"
	"github.com/Carmen-Shannon/oxy-vox/engine/model"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vox/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeRenderer struct {
	uploaded []model.VoxelModel
	camera   camera.GPUCameraUniform
	draws    int
	resized  [][2]int
	err      error
}

func (f *fakeRenderer) InitVoxelPipeline() error { return nil }

func (f *fakeRenderer) UploadModel(m model.VoxelModel) error {
	if f.err != nil {
		return f.err
	}
	f.uploaded = append(f.uploaded, m)
	return nil
}

func (f *fakeRenderer) WriteCamera(u camera.GPUCameraUniform) { f.camera = u }

func (f *fakeRenderer) DrawFrame() error {
	f.draws++
	return f.err
}

func (f *fakeRenderer) Resize(width, height int) error {
	f.resized = append(f.resized, [2]int{width, height})
	return nil
}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) error { return nil }

func (f *fakeRenderer) SetClearColor(c color.RGBA) {}

func (f *fakeRenderer) Release() {}

var _ renderer.Renderer = &fakeRenderer{}

func approxVec3(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-4)
}

func TestSetModelUploads(t *testing.T) {
	fr := &fakeRenderer{}
	s := NewScene(WithRenderer(fr))
	m := model.NewVoxelModel(model.WithName("castle"))

	if err := s.SetModel(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Model() != m || len(fr.uploaded) != 1 {
		t.Errorf("expected model stored and uploaded once, got %d uploads", len(fr.uploaded))
	}

	fr.err = errors.New("out of memory")
	other := model.NewVoxelModel(model.WithName("tower"))
	if err := s.SetModel(other); !errors.Is(err, fr.err) {
		t.Errorf("expected wrapped upload error, got %v", err)
	}
	if s.Model() != m {
		t.Error("expected the previous model kept after a failed upload")
	}
}

func TestSetModelRejectsNil(t *testing.T) {
	fr := &fakeRenderer{}
	s := NewScene(WithRenderer(fr))
	m := model.NewVoxelModel(model.WithName("castle"))
	if err := s.SetModel(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.SetModel(nil); !errors.Is(err, ErrNilModel) {
		t.Errorf("expected ErrNilModel, got %v", err)
	}
	if s.Model() != m || len(fr.uploaded) != 1 {
		t.Errorf("expected nothing uploaded or replaced, got %d uploads", len(fr.uploaded))
	}
	if err := NewScene().SetModel(nil); !errors.Is(err, ErrNilModel) {
		t.Errorf("expected ErrNilModel without a renderer, got %v", err)
	}
}

func TestFrameModel(t *testing.T) {
	cam := camera.NewCamera(camera.WithYaw(0), camera.WithPitch(0))
	s := NewScene(WithCamera(cam), WithFrameDistance(2))

	s.FrameModel()
	if cam.Position != (mgl32.Vec3{}) {
		t.Errorf("expected no move without a model, got %v", cam.Position)
	}

	if err := s.SetModel(model.NewVoxelModel(model.WithDimensions(mgl32.Vec3{8, 20, 4}))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.FrameModel()

	// Facing +X, so the camera backs off along -X by 20 * 2.
	if !approxVec3(cam.Position, mgl32.Vec3{-40, 0, 0}) {
		t.Errorf("expected (-40, 0, 0), got %v", cam.Position)
	}
	if cam.Yaw != 0 || cam.Pitch != 0 {
		t.Errorf("expected orientation unchanged, got %v/%v", cam.Yaw, cam.Pitch)
	}
}

func TestFrameModelResetKey(t *testing.T) {
	cam := camera.NewCamera(camera.WithPosition(5, 5, 5), camera.WithPitch(-0.3))
	s := NewScene(WithCamera(cam))
	_ = s.SetModel(model.NewVoxelModel(model.WithDimensions(mgl32.Vec3{2, 2, 2})))

	s.HandleKey(common.KeyR, false)
	if cam.Position != (mgl32.Vec3{5, 5, 5}) {
		t.Fatalf("expected release of R to do nothing, got %v", cam.Position)
	}

	s.HandleKey(common.KeyR, true)
	dist := cam.Position.Len()
	if math.Abs(float64(dist-2*defaultFrameDistance)) > 1e-4 {
		t.Errorf("expected distance %v from the origin, got %v", 2*defaultFrameDistance, dist)
	}
	if !approxVec3(cam.Position.Normalize(), cam.Direction().Mul(-1)) {
		t.Errorf("expected camera to look at the origin, position %v direction %v", cam.Position, cam.Direction())
	}
}

func TestBoost(t *testing.T) {
	cc := camera.NewCameraController(10, 1)
	s := NewScene(WithController(cc), WithBoost(3))

	if s.Boosted() {
		t.Fatal("expected no boost before the key is pressed")
	}
	s.HandleKey(common.KeyLeftAlt, true)
	if cc.Speed() != 30 || !s.Boosted() {
		t.Errorf("expected boosted speed 30, got %v (boosted %v)", cc.Speed(), s.Boosted())
	}
	s.HandleKey(common.KeyLeftAlt, true)
	if cc.Speed() != 30 {
		t.Errorf("expected key repeat not to compound the boost, got %v", cc.Speed())
	}
	s.HandleKey(common.KeyLeftAlt, false)
	if cc.Speed() != 10 || s.Boosted() {
		t.Errorf("expected base speed 10 after release, got %v (boosted %v)", cc.Speed(), s.Boosted())
	}
}

func TestMovementKeysReachController(t *testing.T) {
	cam := camera.NewCamera()
	s := NewScene(WithCamera(cam), WithController(camera.NewCameraController(2, 1)))

	s.HandleKey(common.KeyW, true)
	s.Update(time.Second)
	if !approxVec3(cam.Position, mgl32.Vec3{2, 0, 0}) {
		t.Fatalf("expected (2, 0, 0), got %v", cam.Position)
	}

	s.HandleKey(common.KeyW, false)
	s.Update(time.Second)
	if !approxVec3(cam.Position, mgl32.Vec3{2, 0, 0}) {
		t.Errorf("expected no movement after release, got %v", cam.Position)
	}
}

func TestMouseLookRequiresLeftButton(t *testing.T) {
	cam := camera.NewCamera()
	var captures []bool
	s := NewScene(
		WithCamera(cam),
		WithController(camera.NewCameraController(1, 1)),
		WithCursorCapture(func(c bool) { captures = append(captures, c) }),
	)

	s.HandleMouseMotion(0.5, 0)
	s.Update(time.Second)
	if cam.Yaw != 0 {
		t.Fatalf("expected motion ignored without a button, got yaw %v", cam.Yaw)
	}

	s.HandleMouseButton(window.MouseButtonRight, true)
	if s.Rotating() {
		t.Fatal("expected right button not to start mouse-look")
	}

	s.HandleMouseButton(window.MouseButtonLeft, true)
	s.HandleMouseButton(window.MouseButtonLeft, true)
	s.HandleMouseMotion(0.5, 0)
	s.Update(time.Second)
	if math.Abs(float64(cam.Yaw-0.5)) > 1e-5 {
		t.Errorf("expected yaw 0.5 while dragging, got %v", cam.Yaw)
	}

	s.HandleMouseButton(window.MouseButtonLeft, false)
	if s.Rotating() {
		t.Error("expected mouse-look to stop on release")
	}
	if len(captures) != 2 || !captures[0] || captures[1] {
		t.Errorf("expected one capture and one release, got %v", captures)
	}
}

func TestScrollDollies(t *testing.T) {
	cam := camera.NewCamera()
	s := NewScene(WithCamera(cam), WithController(camera.NewCameraController(0.01, 1)))

	s.HandleScroll(0, -1)
	s.Update(time.Second)

	// A downward scroll is stored as +100 and dollies forward: 100 * 0.01 along +X.
	if !approxVec3(cam.Position, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected (1, 0, 0), got %v", cam.Position)
	}
}

func TestResize(t *testing.T) {
	fr := &fakeRenderer{}
	proj := camera.NewProjection(100, 100, 1, 0.1, 10)
	s := NewScene(WithRenderer(fr), WithProjection(proj))

	if err := s.Resize(200, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Aspect() != 2 {
		t.Errorf("expected aspect 2, got %v", proj.Aspect())
	}

	if err := s.Resize(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Aspect() != 2 {
		t.Errorf("expected aspect kept while minimized, got %v", proj.Aspect())
	}
	if len(fr.resized) != 2 {
		t.Errorf("expected both sizes forwarded to the renderer, got %v", fr.resized)
	}
}

func TestDrawWritesCamera(t *testing.T) {
	fr := &fakeRenderer{}
	cam := camera.NewCamera(camera.WithPosition(1, 2, 3))
	proj := camera.NewProjection(4, 3, 1, 0.1, 100)
	s := NewScene(WithRenderer(fr), WithCamera(cam), WithProjection(proj))

	if err := s.Draw(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr.draws != 1 {
		t.Errorf("expected one draw, got %d", fr.draws)
	}
	if fr.camera != camera.NewCameraUniform(cam, proj) {
		t.Errorf("expected the current camera uniform to be written")
	}
}

func TestNoRendererIsSafe(t *testing.T) {
	s := NewScene()
	if err := s.SetModel(model.NewVoxelModel()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := s.Resize(640, 480); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := s.Draw(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
