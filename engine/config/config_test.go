package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/colornames"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Window.Title != "voxview" || c.Window.Width != 1280 || c.Window.Height != 720 {
		t.Errorf("unexpected window defaults: %+v", c.Window)
	}
	if c.Camera.Position != nil {
		t.Errorf("expected no default position, got %v", *c.Camera.Position)
	}
	if *c.Camera.YawDegrees != 45 || *c.Camera.PitchDegrees != -20 {
		t.Errorf("unexpected default angles: %v, %v", *c.Camera.YawDegrees, *c.Camera.PitchDegrees)
	}
	if c.Renderer.PresentMode != PresentModeVSync || c.Renderer.MSAA != 1 {
		t.Errorf("unexpected renderer defaults: %+v", c.Renderer)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParseOverridesAndKeepsDefaults(t *testing.T) {
	data := []byte(`
window:
  title: castle
camera:
  position: [1, 2, 3]
  yaw_degrees: 0
  speed: 5
renderer:
  present_mode: Uncapped
  msaa: 4
  clear_color: CornflowerBlue
model:
  path: models/castle.vox
  watch: true
`)

	c, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Window.Title != "castle" || c.Window.Width != 1280 {
		t.Errorf("unexpected window: %+v", c.Window)
	}
	if c.Camera.Position == nil || *c.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("unexpected position: %v", c.Camera.Position)
	}
	if *c.Camera.YawDegrees != 0 {
		t.Errorf("expected explicit zero yaw to be kept, got %v", *c.Camera.YawDegrees)
	}
	if *c.Camera.PitchDegrees != -20 {
		t.Errorf("expected default pitch, got %v", *c.Camera.PitchDegrees)
	}
	if c.Camera.Speed != 5 || c.Camera.Sensitivity != 0.4 {
		t.Errorf("unexpected controller tuning: %v, %v", c.Camera.Speed, c.Camera.Sensitivity)
	}
	if c.Renderer.PresentMode != PresentModeUncapped || c.Renderer.MSAA != 4 {
		t.Errorf("unexpected renderer: %+v", c.Renderer)
	}
	if got, _ := c.Renderer.ClearRGBA(); got != colornames.Cornflowerblue {
		t.Errorf("expected cornflowerblue, got %v", got)
	}
	if c.Model.Path != "models/castle.vox" || !c.Model.Watch {
		t.Errorf("unexpected model: %+v", c.Model)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative width", "window: {width: -1}"},
		{"far before near", "camera: {z_near: 10, z_far: 5}"},
		{"fov too wide", "camera: {fov_y_degrees: 180}"},
		{"boost below one", "camera: {boost: 0.5}"},
		{"present mode", "renderer: {present_mode: mailbox}"},
		{"msaa", "renderer: {msaa: 2}"},
		{"color name", "renderer: {clear_color: notacolor}"},
		{"color hex", "renderer: {clear_color: '#12345'}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := Parse([]byte("window: [")); err == nil {
		t.Error("expected a YAML error")
	}
}

func TestClearRGBAHex(t *testing.T) {
	r := RendererConfig{ClearColor: "#1A2b3C"}
	got, err := r.ClearRGBA()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (color.RGBA{0x1a, 0x2b, 0x3c, 0xff}) {
		t.Errorf("unexpected color %v", got)
	}
}

func TestAngleConversions(t *testing.T) {
	c := Default()
	*c.Camera.YawDegrees = 180
	*c.Camera.PitchDegrees = -90
	c.Camera.FovYDegrees = 90

	if got := c.Camera.YawRadians(); got < 3.1415 || got > 3.1417 {
		t.Errorf("expected π, got %v", got)
	}
	if got := c.Camera.PitchRadians(); got > -1.5707 || got < -1.5709 {
		t.Errorf("expected -π/2, got %v", got)
	}
	if got := c.Camera.FovYRadians(); got < 1.5707 || got > 1.5709 {
		t.Errorf("expected π/2, got %v", got)
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for a missing file, got %v", err)
	}
	if c.Window.Width != 1280 {
		t.Errorf("expected default width, got %d", c.Window.Width)
	}

	path := filepath.Join(dir, "voxview.yaml")
	if err := os.WriteFile(path, []byte("window: {width: 640}"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Window.Width != 640 {
		t.Errorf("expected width 640, got %d", c.Window.Width)
	}

	if err := os.WriteFile(path, []byte("renderer: {msaa: 3}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
