// Package config loads the viewer configuration from a YAML file. Every field is optional;
// missing values fall back to the defaults below.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-vox/common"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "voxview.yaml"

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Present modes accepted by renderer.present_mode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

const (
	defaultTitle         = "voxview"
	defaultWidth         = 1280
	defaultHeight        = 720
	defaultFovYDegrees   = 45
	defaultZNear         = 0.1
	defaultZFar          = 1000
	defaultSpeed         = 20
	defaultSensitivity   = 0.4
	defaultBoost         = 4
	defaultYawDegrees    = 45
	defaultPitchDegrees  = -20
	defaultMSAA          = 1
	defaultClearColor    = "darkslategray"
	defaultFrameDistance = 1.5
)

// Config is the root of the voxview.yaml document.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Renderer RendererConfig `yaml:"renderer"`
	Model    ModelConfig    `yaml:"model"`
}

// WindowConfig sets the window title and initial framebuffer size in pixels.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CameraConfig describes the initial camera and the controller tuning. Angles are in degrees.
// Position, YawDegrees and PitchDegrees are pointers because zero is a meaningful value;
// a nil Position frames the loaded model instead.
type CameraConfig struct {
	Position     *[3]float32 `yaml:"position"`
	YawDegrees   *float32    `yaml:"yaw_degrees"`
	PitchDegrees *float32    `yaml:"pitch_degrees"`
	FovYDegrees  float32     `yaml:"fov_y_degrees"`
	ZNear        float32     `yaml:"z_near"`
	ZFar         float32     `yaml:"z_far"`
	Speed        float32     `yaml:"speed"`
	Sensitivity  float32     `yaml:"sensitivity"`
	Boost        float32     `yaml:"boost"`

	// FrameDistance is the distance from the model center, in multiples of its largest
	// dimension, used when Position is nil.
	FrameDistance float32 `yaml:"frame_distance"`
}

// RendererConfig selects the present mode, MSAA sample count (1 or 4) and background color.
type RendererConfig struct {
	PresentMode string `yaml:"present_mode"`
	MSAA        int    `yaml:"msaa"`
	ClearColor  string `yaml:"clear_color"`
}

// ModelConfig names the model to open and whether to reload it when the file changes.
type ModelConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Default returns a configuration with every default applied.
//
// Returns:
//   - *Config: the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Parse decodes YAML configuration data, fills in defaults and validates the result.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - *Config: the parsed configuration
//   - error: a YAML error or ErrInvalidConfig (wrapped)
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the configuration file at path.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Config: the parsed configuration
//   - error: a read, YAML or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not exist.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Config: the parsed or default configuration
//   - error: any error other than a missing file
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

func (c *Config) applyDefaults() {
	c.Window.Title = common.Coalesce(c.Window.Title, defaultTitle)
	c.Window.Width = common.Coalesce(c.Window.Width, defaultWidth)
	c.Window.Height = common.Coalesce(c.Window.Height, defaultHeight)

	cam := &c.Camera
	if cam.YawDegrees == nil {
		yaw := float32(defaultYawDegrees)
		cam.YawDegrees = &yaw
	}
	if cam.PitchDegrees == nil {
		pitch := float32(defaultPitchDegrees)
		cam.PitchDegrees = &pitch
	}
	cam.FovYDegrees = common.Coalesce(cam.FovYDegrees, defaultFovYDegrees)
	cam.ZNear = common.Coalesce(cam.ZNear, defaultZNear)
	cam.ZFar = common.Coalesce(cam.ZFar, defaultZFar)
	cam.Speed = common.Coalesce(cam.Speed, defaultSpeed)
	cam.Sensitivity = common.Coalesce(cam.Sensitivity, defaultSensitivity)
	cam.Boost = common.Coalesce(cam.Boost, defaultBoost)
	cam.FrameDistance = common.Coalesce(cam.FrameDistance, defaultFrameDistance)

	c.Renderer.PresentMode = strings.ToLower(common.Coalesce(c.Renderer.PresentMode, PresentModeVSync))
	c.Renderer.MSAA = common.Coalesce(c.Renderer.MSAA, defaultMSAA)
	c.Renderer.ClearColor = common.Coalesce(c.Renderer.ClearColor, defaultClearColor)
}

// Validate checks every value a running viewer depends on.
//
// Returns:
//   - error: ErrInvalidConfig (wrapped) naming the first offending field, or nil
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Camera.ZNear <= 0:
		return fmt.Errorf("%w: camera.z_near must be positive, got %v", ErrInvalidConfig, c.Camera.ZNear)
	case c.Camera.ZFar <= c.Camera.ZNear:
		return fmt.Errorf("%w: camera.z_far (%v) must exceed z_near (%v)", ErrInvalidConfig, c.Camera.ZFar, c.Camera.ZNear)
	case c.Camera.FovYDegrees <= 0 || c.Camera.FovYDegrees >= 180:
		return fmt.Errorf("%w: camera.fov_y_degrees out of range: %v", ErrInvalidConfig, c.Camera.FovYDegrees)
	case c.Camera.Speed < 0 || c.Camera.Sensitivity < 0 || c.Camera.Boost < 1:
		return fmt.Errorf("%w: camera speed, sensitivity and boost must be non-negative (boost >= 1)", ErrInvalidConfig)
	case c.Renderer.PresentMode != PresentModeVSync && c.Renderer.PresentMode != PresentModeUncapped:
		return fmt.Errorf("%w: renderer.present_mode %q", ErrInvalidConfig, c.Renderer.PresentMode)
	case c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4:
		return fmt.Errorf("%w: renderer.msaa must be 1 or 4, got %d", ErrInvalidConfig, c.Renderer.MSAA)
	}
	if _, err := c.Renderer.ClearRGBA(); err != nil {
		return err
	}
	return nil
}

// YawRadians returns the initial yaw in radians.
func (c *CameraConfig) YawRadians() float32 {
	return mgl32.DegToRad(*c.YawDegrees)
}

// PitchRadians returns the initial pitch in radians.
func (c *CameraConfig) PitchRadians() float32 {
	return mgl32.DegToRad(*c.PitchDegrees)
}

// FovYRadians returns the vertical field of view in radians.
func (c *CameraConfig) FovYRadians() float32 {
	return mgl32.DegToRad(c.FovYDegrees)
}

// ClearRGBA resolves ClearColor. Both SVG color names ("cornflowerblue") and hex
// notation ("#1a2b3c") are accepted.
//
// Returns:
//   - color.RGBA: the resolved color
//   - error: ErrInvalidConfig (wrapped) for an unknown name or malformed hex value
func (r *RendererConfig) ClearRGBA() (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(r.ClearColor))
	if hex, ok := strings.CutPrefix(name, "#"); ok {
		if len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("%w: renderer.clear_color %q", ErrInvalidConfig, r.ClearColor)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: renderer.clear_color %q: %w", ErrInvalidConfig, r.ClearColor, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}

	c, ok := colornames.Map[name]
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w: unknown renderer.clear_color %q", ErrInvalidConfig, r.ClearColor)
	}
	return c, nil
}
