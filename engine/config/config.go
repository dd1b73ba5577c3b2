package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/loader"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig reports a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the file configuration of the engine and its tools.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`
	Loader   LoaderConfig   `toml:"loader"`
	Profiler ProfilerConfig `toml:"profiler"`

	// Watch reloads the scene when its file changes.
	Watch bool `toml:"watch"`
}

// WindowConfig configures the viewer window and its surface.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
	MSAA   bool   `toml:"msaa"`
}

// RendererConfig configures frame rendering.
type RendererConfig struct {
	SkyColor  [3]float32 `toml:"sky_color"`
	Shadows   bool       `toml:"shadows"`
	MaxLights int        `toml:"max_lights"`
}

// CameraConfig describes the camera the tools add to a loaded scene.
type CameraConfig struct {
	// Type is "perspective" or "ortho".
	Type     string     `toml:"type"`
	Fov      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	Zoom     float32    `toml:"zoom"`
	Position [3]float32 `toml:"position"`
}

// LoaderConfig configures scene loading.
type LoaderConfig struct {
	Workers      int  `toml:"workers"`
	MeshShadows  bool `toml:"mesh_shadows"`
	FlipTextures bool `toml:"flip_textures"`
}

// ProfilerConfig configures the frame rate counter.
type ProfilerConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-ovo",
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   true,
		},
		Renderer: RendererConfig{
			SkyColor:  [3]float32{0.1, 0.1, 0.1},
			Shadows:   true,
			MaxLights: light.MaxLights,
		},
		Camera: CameraConfig{
			Type:     camera.CameraTypePerspective.String(),
			Fov:      camera.DefaultFov,
			Near:     camera.DefaultNear,
			Far:      camera.DefaultFar,
			Zoom:     camera.DefaultZoom,
			Position: [3]float32{0, 0, 5},
		},
		Loader: LoaderConfig{
			MeshShadows:  true,
			FlipTextures: true,
		},
		Profiler: ProfilerConfig{
			Enabled: true,
		},
	}
}

// Load reads a TOML file over the defaults.
//
// Parameters:
//   - path: the configuration file path
//
// Returns:
//   - Config: the decoded configuration
//   - error: error if the file cannot be read, has unknown keys or invalid values
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(bufio.NewReader(f))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. Keys the Config does not declare are
// rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the decoded configuration
//   - error: error if decoding fails or a value is invalid
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("decode config: unknown keys:\n%s", strict.String())
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the offending key
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Renderer.MaxLights < 1 || c.Renderer.MaxLights > light.MaxLights:
		return fmt.Errorf("%w: renderer.max_lights %d not in [1, %d]", ErrInvalidConfig, c.Renderer.MaxLights, light.MaxLights)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip range [%g, %g]", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Loader.Workers < 0:
		return fmt.Errorf("%w: loader.workers %d", ErrInvalidConfig, c.Loader.Workers)
	}
	if _, err := c.Camera.CameraType(); err != nil {
		return err
	}
	return nil
}

// CameraType parses the configured camera type.
//
// Returns:
//   - camera.CameraType: the projection type
//   - error: ErrInvalidConfig for an unknown name
func (c CameraConfig) CameraType() (camera.CameraType, error) {
	switch c.Type {
	case camera.CameraTypePerspective.String(), "":
		return camera.CameraTypePerspective, nil
	case camera.CameraTypeOrtho.String():
		return camera.CameraTypeOrtho, nil
	default:
		return 0, fmt.Errorf("%w: camera.type %q", ErrInvalidConfig, c.Type)
	}
}

// NewCamera builds the configured camera.
//
// Parameters:
//   - name: the camera node name
//
// Returns:
//   - camera.Camera: the camera, inactive until an engine activates it
//   - error: ErrInvalidConfig for an unknown camera type
func (c CameraConfig) NewCamera(name string) (camera.Camera, error) {
	t, err := c.CameraType()
	if err != nil {
		return nil, err
	}
	return camera.NewCamera(t,
		camera.WithNode(node.WithName(name), node.WithPosition(mgl32.Vec3(c.Position))),
		camera.WithFov(c.Fov),
		camera.WithClip(c.Near, c.Far),
		camera.WithZoom(c.Zoom),
	), nil
}

// SkyColorRGBA returns the configured clear color with an opaque alpha.
func (r RendererConfig) SkyColorRGBA() mgl32.Vec4 {
	return mgl32.Vec3(r.SkyColor).Vec4(1)
}

// LoaderOptions converts the loader section into loader options.
//
// Returns:
//   - []loader.LoaderBuilderOption: options for loader.NewLoader
func (c Config) LoaderOptions() []loader.LoaderBuilderOption {
	opts := []loader.LoaderBuilderOption{
		loader.WithMeshShadows(c.Loader.MeshShadows),
		loader.WithTextureLoader(loader.NewTextureLoader(c.Loader.FlipTextures)),
	}
	if c.Loader.Workers > 0 {
		opts = append(opts, loader.WithWorkers(c.Loader.Workers))
	}
	return opts
}

// RendererOptions converts the renderer and window sections into renderer options.
// The backend is left to the caller.
//
// Returns:
//   - []renderer.RendererBuilderOption: options for renderer.NewRenderer
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithShadows(c.Renderer.Shadows),
		renderer.WithMaxLights(c.Renderer.MaxLights),
		renderer.WithSkyColor(c.Renderer.SkyColorRGBA()),
		renderer.WithViewport(c.Window.Width, c.Window.Height),
	}
}
