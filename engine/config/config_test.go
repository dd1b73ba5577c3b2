package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, light.MaxLights, cfg.Renderer.MaxLights)
	assert.Equal(t, camera.DefaultFov, cfg.Camera.Fov)
	assert.Equal(t, mgl32.Vec4{0.1, 0.1, 0.1, 1}, cfg.Renderer.SkyColorRGBA())
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
watch = true

[window]
title = "viewer"
width = 640

[renderer]
sky_color = [0.5, 0.25, 0.0]
shadows = false
max_lights = 4

[camera]
type = "ortho"
zoom = 2.5
position = [1.0, 2.0, 3.0]
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.True(t, cfg.Watch)
	assert.Equal(t, "viewer", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their default")
	assert.Equal(t, [3]float32{0.5, 0.25, 0}, cfg.Renderer.SkyColor)
	assert.False(t, cfg.Renderer.Shadows)
	assert.Equal(t, 4, cfg.Renderer.MaxLights)
	assert.True(t, cfg.Loader.MeshShadows)

	cam, err := cfg.Camera.NewCamera("main")
	require.NoError(t, err)
	assert.Equal(t, camera.CameraTypeOrtho, cam.Type())
	assert.Equal(t, "main", cam.Name())
	assert.InDelta(t, 2.5, cam.Zoom(), 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Position())
	assert.False(t, cam.Active())
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[renderer]\nshadow = true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadow")
}

func TestDecodeRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"zero width":      "[window]\nwidth = 0\n",
		"too many lights": "[renderer]\nmax_lights = 9\n",
		"inverted clip":   "[camera]\nnear = 10.0\nfar = 1.0\n",
		"camera type":     "[camera]\ntype = \"fisheye\"\n",
		"workers":         "[loader]\nworkers = -2\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(src))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDecodeRejectsMalformedToml(t *testing.T) {
	_, err := Decode(strings.NewReader("[window\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte("[profiler]\nenabled = false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Profiler.Enabled)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRendererOptions(t *testing.T) {
	cfg, err := Decode(strings.NewReader("[window]\nwidth = 640\nheight = 480\n[renderer]\nshadows = false\nmax_lights = 2\n"))
	require.NoError(t, err)

	backend := renderer.NewHeadlessBackend()
	r, err := renderer.NewRenderer(append(cfg.RendererOptions(), renderer.WithBackend(backend))...)
	require.NoError(t, err)

	assert.False(t, r.ShadowsEnabled())
	assert.Equal(t, 2, r.MaxLights())
	assert.Equal(t, cfg.Renderer.SkyColorRGBA(), r.SkyColor())
	w, h := backend.Size()
	assert.Equal(t, [2]int{640, 480}, [2]int{w, h})
}
