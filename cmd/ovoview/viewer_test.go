package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine"
	"github.com/Carmen-Shannon/oxy-ovo/engine/config"
	"github.com/Carmen-Shannon/oxy-ovo/engine/loader"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ovo/engine/window"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeNodes writes an OVO file of childless nodes.
func writeNodes(t *testing.T, name string, nodes ...string) string {
	t.Helper()
	var out bytes.Buffer
	ident := mgl32.Ident4()
	for _, n := range nodes {
		var body bytes.Buffer
		body.WriteString(n)
		body.WriteByte(0)
		require.NoError(t, binary.Write(&body, binary.LittleEndian, ident[:]))
		require.NoError(t, binary.Write(&body, binary.LittleEndian, uint32(0)))
		require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(loader.ChunkNode)))
		require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(body.Len())))
		out.Write(body.Bytes())
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o644))
	return path
}

func newTestViewer(t *testing.T) (*viewer, engine.EngineContext, *[]string) {
	t.Helper()
	cfg := config.Default()
	r, err := renderer.NewRenderer(append(cfg.RendererOptions(), renderer.WithBackend(renderer.NewHeadlessBackend()))...)
	require.NoError(t, err)
	e, err := engine.NewEngineContext(engine.WithRenderer(r))
	require.NoError(t, err)

	var titles []string
	v := newViewer(e, cfg, func(title string) { titles = append(titles, title) })
	t.Cleanup(v.stopWatch)
	return v, e, &titles
}

func TestOpenActivatesViewerCamera(t *testing.T) {
	v, e, titles := newTestViewer(t)
	require.NoError(t, v.open(writeNodes(t, "level.ovo", "Box001", "Box002")))

	cam := e.ActiveCamera()
	require.NotNil(t, cam)
	assert.Equal(t, viewerCameraName, cam.Name())
	assert.Equal(t, cam, v.controller.Target())
	assert.Equal(t, mgl32.Vec4{0.1, 0.1, 0.1, 1}, e.Scene().SkyColor())
	assert.Equal(t, []string{"oxy-ovo - level (4 nodes)"}, *titles)

	stats, err := e.RenderFrame()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.NodesVisited)
}

func TestOpenFailureKeepsScene(t *testing.T) {
	v, e, _ := newTestViewer(t)
	require.NoError(t, v.open(writeNodes(t, "level.ovo", "Box001")))
	s := e.Scene()

	v.handleDrop([]string{filepath.Join(t.TempDir(), "missing.ovo")})
	assert.Same(t, s, e.Scene())

	v.handleDrop([]string{writeNodes(t, "other.ovo", "Sphere001")})
	assert.Equal(t, "other", e.Scene().Name())
}

func TestHeldKeysMoveCameraOnTick(t *testing.T) {
	v, e, _ := newTestViewer(t)
	require.NoError(t, v.open(writeNodes(t, "level.ovo")))
	cam := e.ActiveCamera()
	start := cam.Position()

	v.handleKey(window.KeyEvent{Key: common.KeyE, Action: window.KeyPress})
	v.tick(1.0 / 60)
	v.tick(1.0 / 60)
	moved := cam.Position()
	assert.Greater(t, moved.Y(), start.Y())

	v.handleKey(window.KeyEvent{Key: common.KeyE, Action: window.KeyRelease})
	v.tick(1.0 / 60)
	assert.Equal(t, moved, cam.Position(), "released keys stop moving the camera")
}

func TestCommandKeys(t *testing.T) {
	v, e, _ := newTestViewer(t)
	path := writeNodes(t, "level.ovo", "Box001")
	require.NoError(t, v.open(path))

	shadows := e.Renderer().ShadowsEnabled()
	v.handleKey(window.KeyEvent{Key: common.KeyH, Action: window.KeyPress})
	assert.Equal(t, !shadows, e.Renderer().ShadowsEnabled())

	cam := e.ActiveCamera()
	v.handleKey(window.KeyEvent{Key: common.KeyC, Action: window.KeyPress})
	assert.Equal(t, cam, e.ActiveCamera(), "a single camera cycles onto itself")
	assert.True(t, cam.Active())

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	v.handleKey(window.KeyEvent{Key: common.KeyR, Action: window.KeyPress})
	_, err := e.FindByName("Box001")
	require.ErrorIs(t, err, engine.ErrNodeNotFound)
	_, err = e.FindByName(viewerCameraName)
	require.NoError(t, err, "the viewer camera survives a reload")

	v.mu.Lock()
	assert.Empty(t, v.held, "command keys are not held")
	v.mu.Unlock()
}

func TestScrollZoomsActiveCamera(t *testing.T) {
	v, e, _ := newTestViewer(t)
	require.NoError(t, v.open(writeNodes(t, "level.ovo")))
	cam := e.ActiveCamera()
	fov := cam.Fov()

	v.handleScroll(1)
	assert.Less(t, cam.Fov(), fov)
}
