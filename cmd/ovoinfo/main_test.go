package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-ovo/engine/loader"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fixture writes chunks in the OVO layout.
type fixture struct {
	out bytes.Buffer
}

func (f *fixture) chunk(kind loader.ChunkType, fields ...any) *fixture {
	var body bytes.Buffer
	for _, v := range fields {
		if s, ok := v.(string); ok {
			body.WriteString(s)
			body.WriteByte(0)
			continue
		}
		if err := binary.Write(&body, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	_ = binary.Write(&f.out, binary.LittleEndian, uint32(kind))
	_ = binary.Write(&f.out, binary.LittleEndian, uint32(body.Len()))
	f.out.Write(body.Bytes())
	return f
}

func (f *fixture) write(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, f.out.Bytes(), 0o644))
	return path
}

// lampScene is a group holding one point light at (1, 2, 3).
func lampScene() *fixture {
	f := &fixture{}
	ident := mgl32.Ident4()
	at := mgl32.Translate3D(1, 2, 3)
	f.chunk(loader.ChunkVersion, uint32(8))
	f.chunk(loader.ChunkNode, "Group", ident[:], uint32(1))
	f.chunk(loader.ChunkLight, "Lamp", at[:], uint32(0),
		"[none]", uint8(0), mgl32.Vec3{1, 0.5, 0}, float32(5000),
		mgl32.Vec3{0, -1, 0}, float32(45), float32(8))
	return f
}

func decodeReports(t *testing.T, out []byte) []sceneReport {
	t.Helper()
	var reports []sceneReport
	dec := yaml.NewDecoder(bytes.NewReader(out))
	for {
		var r sceneReport
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			return reports
		}
		require.NoError(t, err)
		reports = append(reports, r)
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	require.ErrorIs(t, run(nil, io.Discard), errUsage)
	require.ErrorIs(t, run([]string{"-nope", "a.ovo"}, io.Discard), errUsage)
}

func TestRunReportsTreeAndFrame(t *testing.T) {
	path := lampScene().write(t, "level.ovo")

	var out bytes.Buffer
	require.NoError(t, run([]string{path}, &out))

	reports := decodeReports(t, out.Bytes())
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "level", r.Scene)
	assert.Equal(t, 3, r.Nodes, "root, group and lamp; the camera is added afterwards")

	require.NotNil(t, r.Tree)
	assert.Equal(t, loader.SceneRootName, r.Tree.Name)
	require.Len(t, r.Tree.Children, 1)
	group := r.Tree.Children[0]
	assert.Equal(t, "Group", group.Name)
	require.Len(t, group.Children, 1)
	lamp := group.Children[0]
	assert.Equal(t, "light", lamp.Kind)
	assert.Equal(t, [3]float32{1, 2, 3}, lamp.Position)
	require.NotNil(t, lamp.Light)
	assert.Equal(t, "point", lamp.Light.Type)
	assert.InDelta(t, 5.0, lamp.Light.Radius, 1e-6)
	assert.Equal(t, [3]float32{1, 0.5, 0}, lamp.Light.Color)

	require.NotNil(t, r.Frame)
	assert.Equal(t, 1, r.Frame.PointLights)
	assert.Zero(t, r.Frame.MeshesDrawn)
}

func TestRunPrintsOneDocumentPerSceneInOrder(t *testing.T) {
	first := lampScene().write(t, "first.ovo")
	second := (&fixture{}).chunk(loader.ChunkVersion, uint32(8)).write(t, "second.ovo")

	var out bytes.Buffer
	require.NoError(t, run([]string{"-tree=false", "-frame=false", first, second}, &out))

	reports := decodeReports(t, out.Bytes())
	require.Len(t, reports, 2)
	assert.Equal(t, "first", reports[0].Scene)
	assert.Equal(t, "second", reports[1].Scene)
	assert.Equal(t, 1, reports[1].Nodes)
	for _, r := range reports {
		assert.Nil(t, r.Tree)
		assert.Nil(t, r.Frame)
	}
}

func TestRunUsesConfig(t *testing.T) {
	path := lampScene().write(t, "level.ovo")
	cfgPath := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[renderer]\nmax_lights = 1\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", cfgPath, "-tree=false", path}, &out))
	reports := decodeReports(t, out.Bytes())
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Frame.Lights())

	require.Error(t, run([]string{"-config", filepath.Join(t.TempDir(), "missing.toml"), path}, io.Discard))
}

func TestRunMissingScene(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "missing.ovo")}, io.Discard)
	require.ErrorIs(t, err, loader.ErrFileNotFound)
}
