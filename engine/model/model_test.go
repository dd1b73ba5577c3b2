package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() Geometry {
	return Geometry{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:  []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:      []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Faces:    [][3]uint32{{0, 1, 2}},
	}
}

func TestNewMeshDefaults(t *testing.T) {
	m := NewMesh(WithNode(node.WithName("cube")))

	assert.Equal(t, "cube", m.Name())
	assert.Equal(t, node.KindMesh, m.Kind())
	assert.Equal(t, node.PriorityDefault, m.Priority())
	require.NotNil(t, m.Material())
	assert.Equal(t, material.DefaultShininess, m.Material().Shininess())
	assert.True(t, m.Geometry().Empty())
	assert.False(t, m.CastsShadows())
}

func TestMeshSharesMaterial(t *testing.T) {
	shared := material.NewMaterial(material.WithName("M"))
	a := NewMesh(WithMaterial(shared))
	b := NewMesh(WithMaterial(shared))
	assert.Same(t, a.Material(), b.Material())

	a.SetMaterial(nil)
	assert.NotSame(t, shared, a.Material(), "nil restores a fresh default")
	assert.Same(t, shared, b.Material())
}

func TestMeshCanBeParented(t *testing.T) {
	root := node.New()
	m := NewMesh(WithGeometry(triangle()), WithCastsShadows(true))
	require.NoError(t, root.AddChild(m))
	assert.Same(t, root, m.Parent())
	assert.Equal(t, 3, m.Geometry().IndexCount())
	assert.True(t, m.CastsShadows())
}

func TestMarshalVertices(t *testing.T) {
	g := triangle()
	buf := MarshalVertices(&g)
	require.Len(t, buf, 3*GPUVertexStride)

	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	// second vertex: position x at offset 32, normal z at 32+20, uv u at 32+24
	assert.Equal(t, float32(1), f(32))
	assert.Equal(t, float32(1), f(32+20))
	assert.Equal(t, float32(1), f(32+24))

	var v GPUVertex
	assert.Equal(t, GPUVertexStride, v.Size())
}

func TestMarshalVerticesWithoutNormals(t *testing.T) {
	g := Geometry{Vertices: []mgl32.Vec3{{1, 2, 3}}}
	buf := MarshalVertices(&g)
	require.Len(t, buf, GPUVertexStride)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[12:]))
}

func TestMarshalIndices(t *testing.T) {
	g := Geometry{Faces: [][3]uint32{{0, 1, 2}, {2, 3, 0}}}
	buf := MarshalIndices(&g)
	require.Len(t, buf, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[16:]))
}
