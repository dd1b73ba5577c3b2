package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/model"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ovoWriter builds OVO streams for tests.
type ovoWriter struct {
	buf bytes.Buffer
}

// chunkBody is a little-endian payload under construction.
type chunkBody struct {
	buf bytes.Buffer
}

func (b *chunkBody) u8(v uint8) *chunkBody {
	b.buf.WriteByte(v)
	return b
}

func (b *chunkBody) u32(v uint32) *chunkBody {
	_ = binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *chunkBody) f32(v float32) *chunkBody {
	return b.u32(math.Float32bits(v))
}

func (b *chunkBody) vec3(v mgl32.Vec3) *chunkBody {
	return b.f32(v[0]).f32(v[1]).f32(v[2])
}

func (b *chunkBody) mat4(m mgl32.Mat4) *chunkBody {
	for _, v := range m {
		b.f32(v)
	}
	return b
}

func (b *chunkBody) str(s string) *chunkBody {
	b.buf.WriteString(s)
	b.buf.WriteByte(0)
	return b
}

func (b *chunkBody) zeros(n int) *chunkBody {
	b.buf.Write(make([]byte, n))
	return b
}

func (b *chunkBody) header(name string, base mgl32.Mat4, children uint32) *chunkBody {
	return b.str(name).mat4(base).u32(children)
}

func (w *ovoWriter) chunk(kind ChunkType, body *chunkBody) *ovoWriter {
	_ = binary.Write(&w.buf, binary.LittleEndian, uint32(kind))
	_ = binary.Write(&w.buf, binary.LittleEndian, uint32(body.buf.Len()))
	w.buf.Write(body.buf.Bytes())
	return w
}

func (w *ovoWriter) version(v uint32) *ovoWriter {
	return w.chunk(ChunkVersion, new(chunkBody).u32(v))
}

func (w *ovoWriter) node(name string, children uint32) *ovoWriter {
	return w.chunk(ChunkNode, new(chunkBody).header(name, mgl32.Ident4(), children))
}

func (w *ovoWriter) material(name string, albedo mgl32.Vec3, roughness float32, texture string) *ovoWriter {
	body := new(chunkBody).
		str(name).
		vec3(mgl32.Vec3{0.1, 0.2, 0.3}).
		vec3(albedo).
		f32(roughness).
		f32(0.5).
		f32(0).
		str(texture).
		str(common.NoneName).str(common.NoneName).str(common.NoneName).str(common.NoneName)
	return w.chunk(ChunkMaterial, body)
}

type testLight struct {
	subtype   uint8
	color     mgl32.Vec3
	radius    float32
	direction mgl32.Vec3
	cutoff    float32
	exponent  float32
}

func (w *ovoWriter) light(name string, children uint32, l testLight) *ovoWriter {
	body := new(chunkBody).
		header(name, mgl32.Translate3D(0, 5, 0), children).
		str(common.NoneName).
		u8(l.subtype).
		vec3(l.color).
		f32(l.radius).
		vec3(l.direction).
		f32(l.cutoff).
		f32(l.exponent)
	return w.chunk(ChunkLight, body)
}

type testMesh struct {
	material string
	physics  bool
	hulls    [][2]uint32
	lods     uint32
	vertices []mgl32.Vec3
	normal   uint32
	uv       uint32
	faces    [][3]uint32
}

func (w *ovoWriter) mesh(name string, children uint32, m testMesh) *ovoWriter {
	body := new(chunkBody).
		header(name, mgl32.Ident4(), children).
		str(common.NoneName).
		u8(0).
		str(m.material).
		f32(1).
		vec3(mgl32.Vec3{-1, -1, -1}).
		vec3(mgl32.Vec3{1, 1, 1})
	if m.physics {
		body.u8(1).zeros(physicsHeaderSkip).u32(uint32(len(m.hulls))).zeros(physicsHullsSkip)
		for _, h := range m.hulls {
			body.u32(h[0]).u32(h[1]).zeros(hullCentroidSize + int(h[0])*hullVertexSize + int(h[1])*hullFaceSize)
		}
	} else {
		body.u8(0)
	}
	body.u32(m.lods)
	for lod := uint32(0); lod < m.lods; lod++ {
		body.u32(uint32(len(m.vertices))).u32(uint32(len(m.faces)))
		for _, v := range m.vertices {
			body.vec3(v.Mul(float32(lod + 1))).u32(m.normal).u32(m.uv).u32(0)
		}
		for _, f := range m.faces {
			body.u32(f[0]).u32(f[1]).u32(f[2])
		}
	}
	return w.chunk(ChunkMesh, body)
}

func (w *ovoWriter) bytes() []byte {
	return w.buf.Bytes()
}

// warnings collects loader warnings.
type warnings struct {
	mu    sync.Mutex
	lines []string
}

func (w *warnings) handler() WarningHandler {
	return func(format string, args ...any) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.lines = append(w.lines, fmt.Sprintf(format, args...))
	}
}

func (w *warnings) all() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}

func newTestLoader(t *testing.T, extra ...LoaderBuilderOption) (Loader, *warnings) {
	t.Helper()
	w := &warnings{}
	options := append([]LoaderBuilderOption{WithWarningHandler(w.handler())}, extra...)
	return NewLoader(BackendTypeOVO, options...), w
}

// normalUpY is (0, 1, 0) packed as snorm 3x10_1x2.
const normalUpY uint32 = 511 << 10

// uvHalfOne is (0.5, 1.0) packed as two halves.
const uvHalfOne uint32 = 0x3800 | 0x3C00<<16

var triangle = testMesh{
	vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	normal:   normalUpY,
	uv:       uvHalfOne,
	faces:    [][3]uint32{{0, 1, 2}},
	lods:     1,
	material: common.NoneName,
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	l, _ := newTestLoader(t)

	root, err := l.Load(filepath.Join(t.TempDir(), "missing.ovo"))
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Nil(t, root)
}

func TestLoadReaderEmptyStreamYieldsBareRoot(t *testing.T) {
	l, _ := newTestLoader(t)

	root, err := l.LoadReader(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, SceneRootName, root.Name())
	assert.Empty(t, root.Children())
	assert.Equal(t, node.KindNode, root.Kind())
}

func TestLoadReaderErrors(t *testing.T) {
	valid := new(ovoWriter).version(8).node("a", 0).bytes()
	unterminated := new(chunkBody)
	unterminated.buf.WriteString("abc")

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"truncated header", valid[:3], ErrTruncatedStream},
		{"header without payload", valid[:chunkHeaderSize], ErrTruncatedStream},
		{"truncated payload", valid[:len(valid)-1], ErrTruncatedStream},
		{"short version payload", new(ovoWriter).chunk(ChunkVersion, new(chunkBody).u8(1)).bytes(), ErrUnsupportedChunk},
		{"node name without terminator", new(ovoWriter).chunk(ChunkNode, unterminated).bytes(), ErrUnsupportedChunk},
		{"node missing child count", new(ovoWriter).chunk(ChunkNode, new(chunkBody).str("a").mat4(mgl32.Ident4())).bytes(), ErrUnsupportedChunk},
		{"node after hierarchy closed", new(ovoWriter).node("a", 0).node("b", 0).bytes(), ErrUnsupportedChunk},
		{"short light payload", new(ovoWriter).chunk(ChunkLight, new(chunkBody).header("l", mgl32.Ident4(), 0).str("").u8(0)).bytes(), ErrUnsupportedChunk},
		{"short material payload", new(ovoWriter).chunk(ChunkMaterial, new(chunkBody).str("m").vec3(mgl32.Vec3{})).bytes(), ErrUnsupportedChunk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLoader(t)
			root, err := l.LoadReader(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, root)
		})
	}
}

func TestLoadRebuildsPreOrderHierarchy(t *testing.T) {
	data := new(ovoWriter).
		version(8).
		node("a", 2).
		node("b", 1).
		node("c", 0).
		node("d", 0).
		bytes()

	l, w := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, w.all())

	var names []string
	var depths []int
	node.Walk(root, func(n node.Node, depth int) bool {
		names = append(names, n.Name())
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{SceneRootName, "a", "b", "c", "d"}, names)
	assert.Equal(t, []int{0, 1, 2, 3, 2}, depths)

	a := root.Children()[0]
	require.Len(t, a.Children(), 2)
	assert.Same(t, a, a.Children()[1].Parent())
}

func TestLoadDecodesNodeBaseMatrix(t *testing.T) {
	base := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	data := new(ovoWriter).chunk(ChunkNode, new(chunkBody).header("moved", base, 0)).bytes()

	l, _ := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)

	n := root.Children()[0]
	assert.Equal(t, base, n.BaseMatrix())
	assert.Equal(t, base, n.LocalMatrix())
}

func TestLoadSkipsUnknownChunks(t *testing.T) {
	data := new(ovoWriter).
		chunk(ChunkType(4), new(chunkBody).zeros(17)).
		node("a", 0).
		bytes()

	l, w := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
	require.Len(t, w.all(), 1)
	assert.Contains(t, w.all()[0], "unsupported chunk type 4")
}

func TestLoadMaterialDerivation(t *testing.T) {
	albedo := mgl32.Vec3{0.8, 0.4, 0.2}
	m := triangle
	m.material = "red"
	data := new(ovoWriter).
		material("red", albedo, 0.25, common.NoneName).
		mesh("box", 0, m).
		bytes()

	l, w := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, w.all())

	mesh, ok := root.Children()[0].(model.Mesh)
	require.True(t, ok)
	mat := mesh.Material()
	assert.Equal(t, "red", mat.Name())
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, mat.Emission())
	assert.Equal(t, albedo, mat.Ambient())
	assert.Equal(t, albedo, mat.Diffuse())
	assert.Equal(t, albedo, mat.Specular())
	assert.InDelta(t, 64.0, mat.Shininess(), 1e-4)
	assert.Nil(t, mat.Texture())
}

func TestLoadMeshesShareRegisteredMaterial(t *testing.T) {
	m := triangle
	m.material = "shared"
	data := new(ovoWriter).
		material("shared", mgl32.Vec3{1, 1, 1}, 0, common.NoneName).
		node("group", 2).
		mesh("one", 0, m).
		mesh("two", 0, m).
		bytes()

	l, _ := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)

	group := root.Children()[0]
	one := group.Children()[0].(model.Mesh)
	two := group.Children()[1].(model.Mesh)
	assert.Same(t, one.Material(), two.Material())
	assert.InDelta(t, 128.0, one.Material().Shininess(), 1e-4)
}

func TestLoadOutOfOrderMaterialKeepsDefault(t *testing.T) {
	m := triangle
	m.material = "later"
	data := new(ovoWriter).
		mesh("early", 0, m).
		bytes()

	l, w := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)

	mesh := root.Children()[0].(model.Mesh)
	require.NotNil(t, mesh.Material())
	assert.Empty(t, mesh.Material().Name())
	require.Len(t, w.all(), 1)
	assert.Contains(t, w.all()[0], "out-of-order material loading is not supported")
}

func TestLoadMaterialRegistryIsScopedToOneLoad(t *testing.T) {
	first := new(ovoWriter).material("m", mgl32.Vec3{1, 0, 0}, 0, common.NoneName).bytes()
	m := triangle
	m.material = "m"
	second := new(ovoWriter).mesh("mesh", 0, m).bytes()

	l, w := newTestLoader(t)
	_, err := l.LoadReader(bytes.NewReader(first))
	require.NoError(t, err)
	root, err := l.LoadReader(bytes.NewReader(second))
	require.NoError(t, err)

	assert.Empty(t, root.Children()[0].(model.Mesh).Material().Name())
	assert.Len(t, w.all(), 1)
}

func TestLoadMeshGeometry(t *testing.T) {
	data := new(ovoWriter).mesh("tri", 0, triangle).bytes()

	l, w := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, w.all())

	mesh := root.Children()[0].(model.Mesh)
	g := mesh.Geometry()
	assert.Equal(t, triangle.vertices, g.Vertices)
	assert.Equal(t, triangle.faces, g.Faces)
	for i := range g.Normals {
		assert.InDelta(t, 0, g.Normals[i].X(), 1e-6)
		assert.InDelta(t, 1, g.Normals[i].Y(), 1e-6)
		assert.InDelta(t, 0, g.Normals[i].Z(), 1e-6)
		assert.Equal(t, mgl32.Vec2{0.5, 1}, g.UVs[i])
	}
	assert.True(t, mesh.CastsShadows())
	assert.Equal(t, node.KindMesh, mesh.Kind())
}

func TestLoadMeshSkipsPhysicsAndExtraLODs(t *testing.T) {
	m := triangle
	m.physics = true
	m.hulls = [][2]uint32{{4, 2}, {0, 0}, {8, 12}}
	m.lods = 3
	data := new(ovoWriter).
		mesh("hull", 1, m).
		node("child", 0).
		bytes()

	l, w := newTestLoader(t, WithMeshShadows(false))
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)

	mesh := root.Children()[0].(model.Mesh)
	assert.Equal(t, triangle.vertices, mesh.Geometry().Vertices, "only the first LOD is installed")
	assert.False(t, mesh.CastsShadows())
	require.Len(t, mesh.Children(), 1)
	assert.Equal(t, "child", mesh.Children()[0].Name())

	require.Len(t, w.all(), 1)
	assert.Contains(t, w.all()[0], "3 LODs")
}

func TestLoadMeshWithoutLODIsEmpty(t *testing.T) {
	m := triangle
	m.lods = 0
	data := new(ovoWriter).mesh("empty", 0, m).bytes()

	l, _ := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, root.Children()[0].(model.Mesh).Geometry().Empty())
}

func TestLoadMeshRejectsOversizedCounts(t *testing.T) {
	body := new(chunkBody).
		header("big", mgl32.Ident4(), 0).
		str("").u8(0).str(common.NoneName).f32(1).
		vec3(mgl32.Vec3{}).vec3(mgl32.Vec3{}).
		u8(0).
		u32(1).
		u32(math.MaxUint32).u32(math.MaxUint32)
	data := new(ovoWriter).chunk(ChunkMesh, body).bytes()

	l, _ := newTestLoader(t)
	_, err := l.LoadReader(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrUnsupportedChunk)
}

func TestLoadLightSubtypes(t *testing.T) {
	data := new(ovoWriter).
		node("lights", 4).
		light("point", 0, testLight{subtype: 0, color: mgl32.Vec3{1, 0, 0}, radius: 2500}).
		light("sun", 0, testLight{subtype: 1, color: mgl32.Vec3{0, 1, 0}, direction: mgl32.Vec3{0, -2, 0}}).
		light("spot", 0, testLight{subtype: 2, color: mgl32.Vec3{0, 0, 1}, radius: 7, direction: mgl32.Vec3{1, 0, 0}, cutoff: 30, exponent: 4}).
		light("weird", 1, testLight{subtype: 9, color: mgl32.Vec3{1, 1, 1}, radius: 1000}).
		node("under weird", 0).
		bytes()

	l, w := newTestLoader(t)
	root, err := l.LoadReader(bytes.NewReader(data))
	require.NoError(t, err)

	lights := root.Children()[0].Children()
	require.Len(t, lights, 4)

	point := lights[0].(light.Light)
	assert.Equal(t, light.LightTypePoint, point.Type())
	assert.InDelta(t, 2.5, point.Radius(), 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, point.Diffuse())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, point.Specular())
	assert.Equal(t, mgl32.Translate3D(0, 5, 0), point.BaseMatrix())
	assert.Equal(t, node.PriorityLight, point.Priority())

	sun := lights[1].(light.Light)
	assert.Equal(t, light.LightTypeDirectional, sun.Type())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, sun.Direction())

	spot := lights[2].(light.Light)
	assert.Equal(t, light.LightTypeSpot, spot.Type())
	assert.InDelta(t, 7, spot.Radius(), 1e-6)
	assert.InDelta(t, 30, spot.Cutoff(), 1e-6)
	assert.InDelta(t, 4, spot.Exponent(), 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, spot.Direction())

	weird := lights[3].(light.Light)
	assert.Equal(t, light.LightTypePoint, weird.Type())
	assert.Equal(t, "weird", weird.Name())
	require.Len(t, weird.Children(), 1, "declared children survive the subtype fallback")
	assert.Equal(t, "under weird", weird.Children()[0].Name())

	require.Len(t, w.all(), 1)
	assert.Contains(t, w.all()[0], "unknown subtype 9")
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return writeFile(t, dir, name, buf.Bytes())
}

func TestLoadResolvesTexturesNextToScene(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "checker.png")
	m := triangle
	m.material = "tex"
	path := writeFile(t, dir, "scene.ovo", new(ovoWriter).
		material("tex", mgl32.Vec3{1, 1, 1}, 0, "checker.png").
		material("broken", mgl32.Vec3{1, 1, 1}, 0, "missing.png").
		mesh("quad", 0, m).
		bytes())

	l, w := newTestLoader(t)
	root, err := l.Load(path)
	require.NoError(t, err)

	tex := root.Children()[0].(model.Mesh).Material().Texture()
	require.NotNil(t, tex)
	assert.Equal(t, "checker.png", tex.Name)
	assert.Equal(t, filepath.Join(dir, "checker.png"), tex.Path)
	assert.Equal(t, "png", tex.Format)
	assert.Equal(t, uint32(1), tex.Staging.Width)
	assert.Equal(t, uint32(2), tex.Staging.Height)
	assert.Equal(t, []byte{0, 0, 255, 255}, tex.Staging.Pixels[:4], "rows are stored bottom-up")

	require.Len(t, w.all(), 1)
	assert.Contains(t, w.all()[0], "missing.png")
}

func TestTextureLoaderCachesUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png")
	tl := NewTextureLoader(false)

	first, err := tl.Load(path)
	require.NoError(t, err)
	second, err := tl.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, []byte{255, 0, 0, 255}, first.Staging.Pixels[:4])
}

func TestTextureLoaderRejectsNonImages(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.png", []byte("definitely not an image"))

	_, err := NewTextureLoader(true).Load(path)
	require.ErrorIs(t, err, ErrUnsupportedTexture)
}

func TestLoadAllKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := range 6 {
		data := new(ovoWriter).node(fmt.Sprintf("scene-%d", i), 0).bytes()
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("s%d.ovo", i), data))
	}

	l, _ := newTestLoader(t, WithWorkers(3))
	roots, err := l.LoadAll(paths)
	require.NoError(t, err)
	require.Len(t, roots, len(paths))
	for i, root := range roots {
		assert.Equal(t, SceneRootName, root.Name())
		assert.Equal(t, fmt.Sprintf("scene-%d", i), root.Children()[0].Name())
	}
}

func TestLoadAllReturnsFirstErrorInInputOrder(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ovo", new(ovoWriter).node("ok", 0).bytes())
	truncated := writeFile(t, dir, "bad.ovo", []byte{1, 0})
	missing := filepath.Join(dir, "missing.ovo")

	l, _ := newTestLoader(t)
	roots, err := l.LoadAll([]string{good, truncated, missing})
	require.ErrorIs(t, err, ErrTruncatedStream)
	assert.Nil(t, roots)

	roots, err = l.LoadAll(nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestLoadAllStopsItsWorkers(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := range 4 {
		data := new(ovoWriter).node(fmt.Sprintf("scene-%d", i), 0).bytes()
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("s%d.ovo", i), data))
	}
	l, _ := newTestLoader(t, WithWorkers(4))

	baseline := runtime.NumGoroutine()
	for range 10 {
		_, err := l.LoadAll(paths)
		require.NoError(t, err)
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, 2*time.Second, 10*time.Millisecond, "batch workers outlive LoadAll")
}
