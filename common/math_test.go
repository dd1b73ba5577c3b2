package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetMatrixTranslationOnly(t *testing.T) {
	m := OffsetMatrix(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	p := TransformPoint(m, mgl32.Vec3{})
	assert.True(t, p.ApproxEqual(mgl32.Vec3{1, 0, 0}), "got %v", p)
}

func TestOffsetMatrixTranslatesAfterRotating(t *testing.T) {
	m := OffsetMatrix(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 90, 0}, mgl32.Vec3{1, 1, 1})

	// rotate first, then translate: the point (1,0,0) swings to (0,0,-1) and moves to (1,0,-1)
	got := TransformPoint(m, mgl32.Vec3{1, 0, 0})
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{1, 0, -1}, 1e-5), "got %v", got)

	reversed := mgl32.HomogRotate3DY(mgl32.DegToRad(90)).Mul4(mgl32.Translate3D(1, 0, 0))
	other := TransformPoint(reversed, mgl32.Vec3{1, 0, 0})
	assert.False(t, got.ApproxEqualThreshold(other, 1e-3), "composition order must matter: %v vs %v", got, other)
}

func TestOffsetMatrixRotationOrderIsZYX(t *testing.T) {
	rot := mgl32.Vec3{30, 45, 60}
	m := OffsetMatrix(mgl32.Vec3{}, rot, mgl32.Vec3{1, 1, 1})

	want := mgl32.HomogRotate3DZ(mgl32.DegToRad(60)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(30)))
	assert.True(t, m.ApproxEqualThreshold(want, 1e-5))

	xyz := mgl32.HomogRotate3DX(mgl32.DegToRad(30)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(60)))
	assert.False(t, m.ApproxEqualThreshold(xyz, 1e-3))
}

func TestNormalMatrixUndoesNonUniformScale(t *testing.T) {
	m := mgl32.Scale3D(2, 1, 1)
	n := NormalMatrix(m)
	assert.InDelta(t, 0.5, n.At(0, 0), 1e-6)
	assert.InDelta(t, 1, n.At(1, 1), 1e-6)
}

func TestUnpackSnorm3x10_1x2(t *testing.T) {
	pack := func(x, y, z, w int32) uint32 {
		return uint32(x)&0x3ff | (uint32(y)&0x3ff)<<10 | (uint32(z)&0x3ff)<<20 | (uint32(w)&0x3)<<30
	}

	cases := []struct {
		name   string
		packed uint32
		want   mgl32.Vec4
	}{
		{"zero", 0, mgl32.Vec4{0, 0, 0, 0}},
		{"positive extremes", pack(511, 0, 511, 1), mgl32.Vec4{1, 0, 1, 1}},
		{"negative extremes", pack(-511, -511, 0, -1), mgl32.Vec4{-1, -1, 0, -1}},
		{"most negative clamps", pack(-512, 0, 0, -2), mgl32.Vec4{-1, 0, 0, -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := UnpackSnorm3x10_1x2(tc.packed)
			assert.True(t, got.ApproxEqual(tc.want), "got %v want %v", got, tc.want)
		})
	}
}

func TestUnpackHalf2x16(t *testing.T) {
	// 0x3c00 = 1.0, 0xc000 = -2.0
	got := UnpackHalf2x16(0xc000<<16 | 0x3c00)
	assert.Equal(t, mgl32.Vec2{1, -2}, got)
}

func TestHalfToFloat32(t *testing.T) {
	assert.Equal(t, float32(0.5), HalfToFloat32(0x3800))
	assert.Equal(t, float32(65504), HalfToFloat32(0x7bff))
	assert.Equal(t, float32(math.Inf(1)), HalfToFloat32(0x7c00))
	assert.True(t, math.IsNaN(float64(HalfToFloat32(0x7e00))))
	assert.InDelta(t, 5.960464477539063e-08, HalfToFloat32(0x0001), 1e-12)
	assert.True(t, math.Signbit(float64(HalfToFloat32(0x8000))))
}

func TestMat4FromSlice(t *testing.T) {
	values := make([]float32, 16)
	for i := range values {
		values[i] = float32(i)
	}
	m := Mat4FromSlice(values)
	require.Equal(t, float32(12), m.At(0, 3), "column-major: element 12 is row 0, column 3")
}

func TestOptionalName(t *testing.T) {
	assert.Equal(t, "", OptionalName("[none]"))
	assert.Equal(t, "wood.png", OptionalName("wood.png"))
	assert.Equal(t, "M", Coalesce("", "M"))
}
