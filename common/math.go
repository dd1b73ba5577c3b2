package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OffsetMatrix builds the runtime offset transform layered on top of a node's base matrix.
// The composition order is fixed: T(position) * Rz * Ry * Rx * S(scale).
//
// Parameters:
//   - position: translation offset
//   - rotation: Euler rotation in degrees around X, Y and Z
//   - scale: non-uniform scale factors
//
// Returns:
//   - mgl32.Mat4: the composed offset matrix (column-major)
func OffsetMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Translate3D(position[0], position[1], position[2])
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation[2])))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation[1])))
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotation[0])))
	return m.Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// NormalMatrix returns the inverse-transpose of m, used to transform normals correctly
// under non-uniform scale. A singular matrix yields the zero matrix.
//
// Parameters:
//   - m: the model-view matrix
//
// Returns:
//   - mgl32.Mat4: inverse(m) transposed
func NormalMatrix(m mgl32.Mat4) mgl32.Mat4 {
	return m.Inv().Transpose()
}

// TransformPoint applies m to the point p (w = 1).
//
// Parameters:
//   - m: the transform
//   - p: the point
//
// Returns:
//   - mgl32.Vec3: the transformed point
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies m to the direction d (w = 0), ignoring translation.
//
// Parameters:
//   - m: the transform
//   - d: the direction
//
// Returns:
//   - mgl32.Vec3: the transformed direction
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// Mat4FromSlice builds a column-major matrix from 16 floats. Missing trailing
// values are left at zero.
func Mat4FromSlice(values []float32) mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], values)
	return m
}

// UnpackSnorm3x10_1x2 decodes a normal packed as three signed 10-bit components and one
// signed 2-bit component (x in the low bits). Each component is normalized to [-1, 1].
//
// Parameters:
//   - packed: the packed 32-bit value
//
// Returns:
//   - mgl32.Vec4: the decoded (x, y, z, w) components
func UnpackSnorm3x10_1x2(packed uint32) mgl32.Vec4 {
	x := int32(packed<<22) >> 22
	y := int32(packed<<12) >> 22
	z := int32(packed<<2) >> 22
	w := int32(packed) >> 30

	return mgl32.Vec4{
		mgl32.Clamp(float32(x)/511, -1, 1),
		mgl32.Clamp(float32(y)/511, -1, 1),
		mgl32.Clamp(float32(z)/511, -1, 1),
		mgl32.Clamp(float32(w), -1, 1),
	}
}

// UnpackHalf2x16 decodes two IEEE 754 half-precision floats packed into a uint32.
// The low 16 bits hold the first component.
//
// Parameters:
//   - packed: the packed 32-bit value
//
// Returns:
//   - mgl32.Vec2: the decoded pair
func UnpackHalf2x16(packed uint32) mgl32.Vec2 {
	return mgl32.Vec2{
		HalfToFloat32(uint16(packed & 0xffff)),
		HalfToFloat32(uint16(packed >> 16)),
	}
}

// HalfToFloat32 widens a half-precision float bit pattern to float32, including
// subnormals, infinities and NaN.
func HalfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign << 31)
		}
		// subnormal half: mant * 2^-24
		f := float32(mant) / (1 << 24)
		if sign == 1 {
			return -f
		}
		return f
	case 0x1f:
		return math.Float32frombits(sign<<31 | 0xff<<23 | mant<<13)
	}
	return math.Float32frombits(sign<<31 | (exp+112)<<23 | mant<<13)
}
