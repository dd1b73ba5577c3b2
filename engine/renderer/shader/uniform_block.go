package shader

import (
	"encoding/binary"
	"fmt"
	"math"
)

// UniformSlot locates one member of the per-draw block.
type UniformSlot struct {
	// Name is the struct member name.
	Name string

	// Type is the canonical WGSL type of the member, e.g. "vec3f" or "array<f32, 8>".
	Type string

	// Offset is the byte offset of the member inside the block.
	Offset uint64

	// Size is the byte size of the member.
	Size uint64

	// Elem is the canonical element type for arrays, empty otherwise.
	Elem string

	// Count is the array length, zero for non-arrays.
	Count int

	// Stride is the byte distance between array elements, zero for non-arrays.
	Stride uint64
}

// IsArray reports whether the slot holds a fixed-size array.
func (s UniformSlot) IsArray() bool {
	return s.Count > 0
}

// UniformLayout is the parsed layout of the per-draw block of a shader.
type UniformLayout struct {
	// Binding is the declaration the block is bound through.
	Binding Binding

	// Size is the byte size of the block.
	Size uint64

	// Slots lists the members in declaration order.
	Slots []UniformSlot
}

// Slot finds a member by name.
//
// Parameters:
//   - name: the member name
//
// Returns:
//   - UniformSlot: the member slot
//   - bool: false if the block has no such member
func (l UniformLayout) Slot(name string) (UniformSlot, bool) {
	for _, s := range l.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return UniformSlot{}, false
}

// canonicalTypes folds the long WGSL spellings into the short aliases.
var canonicalTypes = map[string]string{
	"vec2<f32>":   "vec2f",
	"vec3<f32>":   "vec3f",
	"vec4<f32>":   "vec4f",
	"vec2<i32>":   "vec2i",
	"vec3<i32>":   "vec3i",
	"vec4<i32>":   "vec4i",
	"vec2<u32>":   "vec2u",
	"vec3<u32>":   "vec3u",
	"vec4<u32>":   "vec4u",
	"mat3x3<f32>": "mat3x3f",
	"mat4x4<f32>": "mat4x4f",
}

// canonicalType returns the short alias of a WGSL type name.
func canonicalType(typeName string) string {
	if c, ok := canonicalTypes[typeName]; ok {
		return c
	}
	return typeName
}

// UniformBlock is the CPU-side image of the per-draw block. Programs write pushed values
// into it and backends upload Bytes before each draw.
type UniformBlock struct {
	layout UniformLayout
	data   []byte
}

// NewUniformBlock allocates a zeroed block for layout.
//
// Parameters:
//   - layout: the parsed block layout
//
// Returns:
//   - *UniformBlock: the block
func NewUniformBlock(layout UniformLayout) *UniformBlock {
	return &UniformBlock{layout: layout, data: make([]byte, layout.Size)}
}

// Layout returns the block layout.
func (b *UniformBlock) Layout() UniformLayout {
	return b.layout
}

// Resolve finds the slot of a member.
func (b *UniformBlock) Resolve(name string) (UniformSlot, bool) {
	return b.layout.Slot(name)
}

// Bytes returns the block contents. The slice aliases the block.
func (b *UniformBlock) Bytes() []byte {
	return b.data
}

// Write encodes v into slot. Array values shorter than the slot zero the remaining elements.
//
// Parameters:
//   - slot: the destination slot
//   - v: the value to encode
//
// Returns:
//   - error: ErrUniformType if v does not fit the slot type
func (b *UniformBlock) Write(slot UniformSlot, v Value) error {
	if slot.Offset+slot.Size > uint64(len(b.data)) {
		return fmt.Errorf("%w: slot %q lies outside the block", ErrUniformType, slot.Name)
	}
	dst := b.data[slot.Offset : slot.Offset+slot.Size]

	if slot.IsArray() {
		if v.Len() > slot.Count {
			return fmt.Errorf("%w: %d elements exceed %s %q", ErrUniformType, v.Len(), slot.Type, slot.Name)
		}
		clear(dst)
		switch {
		case slot.Elem == "f32" && v.Kind == ValueFloatArray:
			for i, f := range v.floats {
				putFloats(dst[uint64(i)*slot.Stride:], f)
			}
		case (slot.Elem == "i32" || slot.Elem == "u32") && v.Kind == ValueIntArray:
			for i, n := range v.ints {
				binary.LittleEndian.PutUint32(dst[uint64(i)*slot.Stride:], uint32(n))
			}
		case slot.Elem == "vec3f" && v.Kind == ValueVec3Array:
			for i := range v.Len() {
				putFloats(dst[uint64(i)*slot.Stride:], v.floats[i*3:i*3+3]...)
			}
		default:
			return fmt.Errorf("%w: cannot write %s to %s %q", ErrUniformType, v.Kind, slot.Type, slot.Name)
		}
		return nil
	}

	switch {
	case slot.Type == "f32" && v.Kind == ValueFloat,
		slot.Type == "vec3f" && v.Kind == ValueVec3,
		slot.Type == "vec4f" && v.Kind == ValueVec4,
		slot.Type == "mat4x4f" && v.Kind == ValueMat4:
		putFloats(dst, v.floats...)
	case (slot.Type == "i32" || slot.Type == "u32") && (v.Kind == ValueInt || v.Kind == ValueBool):
		binary.LittleEndian.PutUint32(dst, uint32(v.Int()))
	default:
		return fmt.Errorf("%w: cannot write %s to %s %q", ErrUniformType, v.Kind, slot.Type, slot.Name)
	}
	return nil
}

func putFloats(dst []byte, values ...float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}
