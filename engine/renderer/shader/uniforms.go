package shader

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-ovo/common"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUniformNotFound is returned when a staged uniform has no slot in the active program.
	ErrUniformNotFound = errors.New("uniform not found")

	// ErrUniformType is returned when a value does not fit the WGSL type of its slot.
	ErrUniformType = errors.New("uniform type mismatch")

	// ErrShaderCompile is returned when shader source cannot be pre-processed, parsed or
	// compiled by a backend.
	ErrShaderCompile = errors.New("shader compile failed")
)

// Names of the matrices Apply pushes with every draw.
const (
	UniformModelView    = "modelview"
	UniformNormalMatrix = "normalMatrix"
)

// ValueKind identifies the host type of a staged uniform value.
type ValueKind uint8

const (
	ValueFloat ValueKind = iota
	ValueInt
	ValueBool
	ValueVec3
	ValueVec4
	ValueMat4
	ValueFloatArray
	ValueIntArray
	ValueVec3Array
)

// String returns the name of the value kind.
func (k ValueKind) String() string {
	switch k {
	case ValueFloat:
		return "float"
	case ValueInt:
		return "int"
	case ValueBool:
		return "bool"
	case ValueVec3:
		return "vec3"
	case ValueVec4:
		return "vec4"
	case ValueMat4:
		return "mat4"
	case ValueFloatArray:
		return "[]float"
	case ValueIntArray:
		return "[]int"
	case ValueVec3Array:
		return "[]vec3"
	default:
		return "unknown"
	}
}

// Value is a typed uniform value. Float-based kinds keep their components in floats,
// integer-based kinds (including bool) in ints.
type Value struct {
	Kind   ValueKind
	floats []float32
	ints   []int32
}

// FloatValue wraps a float.
func FloatValue(v float32) Value { return Value{Kind: ValueFloat, floats: []float32{v}} }

// IntValue wraps an int.
func IntValue(v int32) Value { return Value{Kind: ValueInt, ints: []int32{v}} }

// BoolValue wraps a bool, stored as 0 or 1.
func BoolValue(v bool) Value {
	var i int32
	if v {
		i = 1
	}
	return Value{Kind: ValueBool, ints: []int32{i}}
}

// Vec3Value wraps a vec3.
func Vec3Value(v mgl32.Vec3) Value { return Value{Kind: ValueVec3, floats: v[:]} }

// Vec4Value wraps a vec4.
func Vec4Value(v mgl32.Vec4) Value { return Value{Kind: ValueVec4, floats: v[:]} }

// Mat4Value wraps a column-major 4x4 matrix.
func Mat4Value(m mgl32.Mat4) Value { return Value{Kind: ValueMat4, floats: m[:]} }

// FloatArrayValue copies a float slice.
func FloatArrayValue(v []float32) Value {
	return Value{Kind: ValueFloatArray, floats: slices.Clone(v)}
}

// IntArrayValue copies an int slice.
func IntArrayValue(v []int32) Value {
	return Value{Kind: ValueIntArray, ints: slices.Clone(v)}
}

// Vec3ArrayValue flattens a vec3 slice.
func Vec3ArrayValue(v []mgl32.Vec3) Value {
	floats := make([]float32, 0, len(v)*3)
	for _, e := range v {
		floats = append(floats, e[:]...)
	}
	return Value{Kind: ValueVec3Array, floats: floats}
}

// Floats returns the float components of the value.
func (v Value) Floats() []float32 { return v.floats }

// Ints returns the integer components of the value.
func (v Value) Ints() []int32 { return v.ints }

// Len returns the element count: 1 for scalars, vectors and matrices.
func (v Value) Len() int {
	switch v.Kind {
	case ValueFloatArray:
		return len(v.floats)
	case ValueIntArray:
		return len(v.ints)
	case ValueVec3Array:
		return len(v.floats) / 3
	default:
		return 1
	}
}

// Float returns the first float component, or zero.
func (v Value) Float() float32 {
	if len(v.floats) == 0 {
		return 0
	}
	return v.floats[0]
}

// Int returns the first integer component, or zero.
func (v Value) Int() int32 {
	if len(v.ints) == 0 {
		return 0
	}
	return v.ints[0]
}

// Bool reports whether the first integer component is non-zero.
func (v Value) Bool() bool {
	return v.Int() != 0
}

// Vec3 returns the first three float components.
func (v Value) Vec3() mgl32.Vec3 {
	var out mgl32.Vec3
	copy(out[:], v.floats)
	return out
}

// Mat4 returns the first sixteen float components as a matrix.
func (v Value) Mat4() mgl32.Mat4 {
	return common.Mat4FromSlice(v.floats)
}

// Program is a compiled shader program as seen by the uniform binder. Backends provide
// the implementation.
type Program interface {
	// Key returns the program identifier used in error messages and caches.
	Key() string

	// ResolveUniform looks up the slot of a named uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - UniformSlot: the slot
	//   - bool: false if the program has no such uniform
	ResolveUniform(name string) (UniformSlot, bool)

	// PushUniform writes a value into a slot for the next draw.
	//
	// Parameters:
	//   - slot: a slot returned by ResolveUniform
	//   - v: the value
	//
	// Returns:
	//   - error: ErrUniformType when the value does not fit the slot
	PushUniform(slot UniformSlot, v Value) error
}

// Uniforms is the pending set of named values applied to a program before each draw.
// Setting a name that is already pending replaces its value.
type Uniforms struct {
	pending map[string]Value
}

// NewUniforms creates an empty pending set.
//
// Returns:
//   - *Uniforms: the pending set
func NewUniforms() *Uniforms {
	return &Uniforms{pending: make(map[string]Value)}
}

// Clear drops every pending value.
func (u *Uniforms) Clear() {
	clear(u.pending)
}

// Len returns the number of pending values.
func (u *Uniforms) Len() int {
	return len(u.pending)
}

// Get returns the pending value for name.
func (u *Uniforms) Get(name string) (Value, bool) {
	v, ok := u.pending[name]
	return v, ok
}

// Set stages an already-built value.
func (u *Uniforms) Set(name string, v Value) {
	u.pending[name] = v
}

func (u *Uniforms) SetFloat(name string, v float32) { u.Set(name, FloatValue(v)) }
func (u *Uniforms) SetInt(name string, v int32) { u.Set(name, IntValue(v)) }
func (u *Uniforms) SetBool(name string, v bool) { u.Set(name, BoolValue(v)) }
func (u *Uniforms) SetVec3(name string, v mgl32.Vec3) { u.Set(name, Vec3Value(v)) }
func (u *Uniforms) SetVec4(name string, v mgl32.Vec4) { u.Set(name, Vec4Value(v)) }
func (u *Uniforms) SetMat4(name string, m mgl32.Mat4) { u.Set(name, Mat4Value(m)) }
func (u *Uniforms) SetFloatArray(name string, v []float32) { u.Set(name, FloatArrayValue(v)) }
func (u *Uniforms) SetIntArray(name string, v []int32) { u.Set(name, IntArrayValue(v)) }
func (u *Uniforms) SetVec3Array(name string, v []mgl32.Vec3) { u.Set(name, Vec3ArrayValue(v)) }

// Apply pushes every pending value to p in name order, followed by the implicit model-view
// and normal matrices derived from modelView. Pending values are kept so that per-frame
// values survive across draws.
//
// Parameters:
//   - p: the active program
//   - modelView: the model-view matrix of the draw
//
// Returns:
//   - int: the number of uniforms pushed
//   - error: ErrUniformNotFound or ErrUniformType wrapped with the uniform name and program key
func (u *Uniforms) Apply(p Program, modelView mgl32.Mat4) (int, error) {
	pushed := 0
	push := func(name string, v Value) error {
		slot, ok := p.ResolveUniform(name)
		if !ok {
			return fmt.Errorf("%w: %q in program %s", ErrUniformNotFound, name, p.Key())
		}
		if err := p.PushUniform(slot, v); err != nil {
			return fmt.Errorf("push %q to program %s: %w", name, p.Key(), err)
		}
		pushed++
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(u.pending)) {
		if err := push(name, u.pending[name]); err != nil {
			return pushed, err
		}
	}
	if err := push(UniformModelView, Mat4Value(modelView)); err != nil {
		return pushed, err
	}
	if err := push(UniformNormalMatrix, Mat4Value(common.NormalMatrix(modelView))); err != nil {
		return pushed, err
	}
	return pushed, nil
}
