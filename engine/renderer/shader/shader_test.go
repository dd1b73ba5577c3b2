package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShaderSource = `
//@oxy:include vertex
//@oxy:include draw
//@oxy:group 0 0 %s draw draw
//@oxy:provider 1 0 material diffuse_texture
@group(1) @binding(0) var diffuseTexture: texture_2d<f32>;
//@oxy:provider 1 1 material diffuse_sampler
@group(1) @binding(1) var diffuseSampler: sampler;

struct VertexOutput {
    @builtin(position) clip: vec4f,
    @location(0) uv: vec2f,
};

@vertex
fn vs(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = draw.projection * draw.modelview * vec4f(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs(in: VertexOutput) -> @location(0) vec4f {
    return vec4f(draw.matDiffuse, 1.0);
}
`

func newTestShader(t *testing.T, addressSpace string) Shader {
	t.Helper()
	s, err := NewShader("test", strings.Replace(testShaderSource, "%s", addressSpace, 1))
	require.NoError(t, err)
	return s
}

func TestNewShaderExpandsAnnotations(t *testing.T) {
	s := newTestShader(t, "storage_read")

	assert.NotContains(t, s.Source(), "@oxy:")
	assert.Contains(t, s.Source(), "struct DrawUniforms {")
	assert.Contains(t, s.Source(), "@group(0) @binding(0) var<storage, read> draw: DrawUniforms;")
	assert.Equal(t, "vs", s.VertexEntry())
	assert.Equal(t, "fs", s.FragmentEntry())

	require.Len(t, s.Bindings(), 3)
	assert.True(t, s.Bindings()[0].IsBuffer())
	assert.Equal(t, "diffuseSampler", s.Bindings()[2].VarName)

	group, binding, ok := s.Provider(AnnotationArgDiffuseSampler)
	require.True(t, ok)
	assert.Equal(t, 1, group)
	assert.Equal(t, 1, binding)
}

func TestVertexLayout(t *testing.T) {
	s := newTestShader(t, "storage_read")
	require.Len(t, s.VertexLayouts(), 1)
	layout := s.VertexLayouts()[0]
	assert.Equal(t, uint64(32), layout.Stride)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, VertexAttribute{Location: 2, Format: "vec2f", Offset: 24}, layout.Attributes[2])
}

func TestStorageLayoutOffsets(t *testing.T) {
	layout := newTestShader(t, "storage_read").UniformLayout()

	tests := []struct {
		name   string
		offset uint64
		stride uint64
	}{
		{"projection", 0, 0},
		{"modelview", 64, 0},
		{"normalMatrix", 128, 0},
		{"matEmission", 192, 0},
		{"matShininess", 204, 0},
		{"matHasTexture", 220, 0},
		{"matSpecular", 240, 0},
		{"lightCount", 252, 0},
		{"lightTypes", 256, 4},
		{"lightPositions", 288, 16},
		{"lightRadii", 928, 4},
		{"lightExponents", 992, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, ok := layout.Slot(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.offset, slot.Offset)
			assert.Equal(t, tt.stride, slot.Stride)
		})
	}
	assert.Equal(t, uint64(1024), layout.Size)
}

func TestUniformLayoutUsesSixteenByteArrayStride(t *testing.T) {
	layout := newTestShader(t, "storage_uniform").UniformLayout()

	types, ok := layout.Slot("lightTypes")
	require.True(t, ok)
	assert.Equal(t, uint64(256), types.Offset)
	assert.Equal(t, uint64(16), types.Stride)
	assert.Equal(t, "array<i32, 8>", types.Type)

	positions, ok := layout.Slot("lightPositions")
	require.True(t, ok)
	assert.Equal(t, uint64(384), positions.Offset)
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unknown include", "//@oxy:include skybox\n"},
		{"malformed group", "//@oxy:group 0 draw\n"},
		{"no entry points", "//@oxy:include draw\n//@oxy:group 0 0 storage_read draw draw\n"},
		{"no block", "@vertex fn vs() -> @builtin(position) vec4f { return vec4f(0.0); }\n@fragment fn fs() -> @location(0) vec4f { return vec4f(1.0); }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("bad", tt.source)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrShaderCompile))
		})
	}
}

func TestParseAnnotationIgnoresPlainLines(t *testing.T) {
	a, err := parseAnnotation("let x = 1.0; // not @oxy:include vertex", 1)
	require.NoError(t, err)
	assert.Nil(t, a)
}
