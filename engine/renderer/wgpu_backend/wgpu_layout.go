package wgpu_backend

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL vertex attribute types to wgpu vertex formats.
var wgslVertexFormatMap = map[string]wgpu.VertexFormat{
	"f32":   wgpu.VertexFormatFloat32,
	"vec2f": wgpu.VertexFormatFloat32x2,
	"vec3f": wgpu.VertexFormatFloat32x3,
	"vec4f": wgpu.VertexFormatFloat32x4,
	"i32":   wgpu.VertexFormatSint32,
	"vec2i": wgpu.VertexFormatSint32x2,
	"vec3i": wgpu.VertexFormatSint32x3,
	"vec4i": wgpu.VertexFormatSint32x4,
	"u32":   wgpu.VertexFormatUint32,
	"vec2u": wgpu.VertexFormatUint32x2,
	"vec3u": wgpu.VertexFormatUint32x3,
	"vec4u": wgpu.VertexFormatUint32x4,
	"vec2h": wgpu.VertexFormatFloat16x2,
	"vec4h": wgpu.VertexFormatFloat16x4,
}

// wgslLongVertexTypes folds the long spellings onto the keys of wgslVertexFormatMap.
var wgslLongVertexTypes = map[string]string{
	"vec2<f32>": "vec2f",
	"vec3<f32>": "vec3f",
	"vec4<f32>": "vec4f",
	"vec2<i32>": "vec2i",
	"vec3<i32>": "vec3i",
	"vec4<i32>": "vec4i",
	"vec2<u32>": "vec2u",
	"vec3<u32>": "vec3u",
	"vec4<u32>": "vec4u",
	"vec2<f16>": "vec2h",
	"vec4<f16>": "vec4h",
}

// wgslSampleTypeMap maps the texel type parameter of a sampled texture to its sample type.
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// vertexBufferLayouts converts the parsed vertex inputs of a shader to wgpu layouts.
//
// Parameters:
//   - layouts: the vertex layouts of the shader
//
// Returns:
//   - []wgpu.VertexBufferLayout: one layout per vertex buffer
//   - error: an error if an attribute type has no vertex format
func vertexBufferLayouts(layouts []shader.VertexLayout) ([]wgpu.VertexBufferLayout, error) {
	out := make([]wgpu.VertexBufferLayout, 0, len(layouts))
	for _, l := range layouts {
		attrs := make([]wgpu.VertexAttribute, 0, len(l.Attributes))
		for _, a := range l.Attributes {
			typeName := a.Format
			if short, ok := wgslLongVertexTypes[typeName]; ok {
				typeName = short
			}
			format, ok := wgslVertexFormatMap[typeName]
			if !ok {
				return nil, fmt.Errorf("vertex attribute @location(%d): unsupported type %q", a.Location, a.Format)
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         format,
				Offset:         a.Offset,
				ShaderLocation: uint32(a.Location),
			})
		}
		out = append(out, wgpu.VertexBufferLayout{
			ArrayStride: l.Stride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}
	return out, nil
}

// bindGroupLayoutEntry classifies one resource declaration.
//
// Parameters:
//   - b: the declaration
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry, visible to both stages
func bindGroupLayoutEntry(b shader.Binding) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(b.Binding),
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}

	if b.IsBuffer() {
		switch {
		case b.AddressSpace == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case strings.Contains(b.AddressSpace, "read_write"):
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		default:
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
		return entry
	}

	switch {
	case b.TypeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case b.TypeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(b.TypeName, "texture_depth_2d"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	case strings.HasPrefix(b.TypeName, "texture_2d"):
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		if start := strings.IndexByte(b.TypeName, '<'); start >= 0 {
			param := strings.TrimSuffix(b.TypeName[start+1:], ">")
			if st, ok := wgslSampleTypeMap[strings.TrimSpace(param)]; ok {
				entry.Texture.SampleType = st
			}
		}
	}
	return entry
}

// bindGroupLayoutDescriptors groups the declarations of a shader by group index.
//
// Parameters:
//   - key: the shader key used for labels
//   - bindings: the declarations, sorted by group and binding
//
// Returns:
//   - []wgpu.BindGroupLayoutDescriptor: one descriptor per group index up to the highest declared group
func bindGroupLayoutDescriptors(key string, bindings []shader.Binding) []wgpu.BindGroupLayoutDescriptor {
	maxGroup := -1
	for _, b := range bindings {
		maxGroup = max(maxGroup, b.Group)
	}
	descs := make([]wgpu.BindGroupLayoutDescriptor, maxGroup+1)
	for g := range descs {
		descs[g].Label = fmt.Sprintf("%s group %d", key, g)
	}
	for _, b := range bindings {
		descs[b.Group].Entries = append(descs[b.Group].Entries, bindGroupLayoutEntry(b))
	}
	return descs
}
