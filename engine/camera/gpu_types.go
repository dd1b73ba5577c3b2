package camera

import (
	_ "embed"
)

// GPUTransformFieldsSource is the WGSL member list of the transform block inside the
// per-draw struct. It is injected by the shader pre-processor through
// @oxy:include(transform).
//
//go:embed assets/transform_fields.wgsl
var GPUTransformFieldsSource string

// UniformProjection names the projection matrix of the transform block, staged once per
// frame. The model-view and normal matrices of the block are pushed by shader.Uniforms.Apply.
const UniformProjection = "projection"
