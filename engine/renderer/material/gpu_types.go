package material

import (
	_ "embed"
)

// GPUMaterialFieldsSource is the WGSL member list of the material block inside the per-draw
// uniform struct. It is injected by the shader pre-processor through @oxy:include(material).
//
//go:embed assets/material_fields.wgsl
var GPUMaterialFieldsSource string

// Uniform names staged for every mesh immediately before its draw call.
const (
	UniformEmission   = "matEmission"
	UniformAmbient    = "matAmbient"
	UniformDiffuse    = "matDiffuse"
	UniformSpecular   = "matSpecular"
	UniformShininess  = "matShininess"
	UniformHasTexture = "matHasTexture"
)
