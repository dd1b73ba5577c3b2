package light

import (
	_ "embed"
)

// GPULightsFieldsSource is the WGSL member list of the light block inside the per-draw
// struct. Every array holds MaxLights entries; only the first lightCount are meaningful.
// It is injected by the shader pre-processor through @oxy:include(lights).
//
//go:embed assets/lights_fields.wgsl
var GPULightsFieldsSource string

// Uniform names staged once per frame for the gathered light set.
const (
	UniformCount      = "lightCount"
	UniformTypes      = "lightTypes"
	UniformPositions  = "lightPositions"
	UniformDirections = "lightDirections"
	UniformAmbients   = "lightAmbients"
	UniformDiffuses   = "lightDiffuses"
	UniformSpeculars  = "lightSpeculars"
	UniformRadii      = "lightRadii"
	UniformCutoffs    = "lightCutoffs"
	UniformExponents  = "lightExponents"
)
