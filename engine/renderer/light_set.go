package renderer

import (
	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// LightSet holds the lights of a frame as parallel arrays in eye space, ready to be staged as
// uniforms. Index i of every array describes the same light.
type LightSet struct {
	Types      []light.LightType
	Ambients   []mgl32.Vec3
	Diffuses   []mgl32.Vec3
	Speculars  []mgl32.Vec3
	Positions  []mgl32.Vec3
	Directions []mgl32.Vec3
	Radii      []float32
	Cutoffs    []float32
	Exponents  []float32

	// Dropped counts the lights left out because the set was full.
	Dropped int
}

// Len returns the number of lights in the set.
func (s *LightSet) Len() int {
	return len(s.Types)
}

// CountOf returns the number of lights of type t in the set.
func (s *LightSet) CountOf(t light.LightType) int {
	n := 0
	for _, lt := range s.Types {
		if lt == t {
			n++
		}
	}
	return n
}

func (s *LightSet) add(l light.Light, modelView mgl32.Mat4) {
	dir := common.TransformDirection(modelView, l.Direction())
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	s.Types = append(s.Types, l.Type())
	s.Ambients = append(s.Ambients, l.Ambient())
	s.Diffuses = append(s.Diffuses, l.Diffuse())
	s.Speculars = append(s.Speculars, l.Specular())
	s.Positions = append(s.Positions, common.TransformPoint(modelView, mgl32.Vec3{}))
	s.Directions = append(s.Directions, dir)
	s.Radii = append(s.Radii, l.Radius())
	s.Cutoffs = append(s.Cutoffs, l.Cutoff())
	s.Exponents = append(s.Exponents, l.Exponent())
}

// GatherLights collects the lights of a viewed render list: point lights first, then
// directional, then spot, each group in list order. Lights beyond limit are dropped.
//
// Parameters:
//   - list: a render list already moved to eye space with ApplyView
//   - limit: the capacity of the set; values <= 0 fall back to light.MaxLights
//
// Returns:
//   - LightSet: the gathered lights
func GatherLights(list RenderList, limit int) LightSet {
	if limit <= 0 {
		limit = light.MaxLights
	}
	var set LightSet
	for _, t := range []light.LightType{light.LightTypePoint, light.LightTypeDirectional, light.LightTypeSpot} {
		for _, item := range list {
			l, ok := item.Node.(light.Light)
			if !ok || l.Type() != t {
				continue
			}
			if set.Len() == limit {
				set.Dropped++
				continue
			}
			set.add(l, item.Matrix)
		}
	}
	return set
}

// Stage writes the set into u under the light uniform names.
//
// Parameters:
//   - u: the pending uniforms of the active program
func (s *LightSet) Stage(u *shader.Uniforms) {
	types := make([]int32, len(s.Types))
	for i, t := range s.Types {
		types[i] = int32(t)
	}
	u.SetInt(light.UniformCount, int32(s.Len()))
	u.SetIntArray(light.UniformTypes, types)
	u.SetVec3Array(light.UniformPositions, s.Positions)
	u.SetVec3Array(light.UniformDirections, s.Directions)
	u.SetVec3Array(light.UniformAmbients, s.Ambients)
	u.SetVec3Array(light.UniformDiffuses, s.Diffuses)
	u.SetVec3Array(light.UniformSpeculars, s.Speculars)
	u.SetFloatArray(light.UniformRadii, s.Radii)
	u.SetFloatArray(light.UniformCutoffs, s.Cutoffs)
	u.SetFloatArray(light.UniformExponents, s.Exponents)
}
