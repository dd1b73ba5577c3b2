package loader

import (
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
)

// unusedMaterialMaps are the texture slots after the diffuse map. They are read when
// present and ignored: the lighting model only samples the diffuse map.
var unusedMaterialMaps = []string{"normal map", "height map", "roughness map", "metalness map"}

// decodeMaterial reads a material chunk. Albedo becomes the ambient, diffuse and specular
// colors and roughness becomes the Phong shininess.
//
// Parameters:
//   - pl: the chunk payload
//
// Returns:
//   - material.Material: the decoded material, textured when its diffuse map resolves
//   - error: ErrUnsupportedChunk if the payload is shorter than the layout
func (p *ovoParser) decodeMaterial(pl *payload) (material.Material, error) {
	name := pl.str("name")
	emission := pl.vec3("emission")
	albedo := pl.vec3("albedo")
	roughness := pl.f32("roughness")
	pl.skip(4, "metalness")
	pl.skip(4, "transparency")
	diffuseMap := pl.str("diffuse map")
	for _, what := range unusedMaterialMaps {
		if pl.err != nil || pl.remaining() == 0 {
			break
		}
		pl.str(what)
	}
	if pl.err != nil {
		return nil, pl.err
	}

	mat := material.NewMaterial(
		material.WithName(name),
		material.WithEmission(emission),
		material.WithAlbedo(albedo),
		material.WithShininess(material.ShininessFromRoughness(roughness)),
	)

	if texName := common.OptionalName(diffuseMap); texName != "" {
		path := texName
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.dir, path)
		}
		tex, err := p.textures.Load(path)
		if err != nil {
			p.warn("material %q: texture %q not loaded: %v", name, texName, err)
		} else {
			mat.SetTexture(tex)
		}
	}
	return mat, nil
}
