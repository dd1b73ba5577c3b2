package loader

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
)

// pointRadiusDivisor converts the exporter's point light influence radius to scene units.
const pointRadiusDivisor = 1000

// decodeLight reads a light chunk. An unknown subtype becomes a point light and keeps its
// declared child count, so the rest of the hierarchy still lines up.
//
// Parameters:
//   - pl: the chunk payload
//
// Returns:
//   - node.Node: the light node
//   - uint32: the declared child count
//   - error: ErrUnsupportedChunk if the payload is shorter than the layout
func (p *ovoParser) decodeLight(pl *payload) (node.Node, uint32, error) {
	h := readNodeHeader(pl)
	pl.str("target")
	subtype := light.LightType(pl.u8("subtype"))
	color := pl.vec3("color")
	radius := pl.f32("radius")
	direction := pl.vec3("direction")
	cutoff := pl.f32("cutoff")
	exponent := pl.f32("exponent")
	if pl.err != nil {
		return nil, 0, pl.err
	}

	options := []light.LightBuilderOption{
		light.WithNode(h.options()...),
		light.WithColor(color),
	}
	switch subtype {
	case light.LightTypePoint:
		options = append(options, light.WithRadius(radius/pointRadiusDivisor))
	case light.LightTypeDirectional:
		options = append(options, light.WithDirection(direction))
	case light.LightTypeSpot:
		options = append(options,
			light.WithRadius(radius),
			light.WithDirection(direction),
			light.WithSpotCone(cutoff, exponent),
		)
	default:
		p.warn("light %q has unknown subtype %d, defaulting to a point light", h.name, uint8(subtype))
		subtype = light.LightTypePoint
		options = append(options, light.WithRadius(radius/pointRadiusDivisor))
	}

	return light.NewLight(subtype, options...), h.children, nil
}
