package loader

import (
	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine/model"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
)

// decodeMesh reads a mesh chunk: the node prefix, the material reference, the skipped
// bounding volume and physics data, then the geometry of the first LOD.
//
// Parameters:
//   - pl: the chunk payload
//
// Returns:
//   - node.Node: the mesh node
//   - uint32: the declared child count
//   - error: ErrUnsupportedChunk if the payload is shorter than the layout
func (p *ovoParser) decodeMesh(pl *payload) (node.Node, uint32, error) {
	h := readNodeHeader(pl)
	pl.str("target")
	pl.u8("subtype")
	materialName := pl.str("material")
	pl.f32("radius")
	pl.vec3("bounding box min")
	pl.vec3("bounding box max")

	if hasPhysics := pl.u8("physics flag"); hasPhysics != 0 {
		skipPhysics(pl)
	}

	lods := pl.u32("LOD count")
	var geometry model.Geometry
	if lods > 0 {
		geometry = decodeLOD(pl)
	}
	if pl.err != nil {
		return nil, 0, pl.err
	}
	if lods > 1 {
		p.warn("mesh %q has %d LODs, only the first one is used", h.name, lods)
	}

	options := []model.MeshBuilderOption{
		model.WithNode(h.options()...),
		model.WithGeometry(geometry),
		model.WithCastsShadows(p.meshShadows),
	}
	if ref := common.OptionalName(materialName); ref != "" {
		if mat, ok := p.materials[ref]; ok {
			options = append(options, model.WithMaterial(mat))
		} else {
			p.warn("mesh %q: material %q is not loaded yet, out-of-order material loading is not supported", h.name, ref)
		}
	}

	return model.NewMesh(options...), h.children, nil
}

// skipPhysics steps over the physics block that follows a set physics flag.
func skipPhysics(pl *payload) {
	pl.skip(physicsHeaderSkip, "physics properties")
	hulls := pl.u32("hull count")
	pl.skip(physicsHullsSkip, "physics hull header")
	for i := uint32(0); i < hulls && pl.err == nil; i++ {
		vertices := pl.u32("hull vertex count")
		faces := pl.u32("hull face count")
		pl.skip(hullCentroidSize, "hull centroid")
		pl.skipRecords(uint64(vertices), hullVertexSize, "hull vertices")
		pl.skipRecords(uint64(faces), hullFaceSize, "hull faces")
	}
}

// decodeLOD reads one level of detail. Normals are unpacked from snorm 3x10_1x2 and UVs from
// two half floats.
func decodeLOD(pl *payload) model.Geometry {
	vertexCount := pl.u32("vertex count")
	faceCount := pl.u32("face count")
	if !pl.require(uint64(vertexCount), lodVertexSize, "vertices") {
		return model.Geometry{}
	}
	if !pl.require(uint64(vertexCount)*lodVertexSize+uint64(faceCount)*12, 1, "geometry bytes") {
		return model.Geometry{}
	}

	g := model.Geometry{
		Vertices: make([]mgl32.Vec3, vertexCount),
		Normals:  make([]mgl32.Vec3, vertexCount),
		UVs:      make([]mgl32.Vec2, vertexCount),
		Faces:    make([][3]uint32, faceCount),
	}
	for i := range g.Vertices {
		g.Vertices[i] = pl.vec3("vertex position")
		g.Normals[i] = common.UnpackSnorm3x10_1x2(pl.u32("vertex normal")).Vec3()
		g.UVs[i] = common.UnpackHalf2x16(pl.u32("vertex uv"))
		pl.skip(4, "vertex padding")
	}
	for i := range g.Faces {
		g.Faces[i] = [3]uint32{pl.u32("face index"), pl.u32("face index"), pl.u32("face index")}
	}
	return g
}
