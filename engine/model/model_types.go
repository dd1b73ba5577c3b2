package model

import "github.com/go-gl/mathgl/mgl32"

// Geometry is the renderable data of a mesh: parallel per-vertex arrays plus a triangle list.
// Every face index must be smaller than the vertex count; this is not checked.
type Geometry struct {
	// Vertices are the vertex positions in model space.
	Vertices []mgl32.Vec3

	// Normals are the per-vertex normals, parallel to Vertices.
	Normals []mgl32.Vec3

	// UVs are the per-vertex texture coordinates, parallel to Vertices.
	UVs []mgl32.Vec2

	// Faces are triangles expressed as three vertex indices.
	Faces [][3]uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices)
}

// FaceCount returns the number of triangles.
func (g *Geometry) FaceCount() int {
	return len(g.Faces)
}

// IndexCount returns the number of indices needed to draw every face.
func (g *Geometry) IndexCount() int {
	return len(g.Faces) * 3
}

// Empty reports whether the geometry has nothing to draw.
func (g *Geometry) Empty() bool {
	return len(g.Vertices) == 0 || len(g.Faces) == 0
}
