package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for mesh pipelines.
// Matches GPUVertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single interleaved mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// GPUVertexStride is the byte size of one interleaved vertex.
const GPUVertexStride = 32

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the vertex into dst, which must hold at least GPUVertexStride bytes.
//
// Parameters:
//   - dst: destination buffer
func (g *GPUVertex) Marshal(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(dst[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(dst[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(dst[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(dst[24:28], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(dst[28:32], math.Float32bits(g.TexCoord[1]))
}

// MarshalVertices interleaves positions, normals and UVs into a vertex buffer.
// Missing normals or UVs are written as zero.
//
// Parameters:
//   - g: the geometry to interleave
//
// Returns:
//   - []byte: VertexCount * GPUVertexStride bytes ready for upload
func MarshalVertices(g *Geometry) []byte {
	buf := make([]byte, len(g.Vertices)*GPUVertexStride)
	for i, p := range g.Vertices {
		v := GPUVertex{Position: p}
		if i < len(g.Normals) {
			v.Normal = g.Normals[i]
		}
		if i < len(g.UVs) {
			v.TexCoord = g.UVs[i]
		}
		v.Marshal(buf[i*GPUVertexStride:])
	}
	return buf
}

// MarshalIndices flattens the face list into a little-endian uint32 index buffer.
//
// Parameters:
//   - g: the geometry whose faces are flattened
//
// Returns:
//   - []byte: IndexCount * 4 bytes ready for upload
func MarshalIndices(g *Geometry) []byte {
	buf := make([]byte, len(g.Faces)*12)
	for i, f := range g.Faces {
		binary.LittleEndian.PutUint32(buf[i*12:], f[0])
		binary.LittleEndian.PutUint32(buf[i*12+4:], f[1])
		binary.LittleEndian.PutUint32(buf[i*12+8:], f[2])
	}
	return buf
}
