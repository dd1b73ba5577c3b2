package loader

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
)

// Errors returned by scene loading. They are always wrapped with the path or chunk they
// concern; match them with errors.Is.
var (
	// ErrFileNotFound reports a scene file that is missing or cannot be opened.
	ErrFileNotFound = errors.New("scene file not found")

	// ErrTruncatedStream reports a stream that ends inside a chunk header or payload.
	ErrTruncatedStream = errors.New("truncated OVO stream")

	// ErrUnsupportedChunk reports a recognised chunk whose payload does not match its layout,
	// or a node chunk that arrives after the hierarchy has been closed.
	ErrUnsupportedChunk = errors.New("unsupported OVO chunk")
)

// ChunkType is the 32-bit tag leading every OVO chunk.
type ChunkType uint32

const (
	ChunkVersion  ChunkType = 0
	ChunkNode     ChunkType = 1
	ChunkMaterial ChunkType = 9
	ChunkLight    ChunkType = 16
	ChunkMesh     ChunkType = 18
)

// String returns the chunk name, or its number for chunks the loader skips.
func (c ChunkType) String() string {
	switch c {
	case ChunkVersion:
		return "version"
	case ChunkNode:
		return "node"
	case ChunkMaterial:
		return "material"
	case ChunkLight:
		return "light"
	case ChunkMesh:
		return "mesh"
	default:
		return fmt.Sprintf("chunk(%d)", uint32(c))
	}
}

// SceneRootName is the name of the synthetic node every loaded scene hangs from.
const SceneRootName = "Scene Root"

// chunkHeaderSize is the byte size of the type and length words.
const chunkHeaderSize = 8

// Mesh physics block layout. The bytes are skipped, only the counts are read.
const (
	physicsHeaderSkip = 40
	physicsHullsSkip  = 20
	hullCentroidSize  = 12
	hullVertexSize    = 12
	hullFaceSize      = 12
)

// lodVertexSize is position vec3, packed normal, packed uv and one padding word.
const lodVertexSize = 12 + 4 + 4 + 4

// WarningHandler receives the recoverable problems found while loading a scene.
type WarningHandler func(format string, args ...any)

// defaultWarningHandler logs with the loader tag.
func defaultWarningHandler(format string, args ...any) {
	log.Printf("[Loader] WARNING: "+format, args...)
}

// frame is one open level of the pre-order hierarchy: the node receiving children and
// the number of children it still expects.
type frame struct {
	node      node.Node
	remaining uint32
}
