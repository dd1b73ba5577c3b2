package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"

	"github.com/go-gl/mathgl/mgl32"
)

// ovoParser rebuilds one scene graph from an OVO stream. A parser is not safe for
// concurrent use: the material registry belongs to the load in progress.
type ovoParser struct {
	dir           string
	warn          WarningHandler
	textures      TextureLoader
	meshShadows   bool
	materials     map[string]material.Material
	version       uint32
	chunksRead    int
	chunksSkipped int
}

// nodeHeader is the prefix shared by node, mesh and light chunks.
type nodeHeader struct {
	name     string
	base     mgl32.Mat4
	children uint32
}

func (h nodeHeader) options() []node.BuilderOption {
	return []node.BuilderOption{node.WithName(h.name), node.WithBaseMatrix(h.base)}
}

func readNodeHeader(p *payload) nodeHeader {
	return nodeHeader{
		name:     p.str("name"),
		base:     p.mat4("matrix"),
		children: p.u32("child count"),
	}
}

// parse consumes r to the end and returns the synthetic scene root.
//
// Parameters:
//   - r: the OVO byte stream
//
// Returns:
//   - node.Node: the scene root holding the decoded top-level nodes
//   - error: ErrTruncatedStream or ErrUnsupportedChunk wrapped with the failing chunk
func (p *ovoParser) parse(r io.Reader) (node.Node, error) {
	root := node.New(node.WithName(SceneRootName))
	stack := []frame{{node: root, remaining: 1}}

	chunks := newChunkReader(r)
	for {
		ch, err := chunks.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p.chunksRead++

		var (
			n        node.Node
			children uint32
		)
		switch ch.kind {
		case ChunkVersion:
			pl := newPayload(ch)
			p.version = pl.u32("version")
			if pl.err != nil {
				return nil, pl.err
			}
		case ChunkMaterial:
			mat, err := p.decodeMaterial(newPayload(ch))
			if err != nil {
				return nil, err
			}
			p.materials[mat.Name()] = mat
		case ChunkNode:
			pl := newPayload(ch)
			h := readNodeHeader(pl)
			if pl.err != nil {
				return nil, pl.err
			}
			n, children = node.New(h.options()...), h.children
		case ChunkMesh:
			if n, children, err = p.decodeMesh(newPayload(ch)); err != nil {
				return nil, err
			}
		case ChunkLight:
			if n, children, err = p.decodeLight(newPayload(ch)); err != nil {
				return nil, err
			}
		default:
			p.chunksSkipped++
			p.warn("unsupported chunk type %d at offset %d (%d bytes), skipping", uint32(ch.kind), ch.offset, len(ch.payload))
		}

		if n != nil {
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: %s chunk %q at offset %d has no open parent", ErrUnsupportedChunk, ch.kind, n.Name(), ch.offset)
			}
			top := &stack[len(stack)-1]
			if err := top.node.AddChild(n); err != nil {
				return nil, fmt.Errorf("attach %q under %q: %w", n.Name(), top.node.Name(), err)
			}
			top.remaining--
			stack = append(stack, frame{node: n, remaining: children})
		}

		for len(stack) > 0 && stack[len(stack)-1].remaining == 0 {
			stack = stack[:len(stack)-1]
		}
	}

	return root, nil
}
