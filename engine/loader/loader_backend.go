package loader

import (
	"io"
	"log"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
)

// loaderBackend decodes one scene format. A backend instance serves a single load at a
// time; concurrent loads each use their own instance.
type loaderBackend interface {
	// Decode reads a whole scene from r.
	//
	// Parameters:
	//   - r: the scene byte stream
	//   - dir: the directory texture names are resolved against
	//
	// Returns:
	//   - node.Node: the scene root
	//   - error: error if the stream is malformed
	Decode(r io.Reader, dir string) (node.Node, error)
}

// ovoLoaderBackend is the loaderBackend for OVO scenes.
type ovoLoaderBackend struct {
	warn        WarningHandler
	textures    TextureLoader
	meshShadows bool
}

var _ loaderBackend = &ovoLoaderBackend{}

func newOVOLoaderBackend(warn WarningHandler, textures TextureLoader, meshShadows bool) loaderBackend {
	return &ovoLoaderBackend{
		warn:        warn,
		textures:    textures,
		meshShadows: meshShadows,
	}
}

func (b *ovoLoaderBackend) Decode(r io.Reader, dir string) (node.Node, error) {
	p := &ovoParser{
		dir:         dir,
		warn:        b.warn,
		textures:    b.textures,
		meshShadows: b.meshShadows,
		materials:   make(map[string]material.Material),
	}
	root, err := p.parse(r)
	if err != nil {
		return nil, err
	}
	log.Printf("[Loader] OVO version %d: %d nodes, %d materials, %d chunks (%d skipped)",
		p.version, node.Count(root)-1, len(p.materials), p.chunksRead, p.chunksSkipped)
	return root, nil
}
