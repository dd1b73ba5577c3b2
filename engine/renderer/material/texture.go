package material

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ovo/common"
)

// textureCount hands out texture identifiers used by GPU backends as cache keys.
var textureCount atomic.Uint64

// Texture is an opaque decoded image referenced by materials.
type Texture struct {
	// ID uniquely identifies the texture within the process.
	ID uint64

	// Name is the file name as referenced by the scene.
	Name string

	// Path is the resolved file path the texture was read from.
	Path string

	// Format is the detected image format extension (e.g. "png").
	Format string

	// Staging holds the RGBA pixels awaiting GPU upload.
	Staging common.TextureStagingData
}

// NewTexture wraps decoded pixels into a Texture with a fresh identifier.
//
// Parameters:
//   - name: the name the scene refers to the texture by
//   - staging: the decoded RGBA pixels
//
// Returns:
//   - *Texture: the new texture
func NewTexture(name string, staging common.TextureStagingData) *Texture {
	return &Texture{
		ID:      textureCount.Add(1),
		Name:    name,
		Staging: staging,
	}
}
