package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedTexture reports a texture file whose content is not a decodable image.
var ErrUnsupportedTexture = errors.New("unsupported texture format")

// TextureLoader decodes image files into RGBA textures.
type TextureLoader interface {
	// Load reads and decodes the image at path. Repeated loads of an unchanged file return
	// the same texture.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - *material.Texture: the decoded texture
	//   - error: error if the file cannot be read or is not a supported image
	Load(path string) (*material.Texture, error)
}

type cachedTexture struct {
	modTime time.Time
	size    int64
	texture *material.Texture
}

// textureLoader is the implementation of the TextureLoader interface.
type textureLoader struct {
	mu    sync.Mutex
	cache map[string]cachedTexture
	flipV bool
}

var _ TextureLoader = &textureLoader{}

// NewTextureLoader creates a TextureLoader.
//
// Parameters:
//   - flipV: true to store rows bottom-up, matching the V axis of OVO texture coordinates
//
// Returns:
//   - TextureLoader: the new texture loader
func NewTextureLoader(flipV bool) TextureLoader {
	return &textureLoader{
		cache: make(map[string]cachedTexture),
		flipV: flipV,
	}
}

func (t *textureLoader) Load(path string) (*material.Texture, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat texture %s: %w", path, err)
	}

	t.mu.Lock()
	cached, ok := t.cache[path]
	t.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.texture, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture %s: %w", path, err)
	}
	tex, err := t.decode(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	tex.Path = path

	t.mu.Lock()
	t.cache[path] = cachedTexture{modTime: info.ModTime(), size: info.Size(), texture: tex}
	t.mu.Unlock()
	return tex, nil
}

// decode sniffs the image format from its magic bytes and converts it to RGBA.
func (t *textureLoader) decode(name string, data []byte) (*material.Texture, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return nil, ErrUnsupportedTexture
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedTexture, kind.Extension, err)
	}

	var rgba *image.RGBA
	if t.flipV {
		rgba = transform.FlipV(img)
	} else {
		bounds := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	size := rgba.Bounds().Size()
	tex := material.NewTexture(name, common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(size.X),
		Height: uint32(size.Y),
	})
	tex.Format = kind.Extension
	return tex, nil
}
