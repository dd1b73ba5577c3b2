package renderer

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-ovo/engine/model"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// HeadlessDraw is one draw recorded by the headless backend.
type HeadlessDraw struct {
	// Mesh is the handle that was drawn.
	Mesh MeshHandle

	// Program is the key of the program in use.
	Program string

	// TextureID is the ID of the bound texture, zero for none.
	TextureID uint64

	// IndexCount is the number of indices of the drawn geometry.
	IndexCount int

	// Values holds every value pushed to the program before the draw, by uniform name.
	Values map[string]shader.Value

	// Block is a copy of the packed uniform block at draw time.
	Block []byte
}

// headlessProgram keeps pushed values on the CPU.
type headlessProgram struct {
	key    string
	block  *shader.UniformBlock
	values map[string]shader.Value
}

var _ shader.Program = &headlessProgram{}

func (p *headlessProgram) Key() string {
	return p.key
}

func (p *headlessProgram) ResolveUniform(name string) (shader.UniformSlot, bool) {
	return p.block.Resolve(name)
}

func (p *headlessProgram) PushUniform(slot shader.UniformSlot, v shader.Value) error {
	if err := p.block.Write(slot, v); err != nil {
		return err
	}
	p.values[slot.Name] = v
	return nil
}

// HeadlessBackend is a Backend without a GPU. It validates the frame protocol and records
// every draw, which makes it the backend of tests and of the ovoinfo tool.
type HeadlessBackend struct {
	mu *sync.Mutex

	meshes     map[MeshHandle]*model.Geometry
	lastHandle MeshHandle
	programs   map[string]*headlessProgram
	textures   map[uint64]struct{}
	current    *headlessProgram

	inFrame bool
	frames  int
	sky     mgl32.Vec4
	width   int
	height  int
	draws   []HeadlessDraw
}

var _ Backend = &HeadlessBackend{}

// NewHeadlessBackend creates an empty headless backend.
//
// Returns:
//   - *HeadlessBackend: the backend
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		mu:       &sync.Mutex{},
		meshes:   make(map[MeshHandle]*model.Geometry),
		programs: make(map[string]*headlessProgram),
		textures: make(map[uint64]struct{}),
	}
}

func (b *HeadlessBackend) UploadMesh(g *model.Geometry) (MeshHandle, error) {
	if g == nil {
		return 0, fmt.Errorf("upload mesh: nil geometry")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastHandle++
	b.meshes[b.lastHandle] = g
	return b.lastHandle, nil
}

func (b *HeadlessBackend) ReleaseMesh(h MeshHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.meshes, h)
}

func (b *HeadlessBackend) CompileProgram(s shader.Shader) (shader.Program, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil shader", shader.ErrShaderCompile)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	p := &headlessProgram{
		key:    s.Key(),
		block:  shader.NewUniformBlock(s.UniformLayout()),
		values: make(map[string]shader.Value),
	}
	b.programs[p.key] = p
	return p, nil
}

func (b *HeadlessBackend) UseProgram(p shader.Program) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	hp, ok := p.(*headlessProgram)
	if !ok || b.programs[hp.key] != hp {
		return fmt.Errorf("use program: %T was not compiled by the headless backend", p)
	}
	b.current = hp
	return nil
}

func (b *HeadlessBackend) BindAndDraw(h MeshHandle, texture *material.Texture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame {
		return ErrNoFrame
	}
	if b.current == nil {
		return ErrNoProgram
	}
	g, ok := b.meshes[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMesh, h)
	}

	draw := HeadlessDraw{
		Mesh:       h,
		Program:    b.current.key,
		IndexCount: g.IndexCount(),
		Values:     maps.Clone(b.current.values),
		Block:      slices.Clone(b.current.block.Bytes()),
	}
	if texture != nil {
		b.textures[texture.ID] = struct{}{}
		draw.TextureID = texture.ID
	}
	b.draws = append(b.draws, draw)
	return nil
}

func (b *HeadlessBackend) BeginFrame(sky mgl32.Vec4) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFrame {
		return ErrFrameInProgress
	}
	b.inFrame = true
	b.sky = sky
	b.draws = b.draws[:0]
	return nil
}

func (b *HeadlessBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame {
		return ErrNoFrame
	}
	b.inFrame = false
	b.frames++
	return nil
}

func (b *HeadlessBackend) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *HeadlessBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.meshes)
	clear(b.programs)
	clear(b.textures)
	b.current = nil
}

// Draws returns the draws of the current or last finished frame.
func (b *HeadlessBackend) Draws() []HeadlessDraw {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.draws)
}

// Frames returns the number of finished frames.
func (b *HeadlessBackend) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// MeshCount returns the number of uploaded meshes that have not been released.
func (b *HeadlessBackend) MeshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.meshes)
}

// TextureCount returns the number of distinct textures bound so far.
func (b *HeadlessBackend) TextureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.textures)
}

// SkyColor returns the clear color of the last frame.
func (b *HeadlessBackend) SkyColor() mgl32.Vec4 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sky
}

// Size returns the last size passed to Resize.
func (b *HeadlessBackend) Size() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}
