package wgpu_backend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// program is a render pipeline plus the CPU image of its per-draw block.
type program struct {
	key      string
	pipeline *wgpu.RenderPipeline
	block    *shader.UniformBlock

	groupLayouts []*wgpu.BindGroupLayout
	blockGroup   int
	blockBinding int
	blockUsage   wgpu.BufferUsage
	slots        []*drawSlot

	// texture binding, textureGroup is -1 when the shader samples no texture
	textureGroup   int
	textureBinding int
	samplerBinding int
	textureGroups  map[uint64]*wgpu.BindGroup
}

var _ shader.Program = &program{}

func (p *program) Key() string {
	return p.key
}

func (p *program) ResolveUniform(name string) (shader.UniformSlot, bool) {
	return p.block.Resolve(name)
}

func (p *program) PushUniform(slot shader.UniformSlot, v shader.Value) error {
	return p.block.Write(slot, v)
}

// slot returns the block buffer of the i-th draw of a frame, creating it on first use.
func (p *program) slot(device *wgpu.Device, i int) (*drawSlot, error) {
	if i < len(p.slots) {
		return p.slots[i], nil
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("%s draw %d", p.key, i),
		Size:  p.block.Layout().Size,
		Usage: p.blockUsage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("%s draw %d bind group", p.key, i),
		Layout: p.groupLayouts[p.blockGroup],
		Entries: []wgpu.BindGroupEntry{{
			Binding: uint32(p.blockBinding),
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		buf.Release()
		return nil, err
	}
	s := &drawSlot{buffer: buf, bindGroup: bg}
	p.slots = append(p.slots, s)
	return s, nil
}

// textureBindGroup returns the bind group sampling tex, creating it on first use.
func (p *program) textureBindGroup(device *wgpu.Device, id uint64, tex *gpuTexture, sampler *wgpu.Sampler) (*wgpu.BindGroup, error) {
	if bg, ok := p.textureGroups[id]; ok {
		return bg, nil
	}
	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("%s texture %d bind group", p.key, id),
		Layout: p.groupLayouts[p.textureGroup],
		Entries: []wgpu.BindGroupEntry{
			{Binding: uint32(p.textureBinding), TextureView: tex.view},
			{Binding: uint32(p.samplerBinding), Sampler: sampler},
		},
	})
	if err != nil {
		return nil, err
	}
	p.textureGroups[id] = bg
	return bg, nil
}

func (p *program) release() {
	for _, s := range p.slots {
		s.release()
	}
	for _, bg := range p.textureGroups {
		bg.Release()
	}
	for _, l := range p.groupLayouts {
		if l != nil {
			l.Release()
		}
	}
	p.pipeline.Release()
}
