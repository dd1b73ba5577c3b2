package wgpu_backend

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) wgpu() wgpu.PresentMode {
	if m == PresentModeVSync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// meshBuffers holds the GPU buffers of one uploaded geometry.
type meshBuffers struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount uint32
}

func (m *meshBuffers) release() {
	if m.vertex != nil {
		m.vertex.Release()
	}
	if m.index != nil {
		m.index.Release()
	}
}

// drawSlot is the per-draw block buffer bound for the n-th draw of a frame. WriteBuffer
// calls land before the frame's command buffer executes, so each draw of a frame needs
// its own buffer.
type drawSlot struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

func (s *drawSlot) release() {
	s.bindGroup.Release()
	s.buffer.Release()
}

// gpuTexture is an uploaded texture and its view.
type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *gpuTexture) release() {
	t.view.Release()
	t.texture.Release()
}
