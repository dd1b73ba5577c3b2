// Package wgpu_backend implements renderer.Backend on WebGPU. It is the only engine package
// that talks to the GPU.
package wgpu_backend

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-ovo/common"
	"github.com/Carmen-Shannon/oxy-ovo/engine/model"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// whiteTextureID keys the 1x1 white texture bound for untextured draws.
const whiteTextureID = 0

// backend is the WebGPU implementation of renderer.Backend.
type backend struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode
	sampleCount          MSAASampleCount

	surfaceFormat        wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	meshes     map[renderer.MeshHandle]*meshBuffers
	lastHandle renderer.MeshHandle
	textures   map[uint64]*gpuTexture
	sampler    *wgpu.Sampler
	programs   []*program
	current    *program

	// frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	drawIndex    int
}

var _ renderer.Backend = &backend{}

// NewBackend creates a WebGPU device for the given surface and configures the surface.
// The calling goroutine is locked to its OS thread, as required by the windowing system.
//
// Parameters:
//   - surfaceDescriptor: the platform-specific surface descriptor, typically from Window.SurfaceDescriptor()
//   - width, height: the initial surface size in pixels
//   - options: variadic list of BackendBuilderOption functions to configure the backend
//
// Returns:
//   - renderer.Backend: the backend
//   - error: an error if no adapter or device could be acquired
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...BackendBuilderOption) (renderer.Backend, error) {
	runtime.LockOSThread()
	b := &backend{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		sampleCount: MSAA4x,
		meshes:      make(map[renderer.MeshHandle]*meshBuffers),
		textures:    make(map[uint64]*gpuTexture),
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()
	b.surfaceFormat = b.surface.GetCapabilities(a).Formats[0]

	b.sampler, err = d.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Diffuse Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	white := common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	if _, err := b.uploadTexture(whiteTextureID, "white", white); err != nil {
		return nil, err
	}

	b.Resize(width, height)
	return b, nil
}

func (b *backend) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()
	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if msaaEnabled {
		// the render pass draws into the MSAA texture and resolves into the swapchain view
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = tex
		b.msaaTextureView, err = tex.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depth
	b.depthTextureView, err = depth.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    b.msaaTextureView,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: storeOp,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *backend) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
		b.msaaTextureView, b.msaaTexture = nil, nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
		b.depthTextureView, b.depthTexture = nil, nil
	}
}

func (b *backend) UploadMesh(g *model.Geometry) (renderer.MeshHandle, error) {
	if g == nil || g.Empty() {
		return 0, fmt.Errorf("upload mesh: empty geometry")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	h := b.lastHandle + 1
	m := &meshBuffers{indexCount: uint32(g.IndexCount())}

	vertexData := model.MarshalVertices(g)
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("Mesh %d Vertex Buffer", h),
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, err
	}
	b.queue.WriteBuffer(buf, 0, vertexData)
	m.vertex = buf

	indexData := model.MarshalIndices(g)
	buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("Mesh %d Index Buffer", h),
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		m.release()
		return 0, err
	}
	b.queue.WriteBuffer(buf, 0, indexData)
	m.index = buf

	b.lastHandle = h
	b.meshes[h] = m
	return h, nil
}

func (b *backend) ReleaseMesh(h renderer.MeshHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.meshes[h]; ok {
		m.release()
		delete(b.meshes, h)
	}
}

// uploadTexture creates a sampled RGBA texture from staging pixels. The caller holds b.mu
// or is the constructor.
func (b *backend) uploadTexture(id uint64, label string, staging common.TextureStagingData) (*gpuTexture, error) {
	size := wgpu.Extent3D{Width: staging.Width, Height: staging.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create texture view %s: %w", label, err)
	}
	t := &gpuTexture{texture: tex, view: view}
	b.textures[id] = t
	return t, nil
}

func (b *backend) CompileProgram(s shader.Shader) (shader.Program, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil shader", shader.ErrShaderCompile)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.createProgram(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shader.ErrShaderCompile, s.Key(), err)
	}
	b.programs = append(b.programs, p)
	return p, nil
}

func (b *backend) createProgram(s shader.Shader) (*program, error) {
	layout := s.UniformLayout()
	p := &program{
		key:           s.Key(),
		block:         shader.NewUniformBlock(layout),
		blockGroup:    layout.Binding.Group,
		blockBinding:  layout.Binding.Binding,
		blockUsage:    wgpu.BufferUsageStorage,
		textureGroup:  -1,
		textureGroups: make(map[uint64]*wgpu.BindGroup),
	}
	if layout.Binding.AddressSpace == "uniform" {
		p.blockUsage = wgpu.BufferUsageUniform
	}
	if tg, tb, ok := s.Provider(shader.AnnotationArgDiffuseTexture); ok {
		sg, sb, ok := s.Provider(shader.AnnotationArgDiffuseSampler)
		if !ok || sg != tg {
			return nil, fmt.Errorf("diffuse texture and sampler must share a bind group")
		}
		p.textureGroup, p.textureBinding, p.samplerBinding = tg, tb, sb
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: s.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.Source(),
		},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	for g, desc := range bindGroupLayoutDescriptors(s.Key(), s.Bindings()) {
		l, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return nil, fmt.Errorf("bind group layout %d: %w", g, err)
		}
		p.groupLayouts = append(p.groupLayouts, l)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            s.Key(),
		BindGroupLayouts: p.groupLayouts,
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	vertexLayouts, err := vertexBufferLayouts(s.VertexLayouts())
	if err != nil {
		return nil, err
	}

	p.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  s.Key() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: s.VertexEntry(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: s.FragmentEntry(),
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		// less-equal lets the flattened shadow pass land on coplanar floors
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (b *backend) UseProgram(p shader.Program) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	wp, ok := p.(*program)
	if !ok {
		return fmt.Errorf("use program: %T was not compiled by the wgpu backend", p)
	}
	b.current = wp
	if b.framePass != nil {
		b.framePass.SetPipeline(wp.pipeline)
	}
	return nil
}

func (b *backend) BeginFrame(sky mgl32.Vec4) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return renderer.ErrFrameInProgress
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}
	attachment.ClearValue = wgpu.Color{R: float64(sky[0]), G: float64(sky[1]), B: float64(sky[2]), A: float64(sky[3])}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.drawIndex = 0
	if b.current != nil {
		b.framePass.SetPipeline(b.current.pipeline)
	}
	return nil
}

func (b *backend) BindAndDraw(h renderer.MeshHandle, texture *material.Texture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return renderer.ErrNoFrame
	}
	p := b.current
	if p == nil {
		return renderer.ErrNoProgram
	}
	m, ok := b.meshes[h]
	if !ok {
		return fmt.Errorf("%w: %d", renderer.ErrUnknownMesh, h)
	}

	slot, err := p.slot(b.device, b.drawIndex)
	if err != nil {
		return fmt.Errorf("draw slot %d: %w", b.drawIndex, err)
	}
	b.queue.WriteBuffer(slot.buffer, 0, p.block.Bytes())
	b.framePass.SetBindGroup(uint32(p.blockGroup), slot.bindGroup, nil)

	if p.textureGroup >= 0 {
		bg, err := b.textureBindGroup(p, texture)
		if err != nil {
			return err
		}
		b.framePass.SetBindGroup(uint32(p.textureGroup), bg, nil)
	}

	b.framePass.SetVertexBuffer(0, m.vertex, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
	b.drawIndex++
	return nil
}

// textureBindGroup uploads texture on first use and returns the bind group sampling it.
// A nil texture binds the white texture.
func (b *backend) textureBindGroup(p *program, texture *material.Texture) (*wgpu.BindGroup, error) {
	id := uint64(whiteTextureID)
	if texture != nil {
		id = texture.ID
	}
	tex, ok := b.textures[id]
	if !ok {
		var err error
		tex, err = b.uploadTexture(id, texture.Name, texture.Staging)
		if err != nil {
			return nil, err
		}
	}
	return p.textureBindGroup(b.device, id, tex, b.sampler)
}

func (b *backend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return renderer.ErrNoFrame
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err == nil {
		b.queue.Submit(commandBuffer)
		commandBuffer.Release()
		b.surface.Present()
	}
	b.frameEncoder.Release()
	b.frameEncoder = nil

	b.frameView.Release()
	b.frameSurface.Release()
	b.frameView = nil
	b.frameSurface = nil
	return err
}

func (b *backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.programs {
		p.release()
	}
	for _, m := range b.meshes {
		m.release()
	}
	for _, t := range b.textures {
		t.release()
	}
	b.programs, b.current = nil, nil
	clear(b.meshes)
	clear(b.textures)
	b.sampler.Release()
	b.releaseTargets()
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}
