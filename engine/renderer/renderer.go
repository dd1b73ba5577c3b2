package renderer

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/model"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultShaderSource is the forward Phong shader every renderer uses unless WithShader
// replaces it.
//
//go:embed assets/main.wgsl
var DefaultShaderSource string

// DefaultShaderKey is the key of the shader built from DefaultShaderSource.
const DefaultShaderKey = "main"

// ShadowFlattenY is the vertical scale applied to meshes drawn by the planar shadow pass.
const ShadowFlattenY float32 = 0.05

// DefaultSkyColor is the clear color used until SetSkyColor is called.
var DefaultSkyColor = mgl32.Vec4{0.1, 0.1, 0.1, 1}

// DrawStats summarizes one RenderFrame call.
type DrawStats struct {
	NodesVisited      int `yaml:"nodes_visited"`
	MeshesDrawn       int `yaml:"meshes_drawn"`
	ShadowDraws       int `yaml:"shadow_draws"`
	PointLights       int `yaml:"point_lights"`
	DirectionalLights int `yaml:"directional_lights"`
	SpotLights        int `yaml:"spot_lights"`
	LightsDropped     int `yaml:"lights_dropped"`
	UniformsPushed    int `yaml:"uniforms_pushed"`
}

// Lights returns the number of lights that were bound.
func (s DrawStats) Lights() int {
	return s.PointLights + s.DirectionalLights + s.SpotLights
}

// meshEntry is an uploaded mesh and the last frame that drew it.
type meshEntry struct {
	handle MeshHandle
	frame  uint64
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend  Backend
	shader   shader.Shader
	program  shader.Program
	uniforms *shader.Uniforms

	meshHandles    map[uint64]*meshEntry
	frame          uint64
	shadowMaterial material.Material

	skyColor  mgl32.Vec4
	shadows   bool
	maxLights int
	width     int
	height    int
}

// Renderer turns a scene graph into draw calls on a Backend, one frame at a time.
type Renderer interface {
	// Backend returns the GPU collaborator.
	//
	// Returns:
	//   - Backend: the backend draws are issued to
	Backend() Backend

	// Program returns the compiled program used for every draw.
	//
	// Returns:
	//   - shader.Program: the active program
	Program() shader.Program

	// SkyColor returns the clear color of the next frame.
	//
	// Returns:
	//   - mgl32.Vec4: RGBA clear color
	SkyColor() mgl32.Vec4

	// SetSkyColor sets the clear color of subsequent frames. Alpha is forced to 1.
	//
	// Parameters:
	//   - r, g, b: the color components in [0, 1]
	SetSkyColor(r, g, b float32)

	// ShadowsEnabled reports whether the planar shadow pass runs.
	ShadowsEnabled() bool

	// SetShadowsEnabled toggles the planar shadow pass.
	SetShadowsEnabled(enabled bool)

	// MaxLights returns the capacity of the per-frame light set.
	MaxLights() int

	// Viewport returns the size cameras are given at the start of a frame.
	//
	// Returns:
	//   - width, height: the viewport size in pixels
	Viewport() (width, height int)

	// Resize updates the viewport and reconfigures the backend.
	//
	// Parameters:
	//   - width, height: the new viewport size in pixels
	Resize(width, height int)

	// RenderFrame draws the tree under root as seen by cam. It is a no-op returning zero
	// stats when root or cam is nil.
	//
	// Parameters:
	//   - root: the scene root, drawn with identity as its parent matrix
	//   - cam: the viewing camera; it does not need to be part of root's tree
	//
	// Returns:
	//   - DrawStats: counters of the frame
	//   - error: shader.ErrUniformNotFound or a backend error; the frame is ended before returning
	RenderFrame(root node.Node, cam camera.Camera) (DrawStats, error)

	// Release frees the backend resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer and compiles its shader on the backend.
// Without WithBackend a HeadlessBackend is used.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: shader.ErrShaderCompile if the shader cannot be parsed or compiled
func NewRenderer(options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:             &sync.Mutex{},
		uniforms:       shader.NewUniforms(),
		meshHandles:    make(map[uint64]*meshEntry),
		shadowMaterial: material.NewShadowMaterial(),
		skyColor:       DefaultSkyColor,
		maxLights:      light.MaxLights,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		r.backend = NewHeadlessBackend()
	}
	if r.shader == nil {
		s, err := shader.NewShader(DefaultShaderKey, DefaultShaderSource)
		if err != nil {
			return nil, err
		}
		r.shader = s
	}

	p, err := r.backend.CompileProgram(r.shader)
	if err != nil {
		return nil, err
	}
	r.program = p

	if r.width > 0 && r.height > 0 {
		r.backend.Resize(r.width, r.height)
	}
	return r, nil
}

func (r *renderer) Backend() Backend {
	return r.backend
}

func (r *renderer) Program() shader.Program {
	return r.program
}

func (r *renderer) SkyColor() mgl32.Vec4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skyColor
}

func (r *renderer) SetSkyColor(red, green, blue float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skyColor = mgl32.Vec4{red, green, blue, 1}
}

func (r *renderer) ShadowsEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shadows
}

func (r *renderer) SetShadowsEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shadows = enabled
}

func (r *renderer) MaxLights() int {
	return r.maxLights
}

func (r *renderer) Viewport() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
	r.backend.Resize(width, height)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.meshHandles)
	r.backend.Release()
}

func (r *renderer) RenderFrame(root node.Node, cam camera.Camera) (DrawStats, error) {
	var stats DrawStats
	if root == nil || cam == nil {
		return stats, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.frame++
	defer r.releaseStaleMeshes()

	if r.width > 0 && r.height > 0 {
		cam.SetViewport(r.width, r.height)
	}

	list := BuildRenderList(root, mgl32.Ident4())
	stats.NodesVisited = len(list)

	cameraWorld, ok := list.Find(cam)
	if !ok {
		cameraWorld = node.WorldMatrix(cam)
	}

	SortByPriority(list)
	var worlds []mgl32.Mat4
	if r.shadows {
		worlds = make([]mgl32.Mat4, len(list))
		for i, item := range list {
			worlds[i] = item.Matrix
		}
	}
	ApplyView(list, cameraWorld)

	lights := GatherLights(list, r.maxLights)
	stats.PointLights = lights.CountOf(light.LightTypePoint)
	stats.DirectionalLights = lights.CountOf(light.LightTypeDirectional)
	stats.SpotLights = lights.CountOf(light.LightTypeSpot)
	stats.LightsDropped = lights.Dropped

	if err := r.backend.BeginFrame(r.skyColor); err != nil {
		return stats, fmt.Errorf("begin frame: %w", err)
	}
	if err := r.drawList(list, worlds, cameraWorld.Inv(), cam, &lights, &stats); err != nil {
		_ = r.backend.EndFrame()
		return stats, err
	}
	if err := r.backend.EndFrame(); err != nil {
		return stats, fmt.Errorf("end frame: %w", err)
	}
	return stats, nil
}

// drawList issues the mesh draws of a viewed list, followed by the shadow pass when worlds
// holds the world matrices of the list.
func (r *renderer) drawList(list RenderList, worlds []mgl32.Mat4, view mgl32.Mat4, cam camera.Camera, lights *LightSet, stats *DrawStats) error {
	if err := r.backend.UseProgram(r.program); err != nil {
		return err
	}
	r.uniforms.Clear()
	r.uniforms.SetMat4(camera.UniformProjection, cam.ProjectionMatrix())
	lights.Stage(r.uniforms)

	for _, item := range list {
		mesh, ok := item.Node.(model.Mesh)
		if !ok || mesh.Geometry().Empty() {
			continue
		}
		if err := r.drawMesh(mesh, mesh.Material(), item.Matrix, stats); err != nil {
			return err
		}
		stats.MeshesDrawn++
	}

	if worlds == nil {
		return nil
	}
	flatten := mgl32.Scale3D(1, ShadowFlattenY, 1)
	for i, item := range list {
		mesh, ok := item.Node.(model.Mesh)
		if !ok || !mesh.CastsShadows() || mesh.Geometry().Empty() {
			continue
		}
		if err := r.drawMesh(mesh, r.shadowMaterial, view.Mul4(flatten).Mul4(worlds[i]), stats); err != nil {
			return err
		}
		stats.ShadowDraws++
	}
	return nil
}

// drawMesh stages mat, applies the pending uniforms with modelView and draws mesh.
func (r *renderer) drawMesh(mesh model.Mesh, mat material.Material, modelView mgl32.Mat4, stats *DrawStats) error {
	handle, err := r.meshHandle(mesh)
	if err != nil {
		return err
	}
	stageMaterial(r.uniforms, mat)

	n, err := r.uniforms.Apply(r.program, modelView)
	stats.UniformsPushed += n
	if err != nil {
		return fmt.Errorf("draw %s: %w", mesh.Name(), err)
	}
	if err := r.backend.BindAndDraw(handle, mat.Texture()); err != nil {
		return fmt.Errorf("draw %s: %w", mesh.Name(), err)
	}
	return nil
}

// meshHandle uploads the mesh geometry on first use and marks it as drawn this frame.
func (r *renderer) meshHandle(mesh model.Mesh) (MeshHandle, error) {
	if e, ok := r.meshHandles[mesh.ID()]; ok {
		e.frame = r.frame
		return e.handle, nil
	}
	h, err := r.backend.UploadMesh(mesh.Geometry())
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", mesh.Name(), err)
	}
	r.meshHandles[mesh.ID()] = &meshEntry{handle: h, frame: r.frame}
	return h, nil
}

// releaseStaleMeshes frees the meshes the current frame did not draw, such as those of a
// tree replaced by a reload.
func (r *renderer) releaseStaleMeshes() {
	for id, e := range r.meshHandles {
		if e.frame != r.frame {
			r.backend.ReleaseMesh(e.handle)
			delete(r.meshHandles, id)
		}
	}
}

// stageMaterial writes the material uniforms of one draw.
func stageMaterial(u *shader.Uniforms, m material.Material) {
	u.SetVec3(material.UniformEmission, m.Emission())
	u.SetVec3(material.UniformAmbient, m.Ambient())
	u.SetVec3(material.UniformDiffuse, m.Diffuse())
	u.SetVec3(material.UniformSpecular, m.Specular())
	u.SetFloat(material.UniformShininess, m.Shininess())
	u.SetBool(material.UniformHasTexture, m.Texture() != nil)
}
