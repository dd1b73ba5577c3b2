package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-ovo/engine/model"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/shader"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoFrame is returned when a draw is issued outside BeginFrame / EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrFrameInProgress is returned when BeginFrame is called twice without EndFrame.
	ErrFrameInProgress = errors.New("previous frame not ended")

	// ErrNoProgram is returned when a draw is issued before UseProgram.
	ErrNoProgram = errors.New("no program in use")

	// ErrUnknownMesh is returned when a draw references a handle the backend never issued.
	ErrUnknownMesh = errors.New("unknown mesh handle")
)

// MeshHandle identifies geometry uploaded to a Backend.
type MeshHandle uint64

// Backend is the GPU collaborator of the Renderer. Implementations own every GPU resource;
// the renderer only holds handles and programs returned by them.
//
// A frame is BeginFrame, then any number of UseProgram / BindAndDraw calls, then EndFrame.
// Values pushed to the active program between two draws apply to the next BindAndDraw.
type Backend interface {
	// UploadMesh creates vertex and index buffers for g.
	//
	// Parameters:
	//   - g: the geometry to upload
	//
	// Returns:
	//   - MeshHandle: the handle used by BindAndDraw
	//   - error: an error if the buffers could not be created
	UploadMesh(g *model.Geometry) (MeshHandle, error)

	// ReleaseMesh frees the buffers behind h. Handles are never reused, so a released
	// handle is unknown to later draws. Unknown handles are ignored.
	//
	// Parameters:
	//   - h: a handle returned by UploadMesh
	ReleaseMesh(h MeshHandle)

	// CompileProgram builds a render program from a parsed shader.
	//
	// Parameters:
	//   - s: the shader holding both stages
	//
	// Returns:
	//   - shader.Program: the compiled program
	//   - error: shader.ErrShaderCompile wrapped with the cause
	CompileProgram(s shader.Shader) (shader.Program, error)

	// UseProgram makes p the program of subsequent draws.
	//
	// Parameters:
	//   - p: a program returned by CompileProgram
	//
	// Returns:
	//   - error: an error if p was not compiled by this backend
	UseProgram(p shader.Program) error

	// BindAndDraw draws the mesh behind h with the values currently pushed to the active program.
	//
	// Parameters:
	//   - h: the mesh handle
	//   - texture: the diffuse texture to bind, nil for none
	//
	// Returns:
	//   - error: ErrNoFrame, ErrNoProgram or ErrUnknownMesh
	BindAndDraw(h MeshHandle, texture *material.Texture) error

	// BeginFrame starts a frame cleared to sky.
	//
	// Parameters:
	//   - sky: the clear color
	//
	// Returns:
	//   - error: ErrFrameInProgress or a surface acquisition error
	BeginFrame(sky mgl32.Vec4) error

	// EndFrame submits and presents the frame.
	//
	// Returns:
	//   - error: ErrNoFrame if no frame was started
	EndFrame() error

	// Resize reconfigures the render targets.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	Resize(width, height int)

	// Release frees every resource owned by the backend.
	Release()
}
