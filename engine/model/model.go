package model

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
)

// meshImpl is the implementation of the Mesh interface.
type meshImpl struct {
	node.Base

	material     material.Material
	geometry     Geometry
	castsShadows bool

	nodeOptions []node.BuilderOption
}

// Mesh is a renderable scene node. It owns its geometry and shares its material with any
// number of other meshes.
type Mesh interface {
	node.Node

	// Material returns the material used to shade this mesh. Never nil.
	//
	// Returns:
	//   - material.Material: the bound material
	Material() material.Material

	// SetMaterial binds a material. A nil material restores a fresh default material.
	//
	// Parameters:
	//   - m: the material to bind
	SetMaterial(m material.Material)

	// Geometry returns the mesh geometry. The returned pointer aliases the mesh state.
	//
	// Returns:
	//   - *Geometry: the geometry
	Geometry() *Geometry

	// SetGeometry replaces the mesh geometry.
	//
	// Parameters:
	//   - g: the new geometry
	SetGeometry(g Geometry)

	// CastsShadows reports whether the mesh is drawn by the planar shadow pass.
	//
	// Returns:
	//   - bool: true if the mesh casts shadows
	CastsShadows() bool

	// SetCastsShadows enables or disables shadow casting.
	//
	// Parameters:
	//   - casts: true to cast shadows
	SetCastsShadows(casts bool)
}

var _ Mesh = &meshImpl{}

// NewMesh creates a mesh node with a default material and empty geometry.
//
// Parameters:
//   - options: mesh options; use WithNode for the shared node state (name, base matrix, offsets)
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &meshImpl{
		material: material.NewMaterial(),
	}
	for _, opt := range options {
		opt(m)
	}
	node.Init(&m.Base, m, node.KindMesh, node.PriorityDefault, m.nodeOptions...)
	m.nodeOptions = nil
	return m
}

func (m *meshImpl) Material() material.Material {
	return m.material
}

func (m *meshImpl) SetMaterial(mat material.Material) {
	if mat == nil {
		mat = material.NewMaterial()
	}
	m.material = mat
}

func (m *meshImpl) Geometry() *Geometry {
	return &m.geometry
}

func (m *meshImpl) SetGeometry(g Geometry) {
	m.geometry = g
}

func (m *meshImpl) CastsShadows() bool {
	return m.castsShadows
}

func (m *meshImpl) SetCastsShadows(casts bool) {
	m.castsShadows = casts
}
