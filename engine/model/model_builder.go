package model

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer/material"
)

// MeshBuilderOption is a function that configures a mesh during construction.
type MeshBuilderOption func(*meshImpl)

// WithNode is an option builder that forwards options for the shared node state.
//
// Parameters:
//   - options: node options such as node.WithName or node.WithBaseMatrix
//
// Returns:
//   - MeshBuilderOption: a function that records the node options on a mesh
func WithNode(options ...node.BuilderOption) MeshBuilderOption {
	return func(mesh *meshImpl) {
		mesh.nodeOptions = append(mesh.nodeOptions, options...)
	}
}

// WithMaterial is an option builder that binds a shared material.
// A nil material keeps the default material.
//
// Parameters:
//   - m: the material to bind
//
// Returns:
//   - MeshBuilderOption: a function that applies the material option to a mesh
func WithMaterial(m material.Material) MeshBuilderOption {
	return func(mesh *meshImpl) {
		if m != nil {
			mesh.material = m
		}
	}
}

// WithGeometry is an option builder that installs the mesh geometry.
//
// Parameters:
//   - g: the geometry
//
// Returns:
//   - MeshBuilderOption: a function that applies the geometry option to a mesh
func WithGeometry(g Geometry) MeshBuilderOption {
	return func(mesh *meshImpl) {
		mesh.geometry = g
	}
}

// WithCastsShadows is an option builder that enables shadow casting.
//
// Parameters:
//   - casts: true to draw the mesh in the planar shadow pass
//
// Returns:
//   - MeshBuilderOption: a function that applies the shadow option to a mesh
func WithCastsShadows(casts bool) MeshBuilderOption {
	return func(mesh *meshImpl) {
		mesh.castsShadows = casts
	}
}
