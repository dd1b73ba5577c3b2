package main

import (
	"github.com/Carmen-Shannon/oxy-ovo/engine/camera"
	"github.com/Carmen-Shannon/oxy-ovo/engine/light"
	"github.com/Carmen-Shannon/oxy-ovo/engine/model"
	"github.com/Carmen-Shannon/oxy-ovo/engine/node"
	"github.com/Carmen-Shannon/oxy-ovo/engine/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// sceneReport is the YAML document printed for each scene.
type sceneReport struct {
	Scene string              `yaml:"scene"`
	Path  string              `yaml:"path"`
	Nodes int                 `yaml:"nodes"`
	Tree  *nodeInfo           `yaml:"tree,omitempty"`
	Frame *renderer.DrawStats `yaml:"frame,omitempty"`
}

// nodeInfo is one node of the dumped tree.
type nodeInfo struct {
	Name     string      `yaml:"name"`
	Kind     string      `yaml:"kind"`
	Position [3]float32  `yaml:"position,flow"`
	Mesh     *meshInfo   `yaml:"mesh,omitempty"`
	Light    *lightInfo  `yaml:"light,omitempty"`
	Camera   *cameraInfo `yaml:"camera,omitempty"`
	Children []*nodeInfo `yaml:"children,omitempty"`
}

type meshInfo struct {
	Vertices     int    `yaml:"vertices"`
	Faces        int    `yaml:"faces"`
	Material     string `yaml:"material"`
	Texture      string `yaml:"texture,omitempty"`
	CastsShadows bool   `yaml:"casts_shadows"`
}

type lightInfo struct {
	Type   string     `yaml:"type"`
	Color  [3]float32 `yaml:"color,flow"`
	Radius float32    `yaml:"radius,omitempty"`
}

type cameraInfo struct {
	Type   string `yaml:"type"`
	Active bool   `yaml:"active"`
}

// describe mirrors the tree under root. Positions are the world translation, so a node
// placed only through its base matrix still reports where it ends up.
func describe(root node.Node) *nodeInfo {
	return describeNode(root, node.WorldMatrix(root))
}

func describeNode(n node.Node, world mgl32.Mat4) *nodeInfo {
	info := &nodeInfo{
		Name:     n.Name(),
		Kind:     n.Kind().String(),
		Position: world.Col(3).Vec3(),
	}

	switch v := n.(type) {
	case model.Mesh:
		g := v.Geometry()
		mi := &meshInfo{
			Vertices:     len(g.Vertices),
			Faces:        len(g.Faces),
			Material:     v.Material().Name(),
			CastsShadows: v.CastsShadows(),
		}
		if tex := v.Material().Texture(); tex != nil {
			mi.Texture = tex.Name
		}
		info.Mesh = mi
	case light.Light:
		li := &lightInfo{
			Type:  v.Type().String(),
			Color: v.Diffuse(),
		}
		if v.Type() != light.LightTypeDirectional {
			li.Radius = v.Radius()
		}
		info.Light = li
	case camera.Camera:
		info.Camera = &cameraInfo{Type: v.Type().String(), Active: v.Active()}
	}

	for _, child := range n.Children() {
		info.Children = append(info.Children, describeNode(child, world.Mul4(child.LocalMatrix())))
	}
	return info
}
