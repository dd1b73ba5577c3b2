package renderer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-ovo/engine/node"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderItem pairs a node with the matrix it is drawn with. The matrix is the world matrix
// after BuildRenderList and the model-view matrix after ApplyView.
type RenderItem struct {
	Node   node.Node
	Matrix mgl32.Mat4
}

// RenderList is a flattened scene, one item per node.
type RenderList []RenderItem

// BuildRenderList flattens the tree under root in pre-order, root included, accumulating
// world = parentWorld * local from parent.
//
// Parameters:
//   - root: the subtree to flatten
//   - parent: the world matrix of root's parent, identity for a scene root
//
// Returns:
//   - RenderList: one item per node, parents before children
func BuildRenderList(root node.Node, parent mgl32.Mat4) RenderList {
	if root == nil {
		return nil
	}
	list := make(RenderList, 0, node.Count(root))
	var visit func(n node.Node, parentWorld mgl32.Mat4)
	visit = func(n node.Node, parentWorld mgl32.Mat4) {
		world := parentWorld.Mul4(n.LocalMatrix())
		list = append(list, RenderItem{Node: n, Matrix: world})
		for _, c := range n.Children() {
			visit(c, world)
		}
	}
	visit(root, parent)
	return list
}

// SortByPriority orders the list by ascending node priority. Items of equal priority keep
// their traversal order.
func SortByPriority(list RenderList) {
	slices.SortStableFunc(list, func(a, b RenderItem) int {
		return a.Node.Priority() - b.Node.Priority()
	})
}

// ApplyView pre-multiplies every matrix by the inverse of cameraWorld, moving the list into
// eye space.
//
// Parameters:
//   - list: the list to transform in place
//   - cameraWorld: the world matrix of the viewing camera
func ApplyView(list RenderList, cameraWorld mgl32.Mat4) {
	view := cameraWorld.Inv()
	for i := range list {
		list[i].Matrix = view.Mul4(list[i].Matrix)
	}
}

// Find returns the matrix the list holds for n.
//
// Parameters:
//   - n: the node to look up
//
// Returns:
//   - mgl32.Mat4: the node's matrix
//   - bool: false if n is not in the list
func (l RenderList) Find(n node.Node) (mgl32.Mat4, bool) {
	if n == nil {
		return mgl32.Mat4{}, false
	}
	for _, item := range l {
		if item.Node.ID() == n.ID() {
			return item.Matrix, true
		}
	}
	return mgl32.Mat4{}, false
}

// Count returns the number of items of the given kind.
func (l RenderList) Count(kind node.Kind) int {
	n := 0
	for _, item := range l {
		if item.Node.Kind() == kind {
			n++
		}
	}
	return n
}
