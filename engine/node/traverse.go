package node

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Walk visits root and its descendants in pre-order (parent before children, sibling order
// preserved). Returning false from fn skips the children of the visited node.
//
// Parameters:
//   - root: the node to start from
//   - fn: visitor receiving each node and its depth below root
func Walk(root Node, fn func(n Node, depth int) bool) {
	if root == nil {
		return
	}
	walk(root, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children() {
		walk(c, depth+1, fn)
	}
}

// FindByName searches the descendants of root depth-first and returns the first node named
// name. The root itself is not considered.
//
// Parameters:
//   - root: the node whose descendants are searched
//   - name: the name to look for
//
// Returns:
//   - Node: the first match, or nil
//   - bool: true if a node was found
func FindByName(root Node, name string) (Node, bool) {
	if root == nil {
		return nil, false
	}
	for _, c := range root.Children() {
		if c.Name() == name {
			return c, true
		}
		if found, ok := FindByName(c, name); ok {
			return found, true
		}
	}
	return nil, false
}

// Count returns the number of nodes in the tree rooted at root, root included.
func Count(root Node) int {
	n := 0
	Walk(root, func(Node, int) bool {
		n++
		return true
	})
	return n
}

// WorldMatrix accumulates the local matrices from the topmost ancestor of n down to n.
// It is the matrix n would receive from a render list built at that ancestor with identity.
//
// Parameters:
//   - n: the node
//
// Returns:
//   - mgl32.Mat4: the world matrix, identity for a nil node
func WorldMatrix(n Node) mgl32.Mat4 {
	world := mgl32.Ident4()
	for cur := n; cur != nil; cur = cur.Parent() {
		world = cur.LocalMatrix().Mul4(world)
	}
	return world
}
