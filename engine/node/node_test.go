package node

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignsMonotonicIDsAndDefaultNames(t *testing.T) {
	a := New()
	b := New(WithName("b"))

	assert.Greater(t, b.ID(), a.ID())
	assert.Equal(t, DefaultName(a.ID()), a.Name())
	assert.Equal(t, "b", b.Name())
	assert.Equal(t, KindNode, a.Kind())
	assert.Equal(t, PriorityDefault, a.Priority())

	b.SetName("")
	assert.Equal(t, DefaultName(b.ID()), b.Name())
}

func TestNewDefaults(t *testing.T) {
	n := New()
	assert.Equal(t, mgl32.Ident4(), n.BaseMatrix())
	assert.Equal(t, mgl32.Vec3{}, n.Position())
	assert.Equal(t, mgl32.Vec3{}, n.Rotation())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, n.Scale())
	assert.Equal(t, mgl32.Ident4(), n.LocalMatrix())
}

func TestAddChildOwnership(t *testing.T) {
	root := New(WithName("root"))
	a := New(WithName("a"))
	b := New(WithName("b"))

	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	assert.Equal(t, []Node{a, b}, root.Children())
	assert.Same(t, root, a.Parent())

	other := New()
	assert.ErrorIs(t, other.AddChild(a), ErrAlreadyParented)
	assert.ErrorIs(t, root.AddChild(nil), ErrNilNode)
}

func TestAddChildRejectsCycles(t *testing.T) {
	root := New()
	mid := New()
	leaf := New()
	require.NoError(t, root.AddChild(mid))
	require.NoError(t, mid.AddChild(leaf))

	assert.ErrorIs(t, leaf.AddChild(root), ErrCycle)
	assert.ErrorIs(t, root.AddChild(root), ErrCycle)
}

func TestRemoveChild(t *testing.T) {
	root := New()
	a := New()
	b := New()
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))

	assert.True(t, root.RemoveChild(a))
	assert.False(t, root.RemoveChild(a))
	assert.Nil(t, a.Parent())
	assert.Equal(t, []Node{b}, root.Children())

	other := New()
	assert.NoError(t, other.AddChild(a), "a detached node can be re-parented")
}

func TestLocalMatrixComposesOffsetThenBase(t *testing.T) {
	n := New(
		WithBaseMatrix(mgl32.Translate3D(0, 2, 0)),
		WithPosition(mgl32.Vec3{1, 0, 0}),
	)
	p := n.LocalMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.Vec3().ApproxEqual(mgl32.Vec3{1, 2, 0}), "got %v", p)

	n.SetScale(mgl32.Vec3{2, 2, 2})
	p = n.LocalMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.Vec3().ApproxEqual(mgl32.Vec3{1, 4, 0}), "scale applies to the base translation: got %v", p)
}

func TestWalkIsPreOrder(t *testing.T) {
	root := New(WithName("root"))
	a := New(WithName("a"))
	a1 := New(WithName("a1"))
	b := New(WithName("b"))
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(a1))
	require.NoError(t, root.AddChild(b))

	var names []string
	var depths []int
	Walk(root, func(n Node, depth int) bool {
		names = append(names, n.Name())
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
	assert.Equal(t, 4, Count(root))
}

func TestFindByName(t *testing.T) {
	root := New(WithName("target"))
	a := New(WithName("a"))
	first := New(WithName("target"))
	second := New(WithName("target"))
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(first))
	require.NoError(t, root.AddChild(second))

	found, ok := FindByName(root, "target")
	require.True(t, ok)
	assert.Same(t, first, found, "depth-first, root excluded")

	_, ok = FindByName(root, "missing")
	assert.False(t, ok)
}

func TestWorldMatrixAccumulatesAncestors(t *testing.T) {
	root := New(WithPosition(mgl32.Vec3{1, 0, 0}))
	child := New(WithPosition(mgl32.Vec3{0, 2, 0}), WithScale(mgl32.Vec3{2, 2, 2}))
	leaf := New(WithPosition(mgl32.Vec3{0, 0, 3}))
	require.NoError(t, root.AddChild(child))
	require.NoError(t, child.AddChild(leaf))

	origin := WorldMatrix(leaf).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{1, 2, 6, 1}, origin)
	assert.Equal(t, mgl32.Ident4(), WorldMatrix(nil))
}
