package node

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ovo/common"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies the concrete variant behind a Node.
type Kind int

const (
	// KindNode is a structural node that contributes no visual output.
	KindNode Kind = iota

	// KindMesh is a renderable node carrying geometry and a material.
	KindMesh

	// KindLight is a point, directional or spot light.
	KindLight

	// KindCamera is a perspective or orthographic camera.
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	case KindCamera:
		return "camera"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Draw priorities of the built-in variants. The render list is ordered by ascending
// priority, so cameras are finalized after geometry and lights.
const (
	PriorityDefault = 0
	PriorityLight   = 100
	PriorityCamera  = 200
)

var (
	// ErrNilNode is returned when a nil node is attached.
	ErrNilNode = errors.New("node is nil")

	// ErrAlreadyParented is returned when attaching a node that already has a parent.
	ErrAlreadyParented = errors.New("node already has a parent")

	// ErrCycle is returned when attaching a node beneath itself or one of its descendants.
	ErrCycle = errors.New("attaching node would create a cycle")
)

// nodeCount hands out process-unique node identifiers.
var nodeCount atomic.Uint64

// Node is the capability set shared by every scene graph entity: identity, ownership of an
// ordered child list, a base matrix fixed at construction and mutable transform offsets.
//
// The tree is not safe for concurrent mutation and traversal; a single frame-owning goroutine
// is expected to do both.
type Node interface {
	// ID returns the process-unique identifier assigned at creation.
	//
	// Returns:
	//   - uint64: the identifier, increasing in creation order
	ID() uint64

	// Name returns the display name. Names may collide.
	//
	// Returns:
	//   - string: the node name, "[<id>]" unless set
	Name() string

	// SetName replaces the display name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Kind returns the variant of this node.
	//
	// Returns:
	//   - Kind: the node kind
	Kind() Kind

	// Priority returns the draw priority used to order the render list.
	//
	// Returns:
	//   - int: the draw priority
	Priority() int

	// Parent returns the owning node, or nil for a root.
	//
	// Returns:
	//   - Node: the parent node or nil
	Parent() Node

	// Children returns the owned children in insertion order. The slice must not be modified.
	//
	// Returns:
	//   - []Node: the child nodes
	Children() []Node

	// AddChild appends child to this node's children and takes ownership of it.
	//
	// Parameters:
	//   - child: the node to attach
	//
	// Returns:
	//   - error: ErrNilNode, ErrAlreadyParented or ErrCycle when the child cannot be attached
	AddChild(child Node) error

	// RemoveChild detaches child from this node.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if child was a direct child and has been removed
	RemoveChild(child Node) bool

	// BaseMatrix returns the transform baked in at construction.
	//
	// Returns:
	//   - mgl32.Mat4: the base matrix
	BaseMatrix() mgl32.Mat4

	// Position returns the translation offset.
	Position() mgl32.Vec3

	// SetPosition sets the translation offset.
	SetPosition(position mgl32.Vec3)

	// Rotation returns the Euler rotation offset in degrees (X, Y, Z).
	Rotation() mgl32.Vec3

	// SetRotation sets the Euler rotation offset in degrees (X, Y, Z).
	SetRotation(rotation mgl32.Vec3)

	// Scale returns the scale offset.
	Scale() mgl32.Vec3

	// SetScale sets the scale offset.
	SetScale(scale mgl32.Vec3)

	// LocalMatrix returns OffsetMatrix(position, rotation, scale) * base matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix relative to the parent
	LocalMatrix() mgl32.Mat4

	base() *Base
}

// Base carries the state common to all node variants. Variants embed it and call Init from
// their constructor so that the tree links point at the variant rather than at the Base.
type Base struct {
	self Node

	id       uint64
	name     string
	kind     Kind
	priority int

	parent   Node
	children []Node

	baseMatrix mgl32.Mat4
	position   mgl32.Vec3
	rotation   mgl32.Vec3
	scale      mgl32.Vec3
}

// plainNode is the structural-only variant.
type plainNode struct {
	Base
}

var _ Node = &plainNode{}

// New creates a plain structural node.
//
// Parameters:
//   - options: functional options applied after defaults
//
// Returns:
//   - Node: the new node
func New(options ...BuilderOption) Node {
	n := &plainNode{}
	Init(&n.Base, n, KindNode, PriorityDefault, options...)
	return n
}

// Init assigns an identifier and default transform state to b, records self as the variant
// that embeds it and applies options. It must be called exactly once from a variant constructor.
//
// Parameters:
//   - b: the embedded base to initialize
//   - self: the variant value embedding b
//   - kind: the variant kind
//   - priority: the draw priority of the variant
//   - options: functional options applied after defaults
func Init(b *Base, self Node, kind Kind, priority int, options ...BuilderOption) {
	if self == nil || self.base() != b {
		panic("node.Init: self must embed the base being initialized")
	}
	b.self = self
	b.id = nodeCount.Add(1)
	b.kind = kind
	b.priority = priority
	b.baseMatrix = mgl32.Ident4()
	b.scale = mgl32.Vec3{1, 1, 1}
	for _, opt := range options {
		opt(b)
	}
	if b.name == "" {
		b.name = DefaultName(b.id)
	}
}

// DefaultName is the bracketed form of id used when a node has no name.
func DefaultName(id uint64) string {
	return fmt.Sprintf("[%d]", id)
}

func (b *Base) base() *Base {
	return b
}

func (b *Base) ID() uint64 {
	return b.id
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) SetName(name string) {
	b.name = common.Coalesce(name, DefaultName(b.id))
}

func (b *Base) Kind() Kind {
	return b.kind
}

func (b *Base) Priority() int {
	return b.priority
}

func (b *Base) Parent() Node {
	return b.parent
}

func (b *Base) Children() []Node {
	return b.children
}

func (b *Base) AddChild(child Node) error {
	if child == nil {
		return ErrNilNode
	}
	cb := child.base()
	if cb.parent != nil {
		return fmt.Errorf("%s under %s: %w", cb.name, b.name, ErrAlreadyParented)
	}
	for n := b.self; n != nil; n = n.Parent() {
		if n.base() == cb {
			return fmt.Errorf("%s under %s: %w", cb.name, b.name, ErrCycle)
		}
	}

	cb.parent = b.self
	b.children = append(b.children, child)
	return nil
}

func (b *Base) RemoveChild(child Node) bool {
	if child == nil {
		return false
	}
	cb := child.base()
	for i, c := range b.children {
		if c.base() != cb {
			continue
		}
		b.children = append(b.children[:i], b.children[i+1:]...)
		cb.parent = nil
		return true
	}
	return false
}

func (b *Base) BaseMatrix() mgl32.Mat4 {
	return b.baseMatrix
}

func (b *Base) Position() mgl32.Vec3 {
	return b.position
}

func (b *Base) SetPosition(position mgl32.Vec3) {
	b.position = position
}

func (b *Base) Rotation() mgl32.Vec3 {
	return b.rotation
}

func (b *Base) SetRotation(rotation mgl32.Vec3) {
	b.rotation = rotation
}

func (b *Base) Scale() mgl32.Vec3 {
	return b.scale
}

func (b *Base) SetScale(scale mgl32.Vec3) {
	b.scale = scale
}

func (b *Base) LocalMatrix() mgl32.Mat4 {
	return common.OffsetMatrix(b.position, b.rotation, b.scale).Mul4(b.baseMatrix)
}
