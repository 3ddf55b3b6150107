package rig

import (
	"fmt"

	"github.com/chazu/jaring/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NodeID is an index into a rig's node arena.
type NodeID int

// NoParent marks the root node.
const NoParent NodeID = -1

// NodeKind enumerates the types of nodes in a rig.
type NodeKind int

const (
	NodePivot NodeKind = iota // static attachment frame
	NodeHinge                 // rotates about a fixed axis
)

func (k NodeKind) String() string {
	switch k {
	case NodePivot:
		return "pivot"
	case NodeHinge:
		return "hinge"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is one element of the rig tree.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name"`
	Parent   NodeID   `json:"parent"`
	Children []NodeID `json:"children,omitempty"`

	// Position is the attachment point in the parent's frame.
	Position v3.Vec `json:"position"`
	// Orient is a static rotation (radians, Z·Y·X order) applied after the
	// hinge rotation. It orients the node's surface and children.
	Orient v3.Vec `json:"orient"`
	// Axis is the unit rotation axis. Hinges only.
	Axis  v3.Vec `json:"axis"`
	Swing Swing  `json:"swing"`

	Surface *Surface `json:"surface,omitempty"`

	angle float64
}

// IsHinge reports whether the node rotates.
func (n *Node) IsHinge() bool {
	return n.Kind == NodeHinge
}

// Angle returns the hinge's current rotation in radians.
func (n *Node) Angle() float64 {
	return n.angle
}

// Surface is a renderable face attached to a node.
type Surface struct {
	// Rest is the mesh in the node's local frame before any morph.
	Rest *kernel.Mesh `json:"-"`
	// Current holds the vertices after the latest morph. For surfaces
	// without a morph it aliases Rest.
	Current *kernel.Mesh `json:"-"`
	Outline string       `json:"outline,omitempty"`
	Color   string       `json:"color,omitempty"`
	Morph   Morph        `json:"-"`
}

// Morph rewrites a surface's vertex buffer from its rest mesh for a
// given fold value. Implementations must write every vertex of dst and
// must not modify rest.
type Morph interface {
	Apply(fold float64, rest, dst *kernel.Mesh)
}

// MorphFunc adapts a function to the Morph interface.
type MorphFunc func(fold float64, rest, dst *kernel.Mesh)

// Apply calls f.
func (f MorphFunc) Apply(fold float64, rest, dst *kernel.Mesh) {
	f(fold, rest, dst)
}
