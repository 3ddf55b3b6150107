package rig

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Rig is a built hinge hierarchy. Node 0 is the root.
type Rig struct {
	Name  string
	nodes []*Node
	names map[string]NodeID
	fold  float64
}

func newRig(name string) *Rig {
	return &Rig{Name: name, names: make(map[string]NodeID)}
}

func (r *Rig) add(n *Node) {
	n.ID = NodeID(len(r.nodes))
	r.nodes = append(r.nodes, n)
	r.names[n.Name] = n.ID
	if n.Parent != NoParent {
		p := r.nodes[n.Parent]
		p.Children = append(p.Children, n.ID)
	}
}

// Root returns the root node.
func (r *Rig) Root() *Node {
	return r.nodes[0]
}

// Get returns the node with the given ID, or nil.
func (r *Rig) Get(id NodeID) *Node {
	if id < 0 || int(id) >= len(r.nodes) {
		return nil
	}
	return r.nodes[id]
}

// Lookup returns the node with the given name, or nil.
func (r *Rig) Lookup(name string) *Node {
	id, ok := r.names[name]
	if !ok {
		return nil
	}
	return r.nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (r *Rig) MustLookup(name string) *Node {
	n := r.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("rig: no node named %q", name))
	}
	return n
}

// Nodes returns every node in arena order. Parents precede children.
func (r *Rig) Nodes() []*Node {
	return r.nodes
}

// NodeCount returns the total number of nodes.
func (r *Rig) NodeCount() int {
	return len(r.nodes)
}

// Hinges returns all hinge nodes in arena order.
func (r *Rig) Hinges() []*Node {
	var hs []*Node
	for _, n := range r.nodes {
		if n.IsHinge() {
			hs = append(hs, n)
		}
	}
	return hs
}

// Surfaces returns all nodes that carry a surface.
func (r *Rig) Surfaces() []*Node {
	var ss []*Node
	for _, n := range r.nodes {
		if n.Surface != nil {
			ss = append(ss, n)
		}
	}
	return ss
}

// Children returns the child nodes of n.
func (r *Rig) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		children = append(children, r.nodes[cid])
	}
	return children
}

// Fold returns the fold value last passed to Apply.
func (r *Rig) Fold() float64 {
	return r.fold
}

// SetAngle resets a hinge's rotation to angle radians about its axis.
// The previous rotation is discarded.
func (r *Rig) SetAngle(id NodeID, angle float64) error {
	n := r.Get(id)
	if n == nil {
		return fmt.Errorf("rig: no node %d", id)
	}
	if !n.IsHinge() {
		return fmt.Errorf("rig: node %q is not a hinge", n.Name)
	}
	n.angle = angle
	return nil
}

// ClampFold limits v to [0, 1]. NaN becomes 0.
func ClampFold(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Apply poses the rig for fold value v. Every hinge angle and every
// morphed vertex is recomputed from v, so applying the same value twice
// yields the same pose.
func (r *Rig) Apply(v float64) {
	v = ClampFold(v)
	for _, n := range r.nodes {
		if n.IsHinge() {
			n.angle = n.Swing.At(v)
		}
		if s := n.Surface; s != nil && s.Morph != nil {
			s.Morph.Apply(v, s.Rest, s.Current)
		}
	}
	r.fold = v
}

// Local returns the node's transform relative to its parent.
func (r *Rig) Local(n *Node) sdf.M44 {
	m := sdf.Translate3d(n.Position)
	if n.IsHinge() {
		m = m.Mul(sdf.Rotate3d(n.Axis, n.angle))
	}
	if n.Orient != (v3.Vec{}) {
		m = m.Mul(orientation(n.Orient))
	}
	return m
}

// Walk visits nodes depth-first from the root, passing each node's world
// transform. Walking stops at the first error.
func (r *Rig) Walk(fn func(n *Node, world sdf.M44) error) error {
	if len(r.nodes) == 0 {
		return nil
	}
	type frame struct {
		id     NodeID
		parent sdf.M44
	}
	stack := []frame{{id: 0, parent: sdf.Identity3d()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := r.nodes[f.id]
		world := f.parent.Mul(r.Local(n))
		if err := fn(n, world); err != nil {
			return err
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: n.Children[i], parent: world})
		}
	}
	return nil
}

func orientation(e v3.Vec) sdf.M44 {
	return sdf.RotateZ(e.Z).Mul(sdf.RotateY(e.Y)).Mul(sdf.RotateX(e.X))
}
