package rig

import (
	"errors"
	"fmt"

	"github.com/chazu/jaring/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"
)

// Spec declares a rig. Pieces are listed parents first; the first piece
// is the root and has no parent.
type Spec struct {
	Name   string  `yaml:"name"`
	Pieces []Piece `yaml:"pieces"`
}

// Piece declares one node. A non-nil Swing makes it a hinge.
type Piece struct {
	Name     string       `yaml:"name"`
	Parent   string       `yaml:"parent,omitempty"`
	Position v3.Vec       `yaml:"position,omitempty"`
	Orient   v3.Vec       `yaml:"orient,omitempty"`
	Axis     v3.Vec       `yaml:"axis,omitempty"`
	Swing    *Swing       `yaml:"swing,omitempty"`
	Surface  *SurfaceSpec `yaml:"surface,omitempty"`
}

// SurfaceSpec declares the face carried by a piece.
type SurfaceSpec struct {
	Mesh    *kernel.Mesh `yaml:"-"`
	Outline string       `yaml:"outline"`
	Color   string       `yaml:"color,omitempty"`
	Morph   Morph        `yaml:"-"`
}

// ErrEmptySpec is returned when a spec declares no pieces.
var ErrEmptySpec = errors.New("rig: spec has no pieces")

// Build constructs a rig from s and poses it at fold 0.
func Build(s Spec) (*Rig, error) {
	if len(s.Pieces) == 0 {
		return nil, ErrEmptySpec
	}
	r := newRig(s.Name)
	for i, p := range s.Pieces {
		n, err := buildNode(r, i, p)
		if err != nil {
			return nil, fmt.Errorf("rig %s: piece %q: %w", s.Name, p.Name, err)
		}
		r.add(n)
	}
	r.Apply(0)
	return r, nil
}

func buildNode(r *Rig, i int, p Piece) (*Node, error) {
	if p.Name == "" {
		return nil, errors.New("empty name")
	}
	if _, dup := r.names[p.Name]; dup {
		return nil, errors.New("duplicate name")
	}
	n := &Node{
		Name:     p.Name,
		Parent:   NoParent,
		Position: p.Position,
		Orient:   p.Orient,
	}
	switch {
	case i == 0 && p.Parent != "":
		return nil, errors.New("root piece cannot have a parent")
	case i > 0:
		pid, ok := r.names[p.Parent]
		if !ok {
			return nil, fmt.Errorf("parent %q not declared before it", p.Parent)
		}
		n.Parent = pid
	}
	if p.Swing != nil {
		if p.Axis.Length() == 0 {
			return nil, errors.New("hinge axis is zero")
		}
		if err := p.Swing.validate(); err != nil {
			return nil, err
		}
		n.Kind = NodeHinge
		n.Axis = p.Axis.Normalize()
		n.Swing = *p.Swing
	}
	if ss := p.Surface; ss != nil {
		if ss.Mesh == nil || ss.Mesh.IsEmpty() {
			return nil, errors.New("surface has no mesh")
		}
		n.Surface = &Surface{
			Rest:    ss.Mesh,
			Current: ss.Mesh,
			Outline: ss.Outline,
			Color:   ss.Color,
			Morph:   ss.Morph,
		}
		if ss.Morph != nil {
			n.Surface.Current = ss.Mesh.Clone()
		}
	}
	return n, nil
}

// YAML renders the spec without mesh payloads.
func (s Spec) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
