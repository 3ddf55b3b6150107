// Package solid names the six elementary solids, their parameter schemas,
// and the validation applied to every user-supplied dimension.
package solid

import (
	"errors"
	"fmt"
	"strings"
)

// Type enumerates the supported solids.
type Type int

const (
	Cube Type = iota
	Box
	Cylinder
	Pyramid
	Cone
	Prism
)

// ErrUnknownShape is returned for a shape key outside the supported set.
var ErrUnknownShape = errors.New("unknown shape type")

var typeNames = [...]string{
	Cube:     "cube",
	Box:      "box",
	Cylinder: "cylinder",
	Pyramid:  "pyramid",
	Cone:     "cone",
	Prism:    "prism",
}

// Types returns every supported type in display order.
func Types() []Type {
	return []Type{Cube, Box, Cylinder, Pyramid, Cone, Prism}
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is one of the six solids.
func (t Type) Valid() bool {
	return t >= Cube && t <= Prism
}

// Parse maps a lowercase key such as "cone" to its Type.
func Parse(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeNames {
		if name == key {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("solid: %q: %w", s, ErrUnknownShape)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("solid: %d: %w", int(t), ErrUnknownShape)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
