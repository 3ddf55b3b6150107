package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chazu/jaring/pkg/solid"
)

// Op names a lesson-script command. Values are the spelling used in
// scripts.
type Op string

const (
	OpShape       Op = "shape"
	OpSetParam    Op = "set-param"
	OpFoldTo      Op = "fold-to"
	OpUnfold      Op = "unfold"
	OpFold        Op = "fold"
	OpWait        Op = "wait"
	OpSnapshot    Op = "snapshot"
	OpExportSTL   Op = "export-stl"
	OpResetCamera Op = "reset-camera"
)

// Command is one step of a Program. Only the fields relevant to Op are
// set.
type Command struct {
	Op       Op
	Shape    solid.Type
	Params   solid.Params
	Value    float64       // fold value for fold-to, target for fold/unfold
	Duration time.Duration // transition or wait length; zero means default
	Path     string
	Width    int
	Height   int
}

func (c Command) String() string {
	switch c.Op {
	case OpShape, OpSetParam:
		return fmt.Sprintf("(%s :%s%s)", c.Op, c.Shape, formatParams(c.Params))
	case OpFoldTo:
		return fmt.Sprintf("(%s %g)", c.Op, c.Value)
	case OpUnfold, OpFold:
		if c.Duration > 0 {
			return fmt.Sprintf("(%s %d)", c.Op, c.Duration.Milliseconds())
		}
		return fmt.Sprintf("(%s)", c.Op)
	case OpWait:
		return fmt.Sprintf("(%s %d)", c.Op, c.Duration.Milliseconds())
	case OpSnapshot, OpExportSTL:
		return fmt.Sprintf("(%s %q)", c.Op, c.Path)
	}
	return fmt.Sprintf("(%s)", c.Op)
}

func formatParams(p solid.Params) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " :%s %g", strings.ReplaceAll(k, "_", "-"), p[k])
	}
	return b.String()
}

// Program is the command list produced by evaluating a lesson script.
type Program struct {
	Commands []Command
}

// Len returns the number of commands.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Commands)
}

// Ops lists the command ops in order.
func (p *Program) Ops() []Op {
	ops := make([]Op, 0, p.Len())
	for _, c := range p.Commands {
		ops = append(ops, c.Op)
	}
	return ops
}

// Duration is the simulated time the program takes at the given default
// transition length.
func (p *Program) Duration(transition time.Duration) time.Duration {
	var total time.Duration
	for _, c := range p.Commands {
		switch c.Op {
		case OpUnfold, OpFold:
			if c.Duration > 0 {
				total += c.Duration
			} else {
				total += transition
			}
		case OpWait:
			total += c.Duration
		}
	}
	return total
}
