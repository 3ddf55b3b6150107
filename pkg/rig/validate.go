package rig

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a validation finding makes the rig
// unusable or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // rig cannot be posed
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Node     string             // which node has the problem (empty if rig-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.Node, e.Message)
}

// Validate runs the structural and geometric checks on r and returns
// every finding. An empty slice means the rig is sound. Validate never
// mutates the rig.
func Validate(r *Rig) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateTree(r)...)
	errs = append(errs, validateReachable(r)...)
	errs = append(errs, validateHinges(r)...)
	errs = append(errs, validateSurfaces(r)...)
	return errs
}

// HasErrors reports whether any finding is an error.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateTree checks that parent and child links agree and that every
// parent precedes its children in the arena, which rules out cycles.
func validateTree(r *Rig) []ValidationError {
	var errs []ValidationError
	if len(r.nodes) == 0 {
		return []ValidationError{{Message: "rig has no nodes", Severity: SeverityError}}
	}
	if r.nodes[0].Parent != NoParent {
		errs = append(errs, ValidationError{
			Node:     r.nodes[0].Name,
			Message:  "root has a parent",
			Severity: SeverityError,
		})
	}
	for _, n := range r.nodes[1:] {
		if n.Parent < 0 || n.Parent >= n.ID {
			errs = append(errs, ValidationError{
				Node:     n.Name,
				Message:  fmt.Sprintf("parent %d does not precede node %d", n.Parent, n.ID),
				Severity: SeverityError,
			})
			continue
		}
		found := false
		for _, c := range r.nodes[n.Parent].Children {
			if c == n.ID {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, ValidationError{
				Node:     n.Name,
				Message:  fmt.Sprintf("parent %q does not list node as a child", r.nodes[n.Parent].Name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateReachable warns about nodes the root cannot reach.
func validateReachable(r *Rig) []ValidationError {
	if len(r.nodes) == 0 {
		return nil
	}
	seen := make([]bool, len(r.nodes))
	queue := []NodeID{0}
	seen[0] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range r.nodes[id].Children {
			if int(c) < len(seen) && !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	var errs []ValidationError
	for i, ok := range seen {
		if !ok {
			errs = append(errs, ValidationError{
				Node:     r.nodes[i].Name,
				Message:  "node is not reachable from the root",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func validateHinges(r *Rig) []ValidationError {
	var errs []ValidationError
	for _, n := range r.Hinges() {
		if l := n.Axis.Length(); math.Abs(l-1) > 1e-9 {
			errs = append(errs, ValidationError{
				Node:     n.Name,
				Message:  fmt.Sprintf("hinge axis length is %.6f, must be 1", l),
				Severity: SeverityError,
			})
		}
		for _, a := range []float64{n.Swing.Closed, n.Swing.Flat} {
			if math.IsNaN(a) || math.IsInf(a, 0) {
				errs = append(errs, ValidationError{
					Node:     n.Name,
					Message:  "hinge swing angle is not finite",
					Severity: SeverityError,
				})
				break
			}
		}
		if n.Swing.Closed == n.Swing.Flat {
			errs = append(errs, ValidationError{
				Node:     n.Name,
				Message:  "hinge never moves",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func validateSurfaces(r *Rig) []ValidationError {
	var errs []ValidationError
	for _, n := range r.Surfaces() {
		s := n.Surface
		if s.Rest == nil || s.Rest.IsEmpty() {
			errs = append(errs, ValidationError{
				Node:     n.Name,
				Message:  "surface has no vertices",
				Severity: SeverityError,
			})
			continue
		}
		if len(s.Rest.Indices)%3 != 0 {
			errs = append(errs, ValidationError{
				Node:     n.Name,
				Message:  fmt.Sprintf("index count %d is not a multiple of 3", len(s.Rest.Indices)),
				Severity: SeverityError,
			})
		}
		vc := uint32(s.Rest.VertexCount())
		for _, idx := range s.Rest.Indices {
			if idx >= vc {
				errs = append(errs, ValidationError{
					Node:     n.Name,
					Message:  fmt.Sprintf("index %d out of range (%d vertices)", idx, vc),
					Severity: SeverityError,
				})
				break
			}
		}
		if s.Current == nil || s.Current.VertexCount() != s.Rest.VertexCount() {
			errs = append(errs, ValidationError{
				Node:     n.Name,
				Message:  "morph buffer does not match rest mesh",
				Severity: SeverityError,
			})
		}
	}
	return errs
}
