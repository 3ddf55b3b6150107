// Package formula computes volume and surface area for the six solids.
// Every input passes through solid.Validate and every result is rounded
// to two decimals.
package formula

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/jaring/pkg/solid"
	"gonum.org/v1/gonum/floats/scalar"
)

// PrismPolicy selects how the perimeter of the prism's triangular end is
// measured.
type PrismPolicy int

const (
	// PrismIsosceles uses a + 2·√((a/2)² + t_alas²).
	PrismIsosceles PrismPolicy = iota
	// PrismEquilateral uses 3a regardless of the triangle height.
	PrismEquilateral
)

func (p PrismPolicy) String() string {
	switch p {
	case PrismIsosceles:
		return "isosceles"
	case PrismEquilateral:
		return "equilateral"
	default:
		return fmt.Sprintf("PrismPolicy(%d)", int(p))
	}
}

// ParsePrismPolicy maps "isosceles" or "equilateral" to a policy. The
// empty string selects the default.
func ParsePrismPolicy(s string) (PrismPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "isosceles":
		return PrismIsosceles, nil
	case "equilateral":
		return PrismEquilateral, nil
	default:
		return 0, fmt.Errorf("formula: unknown prism policy %q", s)
	}
}

func round2(x float64) float64 {
	return scalar.Round(x, 2)
}

func v(x float64) float64 {
	return solid.Validate(x)
}

// CubeVolume returns s³.
func CubeVolume(s float64) float64 {
	s = v(s)
	return round2(s * s * s)
}

// CubeArea returns 6s².
func CubeArea(s float64) float64 {
	s = v(s)
	return round2(6 * s * s)
}

// BoxVolume returns p·l·t.
func BoxVolume(p, l, t float64) float64 {
	p, l, t = v(p), v(l), v(t)
	return round2(p * l * t)
}

// BoxArea returns 2(pl + pt + lt).
func BoxArea(p, l, t float64) float64 {
	p, l, t = v(p), v(l), v(t)
	return round2(2 * (p*l + p*t + l*t))
}

// CylinderVolume returns πr²t.
func CylinderVolume(r, t float64) float64 {
	r, t = v(r), v(t)
	return round2(math.Pi * r * r * t)
}

// CylinderArea returns 2πr(r + t).
func CylinderArea(r, t float64) float64 {
	r, t = v(r), v(t)
	return round2(2 * math.Pi * r * (r + t))
}

// PyramidVolume returns s²t/3.
func PyramidVolume(s, t float64) float64 {
	s, t = v(s), v(t)
	return round2(s * s * t / 3)
}

// PyramidArea returns s² + 2s·√((s/2)² + t²).
func PyramidArea(s, t float64) float64 {
	s, t = v(s), v(t)
	slant := math.Hypot(s/2, t)
	return round2(s*s + 4*(0.5*s*slant))
}

// ConeVolume returns πr²t/3.
func ConeVolume(r, t float64) float64 {
	r, t = v(r), v(t)
	return round2(math.Pi * r * r * t / 3)
}

// ConeArea returns πr(r + √(r² + t²)).
func ConeArea(r, t float64) float64 {
	r, t = v(r), v(t)
	return round2(math.Pi * r * (r + math.Hypot(r, t)))
}

// PrismVolume returns ½·a·t_alas·t_prisma.
func PrismVolume(a, tAlas, tPrisma float64) float64 {
	a, tAlas, tPrisma = v(a), v(tAlas), v(tPrisma)
	return round2(0.5 * a * tAlas * tPrisma)
}

// PrismArea returns 2·½·a·t_alas + perimeter·t_prisma, with the perimeter
// chosen by policy.
func PrismArea(a, tAlas, tPrisma float64, policy PrismPolicy) float64 {
	a, tAlas, tPrisma = v(a), v(tAlas), v(tPrisma)
	base := 0.5 * a * tAlas
	perimeter := a + 2*math.Hypot(a/2, tAlas)
	if policy == PrismEquilateral {
		perimeter = 3 * a
	}
	return round2(2*base + perimeter*tPrisma)
}

// Volume dispatches on t. Params must satisfy solid.CheckSchema.
func Volume(t solid.Type, p solid.Params) (float64, error) {
	switch t {
	case solid.Cube:
		return CubeVolume(p.Must("s")), nil
	case solid.Box:
		return BoxVolume(p.Must("p"), p.Must("l"), p.Must("t")), nil
	case solid.Cylinder:
		return CylinderVolume(p.Must("r"), p.Must("t")), nil
	case solid.Pyramid:
		return PyramidVolume(p.Must("s"), p.Must("t")), nil
	case solid.Cone:
		return ConeVolume(p.Must("r"), p.Must("t")), nil
	case solid.Prism:
		return PrismVolume(p.Must("a"), p.Must("t_alas"), p.Must("t_prisma")), nil
	}
	return 0, fmt.Errorf("formula: volume of %s: %w", t, solid.ErrUnknownShape)
}

// SurfaceArea dispatches on t. Params must satisfy solid.CheckSchema.
func SurfaceArea(t solid.Type, p solid.Params, policy PrismPolicy) (float64, error) {
	switch t {
	case solid.Cube:
		return CubeArea(p.Must("s")), nil
	case solid.Box:
		return BoxArea(p.Must("p"), p.Must("l"), p.Must("t")), nil
	case solid.Cylinder:
		return CylinderArea(p.Must("r"), p.Must("t")), nil
	case solid.Pyramid:
		return PyramidArea(p.Must("s"), p.Must("t")), nil
	case solid.Cone:
		return ConeArea(p.Must("r"), p.Must("t")), nil
	case solid.Prism:
		return PrismArea(p.Must("a"), p.Must("t_alas"), p.Must("t_prisma"), policy), nil
	}
	return 0, fmt.Errorf("formula: surface area of %s: %w", t, solid.ErrUnknownShape)
}
