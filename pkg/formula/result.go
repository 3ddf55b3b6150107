package formula

import (
	"fmt"

	"github.com/chazu/jaring/pkg/solid"
)

// Result is a calculation ready for display.
type Result struct {
	Shape         solid.Type   `json:"shape"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Params        solid.Params `json:"params"`
	Volume        float64      `json:"volume"`
	SurfaceArea   float64      `json:"surfaceArea"`
	VolumeFormula string       `json:"volumeFormula"`
	AreaFormula   string       `json:"areaFormula"`
	PrismPolicy   string       `json:"prismPolicy,omitempty"`
}

// VolumeText formats the volume with two decimals and its unit.
func (r Result) VolumeText() string {
	return fmt.Sprintf("%.2f cm³", r.Volume)
}

// AreaText formats the surface area with two decimals and its unit.
func (r Result) AreaText() string {
	return fmt.Sprintf("%.2f cm²", r.SurfaceArea)
}

var latex = map[solid.Type][2]string{
	solid.Cube:     {`$$V = s^3$$`, `$$L = 6 \times s^2$$`},
	solid.Box:      {`$$V = p \times l \times t$$`, `$$L = 2(pl + pt + lt)$$`},
	solid.Cylinder: {`$$V = \pi r^2 t$$`, `$$L = 2\pi r (r + t)$$`},
	solid.Pyramid:  {`$$V = \frac{1}{3} s^2 t$$`, `$$L = s^2 + 2st_{miring}$$`},
	solid.Cone:     {`$$V = \frac{1}{3} \pi r^2 t$$`, `$$L = \pi r (r + s)$$`},
	solid.Prism:    {`$$V = L_{alas} \times t_{prisma}$$`, `$$L = 2L_{alas} + K_{alas} \times t_{prisma}$$`},
}

// Calculate validates p against t's schema and computes both measures.
func Calculate(t solid.Type, p solid.Params, policy PrismPolicy) (Result, error) {
	if err := solid.CheckSchema(t, p); err != nil {
		return Result{}, fmt.Errorf("formula: %w", err)
	}
	clean := p.Clone().Sanitize()
	vol, err := Volume(t, clean)
	if err != nil {
		return Result{}, err
	}
	area, err := SurfaceArea(t, clean, policy)
	if err != nil {
		return Result{}, err
	}
	info := solid.Describe(t)
	r := Result{
		Shape:         t,
		Name:          info.Name,
		Description:   info.Description,
		Params:        clean,
		Volume:        vol,
		SurfaceArea:   area,
		VolumeFormula: latex[t][0],
		AreaFormula:   latex[t][1],
	}
	if t == solid.Prism {
		r.PrismPolicy = policy.String()
	}
	return r, nil
}
