package scene

import (
	"fmt"
	"image"

	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/kernel/sdfx"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// Render draws the active shape in its current pose.
func (h *Host) Render(width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scene: invalid render size %dx%d", width, height)
	}
	meshes, err := h.Frame()
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	cam, light, bg, edge, scale := h.camera, h.light, h.background, h.edge, h.supersample
	h.mu.Unlock()

	var (
		eye    = fauxgl.V(cam.Eye.X, cam.Eye.Y, cam.Eye.Z)
		center = fauxgl.V(cam.Target.X, cam.Target.Y, cam.Target.Z)
		up     = fauxgl.V(cam.Up.X, cam.Up.Y, cam.Up.Z)
		dir    = fauxgl.V(light.X, light.Y, light.Z).Normalize()
	)

	ctx := fauxgl.NewContext(width*scale, height*scale)
	ctx.ClearColorBufferWith(fauxgl.HexColor(bg))
	ctx.Cull = fauxgl.CullNone
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(cam.FOV, aspect, cam.Near, cam.Far)

	for _, m := range meshes {
		shader := fauxgl.NewPhongShader(matrix, dir, eye)
		shader.ObjectColor = fauxgl.HexColor(m.Color)
		ctx.Shader = shader
		ctx.DrawMesh(toFaux(m, eye))
	}

	// Face outlines go on top of the shaded faces they border.
	ctx.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.HexColor(edge))
	ctx.LineWidth = float64(scale)
	ctx.DepthBias = -1e-4
	for _, m := range meshes {
		ctx.DrawLines(outlineLines(m))
	}

	img := ctx.Image()
	if scale > 1 {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img, nil
}

// toFaux converts m to a fauxgl mesh whose triangles all face the eye so
// both sides of a face are lit.
func toFaux(m *kernel.Mesh, eye fauxgl.Vector) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		c := m.Triangle(i)
		a := fauxgl.V(c[0].X, c[0].Y, c[0].Z)
		b := fauxgl.V(c[1].X, c[1].Y, c[1].Z)
		d := fauxgl.V(c[2].X, c[2].Y, c[2].Z)
		n := b.Sub(a).Cross(d.Sub(a))
		if n.Length() == 0 {
			continue
		}
		if n.Dot(eye.Sub(a)) < 0 {
			b, d = d, b
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(a, b, d))
	}
	return fauxgl.NewTriangleMesh(tris)
}

// outlineLines converts m's outline into fauxgl lines.
func outlineLines(m *kernel.Mesh) []*fauxgl.Line {
	lines := make([]*fauxgl.Line, 0, len(m.Outline)/2)
	for i := 0; i+1 < len(m.Outline); i += 2 {
		a, b := m.Vertex(int(m.Outline[i])), m.Vertex(int(m.Outline[i+1]))
		if a == b {
			continue
		}
		lines = append(lines, fauxgl.NewLineForPoints(fauxgl.V(a.X, a.Y, a.Z), fauxgl.V(b.X, b.Y, b.Z)))
	}
	return lines
}

// ExportSTL writes the active shape's current pose to path.
func (h *Host) ExportSTL(path string) error {
	meshes, err := h.Frame()
	if err != nil {
		return err
	}
	if err := sdfx.SaveSTL(path, meshes); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}
