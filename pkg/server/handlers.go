package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"log"
	"strconv"

	"github.com/chazu/jaring/pkg/formula"
	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/presets"
	"github.com/chazu/jaring/pkg/profile"
	"github.com/chazu/jaring/pkg/scene"
	"github.com/chazu/jaring/pkg/shapes"
	"github.com/chazu/jaring/pkg/solid"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Request helpers
// ============================================================

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func serverError(c fiber.Ctx, err error) error {
	log.Printf("[API] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// shapeStatus answers a bad :type path parameter: 404 for an unknown
// shape, 400 otherwise.
func shapeStatus(c fiber.Ctx, err error) error {
	if errors.Is(err, solid.ErrUnknownShape) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return badRequest(c, err)
}

// queryShape reads ?shape= and the dimension query parameters. Missing
// dimensions take the form defaults; given ones are clamped.
func queryShape(c fiber.Ctx) (solid.Type, solid.Params, error) {
	t, err := solid.Parse(c.Query("shape", solid.Cube.String()))
	if err != nil {
		return 0, nil, err
	}
	return t, queryParams(c, t), nil
}

func queryParams(c fiber.Ctx, t solid.Type) solid.Params {
	p := solid.Defaults(t)
	for _, ps := range solid.Schema(t) {
		if raw := c.Query(ps.Key); raw != "" {
			p[ps.Key] = solid.Validate(raw)
		}
	}
	return p
}

func queryFloat(c fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func queryInt(c fiber.Ctx, key string, def, lo, hi int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, errors.New(key + " out of range")
	}
	return n, nil
}

// posedHost loads the queried shape into a fresh host at ?fold=.
func (s *Server) posedHost(c fiber.Ctx) (*scene.Host, error) {
	t, p, err := queryShape(c)
	if err != nil {
		return nil, err
	}
	fold, err := queryFloat(c, "fold", 0)
	if err != nil {
		return nil, errors.New("fold must be a number")
	}
	h := scene.NewHost(scene.WithSupersample(s.cfg.Scene.Supersample))
	if _, err := h.LoadShape(t, p); err != nil {
		return nil, err
	}
	if err := h.UpdateFold(fold); err != nil {
		return nil, err
	}
	return h, nil
}

// ============================================================
// Shape Handlers
// ============================================================

type shapeInfo struct {
	solid.Info
	Color    string         `json:"color"`
	Defaults solid.Params   `json:"defaults"`
	Result   formula.Result `json:"result"`
}

func (s *Server) describe(t solid.Type) (shapeInfo, error) {
	defaults := solid.Defaults(t)
	res, err := formula.Calculate(t, defaults, s.policy)
	if err != nil {
		return shapeInfo{}, err
	}
	return shapeInfo{
		Info:     solid.Describe(t),
		Color:    shapes.Color(t),
		Defaults: defaults,
		Result:   res,
	}, nil
}

func (s *Server) listShapes(c fiber.Ctx) error {
	out := make([]shapeInfo, 0, len(solid.Types()))
	for _, t := range solid.Types() {
		info, err := s.describe(t)
		if err != nil {
			return serverError(c, err)
		}
		out = append(out, info)
	}
	return c.JSON(out)
}

func (s *Server) getShape(c fiber.Ctx) error {
	t, err := solid.Parse(c.Params("type"))
	if err != nil {
		return shapeStatus(c, err)
	}
	info, err := s.describe(t)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(info)
}

// getRig returns the declarative rig of a shape as YAML.
func (s *Server) getRig(c fiber.Ctx) error {
	t, err := solid.Parse(c.Params("type"))
	if err != nil {
		return shapeStatus(c, err)
	}
	spec, err := shapes.SpecFor(t, queryParams(c, t))
	if err != nil {
		return badRequest(c, err)
	}
	out, err := spec.YAML()
	if err != nil {
		return serverError(c, err)
	}
	c.Set("Content-Type", "application/yaml")
	return c.Send(out)
}

// ============================================================
// Calculation Handler
// ============================================================

type calcRequest struct {
	Shape       string         `json:"shape"`
	Params      map[string]any `json:"params"`
	PrismPolicy string         `json:"prismPolicy"`
}

func (s *Server) calculate(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, errors.New("body required"))
	}
	var req calcRequest
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return badRequest(c, errors.New("invalid JSON payload"))
	}
	t, err := solid.Parse(req.Shape)
	if err != nil {
		return badRequest(c, err)
	}
	p, err := solid.Normalize(t, req.Params)
	if err != nil {
		return badRequest(c, err)
	}
	policy := s.policy
	if req.PrismPolicy != "" {
		if policy, err = formula.ParsePrismPolicy(req.PrismPolicy); err != nil {
			return badRequest(c, err)
		}
	}
	res, err := formula.Calculate(t, p, policy)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{
		"result":     res,
		"volumeText": res.VolumeText(),
		"areaText":   res.AreaText(),
	})
}

// ============================================================
// Frame and Image Handlers
// ============================================================

type frameResponse struct {
	Shape  solid.Type     `json:"shape"`
	Params solid.Params   `json:"params"`
	Fold   float64        `json:"fold"`
	Color  string         `json:"color"`
	Camera scene.Camera   `json:"camera"`
	Meshes []*kernel.Mesh `json:"meshes"`
}

func (s *Server) frame(c fiber.Ctx) error {
	h, err := s.posedHost(c)
	if err != nil {
		return badRequest(c, err)
	}
	meshes, err := h.Frame()
	if err != nil {
		return serverError(c, err)
	}
	t, p, _ := h.Shape()
	return c.JSON(frameResponse{
		Shape:  t,
		Params: p,
		Fold:   h.FoldValue(),
		Color:  shapes.Color(t),
		Camera: h.Camera(),
		Meshes: meshes,
	})
}

func (s *Server) renderPNG(c fiber.Ctx) error {
	w, err := queryInt(c, "w", s.cfg.Scene.Width, 16, 4096)
	if err != nil {
		return badRequest(c, err)
	}
	ht, err := queryInt(c, "h", s.cfg.Scene.Height, 16, 4096)
	if err != nil {
		return badRequest(c, err)
	}
	h, err := s.posedHost(c)
	if err != nil {
		return badRequest(c, err)
	}
	img, err := h.Render(w, ht)
	if err != nil {
		return serverError(c, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return serverError(c, err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

func (s *Server) profilePNG(c fiber.Ctx) error {
	t, p, err := queryShape(c)
	if err != nil {
		return badRequest(c, err)
	}
	samples, err := queryInt(c, "samples", 50, 1, 1000)
	if err != nil {
		return badRequest(c, err)
	}
	r, err := shapes.Build(t, p)
	if err != nil {
		return badRequest(c, err)
	}
	pl, err := profile.Plot(r.Rig, samples)
	if err != nil {
		return serverError(c, err)
	}
	out, err := profile.PNG(pl, 6, 4)
	if err != nil {
		return serverError(c, err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(out)
}

// ============================================================
// Preset Handlers
// ============================================================

func (s *Server) noStore(c fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "preset store disabled"})
}

func presetStatus(c fiber.Ctx, err error) error {
	if errors.Is(err, presets.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "preset not found"})
	}
	return serverError(c, err)
}

func (s *Server) listPresets(c fiber.Ctx) error {
	if s.store == nil {
		return s.noStore(c)
	}
	var filter *solid.Type
	if raw := c.Query("shape"); raw != "" {
		t, err := solid.Parse(raw)
		if err != nil {
			return badRequest(c, err)
		}
		filter = &t
	}
	list, err := s.store.List(c.Context(), filter)
	if err != nil {
		return serverError(c, err)
	}
	if list == nil {
		list = []*presets.Preset{}
	}
	return c.JSON(list)
}

type presetRequest struct {
	Name   string         `json:"name"`
	Shape  string         `json:"shape"`
	Params map[string]any `json:"params"`
}

func (s *Server) createPreset(c fiber.Ctx) error {
	if s.store == nil {
		return s.noStore(c)
	}
	var req presetRequest
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return badRequest(c, errors.New("invalid JSON payload"))
	}
	t, err := solid.Parse(req.Shape)
	if err != nil {
		return badRequest(c, err)
	}
	p, err := solid.Normalize(t, req.Params)
	if err != nil {
		return badRequest(c, err)
	}
	pr, err := s.store.Save(c.Context(), req.Name, t, p)
	if err != nil {
		return badRequest(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pr)
}

func (s *Server) getPreset(c fiber.Ctx) error {
	if s.store == nil {
		return s.noStore(c)
	}
	pr, err := s.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return presetStatus(c, err)
	}
	return c.JSON(pr)
}

func (s *Server) deletePreset(c fiber.Ctx) error {
	if s.store == nil {
		return s.noStore(c)
	}
	if err := s.store.Delete(c.Context(), c.Params("id")); err != nil {
		return presetStatus(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
