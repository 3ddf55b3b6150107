package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/chazu/jaring/pkg/config"
	"github.com/chazu/jaring/pkg/engine"
	"github.com/chazu/jaring/pkg/formula"
	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/kernel/sdfx"
	"github.com/chazu/jaring/pkg/profile"
	"github.com/chazu/jaring/pkg/rig"
	"github.com/chazu/jaring/pkg/scene"
	"github.com/chazu/jaring/pkg/shapes"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/fogleman/fauxgl"
)

// paramFlag collects repeated -p key=value pairs.
type paramFlag map[string]string

func (p paramFlag) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, ",")
}

func (p paramFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p[strings.ReplaceAll(strings.TrimSpace(k), "-", "_")] = v
	return nil
}

// shapeFlags are the flags every shape-based command shares.
type shapeFlags struct {
	fs     *flag.FlagSet
	config *string
	shape  *string
	params paramFlag
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet("jaring "+name, flag.ContinueOnError)
}

func newShapeFlags(name string) *shapeFlags {
	fs := newFlagSet(name)
	sf := &shapeFlags{fs: fs, params: paramFlag{}}
	sf.config = fs.String("config", "jaring.toml", "path to the TOML config file")
	sf.shape = fs.String("shape", "", "cube, box, cylinder, pyramid, cone or prism (default from config)")
	fs.Var(sf.params, "p", "dimension as key=value, repeatable")
	return sf
}

// resolve loads the config and turns the flags into a validated shape and
// its dimensions. Unset dimensions take their defaults.
func (sf *shapeFlags) resolve() (*config.Config, solid.Type, solid.Params, error) {
	cfg, err := config.Load(*sf.config)
	if err != nil {
		return nil, 0, nil, err
	}
	t := cfg.DefaultShape()
	if *sf.shape != "" {
		if t, err = solid.Parse(*sf.shape); err != nil {
			return nil, 0, nil, err
		}
	}
	p := solid.Defaults(t)
	for k, v := range sf.params {
		if _, ok := p[k]; !ok {
			return nil, 0, nil, fmt.Errorf("%s has no parameter %q", t, k)
		}
		p[k] = solid.Validate(v)
	}
	return cfg, t, p, nil
}

// posed builds a host showing t at fold.
func posed(cfg *config.Config, t solid.Type, p solid.Params, fold float64) (*scene.Host, error) {
	h := scene.NewHost(scene.WithSupersample(cfg.Scene.Supersample))
	if _, err := h.LoadShape(t, p); err != nil {
		return nil, err
	}
	if err := h.UpdateFold(fold); err != nil {
		return nil, err
	}
	return h, nil
}

// ============================================================
// Render / STL / Profile
// ============================================================

func render(args []string, stdout io.Writer) error {
	sf := newShapeFlags("render")
	fold := sf.fs.Float64("fold", 0, "fold value, 0 closed and 1 flat")
	out := sf.fs.String("o", "jaring.png", "output PNG path")
	width := sf.fs.Int("width", 0, "image width (default from config)")
	height := sf.fs.Int("height", 0, "image height (default from config)")
	if err := sf.fs.Parse(args); err != nil {
		return err
	}
	cfg, t, p, err := sf.resolve()
	if err != nil {
		return err
	}
	if *width == 0 {
		*width = cfg.Scene.Width
	}
	if *height == 0 {
		*height = cfg.Scene.Height
	}
	h, err := posed(cfg, t, p, *fold)
	if err != nil {
		return err
	}
	img, err := h.Render(*width, *height)
	if err != nil {
		return err
	}
	if err := fauxgl.SavePNG(*out, img); err != nil {
		return fmt.Errorf("render: save %s: %w", *out, err)
	}
	fmt.Fprintf(stdout, "wrote %s (%s at fold %.2f, %dx%d)\n", *out, t, h.FoldValue(), *width, *height)
	return nil
}

func exportSTL(args []string, stdout io.Writer) error {
	sf := newShapeFlags("stl")
	fold := sf.fs.Float64("fold", 0, "fold value, 0 closed and 1 flat")
	out := sf.fs.String("o", "jaring.stl", "output STL path")
	reference := sf.fs.Bool("reference", false, "export the closed reference solid instead of the net")
	if err := sf.fs.Parse(args); err != nil {
		return err
	}
	cfg, t, p, err := sf.resolve()
	if err != nil {
		return err
	}
	if *reference {
		m, err := shapes.ReferenceMesh(t, p, sdfx.New())
		if err != nil {
			return err
		}
		if err := sdfx.SaveSTL(*out, []*kernel.Mesh{m}); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s (%s reference, %d triangles)\n", *out, t, m.TriangleCount())
		return nil
	}
	h, err := posed(cfg, t, p, *fold)
	if err != nil {
		return err
	}
	if err := h.ExportSTL(*out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return nil
}

func profilePlot(args []string, stdout io.Writer) error {
	sf := newShapeFlags("profile")
	out := sf.fs.String("o", "profile.png", "output chart path (png, svg or pdf)")
	samples := sf.fs.Int("n", 50, "fold intervals to sample")
	if err := sf.fs.Parse(args); err != nil {
		return err
	}
	_, t, p, err := sf.resolve()
	if err != nil {
		return err
	}
	r, err := shapes.Build(t, p)
	if err != nil {
		return err
	}
	plt, err := profile.Plot(r.Rig, *samples)
	if err != nil {
		return err
	}
	if err := profile.Save(plt, *out, 6, 4); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%d hinges)\n", *out, len(r.Rig.Hinges()))
	return nil
}

// ============================================================
// Script
// ============================================================

func script(args []string, stdout io.Writer) error {
	fs := newFlagSet("script")
	configPath := fs.String("config", "jaring.toml", "path to the TOML config file")
	outDir := fs.String("out", ".", "directory for snapshots and exports")
	dryRun := fs.Bool("n", false, "print the commands without running them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("script: expected one script file")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	prog, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(stdout, "%s:%s\n", fs.Arg(0), e.Error())
		}
		return fmt.Errorf("script: %d error(s)", len(evalErrs))
	}
	for _, c := range prog.Commands {
		fmt.Fprintln(stdout, c.String())
	}
	if *dryRun {
		return nil
	}

	clk := engine.NewClock(time.Now())
	h := scene.NewHost(clk.Option(),
		scene.WithDuration(cfg.AnimationDuration()),
		scene.WithSupersample(cfg.Scene.Supersample))
	rep, err := prog.Run(context.Background(), h, clk, engine.RunOptions{
		OutDir: *outDir,
		FPS:    cfg.Scene.FPS,
		Width:  cfg.Scene.Width,
		Height: cfg.Scene.Height,
		Logger: log.Default(),
	})
	if err != nil {
		return err
	}
	for _, f := range rep.Files {
		fmt.Fprintf(stdout, "wrote %s\n", f)
	}
	fmt.Fprintf(stdout, "%d frames, %s simulated\n", rep.Frames, rep.Elapsed)
	return nil
}

// ============================================================
// Calc / Rig
// ============================================================

func calc(args []string, stdout io.Writer) error {
	sf := newShapeFlags("calc")
	policy := sf.fs.String("policy", "", "prism perimeter: isosceles or equilateral (default from config)")
	asJSON := sf.fs.Bool("json", false, "print the result as JSON")
	if err := sf.fs.Parse(args); err != nil {
		return err
	}
	cfg, t, p, err := sf.resolve()
	if err != nil {
		return err
	}
	pol := cfg.PrismPolicy()
	if *policy != "" {
		if pol, err = formula.ParsePrismPolicy(*policy); err != nil {
			return err
		}
	}
	res, err := formula.Calculate(t, p, pol)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(stdout, "%s %s\n", res.Name, paramFlagOf(res.Params))
	fmt.Fprintf(stdout, "volume:       %s  (%s)\n", res.VolumeText(), res.VolumeFormula)
	fmt.Fprintf(stdout, "surface area: %s  (%s)\n", res.AreaText(), res.AreaFormula)
	return nil
}

func paramFlagOf(p solid.Params) string {
	pf := paramFlag{}
	for k, v := range p {
		pf[k] = fmt.Sprintf("%g", v)
	}
	return pf.String()
}

func dumpRig(args []string, stdout io.Writer) error {
	sf := newShapeFlags("rig")
	if err := sf.fs.Parse(args); err != nil {
		return err
	}
	_, t, p, err := sf.resolve()
	if err != nil {
		return err
	}
	spec, err := shapes.SpecFor(t, p)
	if err != nil {
		return err
	}
	out, err := spec.YAML()
	if err != nil {
		return err
	}
	if _, err := stdout.Write(out); err != nil {
		return err
	}

	r, err := shapes.Build(t, p)
	if err != nil {
		return err
	}
	findings := rig.Validate(r.Rig)
	for _, f := range findings {
		fmt.Fprintf(stdout, "# %s\n", f.Error())
	}
	if rig.HasErrors(findings) {
		return fmt.Errorf("rig: %s failed validation", t)
	}
	return nil
}
