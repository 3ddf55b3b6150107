package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/chazu/jaring/pkg/config"
	"github.com/chazu/jaring/pkg/engine"
	"github.com/chazu/jaring/pkg/formula"
	"github.com/chazu/jaring/pkg/presets"
	"github.com/chazu/jaring/pkg/scene"
	"github.com/chazu/jaring/pkg/shapes"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// FrameEvent is the Wails event carrying a posed frame to the frontend.
const FrameEvent = "frame"

// ScriptTimeout bounds the wall-clock time of one RunScript call.
const ScriptTimeout = 2 * time.Minute

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	stop   context.CancelFunc
	cfg    *config.Config
	host   *scene.Host
	engine *engine.Engine
	store  *presets.Store
	emit   func(FrameResult)

	scriptTimeout time.Duration
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Outline  []uint32  `json:"outline"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// FrameResult is the posed shape returned to the frontend, together with
// its calculation.
type FrameResult struct {
	Shape     string          `json:"shape"`
	Params    solid.Params    `json:"params"`
	Fold      float64         `json:"fold"`
	Animating bool            `json:"animating"`
	Meshes    []MeshData      `json:"meshes"`
	Result    *formula.Result `json:"result,omitempty"`
	Errors    []string        `json:"errors"`
}

// ShapeData lists one selectable solid.
type ShapeData struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Color       string            `json:"color"`
	Params      []solid.ParamSpec `json:"params"`
}

// ScriptResult reports a lesson-script run.
type ScriptResult struct {
	Commands []string    `json:"commands"`
	Files    []string    `json:"files"`
	Frames   int         `json:"frames"`
	Errors   []string    `json:"errors"`
	Frame    FrameResult `json:"frame"`
}

// NewApp creates an App with the given configuration and the default
// shape loaded. store may be nil.
func NewApp(cfg *config.Config, store *presets.Store) *App {
	a := &App{
		cfg:    cfg,
		engine: engine.NewEngine(),
		store:  store,

		scriptTimeout: ScriptTimeout,
	}
	a.host = scene.NewHost(
		scene.WithDuration(cfg.AnimationDuration()),
		scene.WithSupersample(cfg.Scene.Supersample),
		scene.WithListener(a.onPose),
	)
	t := cfg.DefaultShape()
	if _, err := a.host.LoadShape(t, solid.Defaults(t)); err != nil {
		log.Printf("load default shape %s: %v", t, err)
	}
	return a
}

// startup is called by Wails on app startup. The context is saved for
// runtime events and the frame loop starts.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.emit = func(f FrameResult) { runtime.EventsEmit(a.ctx, FrameEvent, f) }
	loop, cancel := context.WithCancel(ctx)
	a.stop = cancel
	go func() {
		if err := a.host.Run(loop, a.cfg.Scene.FPS); err != nil && loop.Err() == nil {
			log.Printf("frame loop: %v", err)
		}
	}()
}

// shutdown is called by Wails when the window closes.
func (a *App) shutdown(ctx context.Context) {
	if a.stop != nil {
		a.stop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Printf("close preset store: %v", err)
		}
	}
}

// onPose pushes every pose change to the frontend, including the frames
// of a running transition.
func (a *App) onPose(solid.Type, float64) {
	if a.emit == nil {
		return
	}
	a.emit(a.frame(nil))
}

// frame snapshots the host. A non-nil err is reported in Errors.
func (a *App) frame(err error) FrameResult {
	out := FrameResult{
		Meshes: []MeshData{},
		Errors: []string{},
	}
	if err != nil {
		out.Errors = append(out.Errors, err.Error())
	}
	pose, perr := a.host.Pose()
	if errors.Is(perr, scene.ErrNoShape) {
		out.Errors = append(out.Errors, perr.Error())
		return out
	}
	t, p := pose.Type, pose.Params
	out.Shape = t.String()
	out.Params = p
	out.Fold = pose.Fold
	out.Animating = pose.Animating
	if perr != nil {
		log.Printf("Frame error: %v", perr)
		out.Errors = append(out.Errors, perr.Error())
		return out
	}
	meshes := pose.Meshes
	for _, m := range meshes {
		out.Meshes = append(out.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Outline:  m.Outline,
			PartName: m.PartName,
			Color:    m.Color,
		})
	}
	if res, cerr := formula.Calculate(t, p, a.cfg.PrismPolicy()); cerr == nil {
		out.Result = &res
	} else {
		out.Errors = append(out.Errors, cerr.Error())
	}
	return out
}

// ---------------------------------------------------------------------------
// Bindings: from UI
// ---------------------------------------------------------------------------

// Shapes lists the selectable solids with their forms.
func (a *App) Shapes() []ShapeData {
	out := make([]ShapeData, 0, len(solid.Types()))
	for _, t := range solid.Types() {
		info := solid.Describe(t)
		out = append(out, ShapeData{
			Key:         t.String(),
			Name:        info.Name,
			Description: info.Description,
			Color:       shapes.Color(t),
			Params:      info.Params,
		})
	}
	return out
}

// SelectShape loads the default dimensions of shape.
func (a *App) SelectShape(shape string) FrameResult {
	t, err := solid.Parse(shape)
	if err != nil {
		return a.frame(err)
	}
	_, err = a.host.LoadShape(t, solid.Defaults(t))
	return a.frame(err)
}

// SetParameter changes one dimension and reloads the shape. A shape other
// than the active one is selected first with its defaults. Out-of-range
// and non-numeric values are clamped.
func (a *App) SetParameter(shape, key string, value any) FrameResult {
	t, err := solid.Parse(shape)
	if err != nil {
		return a.frame(err)
	}
	cur, p, ok := a.host.Shape()
	if !ok || cur != t {
		p = solid.Defaults(t)
	}
	if _, known := solid.Defaults(t)[key]; !known {
		return a.frame(fmt.Errorf("%s has no parameter %q", t, key))
	}
	p[key] = solid.Validate(value)
	_, err = a.host.LoadShape(t, p)
	return a.frame(err)
}

// SetFold poses the shape immediately.
func (a *App) SetFold(v float64) FrameResult {
	return a.frame(a.host.UpdateFold(v))
}

// Unfold starts the transition to the flat net. Frames follow as events.
func (a *App) Unfold() FrameResult {
	_, err := a.host.Unfold()
	return a.frame(err)
}

// Fold starts the transition to the closed solid.
func (a *App) Fold() FrameResult {
	_, err := a.host.Fold()
	return a.frame(err)
}

// ResetCamera restores the default view.
func (a *App) ResetCamera() scene.Camera {
	return a.host.ResetCamera()
}

// ---------------------------------------------------------------------------
// Bindings: to UI
// ---------------------------------------------------------------------------

// Schema returns the form of shape.
func (a *App) Schema(shape string) ([]solid.ParamSpec, error) {
	t, err := solid.Parse(shape)
	if err != nil {
		return nil, err
	}
	return solid.Schema(t), nil
}

// Calculate returns volume and surface area of shape, using the active
// dimensions when shape is loaded and the defaults otherwise.
func (a *App) Calculate(shape string) (formula.Result, error) {
	t, err := solid.Parse(shape)
	if err != nil {
		return formula.Result{}, err
	}
	cur, p, ok := a.host.Shape()
	if !ok || cur != t {
		p = solid.Defaults(t)
	}
	return formula.Calculate(t, p, a.cfg.PrismPolicy())
}

// Frame returns the current pose.
func (a *App) Frame() FrameResult {
	return a.frame(nil)
}

// Snapshot renders the current pose as a PNG data URL.
func (a *App) Snapshot(width, height int) (string, error) {
	img, err := a.host.Render(width, height)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ---------------------------------------------------------------------------
// Bindings: lessons and presets
// ---------------------------------------------------------------------------

// RunScript evaluates a lesson script and plays it on a simulated clock,
// writing snapshots under outDir. The live view then shows the script's
// final shape and fold.
func (a *App) RunScript(source, outDir string) ScriptResult {
	res := ScriptResult{Commands: []string{}, Files: []string{}, Errors: []string{}}

	prog, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("RunScript fatal error: %v", err)
		res.Errors = append(res.Errors, err.Error())
		res.Frame = a.frame(nil)
		return res
	}
	for _, e := range evalErrs {
		res.Errors = append(res.Errors, e.Error())
	}
	if len(evalErrs) > 0 {
		res.Frame = a.frame(nil)
		return res
	}
	for _, c := range prog.Commands {
		res.Commands = append(res.Commands, c.String())
	}

	clk := engine.NewClock(time.Now())
	sim := scene.NewHost(clk.Option(),
		scene.WithDuration(a.cfg.AnimationDuration()),
		scene.WithSupersample(a.cfg.Scene.Supersample))
	ctx, cancel := context.WithTimeout(a.context(), a.scriptTimeout)
	defer cancel()
	rep, err := prog.Run(ctx, sim, clk, engine.RunOptions{
		OutDir: outDir,
		FPS:    a.cfg.Scene.FPS,
		Width:  a.cfg.Scene.Width,
		Height: a.cfg.Scene.Height,
		Logger: log.New(os.Stderr, "", log.LstdFlags),
	})
	if rep != nil {
		res.Files = append(res.Files, rep.Files...)
		res.Frames = rep.Frames
	}
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
	}

	if t, p, ok := sim.Shape(); ok {
		if _, lerr := a.host.LoadShape(t, p); lerr == nil {
			_ = a.host.UpdateFold(sim.FoldValue())
		}
	}
	res.Frame = a.frame(nil)
	return res
}

// SavePreset stores the active dimensions under name.
func (a *App) SavePreset(name string) (*presets.Preset, error) {
	if a.store == nil {
		return nil, fmt.Errorf("preset store disabled")
	}
	t, p, ok := a.host.Shape()
	if !ok {
		return nil, scene.ErrNoShape
	}
	return a.store.Save(a.context(), name, t, p)
}

// Presets lists saved presets, optionally for one shape.
func (a *App) Presets(shape string) ([]*presets.Preset, error) {
	if a.store == nil {
		return []*presets.Preset{}, nil
	}
	var filter *solid.Type
	if shape != "" {
		t, err := solid.Parse(shape)
		if err != nil {
			return nil, err
		}
		filter = &t
	}
	list, err := a.store.List(a.context(), filter)
	if list == nil {
		list = []*presets.Preset{}
	}
	return list, err
}

// LoadPreset loads a saved preset into the view.
func (a *App) LoadPreset(id string) FrameResult {
	if a.store == nil {
		return a.frame(fmt.Errorf("preset store disabled"))
	}
	pr, err := a.store.Get(a.context(), id)
	if err != nil {
		return a.frame(err)
	}
	_, err = a.host.LoadShape(pr.Shape, pr.Params)
	return a.frame(err)
}

// DeletePreset removes a saved preset.
func (a *App) DeletePreset(id string) error {
	if a.store == nil {
		return fmt.Errorf("preset store disabled")
	}
	return a.store.Delete(a.context(), id)
}

func (a *App) context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}
