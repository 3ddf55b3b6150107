package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/jaring/pkg/scene"
	"github.com/fogleman/fauxgl"
)

// Clock is a simulated clock for playing programs faster than real time.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// NewClock returns a clock that starts at start.
func NewClock(start time.Time) *Clock {
	return &Clock{t: start}
}

// Now returns the simulated time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// Option returns the scene option that makes a Host read this clock.
func (c *Clock) Option() scene.Option {
	return scene.WithClock(c.Now)
}

// MaxDuration bounds a single transition or wait.
const MaxDuration = 10 * time.Minute

// RunOptions controls program playback.
type RunOptions struct {
	OutDir string // relative snapshot and STL paths resolve here
	FPS    int    // simulated frame rate, default 60
	Width  int    // default snapshot width, default 800
	Height int    // default snapshot height, default 600
	Logger *log.Logger
}

func (o RunOptions) withDefaults() RunOptions {
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	return o
}

// Report summarises a finished run.
type Report struct {
	Frames  int           // simulated frames stepped
	Elapsed time.Duration // simulated time
	Files   []string      // files written, in order
}

// Run plays p against h. The host must read clk (see Clock.Option);
// transitions and waits advance clk one frame at a time, so a
// two-second unfold takes FPS*2 frames and no wall-clock time.
func (p *Program) Run(ctx context.Context, h *scene.Host, clk *Clock, opts RunOptions) (*Report, error) {
	opts = opts.withDefaults()
	r := &runner{host: h, clock: clk, opts: opts, frame: time.Second / time.Duration(opts.FPS)}
	start := clk.Now()
	for i, c := range p.Commands {
		if err := ctx.Err(); err != nil {
			return r.report(start), err
		}
		if c.Duration < 0 || c.Duration > MaxDuration {
			return r.report(start), fmt.Errorf("engine: command %d %s: duration %s outside 0..%s", i+1, c.Op, c.Duration, MaxDuration)
		}
		if opts.Logger != nil {
			opts.Logger.Printf("engine: %d: %s", i+1, c)
		}
		if err := r.exec(ctx, c); err != nil {
			return r.report(start), fmt.Errorf("engine: command %d %s: %w", i+1, c.Op, err)
		}
	}
	return r.report(start), nil
}

type runner struct {
	host   *scene.Host
	clock  *Clock
	opts   RunOptions
	frame  time.Duration
	frames int
	files  []string
}

func (r *runner) report(start time.Time) *Report {
	return &Report{Frames: r.frames, Elapsed: r.clock.Now().Sub(start), Files: r.files}
}

func (r *runner) exec(ctx context.Context, c Command) error {
	h := r.host
	switch c.Op {
	case OpShape:
		_, err := h.LoadShape(c.Shape, c.Params)
		return err

	case OpSetParam:
		t, p, ok := h.Shape()
		if !ok {
			return scene.ErrNoShape
		}
		for k, v := range c.Params {
			p[k] = v
		}
		_, err := h.LoadShape(t, p)
		return err

	case OpFoldTo:
		return h.UpdateFold(c.Value)

	case OpUnfold, OpFold:
		a, err := h.AnimateOver(c.Value, c.Duration)
		if err != nil {
			return err
		}
		for !a.Done() {
			if err := ctx.Err(); err != nil {
				return err
			}
			a.Step(r.clock.Advance(r.frame))
			r.frames++
		}
		return nil

	case OpWait:
		for waited := time.Duration(0); waited < c.Duration; waited += r.frame {
			if err := ctx.Err(); err != nil {
				return err
			}
			h.Tick(r.clock.Advance(r.frame))
			r.frames++
		}
		return nil

	case OpSnapshot:
		w, ht := c.Width, c.Height
		if w == 0 {
			w = r.opts.Width
		}
		if ht == 0 {
			ht = r.opts.Height
		}
		img, err := h.Render(w, ht)
		if err != nil {
			return err
		}
		path, err := r.output(c.Path)
		if err != nil {
			return err
		}
		if err := fauxgl.SavePNG(path, img); err != nil {
			return err
		}
		r.files = append(r.files, path)
		return nil

	case OpExportSTL:
		path, err := r.output(c.Path)
		if err != nil {
			return err
		}
		if err := h.ExportSTL(path); err != nil {
			return err
		}
		r.files = append(r.files, path)
		return nil

	case OpResetCamera:
		h.ResetCamera()
		return nil
	}
	return fmt.Errorf("unknown command %q", c.Op)
}

// output resolves a script path against OutDir and creates its directory.
func (r *runner) output(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}
	path := name
	if !filepath.IsAbs(path) && r.opts.OutDir != "" {
		path = filepath.Join(r.opts.OutDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}
