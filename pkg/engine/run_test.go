package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chazu/jaring/pkg/scene"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*scene.Host, *Clock) {
	t.Helper()
	clk := NewClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	return scene.NewHost(clk.Option()), clk
}

func TestRunFoldSequence(t *testing.T) {
	h, clk := newSession(t)
	p := mustEvaluate(t, `
(shape :box :p 6 :l 4 :t 3)
(unfold)
(wait 500)
(fold 1000)
(fold-to 0.25)
`)
	rep, err := p.Run(context.Background(), h, clk, RunOptions{FPS: 50})
	require.NoError(t, err)

	assert.Equal(t, 0.25, h.FoldValue())
	assert.False(t, h.Animating())
	// 2000 ms + 500 ms + 1000 ms at 20 ms per frame.
	assert.Equal(t, 175, rep.Frames)
	assert.Equal(t, 3500*time.Millisecond, rep.Elapsed)
	assert.Empty(t, rep.Files)
}

func TestRunUnfoldReachesFlat(t *testing.T) {
	clk := NewClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	var seen []float64
	h := scene.NewHost(clk.Option(), scene.WithListener(func(_ solid.Type, v float64) {
		seen = append(seen, v)
	}))
	p := mustEvaluate(t, "(shape :cube :s 4)\n(unfold 100)")
	_, err := p.Run(context.Background(), h, clk, RunOptions{FPS: 100})
	require.NoError(t, err)

	assert.Equal(t, 1.0, h.FoldValue())
	require.NotEmpty(t, seen)
	assert.Equal(t, 0.0, seen[0])
	assert.Equal(t, 1.0, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
}

func TestRunSetParamReloads(t *testing.T) {
	h, clk := newSession(t)
	p := mustEvaluate(t, "(shape :cone :r 2 :t 5)\n(fold-to 0.4)\n(set-param :r 3)")
	_, err := p.Run(context.Background(), h, clk, RunOptions{})
	require.NoError(t, err)

	ty, params, ok := h.Shape()
	require.True(t, ok)
	assert.Equal(t, solid.Cone, ty)
	assert.Equal(t, solid.Params{"r": 3, "t": 5}, params)
	assert.Equal(t, 0.0, h.FoldValue())
}

func TestRunWithoutShape(t *testing.T) {
	h, clk := newSession(t)
	p := mustEvaluate(t, "(unfold)")
	_, err := p.Run(context.Background(), h, clk, RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, scene.ErrNoShape)
	assert.Contains(t, err.Error(), "command 1 unfold")
}

func TestRunWritesFiles(t *testing.T) {
	h, clk := newSession(t)
	dir := t.TempDir()
	p := mustEvaluate(t, `
(shape :pyramid)
(snapshot "closed.png" :width 48 :height 32)
(unfold 40)
(snapshot "frames/flat.png")
(export-stl "net.stl")
`)
	rep, err := p.Run(context.Background(), h, clk, RunOptions{OutDir: dir, Width: 40, Height: 30})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "closed.png"),
		filepath.Join(dir, "frames", "flat.png"),
		filepath.Join(dir, "net.stl"),
	}
	assert.Equal(t, want, rep.Files)
	for _, f := range want {
		st, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, st.Size())
	}
}

func TestRunResetCamera(t *testing.T) {
	h, clk := newSession(t)
	cam := h.Camera()
	cam.FOV = 70
	h.SetCamera(cam)
	p := mustEvaluate(t, "(reset-camera)")
	_, err := p.Run(context.Background(), h, clk, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, scene.DefaultCamera(), h.Camera())
}

func TestRunCancelled(t *testing.T) {
	h, clk := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := mustEvaluate(t, "(shape :cube)\n(unfold)")
	rep, err := p.Run(ctx, h, clk, RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, rep.Frames)
	_, _, ok := h.Shape()
	assert.False(t, ok)
}

func TestRunWaitAtCap(t *testing.T) {
	p := mustEvaluate(t, "(shape :cube)\n(wait 600000)")
	require.Len(t, p.Commands, 2)
	assert.Equal(t, MaxDuration, p.Commands[1].Duration)
}

func TestRunRejectsOversizedDuration(t *testing.T) {
	h, clk := newSession(t)
	p := &Program{Commands: []Command{
		{Op: OpShape, Shape: solid.Cube, Params: solid.Defaults(solid.Cube)},
		{Op: OpWait, Duration: MaxDuration + time.Millisecond},
	}}
	rep, err := p.Run(context.Background(), h, clk, RunOptions{})
	assert.ErrorContains(t, err, "command 2 wait")
	assert.Zero(t, rep.Frames)
}

func TestRunStopsAtDeadline(t *testing.T) {
	h, clk := newSession(t)
	p := mustEvaluate(t, "(shape :cube)\n(wait 600000)")
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	rep, err := p.Run(ctx, h, clk, RunOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, rep.Frames)
}
