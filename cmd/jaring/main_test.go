package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := dispatch(args, &out)
	return out.String(), err
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestDispatchUsage(t *testing.T) {
	out, err := run(t)
	assert.ErrorIs(t, err, errUsage)
	for _, c := range commands {
		assert.Contains(t, out, c.name)
	}

	_, err = run(t, "explode")
	assert.ErrorContains(t, err, `unknown command "explode"`)
}

func TestParamFlag(t *testing.T) {
	p := paramFlag{}
	require.NoError(t, p.Set("t-alas=3"))
	require.NoError(t, p.Set("a=4"))
	assert.Equal(t, "a=4,t_alas=3", p.String())
	assert.Error(t, p.Set("novalue"))
	assert.Error(t, p.Set("=3"))
}

// ---------------------------------------------------------------------------
// Calc
// ---------------------------------------------------------------------------

func TestCalc(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"cube", []string{"-shape", "cube", "-p", "s=4"}, []string{"64.00 cm³", "96.00 cm²"}},
		{"cone string", []string{"-shape", "cone", "-p", "r=2cm", "-p", "t=5"}, []string{"20.94 cm³", "46.40 cm²"}},
		{"prism equilateral", []string{"-shape", "prism", "-p", "a=4", "-p", "t-alas=3", "-p", "t-prisma=6", "-policy", "equilateral"}, []string{"36.00 cm³", "84.00 cm²"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"calc"}, tt.args...)...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestCalcJSON(t *testing.T) {
	out, err := run(t, "calc", "-shape", "cube", "-p", "s=2", "-json")
	require.NoError(t, err)
	var res struct {
		Volume      float64 `json:"volume"`
		SurfaceArea float64 `json:"surfaceArea"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 8.0, res.Volume)
	assert.Equal(t, 24.0, res.SurfaceArea)
}

func TestCalcErrors(t *testing.T) {
	_, err := run(t, "calc", "-shape", "sphere")
	assert.ErrorContains(t, err, "unknown shape")

	_, err = run(t, "calc", "-shape", "cube", "-p", "r=2")
	assert.ErrorContains(t, err, `no parameter "r"`)

	_, err = run(t, "calc", "-shape", "prism", "-policy", "scalene")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Rig
// ---------------------------------------------------------------------------

func TestRigDump(t *testing.T) {
	out, err := run(t, "rig", "-shape", "box")
	require.NoError(t, err)
	for _, part := range []string{"base", "north", "south", "east", "west", "lid"} {
		assert.Contains(t, out, part)
	}
}

// ---------------------------------------------------------------------------
// File outputs
// ---------------------------------------------------------------------------

func TestRenderWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.png")
	out, err := run(t, "render", "-shape", "box", "-fold", "0.5", "-width", "64", "-height", "48", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "fold 0.50")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestExportSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	_, err := run(t, "stl", "-shape", "cube", "-o", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(84))
}

func TestExportReferenceSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cone-ref.stl")
	out, err := run(t, "stl", "-shape", "cone", "-reference", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cone reference")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(84))
}

func TestProfileWritesChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.png")
	out, err := run(t, "profile", "-shape", "prism", "-n", "10", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "hinges")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

// ---------------------------------------------------------------------------
// Script
// ---------------------------------------------------------------------------

func TestScriptDryRun(t *testing.T) {
	out, err := run(t, "script", "-n", "../../examples/lessons/box.jaring")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "(shape :box"))
}

func TestScriptRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "lesson.jaring")
	require.NoError(t, os.WriteFile(src, []byte(`(shape :cube :s 2)
(unfold 100)
(snapshot "flat.png" :width 32 :height 24)`), 0o644))

	out, err := run(t, "script", "-out", dir, src)
	require.NoError(t, err)
	assert.Contains(t, out, "flat.png")
	_, err = os.Stat(filepath.Join(dir, "flat.png"))
	assert.NoError(t, err)
}

func TestScriptErrors(t *testing.T) {
	_, err := run(t, "script")
	assert.ErrorContains(t, err, "expected one script file")

	src := filepath.Join(t.TempDir(), "bad.jaring")
	require.NoError(t, os.WriteFile(src, []byte("(shape :sphere)"), 0o644))
	out, err := run(t, "script", "-n", src)
	assert.Error(t, err)
	assert.Contains(t, out, "bad.jaring")
}
