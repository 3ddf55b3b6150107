package profile

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/chazu/jaring/pkg/shapes"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(t *testing.T) *shapes.Rigged {
	t.Helper()
	r, err := shapes.Build(solid.Cube, solid.Params{"s": 4})
	require.NoError(t, err)
	return r
}

func TestSample(t *testing.T) {
	r := cube(t)
	series, err := Sample(r.Rig, 10)
	require.NoError(t, err)
	require.Len(t, series, 5)

	north := series[0]
	assert.Equal(t, "north", north.Hinge)
	assert.Len(t, north.Points, 11)
	assert.InDelta(t, 0, north.Points[0].Y, 1e-9)
	assert.InDelta(t, -90, north.Points[10].Y, 1e-9)
	assert.Equal(t, 0.0, r.Fold(), "sampling must not pose the rig")
}

func TestSampleRejectsZeroIntervals(t *testing.T) {
	_, err := Sample(cube(t).Rig, 0)
	assert.Error(t, err)
}

func TestConeHasNoSeries(t *testing.T) {
	r, err := shapes.Build(solid.Cone, solid.Params{"r": 2, "t": 5})
	require.NoError(t, err)
	series, err := Sample(r.Rig, 4)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestPNG(t *testing.T) {
	p, err := Plot(cube(t).Rig, 20)
	require.NoError(t, err)
	b, err := PNG(p, 4, 3)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestSave(t *testing.T) {
	p, err := Plot(cube(t).Rig, 20)
	require.NoError(t, err)
	assert.NoError(t, Save(p, filepath.Join(t.TempDir(), "cube.png"), 4, 3))
}
