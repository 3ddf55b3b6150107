package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestSetCancelsTransition(t *testing.T) {
	a := New()
	a.AnimateTo(1, DefaultDuration, t0)
	assert.True(t, a.Active())
	a.Set(0.3)
	assert.False(t, a.Active())
	assert.Equal(t, 0.3, a.Value())
	assert.Equal(t, 0.3, a.Sample(t0.Add(time.Second)))
}

func TestSetClamps(t *testing.T) {
	a := New()
	a.Set(2)
	assert.Equal(t, 1.0, a.Value())
	a.Set(-1)
	assert.Equal(t, 0.0, a.Value())
}

func TestSampleEndpoints(t *testing.T) {
	a := New()
	a.Set(0.2)
	a.AnimateTo(1, DefaultDuration, t0)
	assert.Equal(t, 0.2, a.Sample(t0))
	assert.InDelta(t, 0.6, a.Sample(t0.Add(time.Second)), 1e-12)
	assert.Equal(t, 1.0, a.Sample(t0.Add(DefaultDuration)))
	assert.Equal(t, 1.0, a.Sample(t0.Add(time.Hour)))
}

func TestSampleIsLinear(t *testing.T) {
	a := New()
	a.AnimateTo(1, 2*time.Second, t0)
	assert.InDelta(t, 0.25, a.Sample(t0.Add(500*time.Millisecond)), 1e-12)
	assert.InDelta(t, 0.75, a.Sample(t0.Add(1500*time.Millisecond)), 1e-12)
}

func TestTickRunsToCompletion(t *testing.T) {
	a := New()
	gen := a.AnimateTo(1, DefaultDuration, t0)
	var last float64
	for ms := 0; ms <= 2100; ms += 16 {
		v, ok := a.Tick(gen, t0.Add(time.Duration(ms)*time.Millisecond))
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, v, last)
		last = v
	}
	assert.Equal(t, 1.0, a.Value())
	assert.False(t, a.Active())
}

func TestStaleTickIsNoop(t *testing.T) {
	a := New()
	old := a.AnimateTo(1, DefaultDuration, t0)
	a.Tick(old, t0.Add(500*time.Millisecond))
	fresh := a.AnimateTo(0, DefaultDuration, t0.Add(500*time.Millisecond))
	assert.NotEqual(t, old, fresh)

	before := a.Value()
	v, ok := a.Tick(old, t0.Add(1900*time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, before, v)
	assert.Equal(t, before, a.Value())

	_, ok = a.Tick(fresh, t0.Add(2500*time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 0.0, a.Value())
}

func TestResetBumpsGeneration(t *testing.T) {
	a := New()
	gen := a.AnimateTo(1, DefaultDuration, t0)
	a.Reset()
	_, ok := a.Tick(gen, t0.Add(time.Second))
	assert.False(t, ok)
	assert.Equal(t, 0.0, a.Value())
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	a := New()
	gen := a.AnimateTo(1, 0, t0)
	v, ok := a.Tick(gen, t0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	assert.False(t, a.Active())
}

func TestTarget(t *testing.T) {
	a := New()
	a.Set(0.5)
	assert.Equal(t, 0.5, a.Target())
	a.AnimateTo(1, DefaultDuration, t0)
	assert.Equal(t, 1.0, a.Target())
}
