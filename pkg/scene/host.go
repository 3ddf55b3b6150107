// Package scene hosts one folding solid at a time together with its
// camera, lighting and fold animation. A Host is safe for concurrent use.
package scene

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/jaring/pkg/anim"
	"github.com/chazu/jaring/pkg/kernel"
	"github.com/chazu/jaring/pkg/shapes"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/chazu/jaring/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoShape is returned by operations that need a loaded shape.
var ErrNoShape = errors.New("scene: no shape loaded")

// Camera is a perspective camera.
type Camera struct {
	Eye    v3.Vec  `json:"eye"`
	Target v3.Vec  `json:"target"`
	Up     v3.Vec  `json:"up"`
	FOV    float64 `json:"fov"` // vertical, degrees
	Near   float64 `json:"near"`
	Far    float64 `json:"far"`
}

// DefaultCamera looks at the origin from (10, 10, 10).
func DefaultCamera() Camera {
	return Camera{
		Eye:  v3.Vec{X: 10, Y: 10, Z: 10},
		Up:   v3.Vec{Y: 1},
		FOV:  40,
		Near: 0.1,
		Far:  100,
	}
}

// DefaultLight is the direction towards the key light.
var DefaultLight = v3.Vec{X: 10, Y: 20, Z: 10}

// Listener is told the fold value after every pose change.
type Listener func(t solid.Type, fold float64)

// Option configures a Host.
type Option func(*Host)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

// WithDuration sets the fold/unfold transition length.
func WithDuration(d time.Duration) Option {
	return func(h *Host) { h.duration = d }
}

// WithListener registers a pose-change listener.
func WithListener(l Listener) Option {
	return func(h *Host) { h.listeners = append(h.listeners, l) }
}

// WithSupersample sets the render supersampling factor.
func WithSupersample(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.supersample = n
		}
	}
}

// Host owns the active shape slot.
type Host struct {
	mu          sync.Mutex
	shape       *shapes.Rigged
	anim        *anim.Animator
	camera      Camera
	light       v3.Vec
	background  string
	edge        string
	duration    time.Duration
	supersample int
	now         func() time.Time
	listeners   []Listener
}

// NewHost returns an empty host.
func NewHost(opts ...Option) *Host {
	h := &Host{
		anim:        anim.New(),
		camera:      DefaultCamera(),
		light:       DefaultLight,
		background:  shapes.ColorBackground,
		edge:        shapes.ColorEdge,
		duration:    anim.DefaultDuration,
		supersample: 2,
		now:         time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// LoadShape rigs t with p and replaces the active shape. The fold value
// resets to 0 and any running transition is abandoned.
func (h *Host) LoadShape(t solid.Type, p solid.Params) (*shapes.Rigged, error) {
	r, err := shapes.Build(t, p)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", t, err)
	}
	h.mu.Lock()
	h.shape = r
	h.anim.Reset()
	r.UpdateFold(0)
	h.mu.Unlock()
	h.notify(t, 0)
	return r, nil
}

// Shape returns the active shape's type and a copy of its parameters.
func (h *Host) Shape() (solid.Type, solid.Params, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shape == nil {
		return 0, nil, false
	}
	return h.shape.Type, h.shape.Params.Clone(), true
}

// FoldValue returns the current fold value.
func (h *Host) FoldValue() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anim.Value()
}

// Animating reports whether a transition is running.
func (h *Host) Animating() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anim.Active()
}

// UpdateFold poses the active shape at v immediately, cancelling any
// transition.
func (h *Host) UpdateFold(v float64) error {
	h.mu.Lock()
	if h.shape == nil {
		h.mu.Unlock()
		return ErrNoShape
	}
	h.anim.Set(v)
	v = h.anim.Value()
	h.shape.UpdateFold(v)
	t := h.shape.Type
	h.mu.Unlock()
	h.notify(t, v)
	return nil
}

// AnimateTo starts a transition to target over the host's configured
// duration and returns its handle.
func (h *Host) AnimateTo(target float64) (*Animation, error) {
	return h.AnimateOver(target, 0)
}

// AnimateOver is AnimateTo with an explicit duration. A non-positive d
// uses the host's configured duration.
func (h *Host) AnimateOver(target float64, d time.Duration) (*Animation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shape == nil {
		return nil, ErrNoShape
	}
	if d <= 0 {
		d = h.duration
	}
	gen := h.anim.AnimateTo(target, d, h.now())
	return &Animation{host: h, gen: gen}, nil
}

// Unfold animates towards the flat net.
func (h *Host) Unfold() (*Animation, error) {
	return h.AnimateTo(1)
}

// Fold animates towards the closed solid.
func (h *Host) Fold() (*Animation, error) {
	return h.AnimateTo(0)
}

// Camera returns the current camera.
func (h *Host) Camera() Camera {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.camera
}

// SetCamera replaces the camera.
func (h *Host) SetCamera(c Camera) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.camera = c
}

// ResetCamera restores the default view.
func (h *Host) ResetCamera() Camera {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.camera = DefaultCamera()
	return h.camera
}

// Frame returns world-space meshes of the active shape in its current
// pose.
func (h *Host) Frame() ([]*kernel.Mesh, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shape == nil {
		return nil, ErrNoShape
	}
	meshes, err := tessellate.Tessellate(h.shape.Rig)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return meshes, nil
}

// Pose is a consistent view of the active shape: the meshes were
// tessellated at exactly Fold.
type Pose struct {
	Type      solid.Type
	Params    solid.Params
	Fold      float64
	Animating bool
	Meshes    []*kernel.Mesh
}

// Pose captures the active shape under a single lock, so a frame-loop
// tick cannot land between reading the fold value and tessellating.
func (h *Host) Pose() (Pose, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shape == nil {
		return Pose{}, ErrNoShape
	}
	p := Pose{
		Type:      h.shape.Type,
		Params:    h.shape.Params.Clone(),
		Fold:      h.anim.Value(),
		Animating: h.anim.Active(),
	}
	meshes, err := tessellate.Tessellate(h.shape.Rig)
	if err != nil {
		return p, fmt.Errorf("scene: %w", err)
	}
	p.Meshes = meshes
	return p, nil
}

func (h *Host) notify(t solid.Type, v float64) {
	for _, l := range h.listeners {
		l(t, v)
	}
}
