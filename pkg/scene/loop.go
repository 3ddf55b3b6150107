package scene

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Animation is a handle on one transition. Once another transition
// starts, or a shape is loaded, the handle goes stale and Step does
// nothing.
type Animation struct {
	host *Host
	gen  uint64
}

// Step advances the transition to now and poses the shape. It reports
// whether the transition is still current.
func (a *Animation) Step(now time.Time) (float64, bool) {
	return a.host.step(a.gen, now)
}

// Done reports whether the transition finished or was superseded.
func (a *Animation) Done() bool {
	h := a.host
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anim.Generation() != a.gen || !h.anim.Active()
}

func (h *Host) step(gen uint64, now time.Time) (float64, bool) {
	h.mu.Lock()
	if h.shape == nil {
		h.mu.Unlock()
		return 0, false
	}
	v, ok := h.anim.Tick(gen, now)
	if !ok {
		h.mu.Unlock()
		return v, false
	}
	h.shape.UpdateFold(v)
	t := h.shape.Type
	h.mu.Unlock()
	h.notify(t, v)
	return v, true
}

// Tick advances the current transition, if any, to now. It reports
// whether the pose changed.
func (h *Host) Tick(now time.Time) bool {
	h.mu.Lock()
	gen := h.anim.Generation()
	h.mu.Unlock()
	_, ok := h.step(gen, now)
	return ok
}

// Run drives Tick at fps frames per second until ctx is cancelled.
func (h *Host) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("scene: fps must be positive, got %d", fps)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	log.Printf("scene: frame loop started at %d fps", fps)
	for {
		select {
		case <-ctx.Done():
			log.Printf("scene: frame loop stopped")
			return ctx.Err()
		case <-ticker.C:
			h.Tick(h.now())
		}
	}
}
