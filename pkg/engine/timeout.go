package engine

import (
	"errors"
	"fmt"
	"time"
)

// EvalTimeout bounds how long a lesson script may take to produce its
// Program. Playback is bounded separately by the caller's context.
const EvalTimeout = 5 * time.Second

var (
	// ErrEvalTimeout is returned when a script is still evaluating after
	// the engine's timeout, typically an endless loop in user code.
	ErrEvalTimeout = errors.New("evaluation timed out")

	// ErrSuperseded is returned to an Evaluate call whose script was
	// replaced by a newer one before it finished.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult is what the evaluating goroutine hands back.
type evalResult struct {
	program *Program
	errors  []EvalError
	err     error
}

// await collects the result of evaluation gen from ch. A runaway script
// keeps its goroutine, but once the timeout fires its Program is never
// handed out: a later Evaluate has moved the generation on, or nobody is
// listening anymore.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*Program, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.program, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrEvalTimeout, e.timeout)
	}
}

// current reports whether gen is still the newest evaluation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
