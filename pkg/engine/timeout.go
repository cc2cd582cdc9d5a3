package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/primfit/pkg/scene"
)

// DefaultTimeout is the limit for a single evaluation.
const DefaultTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer Evaluate started on the same
// Engine before this one finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// evalResult passes evaluation results through channels.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// wait returns the result from ch, or a timeout error if the evaluation
// exceeds the engine timeout. The generation counter discards results
// whose Evaluate call has since been superseded.
//
// On timeout the goroutine may still be running; its result lands in the
// buffered channel and is dropped.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", e.timeout)
	}
}
