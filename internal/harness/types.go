package harness

import (
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/period"
	"github.com/roach88/pulsenet/internal/sim"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every pulse delivered during the traced presses.
	Trace []engine.Delivery `json:"trace"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Counts     *engine.Counts   `json:"counts,omitempty"`
	Periods    []*period.Result `json:"periods,omitempty"`
	Combined   *sim.Report      `json:"combined,omitempty"`
	Components [][]string       `json:"components,omitempty"`

	// RunIDs lists the runs recorded and replayed in the scenario store.
	RunIDs []string `json:"run_ids,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []engine.Delivery{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
