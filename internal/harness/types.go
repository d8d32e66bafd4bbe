package harness

import (
	"github.com/roach88/necroqol/internal/roster"
	"github.com/roach88/necroqol/internal/store"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int    `json:"step"`
	Op     string `json:"op"`
	Detail string `json:"detail"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Session is the session token of the run.
	Session string `json:"session"`

	// Module describes the loaded extension module, "none" when absent.
	Module string `json:"module"`

	// Trace lists the executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists assertion failures; empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final state.
	Toasts    []string      `json:"toasts"`
	Journal   []store.Entry `json:"journal"`
	Party     roster.Roster `json:"party"`
	Balance   float64       `json:"balance"`
	Banked    float64       `json:"banked"`
	Installed bool          `json:"installed"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Toasts:  []string{},
		Journal: []store.Entry{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(step int, op, detail string) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Op: op, Detail: detail})
}
