package harness

import "github.com/roach88/masa/internal/ir"

// Step outcomes recorded in the trace.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq     int64          `json:"seq"`
	Op      string         `json:"op"`
	Args    map[string]any `json:"args,omitempty"`
	Outcome string         `json:"outcome"`

	// Result is the step's value: a scalar rendered at the scenario's
	// precision, a bool, an int, a kind name or a binding list.
	Result any `json:"result,omitempty"`

	// Code is the registry error code when Outcome is "error".
	Code string `json:"code,omitempty"`

	// Diagnostic is whatever the registry wrote to its diagnostics
	// writer during the step.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes each failed expectation or assertion.
	Errors []string `json:"errors,omitempty"`

	// Bindings is the registry listing after the last step.
	Bindings []ir.Binding `json:"bindings"`

	// Active is the active user name after the last step, if any.
	Active string `json:"active,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Bindings: []ir.Binding{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
