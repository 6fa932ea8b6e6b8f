package harness

import (
	"github.com/roach88/cosync/internal/laws"
	"github.com/roach88/cosync/internal/syncequiv"
)

// TraceEvent records one step of a core-equivalence check.
type TraceEvent struct {
	Seq          int64  `json:"seq"`
	Index        int    `json:"index"`
	Direction    string `json:"direction"`
	Item         string `json:"item"`
	Synchronized string `json:"synchronized,omitempty"` // empty when not reached
	Reached      bool   `json:"reached"`
	Equal        bool   `json:"equal"`
}

// Failure describes why the check failed.
type Failure struct {
	Code    string `json:"code"`
	Index   int    `json:"index"`
	Message string `json:"message"`
	Diff    string `json:"diff,omitempty"` // only for mismatches
}

// MemberResult is the outcome of one membership check.
type MemberResult struct {
	Item   string                `json:"item"`
	Expect syncequiv.Equivalence `json:"expect"`
	Got    syncequiv.Equivalence `json:"got"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expectation was met.
	Pass bool `json:"pass"`

	// Verdict is the value CoreEquiv.Check returned.
	Verdict bool `json:"verdict"`

	// Direction is the direction the check took.
	Direction string `json:"direction"`

	// Failure is set when Verdict is false.
	Failure *Failure `json:"failure,omitempty"`

	// Trace contains every inspected item in production order.
	Trace []TraceEvent `json:"trace"`

	// Members contains membership check outcomes.
	Members []MemberResult `json:"members,omitempty"`

	// Laws contains law violations (only when the scenario enables laws).
	Laws []laws.Violation `json:"laws,omitempty"`

	// Errors contains unmet expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an unmet expectation and marks the result as failed.
func (r *Result) AddError(err error) {
	r.Errors = append(r.Errors, err.Error())
	r.Pass = false
}

// AddStep appends a trace event.
func (r *Result) AddStep(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
