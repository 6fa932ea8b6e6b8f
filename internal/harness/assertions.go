package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/cosync/internal/laws"
)

// AssertionError is returned when a scenario expectation is not met.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // check, failure_code, failing_index, member or law
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Steps inspected before the verdict
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\n\nTrace:")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "\n  [%d] %s %s", ev.Index, ev.Direction, ev.Item)
			switch {
			case !ev.Reached:
				buf.WriteString(" (unsynchronizable)")
			case !ev.Equal:
				fmt.Fprintf(&buf, " -> %s (mismatch)", ev.Synchronized)
			}
		}
	}

	return buf.String()
}

// assertVerdict checks the verdict and, for failures, the code and index.
func assertVerdict(result *Result, expect Expect) []error {
	if result.Verdict != expect.Check {
		actual := fmt.Sprintf("check=%t", result.Verdict)
		if f := result.Failure; f != nil {
			actual += fmt.Sprintf(" (%s at item %d: %s)", f.Code, f.Index, f.Message)
		}
		return []error{&AssertionError{
			Type:     "check",
			Expected: fmt.Sprintf("check=%t", expect.Check),
			Actual:   actual,
			Trace:    result.Trace,
		}}
	}
	if result.Failure == nil {
		return nil
	}

	var errs []error
	if expect.Code != "" && result.Failure.Code != expect.Code {
		errs = append(errs, &AssertionError{
			Type:     "failure_code",
			Expected: expect.Code,
			Actual:   result.Failure.Code,
			Trace:    result.Trace,
		})
	}
	if expect.FailingIndex != nil && result.Failure.Index != *expect.FailingIndex {
		errs = append(errs, &AssertionError{
			Type:     "failing_index",
			Expected: fmt.Sprintf("item %d", *expect.FailingIndex),
			Actual:   fmt.Sprintf("item %d", result.Failure.Index),
			Trace:    result.Trace,
		})
	}
	return errs
}

// assertMember checks one membership expectation.
func assertMember(i int, m MemberResult) error {
	if m.Got == m.Expect {
		return nil
	}
	return &AssertionError{
		Type:     "member",
		Expected: fmt.Sprintf("member %d (%s) %s", i, m.Item, m.Expect),
		Actual:   m.Got.String(),
	}
}

// assertLaw reports a law violation as an assertion failure.
func assertLaw(v laws.Violation) error {
	return &AssertionError{
		Type:     "law",
		Expected: string(v.Law) + " holds",
		Actual:   v.String(),
	}
}
