package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cosync/internal/laws"
	"github.com/roach88/cosync/internal/syncequiv"
)

func TestAssertVerdict_Matches(t *testing.T) {
	result := NewResult()
	result.Verdict = true

	assert.Empty(t, assertVerdict(result, Expect{Check: true}))
}

func TestAssertVerdict_WrongCheck(t *testing.T) {
	result := NewResult()
	result.Verdict = false
	result.Failure = &Failure{Code: "MISMATCH", Index: 1, Message: "synchronized values differ"}
	result.Trace = []TraceEvent{
		{Seq: 1, Index: 0, Direction: "sync", Item: "a", Synchronized: "a", Reached: true, Equal: true},
		{Seq: 2, Index: 1, Direction: "sync", Item: "b", Synchronized: "c", Reached: true},
	}

	errs := assertVerdict(result, Expect{Check: true})
	require.Len(t, errs, 1)

	var assertErr *AssertionError
	require.True(t, errors.As(errs[0], &assertErr))
	assert.Equal(t, "check", assertErr.Type)
	assert.Equal(t, "check=true", assertErr.Expected)
	assert.Equal(t, "check=false (MISMATCH at item 1: synchronized values differ)", assertErr.Actual)

	msg := assertErr.Error()
	assert.Contains(t, msg, "Assertion failed: check")
	assert.Contains(t, msg, "[0] sync a\n")
	assert.Contains(t, msg, "[1] sync b -> c (mismatch)")
}

func TestAssertVerdict_CodeAndIndex(t *testing.T) {
	result := NewResult()
	result.Failure = &Failure{Code: "UNSYNCHRONIZABLE", Index: 4}

	errs := assertVerdict(result, Expect{Code: "UNSYNCHRONIZABLE", FailingIndex: intPtr(4)})
	assert.Empty(t, errs)

	errs = assertVerdict(result, Expect{Code: "MISMATCH", FailingIndex: intPtr(2)})
	require.Len(t, errs, 2)
	assert.Equal(t, "failure_code", errs[0].(*AssertionError).Type)
	assert.Equal(t, "failing_index", errs[1].(*AssertionError).Type)
	assert.Equal(t, "item 4", errs[1].(*AssertionError).Actual)
}

func TestAssertionError_Unreached(t *testing.T) {
	err := &AssertionError{
		Type:     "check",
		Expected: "check=true",
		Actual:   "check=false",
		Trace:    []TraceEvent{{Index: 0, Direction: "cosync", Item: "1in"}},
	}

	assert.Equal(t,
		"Assertion failed: check\n  Expected: check=true\n  Actual: check=false\n\nTrace:\n  [0] cosync 1in (unsynchronizable)",
		err.Error())
}

func TestAssertMember(t *testing.T) {
	ok := MemberResult{Item: "1m", Expect: syncequiv.Equivalent, Got: syncequiv.Equivalent}
	assert.NoError(t, assertMember(0, ok))

	bad := MemberResult{Item: "1in", Expect: syncequiv.Equivalent, Got: syncequiv.Incomparable}
	err := assertMember(3, bad)
	require.Error(t, err)
	assert.Equal(t,
		"Assertion failed: member\n  Expected: member 3 (1in) equivalent\n  Actual: incomparable",
		err.Error())
}

func TestAssertLaw(t *testing.T) {
	v := laws.Violation{Law: laws.Symmetry, I: 0, J: 1, Message: "a~b is equivalent but b~a is incomparable"}

	err := assertLaw(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: symmetry holds")
	assert.Contains(t, err.Error(), "symmetry: items 0,1")
}
