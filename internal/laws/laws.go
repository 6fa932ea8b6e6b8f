package laws

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/cosync/internal/syncequiv"
)

// Law names an implementer obligation.
type Law string

const (
	Reflexivity Law = "reflexivity"
	Symmetry    Law = "symmetry"
	Determinism Law = "determinism"
	Confluence  Law = "confluence"
	Capability  Law = "capability"
)

// All lists every law in evaluation order.
var All = []Law{Reflexivity, Symmetry, Determinism, Confluence, Capability}

// Violation is one broken obligation.
type Violation struct {
	Law Law `json:"law"`

	// I and J index the sample. J is -1 for laws about a single item.
	// For determinism J is the item whose time was used, -1 for the core's.
	I int `json:"i"`
	J int `json:"j"`

	Message string `json:"message"`
}

// String formats the violation on one line (diffs excluded).
func (v Violation) String() string {
	if v.J < 0 {
		return fmt.Sprintf("%s: item %d: %s", v.Law, v.I, firstLine(v.Message))
	}
	return fmt.Sprintf("%s: items %d,%d: %s", v.Law, v.I, v.J, firstLine(v.Message))
}

// Report is the outcome of checking a sample.
type Report struct {
	Laws       []Law       `json:"laws"`
	Samples    int         `json:"samples"`
	Violations []Violation `json:"violations"`
}

// OK reports whether no law was violated.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Of returns the violations of one law.
func (r Report) Of(law Law) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Law == law {
			out = append(out, v)
		}
	}
	return out
}

// Check evaluates every law over sample, with core as the class
// representative for the capability law.
//
// Cost is quadratic in the sample size; use small samples.
func Check[C syncequiv.Capabilities, T syncequiv.Item[T, Time], Time any](core T, sample []T) Report {
	r := Report{
		Laws:       slices.Clone(All),
		Samples:    len(sample),
		Violations: []Violation{},
	}

	r.Violations = append(r.Violations, checkReflexivity[T, Time](sample)...)
	r.Violations = append(r.Violations, checkSymmetry[T, Time](sample)...)
	r.Violations = append(r.Violations, checkDeterminism[T, Time](core, sample)...)
	r.Violations = append(r.Violations, checkConfluence[T, Time](sample)...)
	r.Violations = append(r.Violations, checkCapability[C, T, Time](core, sample)...)

	return r
}

func checkReflexivity[T syncequiv.Item[T, Time], Time any](sample []T) []Violation {
	var out []Violation
	for i, a := range sample {
		if got := syncequiv.Equiv[T, Time](a, a); got != syncequiv.Equivalent {
			out = append(out, Violation{
				Law:     Reflexivity,
				I:       i,
				J:       -1,
				Message: fmt.Sprintf("item compared with itself is %s", got),
			})
		}
	}
	return out
}

func checkSymmetry[T syncequiv.Item[T, Time], Time any](sample []T) []Violation {
	var out []Violation
	for i, a := range sample {
		for j := i + 1; j < len(sample); j++ {
			b := sample[j]
			ab := syncequiv.Equiv[T, Time](a, b)
			ba := syncequiv.Equiv[T, Time](b, a)
			if ab.Comparable() && ab != ba || ba.Comparable() && ba != ab {
				out = append(out, Violation{
					Law:     Symmetry,
					I:       i,
					J:       j,
					Message: fmt.Sprintf("equiv(a, b) is %s but equiv(b, a) is %s", ab, ba),
				})
			}
		}
	}
	return out
}

func checkDeterminism[T syncequiv.Item[T, Time], Time any](core T, sample []T) []Violation {
	times := make([]Time, 0, len(sample)+1)
	times = append(times, core.Time())
	for _, a := range sample {
		times = append(times, a.Time())
	}

	var out []Violation
	for i, a := range sample {
		for k, t := range times {
			first, ok1 := a.Synchronize(t)
			second, ok2 := a.Synchronize(t)
			switch {
			case ok1 != ok2:
				out = append(out, Violation{
					Law:     Determinism,
					I:       i,
					J:       k - 1,
					Message: fmt.Sprintf("synchronize succeeded %t then %t for the same time", ok1, ok2),
				})
			case ok1 && !first.Equal(second):
				out = append(out, Violation{
					Law:     Determinism,
					I:       i,
					J:       k - 1,
					Message: "synchronize produced different values for the same time\n" + Diff(first, second),
				})
			}
		}
	}
	return out
}

func checkConfluence[T syncequiv.Item[T, Time], Time any](sample []T) []Violation {
	var out []Violation
	for i, a := range sample {
		for j := i + 1; j < len(sample); j++ {
			b := sample[j]
			b2, okB := b.Synchronize(a.Time())
			a2, okA := a.Synchronize(b.Time())
			if !okA || !okB {
				continue
			}
			atA := a.Equal(b2)
			atB := a2.Equal(b)
			if atA != atB {
				out = append(out, Violation{
					Law:     Confluence,
					I:       i,
					J:       j,
					Message: fmt.Sprintf("equal at a's time is %t but equal at b's time is %t", atA, atB),
				})
			}
		}
	}
	return out
}

func checkCapability[C syncequiv.Capabilities, T syncequiv.Item[T, Time], Time any](core T, sample []T) []Violation {
	var c C
	var out []Violation

	if c.Cosynchronizable() {
		coreTime := core.Time()
		for i, a := range sample {
			if !syncequiv.CanSynchronize[T, Time](a, coreTime) {
				out = append(out, Violation{
					Law:     Capability,
					I:       i,
					J:       -1,
					Message: "declared cosynchronizable but item cannot reach the core's time",
				})
			}
		}
	}

	if c.Synchronizable() {
		for i, a := range sample {
			if !syncequiv.CanSynchronize[T, Time](core, a.Time()) {
				out = append(out, Violation{
					Law:     Capability,
					I:       i,
					J:       -1,
					Message: "declared synchronizable but core cannot reach the item's time",
				})
			}
		}
	}

	return out
}

// Diff renders a human-readable difference between two values.
//
// Values are compared through their formatted representation: items
// usually define Equal, which cmp would otherwise defer to.
func Diff(want, got any) string {
	return cmp.Diff(fmt.Sprintf("%+v", want), fmt.Sprintf("%+v", got))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
