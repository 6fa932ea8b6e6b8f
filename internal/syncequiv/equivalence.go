package syncequiv

import "fmt"

// Equivalence is the three-valued outcome of comparing two items.
//
// The zero value is Incomparable.
type Equivalence uint8

const (
	// Incomparable means no common time could be reached.
	Incomparable Equivalence = iota

	// Equivalent means the items are equal at a common time.
	Equivalent

	// Inequivalent means the items differ at a common time.
	Inequivalent
)

// EquivalenceOf lifts a boolean comparison into an Equivalence.
func EquivalenceOf(equal bool) Equivalence {
	if equal {
		return Equivalent
	}
	return Inequivalent
}

// Comparable reports whether the items could be brought to a common time.
func (e Equivalence) Comparable() bool {
	return e == Equivalent || e == Inequivalent
}

// Bool returns the comparison result and whether it is defined.
// equal is false whenever ok is false.
func (e Equivalence) Bool() (equal, ok bool) {
	switch e {
	case Equivalent:
		return true, true
	case Inequivalent:
		return false, true
	default:
		return false, false
	}
}

// Collapse returns a boolean, using incomparable as the answer when the
// items could not be compared.
func (e Equivalence) Collapse(incomparable bool) bool {
	if equal, ok := e.Bool(); ok {
		return equal
	}
	return incomparable
}

// String returns the lowercase name of the outcome.
func (e Equivalence) String() string {
	switch e {
	case Incomparable:
		return "incomparable"
	case Equivalent:
		return "equivalent"
	case Inequivalent:
		return "inequivalent"
	default:
		return fmt.Sprintf("Equivalence(%d)", uint8(e))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Equivalence) MarshalText() ([]byte, error) {
	if e > Inequivalent {
		return nil, fmt.Errorf("invalid equivalence %d", uint8(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Equivalence) UnmarshalText(text []byte) error {
	switch string(text) {
	case "incomparable":
		*e = Incomparable
	case "equivalent":
		*e = Equivalent
	case "inequivalent":
		*e = Inequivalent
	default:
		return fmt.Errorf("unknown equivalence %q: must be one of equivalent, inequivalent, incomparable", text)
	}
	return nil
}
