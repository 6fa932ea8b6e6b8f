package syncequiv

// Item is implemented by values that might be synchronized.
//
// T is the implementing type itself; Time is whatever information tells how
// to bring two values to a state where they can be compared.
type Item[T any, Time any] interface {
	// Time returns the time of the value. Always succeeds.
	Time() Time

	// Synchronize re-expresses the value at t. Returns false when the
	// transformation is undefined for this (value, time) pair.
	// Must not mutate the receiver.
	Synchronize(t Time) (T, bool)

	// Equal reports value equality.
	Equal(other T) bool
}

// CanSynchronize reports whether a can be synchronized with t.
func CanSynchronize[T Item[T, Time], Time any](a T, t Time) bool {
	_, ok := a.Synchronize(t)
	return ok
}

// Equiv compares a and b at a common time.
//
// b is brought to a's time first. Only if that fails is a brought to b's
// time. When neither succeeds the result is Incomparable.
//
// If both directions would succeed, only the first is consulted; the two
// are not checked for agreement (see laws.Confluence).
func Equiv[T Item[T, Time], Time any](a, b T) Equivalence {
	if b2, ok := b.Synchronize(a.Time()); ok {
		return EquivalenceOf(a.Equal(b2))
	}
	if a2, ok := a.Synchronize(b.Time()); ok {
		return EquivalenceOf(a2.Equal(b))
	}
	return Incomparable
}
