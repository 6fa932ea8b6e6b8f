// Package syncequiv implements a protocol for comparing values that live at
// different "times".
//
// Two values are only meaningfully comparable once they exist at the same
// time. A value that knows its own time and can be re-expressed at another
// one implements Item. Equiv brings one value to the time of the other and
// compares them, producing a three-valued Equivalence:
//
//   - Equivalent: the values agree at a common time
//   - Inequivalent: the values disagree at a common time
//   - Incomparable: no common time could be reached
//
// # Core Equivalence
//
// Checking that N values are pairwise equivalent normally takes O(N²)
// comparisons. When a class of values declares a synchronization direction
// relative to one representative item (the core), every item only needs to
// be compared against the core:
//
//   - Cosynchronizable: every item can be brought to the core's time
//   - Synchronizable: the core can be brought to every item's time
//
// The declaration is a property of the class type, expressed with a
// Capabilities type parameter (Cosync, Sync, Bisync, Unsync). The protocol
// trusts it; internal/laws can verify it over a sample.
//
// # Single Pass
//
// CoreEquiv consumes its iter.Seq exactly once. After Check or Verify the
// checker is spent and reports failure on any further call. Build a new
// checker over a fresh sequence to check again.
//
// # Implementer Obligations
//
// Synchronize must be deterministic and must not mutate the receiver; Equal
// must be an equivalence relation. The protocol cannot detect violations at
// runtime.
//
// Usage:
//
//	ce := syncequiv.New[syncequiv.Cosync](latest, slices.Values(snapshots))
//	if !ce.Check() {
//	    // at least one snapshot disagrees with latest
//	}
package syncequiv
