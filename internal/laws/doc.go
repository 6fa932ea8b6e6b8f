// Package laws checks the obligations syncequiv places on implementers.
//
// syncequiv trusts that Synchronize is deterministic, that Equal is an
// equivalence relation and that a class's declared Capabilities hold. It
// cannot detect violations while checking. This package tests those
// obligations over a finite sample so they can be asserted in unit tests or
// reported by the harness:
//
//   - Reflexivity: Equiv(a, a) is Equivalent
//   - Symmetry: a comparable Equiv(a, b) equals Equiv(b, a)
//   - Determinism: repeated Synchronize calls agree
//   - Confluence: when both directions succeed they give the same answer
//   - Capability: the declared direction holds for every sample item
//
// Confluence is stricter than Equiv itself, which only consults the first
// direction that succeeds.
package laws
