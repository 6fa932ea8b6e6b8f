// Package timeline provides reference synchronizable types.
//
// The syncequiv protocol deliberately leaves "time" undefined. The types
// here give it two concrete meanings so the protocol can be exercised by
// tests, the conformance harness and the CLI:
//
//   - Ledger: time is a logical sequence number from a Clock. A ledger
//     snapshot can be projected forward but never rewound.
//   - Length: time is a unit of measure. Conversion is exact integer
//     arithmetic and is undefined when the result would be fractional.
//
// Both types are immutable values; Synchronize always returns a new value.
package timeline
