// Package harness runs conformance scenarios against the syncequiv protocol.
//
// A scenario describes an equivalence class over one of the reference
// timelines, the capability it declares and the outcome expected from a
// core-equivalence check. The harness builds the items, runs the check
// with an observer that records every step, evaluates member and law
// expectations and returns a Result.
//
// # Scenario Format
//
// Scenarios are YAML (.yaml, .yml) or CUE (.cue) files:
//
//	name: ledger_drift
//	description: "Second snapshot drifted from the first"
//	domain: ledger          # ledger | length
//	capability: sync        # sync | cosync | bisync | none
//	core: 0                 # index into items; omit to use the first item
//	items:
//	  - {seq: 1, balance: 100, rate: 5}
//	  - {seq: 3, balance: 111, rate: 5}
//	  - {balance: 120, rate: 5}  # no seq: stamped by the scenario clock
//	expect:
//	  check: false
//	  failing_index: 1      # optional, only with check: false
//	  code: MISMATCH        # optional, only with check: false
//	members:
//	  - item: {seq: 0, balance: 95, rate: 5}
//	    expect: equivalent
//	laws: true              # optional: also check implementer laws
//
// Length items use {unit: mm, value: 1000}.
//
// # Deterministic Testing
//
// Every run starts two fresh timeline.Clocks: one stamps trace steps, the
// other stamps ledger items that omit seq after witnessing the explicit
// seqs before them. A scenario therefore always produces the same trace. RunWithGolden compares the
// canonical JSON of that trace against testdata/golden.
package harness
