package timeline

import "sync/atomic"

// Clock hands out logical times for ledger snapshots.
//
// Next never repeats a value and never goes backwards. Witness lets
// externally numbered snapshots share the clock: after witnessing seq, the
// next stamp is greater than seq.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first stamp is 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new time.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Witness moves the clock forward to seq. It has no effect if the clock
// is already at or past seq.
func (c *Clock) Witness(seq int64) {
	for {
		cur := c.seq.Load()
		if seq <= cur || c.seq.CompareAndSwap(cur, seq) {
			return
		}
	}
}
