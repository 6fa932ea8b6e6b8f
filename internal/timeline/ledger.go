package timeline

import "fmt"

// Ledger is a snapshot of an account balance taken at logical time Seq.
// Between snapshots the balance changes by Rate per tick.
type Ledger struct {
	Seq     int64 `json:"seq" yaml:"seq"`
	Balance int64 `json:"balance" yaml:"balance"`
	Rate    int64 `json:"rate" yaml:"rate"`
}

// Snapshot stamps a new ledger with the clock's next sequence number.
func Snapshot(c *Clock, balance, rate int64) Ledger {
	return Ledger{Seq: c.Next(), Balance: balance, Rate: rate}
}

// Time returns the logical time of the snapshot.
func (l Ledger) Time() int64 {
	return l.Seq
}

// Synchronize projects the snapshot forward to seq.
// Returns false if seq precedes the snapshot (history is not recorded) or
// the projected balance does not fit in an int64.
func (l Ledger) Synchronize(seq int64) (Ledger, bool) {
	if seq < l.Seq {
		return Ledger{}, false
	}
	if seq == l.Seq || l.Rate == 0 {
		return Ledger{Seq: seq, Balance: l.Balance, Rate: l.Rate}, true
	}

	ticks, ok := subInt64(seq, l.Seq)
	if !ok {
		return Ledger{}, false
	}
	delta, ok := mulInt64(l.Rate, ticks)
	if !ok {
		return Ledger{}, false
	}
	balance, ok := addInt64(l.Balance, delta)
	if !ok {
		return Ledger{}, false
	}
	return Ledger{Seq: seq, Balance: balance, Rate: l.Rate}, true
}

// Equal reports whether two snapshots are identical.
func (l Ledger) Equal(other Ledger) bool {
	return l == other
}

// String returns a compact representation for diagnostics.
func (l Ledger) String() string {
	return fmt.Sprintf("ledger@%d{balance=%d rate=%d}", l.Seq, l.Balance, l.Rate)
}
