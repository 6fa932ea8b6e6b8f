package syncequiv

import "iter"

// rev is a value on a named branch that grows by step per tick.
// It can only be synchronized forward along its own branch.
type rev struct {
	branch string
	at     int
	value  int
	step   int
}

type revTime struct {
	branch string
	at     int
}

func (r rev) Time() revTime {
	return revTime{branch: r.branch, at: r.at}
}

func (r rev) Synchronize(t revTime) (rev, bool) {
	if t.branch != r.branch || t.at < r.at {
		return rev{}, false
	}
	return rev{branch: r.branch, at: t.at, value: r.value + r.step*(t.at-r.at), step: r.step}, true
}

func (r rev) Equal(other rev) bool {
	return r == other
}

// line builds items on branch "main" that all agree with value v0 at tick 0.
func line(v0, step int, ticks ...int) []rev {
	out := make([]rev, len(ticks))
	for i, at := range ticks {
		out[i] = rev{branch: "main", at: at, value: v0 + step*at, step: step}
	}
	return out
}

// oneShot yields items on the first range only, counting how many were
// produced.
func oneShot(items []rev, produced *int) iter.Seq[rev] {
	used := false
	return func(yield func(rev) bool) {
		if used {
			return
		}
		used = true
		for _, it := range items {
			*produced++
			if !yield(it) {
				return
			}
		}
	}
}
