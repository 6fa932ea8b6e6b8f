package syncequiv

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func TestCheck_CosyncAllEquivalent(t *testing.T) {
	items := line(100, 5, 2, 4, 6, 8, 10)
	core := items[len(items)-1] // latest snapshot: everything can move forward to it

	ce := New[Cosync](core, slices.Values(items), quiet)
	assert.True(t, ce.Cosynchronizable())
	assert.False(t, ce.Synchronizable())
	assert.Equal(t, DirectionCosync, ce.Direction())

	assert.True(t, ce.Check())
	assert.Equal(t, StatePassed, ce.State())
}

func TestCheck_CosyncOneMismatch(t *testing.T) {
	items := line(100, 5, 2, 4, 6, 8, 10)
	items[2].value++ // drifted snapshot
	core := items[len(items)-1]

	ce := New[Cosync](core, slices.Values(items), quiet)
	assert.False(t, ce.Check())
	assert.Equal(t, StateFailed, ce.State())
}

func TestVerify_MismatchReportsIndexAndValues(t *testing.T) {
	items := line(100, 5, 2, 4, 6, 8, 10)
	items[2].value++
	core := items[len(items)-1]

	err := New[Cosync](core, slices.Values(items), quiet).Verify(context.Background())
	require.Error(t, err)
	assert.True(t, IsMismatch(err))

	var ce *CheckError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Index)
	assert.Equal(t, DirectionCosync, ce.Direction)
	assert.Equal(t, core, ce.Want)
	assert.Equal(t, rev{branch: "main", at: 10, value: 151, step: 5}, ce.Got)
	assert.Contains(t, err.Error(), "item=2")
}

func TestCheck_SyncDirection(t *testing.T) {
	items := line(7, 3, 0, 1, 5, 9, 20)
	core := items[0] // earliest snapshot reaches every later one

	ce := New[Sync](core, slices.Values(items), quiet)
	assert.Equal(t, DirectionSync, ce.Direction())
	assert.True(t, ce.Check())
}

func TestCheck_SyncMismatchReportsItemAndSynchronizedCore(t *testing.T) {
	items := line(7, 3, 0, 1, 5)
	items[1].value = 0
	core := items[0]

	err := New[Sync](core, slices.Values(items), quiet).Verify(context.Background())
	require.Error(t, err)

	var ce *CheckError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeMismatch, ce.Code)
	assert.Equal(t, 1, ce.Index)
	assert.Equal(t, items[1], ce.Want)
	assert.Equal(t, rev{branch: "main", at: 1, value: 10, step: 3}, ce.Got)
}

func TestCheck_WrongDirectionIsUnsynchronizable(t *testing.T) {
	items := line(0, 1, 0, 1, 2)
	core := items[0] // earliest: later items cannot rewind to it

	err := New[Cosync](core, slices.Values(items), quiet).Verify(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnsynchronizable(err))

	var ce *CheckError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Index)
}

func TestCheck_BisyncPrefersCosync(t *testing.T) {
	items := line(1, 1, 3, 6)
	core := items[1]

	var seen []Direction
	observer := WithObserver(func(s Step[rev]) { seen = append(seen, s.Direction) })

	ce := New[Bisync](core, slices.Values(items), quiet, observer)
	assert.True(t, ce.Synchronizable())
	assert.True(t, ce.Cosynchronizable())
	assert.True(t, ce.Check())
	assert.Equal(t, []Direction{DirectionCosync, DirectionCosync}, seen)
}

func TestCheck_NoCapabilityAlwaysFails(t *testing.T) {
	items := line(1, 1, 3, 3, 3)
	produced := 0

	ce := New[Unsync](items[0], oneShot(items, &produced), quiet)
	assert.Equal(t, DirectionNone, ce.Direction())
	assert.False(t, ce.Check())
	assert.Equal(t, 0, produced, "an uncheckable class should not consume its sequence")

	err := New[Unsync](items[0], slices.Values(items), quiet).Verify(context.Background())
	var checkErr *CheckError
	require.True(t, errors.As(err, &checkErr))
	assert.Equal(t, ErrCodeNoCapability, checkErr.Code)
	assert.Equal(t, -1, checkErr.Index)
}

func TestCheck_EmptySequencePasses(t *testing.T) {
	core := rev{branch: "main"}
	assert.True(t, New[Cosync](core, slices.Values([]rev{}), quiet).Check())
	assert.True(t, New[Sync](core, slices.Values([]rev{}), quiet).Check())
}

func TestCheck_StopsAtFirstFailure(t *testing.T) {
	items := line(0, 2, 1, 2, 3, 4, 5)
	items[1].value = -1
	produced := 0

	ce := New[Cosync](rev{branch: "main", at: 5, value: 10, step: 2}, oneShot(items, &produced), quiet)
	assert.False(t, ce.Check())
	assert.Equal(t, 2, produced)
}

func TestCheck_SinglePass(t *testing.T) {
	items := line(0, 2, 1, 2, 3)
	produced := 0
	seq := oneShot(items, &produced)

	ce := New[Cosync](items[2], seq, quiet)
	assert.True(t, ce.Check())
	assert.Equal(t, 3, produced)

	// The same checker is spent.
	assert.False(t, ce.Check())
	assert.True(t, IsConsumed(ce.Verify(context.Background())))
	assert.Equal(t, StatePassed, ce.State())

	// The one-shot source is exhausted; re-checking needs a fresh sequence.
	assert.True(t, New[Cosync](items[2], seq, quiet).Check())
	assert.Equal(t, 3, produced, "exhausted source must not be replayed")

	fresh := 0
	assert.True(t, New[Cosync](items[2], oneShot(items, &fresh), quiet).Check())
	assert.Equal(t, 3, fresh)
}

func TestCheck_ObserverSeesEveryStepInOrder(t *testing.T) {
	items := line(4, 1, 1, 2, 3)
	var steps []Step[rev]

	ce := New[Cosync](items[2], slices.Values(items), quiet,
		WithObserver(func(s Step[rev]) { steps = append(steps, s) }))
	require.True(t, ce.Check())

	require.Len(t, steps, 3)
	for i, s := range steps {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, items[i], s.Item)
		assert.Equal(t, items[2], s.Synchronized)
		assert.True(t, s.Reached)
		assert.True(t, s.Equal)
	}
}

func TestWithObserver_TypeMismatchPanics(t *testing.T) {
	items := line(0, 1, 1)
	assert.Panics(t, func() {
		New[Cosync](items[0], slices.Values(items), WithObserver(func(Step[int]) {}))
	})
}

func TestVerify_Cancellation(t *testing.T) {
	items := line(0, 1, 1, 2, 3, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ce := New[Cosync](items[3], slices.Values(items), quiet,
		WithObserver(func(s Step[rev]) {
			if s.Index == 1 {
				cancel()
			}
		}))

	err := ce.Verify(ctx)
	require.Error(t, err)
	assert.True(t, IsCancelled(err))
	assert.ErrorIs(t, err, context.Canceled)

	var checkErr *CheckError
	require.True(t, errors.As(err, &checkErr))
	assert.Equal(t, 2, checkErr.Index)
	assert.Equal(t, StateFailed, ce.State())
}

func TestMember(t *testing.T) {
	items := line(50, 10, 0, 1, 2, 3, 4)
	core := items[len(items)-1]
	ce := New[Cosync](core, slices.Values(items), quiet)

	for _, a := range items {
		assert.Equal(t, Equivalent, ce.Member(a), "item %+v", a)
	}
	require.True(t, ce.Check())

	// Member does not depend on the sequence and still works after Check.
	assert.Equal(t, Inequivalent, ce.Member(rev{branch: "main", at: 1, value: 0, step: 10}))
	assert.Equal(t, Incomparable, ce.Member(rev{branch: "fork", at: 4, value: 90, step: 10}))
}

type fixedClass struct {
	core  rev
	items []rev
	calls *int
}

func (c fixedClass) Core() rev {
	*c.calls++
	return c.core
}

func (c fixedClass) Items() iter.Seq[rev] { return slices.Values(c.items) }

func TestFromClass(t *testing.T) {
	items := line(3, 3, 0, 1, 2)
	calls := 0
	cls := fixedClass{core: items[0], items: items, calls: &calls}

	ce := FromClass[Sync, rev, revTime](cls, quiet)
	assert.Equal(t, items[0], ce.Core())
	assert.True(t, ce.Check())
	assert.Equal(t, 2, calls, "core is computed once per check")
}

func TestFromFirst(t *testing.T) {
	items := line(0, 4, 1, 2, 3)
	produced := 0

	ce, ok := FromFirst[Sync](oneShot(items, &produced), quiet)
	require.True(t, ok)
	assert.Equal(t, items[0], ce.Core())
	assert.Equal(t, 1, produced)

	var indexes []int
	ce.observer = func(s Step[rev]) { indexes = append(indexes, s.Index) }
	assert.True(t, ce.Check())
	assert.Equal(t, 3, produced)
	assert.Equal(t, []int{0, 1, 2}, indexes)
}

func TestFromFirst_Mismatch(t *testing.T) {
	items := line(0, 4, 1, 2, 3)
	items[2].value = 0

	ce, ok := FromFirst[Sync](slices.Values(items), quiet)
	require.True(t, ok)
	assert.False(t, ce.Check())
}

func TestFromFirst_Empty(t *testing.T) {
	ce, ok := FromFirst[Cosync](slices.Values([]rev{}), quiet)
	assert.False(t, ok)
	assert.Nil(t, ce)
}

func TestFromFirst_UncheckableReleasesSource(t *testing.T) {
	items := line(0, 1, 1, 2)
	ce, ok := FromFirst[Unsync](slices.Values(items), quiet)
	require.True(t, ok)
	assert.False(t, ce.Check())
	assert.Equal(t, StateFailed, ce.State())
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionCosync, DirectionOf[Cosync]())
	assert.Equal(t, DirectionSync, DirectionOf[Sync]())
	assert.Equal(t, DirectionCosync, DirectionOf[Bisync]())
	assert.Equal(t, DirectionNone, DirectionOf[Unsync]())
	assert.Equal(t, "cosync", DirectionCosync.String())
	assert.Equal(t, "none", DirectionNone.String())
}

func TestFromFirst_CloseReleasesSource(t *testing.T) {
	items := line(0, 1, 1, 2, 3)
	released := false
	src := func(yield func(rev) bool) {
		defer func() { released = true }()
		for _, it := range items {
			if !yield(it) {
				return
			}
		}
	}

	ce, ok := FromFirst[Sync](src, quiet)
	require.True(t, ok)
	assert.False(t, released)

	ce.Close()
	assert.True(t, released)
	ce.Close()

	err := ce.Verify(t.Context())
	assert.True(t, IsConsumed(err))
	assert.False(t, ce.Check())
	assert.Equal(t, StatePending, ce.State())
	assert.Equal(t, items[0], ce.Core())
}

func TestClose_AfterCheckIsNoop(t *testing.T) {
	items := line(0, 1, 1, 2)
	ce := New[Sync](items[0], slices.Values(items), quiet)
	require.True(t, ce.Check())

	ce.Close()
	assert.Equal(t, StatePassed, ce.State())
}
