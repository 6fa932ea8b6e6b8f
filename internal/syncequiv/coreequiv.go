package syncequiv

import (
	"context"
	"iter"
	"log/slog"
)

// Class is implemented by equivalence classes that supply their own core
// and items.
type Class[T any] interface {
	// Core returns the representative item of the class.
	Core() T

	// Items returns the items of the class. The sequence may be single-pass.
	Items() iter.Seq[T]
}

// State is the lifecycle state of a CoreEquiv.
type State uint8

const (
	// StatePending means the checker has not run.
	StatePending State = iota

	// StatePassed means every item was core-equivalent.
	StatePassed

	// StateFailed means the check failed or was interrupted.
	StateFailed
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StatePassed:
		return "passed"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// CoreEquiv checks whether every item of a sequence is equivalent to a core
// item, using one synchronize call per item.
//
// C declares the capabilities of the class; see Capabilities. The sequence
// is consumed at most once: Check and Verify are one-shot.
//
// CoreEquiv is not safe for concurrent use.
type CoreEquiv[C Capabilities, T Item[T, Time], Time any] struct {
	core     func() T
	items    iter.Seq[T]
	release  func()
	logger   *slog.Logger
	observer func(Step[T])
	state    State
	closed   bool
}

// New creates a checker over items with a fixed core.
func New[C Capabilities, T Item[T, Time], Time any](core T, items iter.Seq[T], opts ...Option) *CoreEquiv[C, T, Time] {
	return newCoreEquiv[C, T, Time](func() T { return core }, items, opts)
}

// FromClass creates a checker whose core and items come from cls.
// cls.Core is consulted each time the core is needed and must be pure.
func FromClass[C Capabilities, T Item[T, Time], Time any](cls Class[T], opts ...Option) *CoreEquiv[C, T, Time] {
	return newCoreEquiv[C, T, Time](cls.Core, cls.Items(), opts)
}

// FromFirst creates a checker whose core is the first item produced by
// items. The source is ranged only once: the first item is pulled eagerly
// and the check resumes from there. Returns false if items is empty.
//
// The source stays suspended until Check, Verify or Close runs. A checker
// that will not be checked must be closed.
func FromFirst[C Capabilities, T Item[T, Time], Time any](items iter.Seq[T], opts ...Option) (*CoreEquiv[C, T, Time], bool) {
	next, stop := iter.Pull(items)
	first, ok := next()
	if !ok {
		stop()
		return nil, false
	}

	rest := func(yield func(T) bool) {
		if !yield(first) {
			return
		}
		for {
			v, ok := next()
			if !ok || !yield(v) {
				return
			}
		}
	}

	ce := newCoreEquiv[C, T, Time](func() T { return first }, rest, opts)
	ce.release = stop
	return ce, true
}

func newCoreEquiv[C Capabilities, T Item[T, Time], Time any](core func() T, items iter.Seq[T], opts []Option) *CoreEquiv[C, T, Time] {
	logger, observer := buildConfig[T](opts)
	return &CoreEquiv[C, T, Time]{
		core:     core,
		items:    items,
		logger:   logger,
		observer: observer,
	}
}

// Core returns the core of the equivalence class.
func (ce *CoreEquiv[C, T, Time]) Core() T {
	return ce.core()
}

// Synchronizable reports whether the class declares that the core can be
// synchronized to the time of any item.
func (ce *CoreEquiv[C, T, Time]) Synchronizable() bool {
	var c C
	return c.Synchronizable()
}

// Cosynchronizable reports whether the class declares that any item can be
// synchronized to the time of the core.
func (ce *CoreEquiv[C, T, Time]) Cosynchronizable() bool {
	var c C
	return c.Cosynchronizable()
}

// Direction returns the direction Check takes.
func (ce *CoreEquiv[C, T, Time]) Direction() Direction {
	return DirectionOf[C]()
}

// State returns the lifecycle state of the checker.
func (ce *CoreEquiv[C, T, Time]) State() State {
	return ce.state
}

// Member reports whether a is equivalent to the core.
// It does not consume the sequence.
func (ce *CoreEquiv[C, T, Time]) Member(a T) Equivalence {
	return Equiv[T, Time](ce.Core(), a)
}

// Check returns true if every item of the sequence is equivalent to the
// core. It consumes the sequence; a second call returns false.
func (ce *CoreEquiv[C, T, Time]) Check() bool {
	return ce.Verify(context.Background()) == nil
}

// Verify runs the same algorithm as Check and returns a *CheckError
// describing the first failing item, or nil if every item passed.
//
// ctx is consulted before each item. Cancellation stops the pass with an
// ErrCodeCancelled error; the comparison of each item is unaffected.
func (ce *CoreEquiv[C, T, Time]) Verify(ctx context.Context) error {
	if ce.state != StatePending || ce.closed {
		return newConsumedError()
	}
	if ce.release != nil {
		defer ce.release()
	}

	err := ce.run(ctx)
	if err != nil {
		ce.state = StateFailed
		ce.logger.Debug("core equivalence failed", "direction", ce.Direction(), "error", err)
		return err
	}

	ce.state = StatePassed
	ce.logger.Debug("core equivalence passed", "direction", ce.Direction())
	return nil
}

// Close releases the source of a checker that will not be checked.
// Verify on a closed checker reports ErrCodeConsumed. Close is a no-op
// after Check or Verify and may be called more than once.
func (ce *CoreEquiv[C, T, Time]) Close() {
	if ce.state != StatePending {
		return
	}
	ce.closed = true
	if ce.release != nil {
		ce.release()
		ce.release = nil
	}
}

func (ce *CoreEquiv[C, T, Time]) run(ctx context.Context) error {
	dir := ce.Direction()
	if dir == DirectionNone {
		return newNoCapabilityError()
	}

	core := ce.core()

	// Only one of these is used depending on direction.
	var coreTime Time
	if dir == DirectionCosync {
		coreTime = core.Time()
	}

	index := 0
	for a := range ce.items {
		if err := ctx.Err(); err != nil {
			return newCancelledError(index, dir, err)
		}

		step := Step[T]{Index: index, Direction: dir, Item: a}
		if dir == DirectionCosync {
			step.Synchronized, step.Reached = a.Synchronize(coreTime)
			step.Equal = step.Reached && core.Equal(step.Synchronized)
		} else {
			step.Synchronized, step.Reached = core.Synchronize(a.Time())
			step.Equal = step.Reached && step.Synchronized.Equal(a)
		}

		ce.logger.Debug("core equivalence step",
			"index", index,
			"direction", dir,
			"reached", step.Reached,
			"equal", step.Equal,
		)
		if ce.observer != nil {
			ce.observer(step)
		}

		if !step.Reached {
			return newUnsynchronizableError(index, dir)
		}
		if !step.Equal {
			if dir == DirectionCosync {
				return newMismatchError(index, dir, core, step.Synchronized)
			}
			return newMismatchError(index, dir, a, step.Synchronized)
		}
		index++
	}

	return nil
}
