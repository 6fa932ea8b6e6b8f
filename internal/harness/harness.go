package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/cosync/internal/laws"
	"github.com/roach88/cosync/internal/syncequiv"
	"github.com/roach88/cosync/internal/timeline"
)

// Harness executes scenarios with a deterministic clock.
type Harness struct {
	clock  *timeline.Clock
	logger *slog.Logger
}

// Option configures a scenario run.
type Option func(*Harness)

// WithLogger sets the logger passed to the checker. Logs are discarded by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// Run executes a scenario and returns the result.
//
// A non-nil error means the scenario could not be executed (bad items);
// unmet expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), scenario, opts...)
}

// RunContext is like Run but stops the check when ctx ends.
func RunContext(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		clock:  timeline.NewClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	switch scenario.Domain {
	case DomainLedger:
		items, members, err := decode(scenario, toLedger(timeline.NewClock()))
		if err != nil {
			return nil, err
		}
		return dispatch[timeline.Ledger, int64](ctx, h, scenario, items, members)
	case DomainLength:
		items, members, err := decode(scenario, toLength)
		if err != nil {
			return nil, err
		}
		return dispatch[timeline.Length, timeline.Unit](ctx, h, scenario, items, members)
	default:
		return nil, fmt.Errorf("unknown domain %q", scenario.Domain)
	}
}

// dispatch binds the scenario's capability name to a capability type.
func dispatch[T syncequiv.Item[T, Time], Time any](ctx context.Context, h *Harness, s *Scenario, items, members []T) (*Result, error) {
	switch s.Capability {
	case CapabilityCosync:
		return runClass[syncequiv.Cosync, T, Time](ctx, h, s, items, members), nil
	case CapabilitySync:
		return runClass[syncequiv.Sync, T, Time](ctx, h, s, items, members), nil
	case CapabilityBisync:
		return runClass[syncequiv.Bisync, T, Time](ctx, h, s, items, members), nil
	case CapabilityNone:
		return runClass[syncequiv.Unsync, T, Time](ctx, h, s, items, members), nil
	default:
		return nil, fmt.Errorf("unknown capability %q", s.Capability)
	}
}

func runClass[C syncequiv.Capabilities, T syncequiv.Item[T, Time], Time any](ctx context.Context, h *Harness, s *Scenario, items, members []T) *Result {
	result := NewResult()
	result.Direction = syncequiv.DirectionOf[C]().String()

	observer := syncequiv.WithObserver(func(st syncequiv.Step[T]) {
		ev := TraceEvent{
			Seq:       h.clock.Next(),
			Index:     st.Index,
			Direction: st.Direction.String(),
			Item:      render(st.Item),
			Reached:   st.Reached,
			Equal:     st.Equal,
		}
		if st.Reached {
			ev.Synchronized = render(st.Synchronized)
		}
		result.AddStep(ev)
	})
	logger := syncequiv.WithLogger(h.logger.With("scenario", s.Name))

	var ce *syncequiv.CoreEquiv[C, T, Time]
	if s.Core == nil {
		// validateScenario guarantees items is non-empty.
		ce, _ = syncequiv.FromFirst[C, T, Time](slices.Values(items), logger, observer)
	} else {
		ce = syncequiv.New[C, T, Time](items[*s.Core], slices.Values(items), logger, observer)
	}

	err := ce.Verify(ctx)
	result.Verdict = err == nil
	if err != nil {
		result.Failure = toFailure(err)
	}

	for _, err := range assertVerdict(result, s.Expect) {
		result.AddError(err)
	}

	for i, m := range members {
		mr := MemberResult{Item: render(m), Expect: s.Members[i].Expect, Got: ce.Member(m)}
		result.Members = append(result.Members, mr)
		if err := assertMember(i, mr); err != nil {
			result.AddError(err)
		}
	}

	if s.Laws {
		report := laws.Check[C, T, Time](ce.Core(), items)
		result.Laws = report.Violations
		for _, v := range report.Violations {
			result.AddError(assertLaw(v))
		}
	}

	return result
}

func toFailure(err error) *Failure {
	var ce *syncequiv.CheckError
	if !errors.As(err, &ce) {
		return &Failure{Code: "UNKNOWN", Index: -1, Message: err.Error()}
	}

	f := &Failure{
		Code:    string(ce.Code),
		Index:   ce.Index,
		Message: ce.Message,
	}
	if ce.Code == syncequiv.ErrCodeMismatch {
		f.Diff = laws.Diff(ce.Want, ce.Got)
	}
	return f
}

func decode[T any](s *Scenario, convert func(ItemSpec) (T, error)) ([]T, []T, error) {
	items := make([]T, len(s.Items))
	for i, spec := range s.Items {
		it, err := convert(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		items[i] = it
	}

	members := make([]T, len(s.Members))
	for i, m := range s.Members {
		it, err := convert(m.Item)
		if err != nil {
			return nil, nil, fmt.Errorf("member %d: %w", i, err)
		}
		members[i] = it
	}

	return items, members, nil
}

// toLedger returns a converter that stamps items without seq on clock.
// Items and members share the clock so stamps follow production order.
func toLedger(clock *timeline.Clock) func(ItemSpec) (timeline.Ledger, error) {
	return func(spec ItemSpec) (timeline.Ledger, error) {
		if spec.Unit != "" || spec.Value != 0 {
			return timeline.Ledger{}, fmt.Errorf("ledger items take seq, balance and rate")
		}
		if spec.Seq == nil {
			return timeline.Snapshot(clock, spec.Balance, spec.Rate), nil
		}
		clock.Witness(*spec.Seq)
		return timeline.Ledger{Seq: *spec.Seq, Balance: spec.Balance, Rate: spec.Rate}, nil
	}
}

func toLength(spec ItemSpec) (timeline.Length, error) {
	if spec.Seq != nil || spec.Balance != 0 || spec.Rate != 0 {
		return timeline.Length{}, fmt.Errorf("length items take unit and value")
	}
	unit, err := timeline.ParseUnit(spec.Unit)
	if err != nil {
		return timeline.Length{}, err
	}
	return timeline.Length{Unit: unit, Value: spec.Value}, nil
}

func render(v any) string {
	return fmt.Sprint(v)
}
