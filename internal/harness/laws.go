package harness

import (
	"fmt"

	"github.com/roach88/cosync/internal/laws"
	"github.com/roach88/cosync/internal/syncequiv"
	"github.com/roach88/cosync/internal/timeline"
)

// CheckLaws evaluates the implementer laws over a scenario's items without
// running the core-equivalence check. The core is Items[Core], or the first
// item when Core is unset.
func CheckLaws(scenario *Scenario) (laws.Report, error) {
	switch scenario.Domain {
	case DomainLedger:
		items, _, err := decode(scenario, toLedger(timeline.NewClock()))
		if err != nil {
			return laws.Report{}, err
		}
		return lawsFor[timeline.Ledger, int64](scenario, items)
	case DomainLength:
		items, _, err := decode(scenario, toLength)
		if err != nil {
			return laws.Report{}, err
		}
		return lawsFor[timeline.Length, timeline.Unit](scenario, items)
	default:
		return laws.Report{}, fmt.Errorf("unknown domain %q", scenario.Domain)
	}
}

func lawsFor[T syncequiv.Item[T, Time], Time any](s *Scenario, items []T) (laws.Report, error) {
	if len(items) == 0 {
		return laws.Report{}, fmt.Errorf("items list is required and must be non-empty")
	}
	core := items[0]
	if s.Core != nil {
		core = items[*s.Core]
	}

	switch s.Capability {
	case CapabilityCosync:
		return laws.Check[syncequiv.Cosync, T, Time](core, items), nil
	case CapabilitySync:
		return laws.Check[syncequiv.Sync, T, Time](core, items), nil
	case CapabilityBisync:
		return laws.Check[syncequiv.Bisync, T, Time](core, items), nil
	case CapabilityNone:
		return laws.Check[syncequiv.Unsync, T, Time](core, items), nil
	default:
		return laws.Report{}, fmt.Errorf("unknown capability %q", s.Capability)
	}
}
