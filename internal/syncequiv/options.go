package syncequiv

import (
	"fmt"
	"log/slog"
)

// Option configures a CoreEquiv.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	observer any // func(Step[T]), checked against T at construction
}

// WithLogger sets the logger used for debug-level step logging.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithObserver registers fn to be called once for every item inspected by
// Check or Verify, in production order.
func WithObserver[T any](fn func(Step[T])) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// Step records the inspection of one item during a check.
type Step[T any] struct {
	// Index is the 0-based position of the item in the sequence.
	Index int

	// Direction is the direction taken.
	Direction Direction

	// Item is the item as produced by the sequence.
	Item T

	// Synchronized is the item brought to the core's time (cosync) or the
	// core brought to the item's time (sync). Zero when Reached is false.
	Synchronized T

	// Reached reports whether synchronization succeeded.
	Reached bool

	// Equal reports whether the synchronized pair compared equal.
	Equal bool
}

func buildConfig[T any](opts []Option) (*slog.Logger, func(Step[T])) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	var observer func(Step[T])
	if cfg.observer != nil {
		fn, ok := cfg.observer.(func(Step[T]))
		if !ok {
			panic(fmt.Sprintf("syncequiv: observer %T does not accept Step[%T]", cfg.observer, *new(T)))
		}
		observer = fn
	}

	return logger, observer
}
