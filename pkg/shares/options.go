package shares

import "go.uber.org/zap"

// Outcome classifies a finished Allocate call for observers.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeInvalid Outcome = "invalid"
	OutcomeError   Outcome = "error"
)

// Observer receives one notification per Allocate call. delta is the
// number of parts reconciliation had to move.
type Observer interface {
	ObserveAllocation(outcome Outcome, delta int)
}

type nopObserver struct{}

func (nopObserver) ObserveAllocation(Outcome, int) {}

// Option configures a single Allocate call.
type Option func(*options)

type options struct {
	rounding Rounding
	logger   *zap.Logger
	observer Observer
}

func newOptions(opts []Option) options {
	o := options{
		rounding: RoundHalfEven,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRounding selects the tie-breaking rule.
func WithRounding(r Rounding) Option {
	return func(o *options) {
		o.rounding = r
	}
}

// WithLogger attaches a logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver attaches an Observer. A nil observer is ignored.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}
