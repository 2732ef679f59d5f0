package sim

import "go.uber.org/zap"

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithParallel evaluates the cables of each step concurrently. All cables
// read the same snapshot and the body is written once after they join.
func WithParallel(parallel bool) Option {
	return func(s *Simulator) { s.parallel = parallel }
}

// WithValidateState aborts the run with ErrInvalidState when a step
// produces a NaN or Inf component. Off by default.
func WithValidateState(validate bool) Option {
	return func(s *Simulator) { s.validate = validate }
}
