package simulate

import (
	"math/rand"
	"time"

	"github.com/HeatedDotCom/heated/pkg/logger"
)

// Option configures the Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithBots sets how many bots join the room.
func WithBots(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.bots = n
		}
	}
}

// WithPollInterval sets how often bots re-check shared state.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.pollInterval = d
	}
}

// WithMaxWait bounds how long bots wait on any one condition.
func WithMaxWait(d time.Duration) Option {
	return func(r *Runner) {
		r.maxWait = d
	}
}

// WithRand sets the random source for take and vote selection.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) {
		r.rng = rng
	}
}
