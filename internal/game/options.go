package game

import (
	"math/rand"
	"time"

	"github.com/HeatedDotCom/heated/pkg/logger"
)

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithRand sets the random source used for shuffles and random room
// selection. Tests pass a seeded source for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = rng
	}
}

// WithRevealDelay sets how long the word reveal screen is held.
func WithRevealDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.revealDelay = d
	}
}

// WithWritingTime sets the writing countdown before an empty take is
// forced.
func WithWritingTime(d time.Duration) Option {
	return func(c *Controller) {
		c.writingTime = d
	}
}

// WithOwnTakeSkip sets how long a player's own take is shown before
// auto-advancing.
func WithOwnTakeSkip(d time.Duration) Option {
	return func(c *Controller) {
		c.ownTakeSkip = d
	}
}

// WithPollInterval sets the interval for lobby and take-completion
// polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.pollInterval = d
	}
}

// WithMaxLobbyWait bounds how long WaitForStart polls before giving
// up.
func WithMaxLobbyWait(d time.Duration) Option {
	return func(c *Controller) {
		c.maxLobbyWait = d
	}
}
