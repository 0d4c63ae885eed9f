package store

import (
	"time"

	"github.com/HeatedDotCom/heated/pkg/logger"
)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithOptimisticCreate toggles masking of room insert failures. When
// disabled, CreateRoom surfaces the backend error instead of returning
// the generated code.
func WithOptimisticCreate(enabled bool) Option {
	return func(s *Store) {
		s.optimisticCreate = enabled
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}
