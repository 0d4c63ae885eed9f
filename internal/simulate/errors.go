package simulate

import "errors"

var (
	// ErrWaitTimeout is returned when a bot's wait budget runs out
	// before the game advances.
	ErrWaitTimeout = errors.New("simulation wait timed out")
)
