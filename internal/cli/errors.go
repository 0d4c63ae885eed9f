package cli

import "errors"

var (
	// ErrUnknownTopic is returned for leaderboard topics outside the
	// playable set and "all".
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrEmptyRoomCode is returned when a join is attempted without a
	// room code.
	ErrEmptyRoomCode = errors.New("room code is required")
)
