package game

import "errors"

var (
	// ErrInvalidTransition is returned when an action is invoked from
	// a phase that does not allow it.
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrNotInRoom is returned when a room-scoped action runs before
	// the controller joined a room.
	ErrNotInRoom = errors.New("not in a room")

	// ErrNoAvailableRooms is returned when no lobby has a free seat.
	ErrNoAvailableRooms = errors.New("no available rooms")

	// ErrLobbyTimeout is returned when the lobby poll gives up before
	// the round starts.
	ErrLobbyTimeout = errors.New("lobby wait timed out")
)
