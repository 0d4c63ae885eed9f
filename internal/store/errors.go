package store

import "errors"

var (
	// ErrRoomNotFound is returned when a referenced room code does not
	// exist in the backend.
	ErrRoomNotFound = errors.New("room not found")
)
