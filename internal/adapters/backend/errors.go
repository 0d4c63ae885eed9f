package backend

import "errors"

// Sentinel kinds for backend errors.
var (
	ErrRequestFailed = errors.New("backend request failed")
	ErrAuthFailed    = errors.New("authentication failed")
)
