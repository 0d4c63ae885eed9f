package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrMissingBackendURL = errors.New("backend_url must not be empty")
	ErrInvalidLimit      = errors.New("leaderboard_limit must be at least 1")
)
