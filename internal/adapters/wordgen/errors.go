package wordgen

import "errors"

// Sentinel kinds for word generation errors. These never escape
// Generate; they exist so the fallback path can log the cause.
var (
	ErrGenerationFailed  = errors.New("word generation request failed")
	ErrMalformedResponse = errors.New("malformed word generation response")
)
