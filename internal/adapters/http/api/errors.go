package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNoStats = errors.New("stats provider not configured")
)
