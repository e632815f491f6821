package probe

import "errors"

var (
	// ErrProbeMismatch marks a response that disagrees with the local validator.
	ErrProbeMismatch = errors.New("response mismatch")
	// ErrUnhealthy marks a service that failed its health or usage check.
	ErrUnhealthy = errors.New("service unhealthy")
)
