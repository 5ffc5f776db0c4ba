package ims

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an authenticated endpoint is called while no
// operator session is active. Callers are expected to early-return on it
// rather than surface it as a failure.
var ErrNoSession = errors.New("no active session: operator token is not set")

// NetworkError represents a network-level error
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
