// Package models provides the wire data structures for the robot-manager
// and pubsub collaborator services.
package models

import "fmt"

// StatusSuccess is the envelope status reported by the robot-manager on
// successful operations.
const StatusSuccess = "success"

// Envelope is the common response wrapper of the robot-manager API
type Envelope struct {
	Status     string `json:"status"`
	StatusBool bool   `json:"statusbool,omitempty"`
	Message    string `json:"message,omitempty"`
}

// OK reports whether the envelope carries a success status
func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// Check returns an EnvelopeError when the envelope is not successful
func (e Envelope) Check() error {
	if e.OK() {
		return nil
	}
	return &EnvelopeError{Status: e.Status, Message: e.Message}
}

// EnvelopeError represents a 2xx response whose envelope did not report success
type EnvelopeError struct {
	Status  string
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service reported %q: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("service reported %q", e.Status)
}

// APIError represents a non-2xx response from a collaborator service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}
