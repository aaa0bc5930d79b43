package commerce

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmissionTimeout is matched with errors.Is when an order or quote
	// did not complete within the submission timeout.
	ErrSubmissionTimeout = errors.New("submission timed out")

	ErrUserNotFound = errors.New("ordering user not found")
)

// MissingConfigurationError names the unset settings an operation needs
type MissingConfigurationError struct {
	Keys   []string
	Reason string
}

func (e *MissingConfigurationError) Error() string {
	msg := "missing required configuration: " + strings.Join(e.Keys, ", ")
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// UpstreamError is a non-success response from the commerce backend
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// SubmissionError wraps any failure to place an order or quote
type SubmissionError struct {
	Kind string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s submission failed: %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
