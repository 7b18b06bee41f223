// Package ai wraps the generative AI backend used for recipe extraction,
// nutrition estimation, and food photo analysis.
package ai

import (
	"fmt"
	"strings"
)

// Error wraps a backend failure with a retryability hint. Rate-limit and
// quota failures are retryable; everything else is terminal for the request.
type Error struct {
	StatusCode int
	Message    string
	Retryable  bool
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ai backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ai backend error: %s", e.Message)
}

// WrapError classifies a backend error. HTTP 429 and quota-related messages
// are marked retryable.
func WrapError(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
		Retryable:  isRetryableMessage(statusCode, message),
	}
}

func isRetryableMessage(statusCode int, message string) bool {
	if statusCode == 429 {
		return true
	}
	lower := strings.ToLower(message)
	return strings.Contains(lower, "quota") ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "resource exhausted")
}
