package client

import (
	"context"
	"errors"
	"strings"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

// Notifier delivers a notification to another user when a quest they authored
// is completed. Delivery is best-effort from the caller's perspective: the
// completion service logs failures and never propagates them.
type Notifier interface {
	// Notify delivers n to toUserID. Implementations may retry internally
	// for retryable failures; see IsRetryableError.
	Notify(ctx context.Context, toUserID string, n domain.Notification) error
}

// DeliveryError represents an error response from the notification backend.
// It includes the HTTP status code for proper error classification.
type DeliveryError struct {
	StatusCode int
	Message    string
}

func (e *DeliveryError) Error() string {
	return e.Message
}

// HTTPStatusCode returns the HTTP status code from the backend response.
func (e *DeliveryError) HTTPStatusCode() int {
	return e.StatusCode
}

// RecipientNotFoundError indicates the target user does not exist (404).
type RecipientNotFoundError struct {
	UserID string
}

func (e *RecipientNotFoundError) Error() string {
	return "recipient not found: " + e.UserID
}

func (e *RecipientNotFoundError) HTTPStatusCode() int {
	return 404
}

// HTTPStatusCodeError is an interface for errors that include HTTP status codes.
type HTTPStatusCodeError interface {
	error
	HTTPStatusCode() int
}

// IsRetryableHTTPStatus determines if an HTTP status code should be retried.
//
// Non-retryable status codes (4xx client errors):
//   - 400 Bad Request - malformed notification payload
//   - 401 Unauthorized - authentication failed
//   - 403 Forbidden - insufficient permissions
//   - 404 Not Found - recipient doesn't exist
//   - 409 Conflict
//   - 422 Unprocessable Entity - validation failed
//
// Retryable status codes:
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
func IsRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 400, 401, 403, 404, 409, 422:
		return false
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		if statusCode >= 400 && statusCode < 500 {
			return false
		}
		return true
	}
}

// IsRetryableError determines if a Notify error should be retried.
//
// Classification strategy:
// 1. If error implements HTTPStatusCodeError, check status code (most reliable)
// 2. Fallback to error message pattern matching (for generic errors)
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var httpErr HTTPStatusCodeError
	if errors.As(err, &httpErr) {
		return IsRetryableHTTPStatus(httpErr.HTTPStatusCode())
	}

	errMsg := strings.ToLower(err.Error())

	nonRetryablePatterns := []string{
		"bad request",
		"invalid argument",
		"not found",
		"forbidden",
		"unauthorized",
		"authentication failed",
		"permission denied",
	}

	for _, pattern := range nonRetryablePatterns {
		if strings.Contains(errMsg, pattern) {
			return false
		}
	}

	// All other errors (timeouts, connection refused, DNS) are retryable.
	return true
}
