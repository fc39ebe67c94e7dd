package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes for the quest completion core.
const (
	// Domain errors
	ErrCodeQuestNotFound      = "QUEST_NOT_FOUND"
	ErrCodeCompletionNotFound = "COMPLETION_NOT_FOUND"
	ErrCodeInsufficientGold   = "INSUFFICIENT_GOLD"

	// Database errors
	ErrCodeDatabaseError = "DATABASE_ERROR"
	ErrCodeConflict      = "CONFLICT"

	// Config errors
	ErrCodeConfigInvalid = "CONFIG_INVALID"

	// Validation errors
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidInput     = "INVALID_INPUT"

	// Side-effect errors (logged, never surfaced to callers)
	ErrCodeNotificationFailed = "NOTIFICATION_FAILED"
)

// QuestError represents an error in the quest completion core.
type QuestError struct {
	Code    string
	Message string
	Err     error
}

func (e *QuestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *QuestError) Unwrap() error {
	return e.Err
}

// NewQuestError creates a new QuestError.
func NewQuestError(code, message string, err error) *QuestError {
	return &QuestError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Domain-specific error constructors

// ErrQuestNotFound returns an error when a quest is not in the catalog.
func ErrQuestNotFound(questID string) *QuestError {
	return &QuestError{
		Code:    ErrCodeQuestNotFound,
		Message: fmt.Sprintf("quest not found: %s", questID),
	}
}

// ErrCompletionNotFound returns an error when today's completion record is
// missing but required (e.g. unchecking a quest never completed today).
func ErrCompletionNotFound(userID, questID, day string) *QuestError {
	return &QuestError{
		Code:    ErrCodeCompletionNotFound,
		Message: fmt.Sprintf("no completion for user %s, quest %s on %s", userID, questID, day),
	}
}

// ErrInsufficientGold returns an error when a spend exceeds the balance.
func ErrInsufficientGold(userID string, requested int) *QuestError {
	return &QuestError{
		Code:    ErrCodeInsufficientGold,
		Message: fmt.Sprintf("insufficient gold for user %s (requested %d)", userID, requested),
	}
}

// ErrDatabaseError wraps database errors.
func ErrDatabaseError(operation string, err error) *QuestError {
	return &QuestError{
		Code:    ErrCodeDatabaseError,
		Message: fmt.Sprintf("database error during %s", operation),
		Err:     err,
	}
}

// ErrConflict wraps a uniqueness conflict that could not be resolved by
// re-fetching. Normal duplicate-completion races never surface this; it
// indicates the conflicting row vanished between insert and re-fetch.
func ErrConflict(operation string) *QuestError {
	return &QuestError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("unresolvable conflict during %s", operation),
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(reason string) *QuestError {
	return &QuestError{
		Code:    ErrCodeConfigInvalid,
		Message: fmt.Sprintf("invalid configuration: %s", reason),
	}
}

// ErrValidationFailed returns a validation error.
func ErrValidationFailed(field, reason string) *QuestError {
	return &QuestError{
		Code:    ErrCodeValidationFailed,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
	}
}

// ErrInvalidInput returns an error for a malformed request argument.
func ErrInvalidInput(reason string) *QuestError {
	return &QuestError{
		Code:    ErrCodeInvalidInput,
		Message: reason,
	}
}

// ErrNotificationFailed wraps a notification dispatch failure. These are
// logged by the service and never returned to callers.
func ErrNotificationFailed(toUserID string, err error) *QuestError {
	return &QuestError{
		Code:    ErrCodeNotificationFailed,
		Message: fmt.Sprintf("failed to notify user %s", toUserID),
		Err:     err,
	}
}

// CodeOf extracts the error code, or "" if err is not a QuestError.
func CodeOf(err error) string {
	var qe *QuestError
	if stderrors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// IsNotFound returns true for quest-not-found and completion-not-found errors.
func IsNotFound(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeQuestNotFound || code == ErrCodeCompletionNotFound
}

// IsDatabaseError returns true for storage failures that should surface as 5xx.
func IsDatabaseError(err error) bool {
	return CodeOf(err) == ErrCodeDatabaseError
}

// IsInsufficientGold returns true when a spend was rejected for lack of funds.
func IsInsufficientGold(err error) bool {
	return CodeOf(err) == ErrCodeInsufficientGold
}
