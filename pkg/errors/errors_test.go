package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestQuestError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *QuestError
		wantMsg string
	}{
		{
			name: "error without wrapped error",
			err: &QuestError{
				Code:    ErrCodeQuestNotFound,
				Message: "quest not found: test-quest",
			},
			wantMsg: "QUEST_NOT_FOUND: quest not found: test-quest",
		},
		{
			name: "error with wrapped error",
			err: &QuestError{
				Code:    ErrCodeDatabaseError,
				Message: "database error during insert completion",
				Err:     errors.New("connection timeout"),
			},
			wantMsg: "DATABASE_ERROR: database error during insert completion: connection timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.wantMsg {
				t.Errorf("QuestError.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}

func TestQuestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	err := &QuestError{
		Code:    ErrCodeDatabaseError,
		Message: "test error",
		Err:     originalErr,
	}

	if unwrapped := err.Unwrap(); unwrapped != originalErr {
		t.Errorf("Unwrap() returned %v, want %v", unwrapped, originalErr)
	}

	if !errors.Is(err, originalErr) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestErrQuestNotFound(t *testing.T) {
	questID := "quest-123"
	err := ErrQuestNotFound(questID)

	if err.Code != ErrCodeQuestNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeQuestNotFound)
	}
	if !strings.Contains(err.Message, questID) {
		t.Errorf("Message should contain quest ID %v, got %v", questID, err.Message)
	}
}

func TestErrCompletionNotFound(t *testing.T) {
	err := ErrCompletionNotFound("user1", "quest-1", "2026-09-01")

	if err.Code != ErrCodeCompletionNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCompletionNotFound)
	}
	for _, part := range []string{"user1", "quest-1", "2026-09-01"} {
		if !strings.Contains(err.Message, part) {
			t.Errorf("Message should contain %q, got %v", part, err.Message)
		}
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		isNotFound       bool
		isDatabase       bool
		isInsufficientGo bool
	}{
		{
			name:       "quest not found",
			err:        ErrQuestNotFound("q1"),
			isNotFound: true,
		},
		{
			name:       "completion not found",
			err:        ErrCompletionNotFound("u1", "q1", "2026-09-01"),
			isNotFound: true,
		},
		{
			name:       "database error",
			err:        ErrDatabaseError("insert", errors.New("boom")),
			isDatabase: true,
		},
		{
			name:             "insufficient gold",
			err:              ErrInsufficientGold("u1", 100),
			isInsufficientGo: true,
		},
		{
			name: "plain error matches nothing",
			err:  errors.New("plain"),
		},
		{
			name:       "wrapped quest error still matches",
			err:        fmt.Errorf("outer: %w", ErrQuestNotFound("q1")),
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.isNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.isNotFound)
			}
			if got := IsDatabaseError(tt.err); got != tt.isDatabase {
				t.Errorf("IsDatabaseError() = %v, want %v", got, tt.isDatabase)
			}
			if got := IsInsufficientGold(tt.err); got != tt.isInsufficientGo {
				t.Errorf("IsInsufficientGold() = %v, want %v", got, tt.isInsufficientGo)
			}
		})
	}
}
