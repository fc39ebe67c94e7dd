package repository

import (
	"context"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

// ResetCounts reports how many rows a non-destructive daily reset touched,
// split by item kind.
type ResetCounts struct {
	Quests     int `json:"quests_reset"`
	Challenges int `json:"challenges_reset"`
}

// CompletionRepository manages the one-row-per-(user, quest, day) completion
// store. The database enforces the identity with a composite primary key;
// callers never check-then-insert.
type CompletionRepository interface {
	// Get retrieves the completion record for (userID, questID, day).
	// Returns nil if no record exists (lazy initialization).
	Get(ctx context.Context, userID, questID, day string) (*domain.CompletionRecord, error)

	// InsertCompleted inserts a completed record for its (user, quest, day)
	// identity. Uses INSERT ... ON CONFLICT DO NOTHING: returns true if this
	// call created the row, false if a row already existed (including a
	// concurrent insert that won the race). The caller re-fetches on false.
	// This is the atomic insert-or-lose half of the find-or-create contract.
	InsertCompleted(ctx context.Context, rec *domain.CompletionRecord) (bool, error)

	// MarkCompleted flips an existing uncompleted row to completed and
	// re-captures reward amounts. Guarded by completed = false, so two
	// concurrent re-completions grant once: returns true only for the call
	// whose UPDATE affected the row.
	MarkCompleted(ctx context.Context, userID, questID, day string, completedAt time.Time, xpEarned, goldEarned int) (bool, error)

	// MarkUncompleted flips a row to completed = false, preserving
	// completed_at and the captured reward amounts (no claw-back; history
	// queries stay accurate). Returns false if no row exists for the
	// identity at all.
	MarkUncompleted(ctx context.Context, userID, questID, day string) (bool, error)

	// CountCompletedOnDay counts the user's completed rows (both kinds) for
	// a local day. Feeds milestone evaluation.
	CountCompletedOnDay(ctx context.Context, userID, day string) (int, error)

	// ListDay retrieves all of the user's completion rows for a local day.
	ListDay(ctx context.Context, userID, day string) ([]*domain.CompletionRecord, error)

	// ResetDay flips completed back to false for the user's completed rows
	// whose completed_at falls inside [start, end). Rows outside the window
	// (prior days) are never touched, and no row is deleted. Returns counts
	// per kind.
	ResetDay(ctx context.Context, userID string, start, end time.Time) (*ResetCounts, error)

	// DeleteAllForUser removes the user's entire completion history.
	// Destructive and not idempotent-safe; only the explicit full-history
	// delete flow may call it. Never invoked by ResetDay.
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// LedgerRepository is the append-only reward audit trail. Entries are never
// mutated or deleted. Duplicate entries per (user, quest, day) are expected
// across uncheck/re-complete cycles; dedup lives in the completion store.
type LedgerRepository interface {
	// Append writes one grant event. The entry's ID must be set by the
	// caller (uuid).
	Append(ctx context.Context, entry *domain.RewardLedgerEntry) error

	// ListByUser retrieves the user's most recent entries, newest first.
	// limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.RewardLedgerEntry, error)

	// CountForQuestDay counts entries for (user, relatedID) created inside
	// [start, end). Used by audits and tests of exactly-once grant behavior.
	CountForQuestDay(ctx context.Context, userID, relatedID string, start, end time.Time) (int, error)
}

// StatsRepository manages derived character state. Every mutation is a
// single atomic statement (upsert-with-arithmetic) so concurrent grants for
// the same user serialize on the row instead of losing updates.
type StatsRepository interface {
	// Get retrieves the user's stats. Returns nil if the user has never
	// received a grant (callers default to domain.NewCharacterStats).
	Get(ctx context.Context, userID string) (*domain.CharacterStats, error)

	// AddExperience atomically adds amount to experience and recomputes
	// level as max(current level, level-for-new-total). Creates the row on
	// first grant. Returns the post-grant snapshot.
	AddExperience(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error)

	// AddGold atomically adds amount to gold, creating the row on first
	// grant. Returns the post-grant snapshot.
	AddGold(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error)

	// SpendGold atomically subtracts amount from gold, rejecting the spend
	// when the balance is insufficient (errors.ErrInsufficientGold). The
	// only legitimate decrease of any stat.
	SpendGold(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error)

	// TouchStreak advances the daily streak for a completion on day, where
	// prevDay is the day immediately before it. Keyed on last_streak_day:
	// same day is a no-op, prevDay extends the streak by one, anything
	// older restarts it at one. Single atomic statement. Returns the
	// post-touch snapshot.
	TouchStreak(ctx context.Context, userID, day, prevDay string) (*domain.CharacterStats, error)
}
