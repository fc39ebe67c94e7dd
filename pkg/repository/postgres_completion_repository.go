package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/errors"
)

// PostgresCompletionRepository implements CompletionRepository using PostgreSQL.
type PostgresCompletionRepository struct {
	db *sql.DB
}

// NewPostgresCompletionRepository creates a new PostgreSQL-backed completion repository.
func NewPostgresCompletionRepository(db *sql.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{
		db: db,
	}
}

const completionColumns = `
	user_id, quest_id, kind, day, completed, completed_at,
	xp_earned, gold_earned, created_at, updated_at
`

// Get retrieves the completion record for (userID, questID, day).
func (r *PostgresCompletionRepository) Get(ctx context.Context, userID, questID, day string) (*domain.CompletionRecord, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM quest_completions
		WHERE user_id = $1 AND quest_id = $2 AND day = $3
	`

	rec, err := scanCompletion(r.db.QueryRowContext(ctx, query, userID, questID, day))
	if err == sql.ErrNoRows {
		return nil, nil // No record exists for this day yet
	}
	if err != nil {
		return nil, errors.ErrDatabaseError("get completion", err)
	}

	return rec, nil
}

// InsertCompleted inserts a completed record, losing gracefully to any row
// that already holds the (user_id, quest_id, day) identity.
func (r *PostgresCompletionRepository) InsertCompleted(ctx context.Context, rec *domain.CompletionRecord) (bool, error) {
	query := `
		INSERT INTO quest_completions (
			user_id, quest_id, kind, day, completed, completed_at,
			xp_earned, gold_earned, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, true, $5, $6, $7, NOW(), NOW()
		)
		ON CONFLICT (user_id, quest_id, day) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.UserID,
		rec.QuestID,
		rec.Kind,
		rec.Day,
		rec.CompletedAt,
		rec.XPEarned,
		rec.GoldEarned,
	)
	if err != nil {
		return false, errors.ErrDatabaseError("insert completion", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.ErrDatabaseError("check rows affected", err)
	}

	return rows == 1, nil
}

// MarkCompleted flips an uncompleted row back to completed. The
// completed = false guard makes concurrent re-completions grant once.
func (r *PostgresCompletionRepository) MarkCompleted(ctx context.Context, userID, questID, day string, completedAt time.Time, xpEarned, goldEarned int) (bool, error) {
	query := `
		UPDATE quest_completions
		SET completed = true,
			completed_at = $4,
			xp_earned = $5,
			gold_earned = $6,
			updated_at = NOW()
		WHERE user_id = $1 AND quest_id = $2 AND day = $3
		AND completed = false
	`

	result, err := r.db.ExecContext(ctx, query, userID, questID, day, completedAt, xpEarned, goldEarned)
	if err != nil {
		return false, errors.ErrDatabaseError("mark completed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.ErrDatabaseError("check rows affected", err)
	}

	return rows == 1, nil
}

// MarkUncompleted flips a row to completed = false. completed_at and the
// captured reward amounts stay in place.
func (r *PostgresCompletionRepository) MarkUncompleted(ctx context.Context, userID, questID, day string) (bool, error) {
	query := `
		UPDATE quest_completions
		SET completed = false,
			updated_at = NOW()
		WHERE user_id = $1 AND quest_id = $2 AND day = $3
	`

	result, err := r.db.ExecContext(ctx, query, userID, questID, day)
	if err != nil {
		return false, errors.ErrDatabaseError("mark uncompleted", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.ErrDatabaseError("check rows affected", err)
	}

	return rows == 1, nil
}

// CountCompletedOnDay counts completed rows for the user's local day.
func (r *PostgresCompletionRepository) CountCompletedOnDay(ctx context.Context, userID, day string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM quest_completions
		WHERE user_id = $1 AND day = $2 AND completed = true
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, day).Scan(&count); err != nil {
		return 0, errors.ErrDatabaseError("count completed on day", err)
	}

	return count, nil
}

// ListDay retrieves all of the user's completion rows for a local day.
func (r *PostgresCompletionRepository) ListDay(ctx context.Context, userID, day string) ([]*domain.CompletionRecord, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM quest_completions
		WHERE user_id = $1 AND day = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, day)
	if err != nil {
		return nil, errors.ErrDatabaseError("list day completions", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*domain.CompletionRecord
	for rows.Next() {
		rec, err := scanCompletion(rows)
		if err != nil {
			return nil, errors.ErrDatabaseError("scan completion row", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseError("iterate completion rows", err)
	}

	return results, nil
}

// ResetDay flips today's completed rows back to false, leaving completed_at
// and reward amounts untouched. RETURNING kind lets one statement both
// mutate and report the per-kind counts.
func (r *PostgresCompletionRepository) ResetDay(ctx context.Context, userID string, start, end time.Time) (*ResetCounts, error) {
	query := `
		UPDATE quest_completions
		SET completed = false,
			updated_at = NOW()
		WHERE user_id = $1
		AND completed = true
		AND completed_at >= $2
		AND completed_at < $3
		RETURNING kind
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, errors.ErrDatabaseError("reset day", err)
	}
	defer func() { _ = rows.Close() }()

	counts := &ResetCounts{}
	for rows.Next() {
		var kind domain.QuestKind
		if err := rows.Scan(&kind); err != nil {
			return nil, errors.ErrDatabaseError("scan reset kind", err)
		}
		switch kind {
		case domain.QuestKindChallenge:
			counts.Challenges++
		default:
			counts.Quests++
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseError("iterate reset rows", err)
	}

	return counts, nil
}

// DeleteAllForUser removes the user's entire completion history.
func (r *PostgresCompletionRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM quest_completions WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, errors.ErrDatabaseError("delete all completions", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.ErrDatabaseError("check rows affected", err)
	}

	return rows, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompletion(row rowScanner) (*domain.CompletionRecord, error) {
	var rec domain.CompletionRecord
	err := row.Scan(
		&rec.UserID,
		&rec.QuestID,
		&rec.Kind,
		&rec.Day,
		&rec.Completed,
		&rec.CompletedAt,
		&rec.XPEarned,
		&rec.GoldEarned,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
