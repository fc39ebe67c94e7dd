package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/errors"
)

// PostgresLedgerRepository implements LedgerRepository using PostgreSQL.
// The table has no UPDATE or DELETE path by construction.
type PostgresLedgerRepository struct {
	db *sql.DB
}

// NewPostgresLedgerRepository creates a new PostgreSQL-backed ledger repository.
func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{
		db: db,
	}
}

// Append writes one grant event with its context serialized to JSONB.
func (r *PostgresLedgerRepository) Append(ctx context.Context, entry *domain.RewardLedgerEntry) error {
	contextJSON, err := json.Marshal(entry.Context)
	if err != nil {
		return errors.ErrDatabaseError("marshal ledger context", err)
	}

	query := `
		INSERT INTO reward_ledger (
			id, user_id, event_type, related_id, amount, context, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.EventType,
		entry.RelatedID,
		entry.Amount,
		contextJSON,
	)
	if err != nil {
		return errors.ErrDatabaseError("append ledger entry", err)
	}

	return nil
}

// ListByUser retrieves the user's most recent entries, newest first.
func (r *PostgresLedgerRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.RewardLedgerEntry, error) {
	query := `
		SELECT id, user_id, event_type, related_id, amount, context, created_at
		FROM reward_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.ErrDatabaseError("list ledger entries", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*domain.RewardLedgerEntry
	for rows.Next() {
		var entry domain.RewardLedgerEntry
		var contextJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EventType,
			&entry.RelatedID,
			&entry.Amount,
			&contextJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, errors.ErrDatabaseError("scan ledger row", err)
		}

		if err := json.Unmarshal(contextJSON, &entry.Context); err != nil {
			return nil, errors.ErrDatabaseError("unmarshal ledger context", err)
		}

		results = append(results, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseError("iterate ledger rows", err)
	}

	return results, nil
}

// CountForQuestDay counts entries for (user, relatedID) inside [start, end).
func (r *PostgresLedgerRepository) CountForQuestDay(ctx context.Context, userID, relatedID string, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reward_ledger
		WHERE user_id = $1
		AND related_id = $2
		AND created_at >= $3
		AND created_at < $4
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, relatedID, start, end).Scan(&count); err != nil {
		return 0, errors.ErrDatabaseError("count ledger entries", err)
	}

	return count, nil
}
