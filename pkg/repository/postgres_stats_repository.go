package repository

import (
	"context"
	"database/sql"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/errors"
)

// PostgresStatsRepository implements StatsRepository using PostgreSQL.
//
// Every mutation is a single INSERT ... ON CONFLICT DO UPDATE with the
// arithmetic done in SQL against the stored row. Postgres serializes the
// concurrent updates on the row lock, so two simultaneous grants for the
// same user both land (no read-modify-write from application memory).
type PostgresStatsRepository struct {
	db *sql.DB
}

// NewPostgresStatsRepository creates a new PostgreSQL-backed stats repository.
func NewPostgresStatsRepository(db *sql.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{
		db: db,
	}
}

const statsColumns = `
	user_id, gold, experience, level, streak_days,
	COALESCE(last_streak_day, ''), updated_at
`

// Get retrieves the user's stats, or nil if no grant has ever landed.
func (r *PostgresStatsRepository) Get(ctx context.Context, userID string) (*domain.CharacterStats, error) {
	query := `
		SELECT ` + statsColumns + `
		FROM character_stats
		WHERE user_id = $1
	`

	stats, err := scanStats(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil // Lazy initialization: row appears on first grant
	}
	if err != nil {
		return nil, errors.ErrDatabaseError("get character stats", err)
	}

	return stats, nil
}

// AddExperience adds amount to experience and recomputes level, never
// letting it decrease: level = GREATEST(current, floor(sqrt(total/100))+1).
func (r *PostgresStatsRepository) AddExperience(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error) {
	if amount < 0 {
		return nil, errors.ErrInvalidInput("experience grant must be non-negative")
	}

	query := `
		INSERT INTO character_stats (user_id, gold, experience, level, streak_days, updated_at)
		VALUES (
			$1, 0, $2,
			GREATEST(1, FLOOR(SQRT($2::NUMERIC / 100))::INT + 1),
			0, NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			experience = character_stats.experience + $2,
			level = GREATEST(
				character_stats.level,
				FLOOR(SQRT((character_stats.experience + $2)::NUMERIC / 100))::INT + 1
			),
			updated_at = NOW()
		RETURNING ` + statsColumns

	stats, err := scanStats(r.db.QueryRowContext(ctx, query, userID, amount))
	if err != nil {
		return nil, errors.ErrDatabaseError("add experience", err)
	}

	return stats, nil
}

// AddGold adds amount to gold, creating the row on first grant.
func (r *PostgresStatsRepository) AddGold(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error) {
	if amount < 0 {
		return nil, errors.ErrInvalidInput("gold grant must be non-negative")
	}

	query := `
		INSERT INTO character_stats (user_id, gold, experience, level, streak_days, updated_at)
		VALUES ($1, $2, 0, 1, 0, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			gold = character_stats.gold + $2,
			updated_at = NOW()
		RETURNING ` + statsColumns

	stats, err := scanStats(r.db.QueryRowContext(ctx, query, userID, amount))
	if err != nil {
		return nil, errors.ErrDatabaseError("add gold", err)
	}

	return stats, nil
}

// SpendGold subtracts amount, guarded by gold >= amount in the same
// statement so a concurrent spend cannot drive the balance negative.
func (r *PostgresStatsRepository) SpendGold(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error) {
	if amount <= 0 {
		return nil, errors.ErrInvalidInput("spend amount must be positive")
	}

	query := `
		UPDATE character_stats
		SET gold = gold - $2,
			updated_at = NOW()
		WHERE user_id = $1 AND gold >= $2
		RETURNING ` + statsColumns

	stats, err := scanStats(r.db.QueryRowContext(ctx, query, userID, amount))
	if err == sql.ErrNoRows {
		// Either no stats row (balance 0) or balance too low.
		return nil, errors.ErrInsufficientGold(userID, amount)
	}
	if err != nil {
		return nil, errors.ErrDatabaseError("spend gold", err)
	}

	return stats, nil
}

// TouchStreak advances the daily streak. last_streak_day = day means this
// day already counted (no-op); = prevDay extends the streak; anything else,
// including NULL for a fresh row, restarts at one.
func (r *PostgresStatsRepository) TouchStreak(ctx context.Context, userID, day, prevDay string) (*domain.CharacterStats, error) {
	query := `
		INSERT INTO character_stats (user_id, gold, experience, level, streak_days, last_streak_day, updated_at)
		VALUES ($1, 0, 0, 1, 1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			streak_days = CASE
				WHEN character_stats.last_streak_day = $2 THEN character_stats.streak_days
				WHEN character_stats.last_streak_day = $3 THEN character_stats.streak_days + 1
				ELSE 1
			END,
			last_streak_day = $2,
			updated_at = NOW()
		RETURNING ` + statsColumns

	stats, err := scanStats(r.db.QueryRowContext(ctx, query, userID, day, prevDay))
	if err != nil {
		return nil, errors.ErrDatabaseError("touch streak", err)
	}

	return stats, nil
}

func scanStats(row rowScanner) (*domain.CharacterStats, error) {
	var stats domain.CharacterStats
	err := row.Scan(
		&stats.UserID,
		&stats.Gold,
		&stats.Experience,
		&stats.Level,
		&stats.StreakDays,
		&stats.LastStreakDay,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
