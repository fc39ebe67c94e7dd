package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/errors"
)

// In-memory implementations of the three repositories. They mirror the
// Postgres semantics exactly, including the atomicity contracts: every
// operation runs under the store mutex, so the insert-or-lose and
// completed=false guards behave the same under concurrent callers.
// Used for local development and service-level tests.

type completionKey struct {
	userID  string
	questID string
	day     string
}

// MemoryCompletionRepository is a mutex-protected in-memory CompletionRepository.
type MemoryCompletionRepository struct {
	mu      sync.Mutex
	records map[completionKey]*domain.CompletionRecord
}

// NewMemoryCompletionRepository creates an empty in-memory completion store.
func NewMemoryCompletionRepository() *MemoryCompletionRepository {
	return &MemoryCompletionRepository{
		records: make(map[completionKey]*domain.CompletionRecord),
	}
}

func (r *MemoryCompletionRepository) Get(ctx context.Context, userID, questID, day string) (*domain.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[completionKey{userID, questID, day}]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *MemoryCompletionRepository) InsertCompleted(ctx context.Context, rec *domain.CompletionRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := completionKey{rec.UserID, rec.QuestID, rec.Day}
	if _, exists := r.records[key]; exists {
		return false, nil
	}

	now := time.Now()
	cp := *rec
	cp.Completed = true
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.records[key] = &cp
	return true, nil
}

func (r *MemoryCompletionRepository) MarkCompleted(ctx context.Context, userID, questID, day string, completedAt time.Time, xpEarned, goldEarned int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[completionKey{userID, questID, day}]
	if !ok || rec.Completed {
		return false, nil
	}

	rec.Completed = true
	rec.CompletedAt = &completedAt
	rec.XPEarned = xpEarned
	rec.GoldEarned = goldEarned
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (r *MemoryCompletionRepository) MarkUncompleted(ctx context.Context, userID, questID, day string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[completionKey{userID, questID, day}]
	if !ok {
		return false, nil
	}

	rec.Completed = false
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (r *MemoryCompletionRepository) CountCompletedOnDay(ctx context.Context, userID, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for key, rec := range r.records {
		if key.userID == userID && key.day == day && rec.Completed {
			count++
		}
	}
	return count, nil
}

func (r *MemoryCompletionRepository) ListDay(ctx context.Context, userID, day string) ([]*domain.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []*domain.CompletionRecord
	for key, rec := range r.records {
		if key.userID == userID && key.day == day {
			cp := *rec
			results = append(results, &cp)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}

func (r *MemoryCompletionRepository) ResetDay(ctx context.Context, userID string, start, end time.Time) (*ResetCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := &ResetCounts{}
	for key, rec := range r.records {
		if key.userID != userID || !rec.Completed || rec.CompletedAt == nil {
			continue
		}
		at := *rec.CompletedAt
		if at.Before(start) || !at.Before(end) {
			continue
		}
		rec.Completed = false
		rec.UpdatedAt = time.Now()
		switch rec.Kind {
		case domain.QuestKindChallenge:
			counts.Challenges++
		default:
			counts.Quests++
		}
	}
	return counts, nil
}

func (r *MemoryCompletionRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for key := range r.records {
		if key.userID == userID {
			delete(r.records, key)
			deleted++
		}
	}
	return deleted, nil
}

// MemoryLedgerRepository is a mutex-protected in-memory LedgerRepository.
type MemoryLedgerRepository struct {
	mu      sync.Mutex
	entries []*domain.RewardLedgerEntry
}

// NewMemoryLedgerRepository creates an empty in-memory ledger.
func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{}
}

func (r *MemoryLedgerRepository) Append(ctx context.Context, entry *domain.RewardLedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *entry
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *MemoryLedgerRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.RewardLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []*domain.RewardLedgerEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID != userID {
			continue
		}
		cp := *r.entries[i]
		results = append(results, &cp)
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results, nil
}

func (r *MemoryLedgerRepository) CountForQuestDay(ctx context.Context, userID, relatedID string, start, end time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, entry := range r.entries {
		if entry.UserID != userID || entry.RelatedID != relatedID {
			continue
		}
		if entry.CreatedAt.Before(start) || !entry.CreatedAt.Before(end) {
			continue
		}
		count++
	}
	return count, nil
}

// MemoryStatsRepository is a mutex-protected in-memory StatsRepository.
type MemoryStatsRepository struct {
	mu    sync.Mutex
	stats map[string]*domain.CharacterStats
}

// NewMemoryStatsRepository creates an empty in-memory stats store.
func NewMemoryStatsRepository() *MemoryStatsRepository {
	return &MemoryStatsRepository{
		stats: make(map[string]*domain.CharacterStats),
	}
}

func (r *MemoryStatsRepository) Get(ctx context.Context, userID string) (*domain.CharacterStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[userID]
	if !ok {
		return nil, nil
	}
	cp := *stats
	return &cp, nil
}

// row returns the live row for userID, creating it lazily. Caller holds the lock.
func (r *MemoryStatsRepository) row(userID string) *domain.CharacterStats {
	stats, ok := r.stats[userID]
	if !ok {
		stats = domain.NewCharacterStats(userID)
		r.stats[userID] = stats
	}
	return stats
}

func (r *MemoryStatsRepository) AddExperience(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error) {
	if amount < 0 {
		return nil, errors.ErrInvalidInput("experience grant must be non-negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats := r.row(userID)
	stats.Experience += amount
	if lvl := domain.LevelForExperience(stats.Experience); lvl > stats.Level {
		stats.Level = lvl
	}
	stats.UpdatedAt = time.Now()
	cp := *stats
	return &cp, nil
}

func (r *MemoryStatsRepository) AddGold(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error) {
	if amount < 0 {
		return nil, errors.ErrInvalidInput("gold grant must be non-negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats := r.row(userID)
	stats.Gold += amount
	stats.UpdatedAt = time.Now()
	cp := *stats
	return &cp, nil
}

func (r *MemoryStatsRepository) SpendGold(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error) {
	if amount <= 0 {
		return nil, errors.ErrInvalidInput("spend amount must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[userID]
	if !ok || stats.Gold < amount {
		return nil, errors.ErrInsufficientGold(userID, amount)
	}

	stats.Gold -= amount
	stats.UpdatedAt = time.Now()
	cp := *stats
	return &cp, nil
}

func (r *MemoryStatsRepository) TouchStreak(ctx context.Context, userID, day, prevDay string) (*domain.CharacterStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := r.row(userID)
	switch stats.LastStreakDay {
	case day:
		// Already counted today.
	case prevDay:
		if prevDay != "" {
			stats.StreakDays++
		} else {
			stats.StreakDays = 1
		}
	default:
		stats.StreakDays = 1
	}
	stats.LastStreakDay = day
	stats.UpdatedAt = time.Now()
	cp := *stats
	return &cp, nil
}
