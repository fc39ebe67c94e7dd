package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/cache"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/client"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/clock"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/errors"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/repository"
)

// CompletionService implements the daily quest completion flow: the primary
// completion write, the exactly-once-per-day reward grant, and the secondary
// effects (ledger, stats, streak, milestone, notification) that follow it.
//
// The once-per-day guarantee lives entirely in the completion store: a grant
// happens only when this call flipped the record to completed, and the store
// resolves concurrent flips to a single winner. Secondary effects run after
// the primary write, are individually wrapped, and never fail the call.
type CompletionService struct {
	completions repository.CompletionRepository
	ledger      repository.LedgerRepository
	stats       repository.StatsRepository
	quests      cache.QuestCache
	notifier    client.Notifier
	clk         clock.Clock
	logger      *slog.Logger
}

// NewCompletionService creates a new completion service. notifier may be nil
// when cross-user notifications are disabled.
func NewCompletionService(
	completions repository.CompletionRepository,
	ledger repository.LedgerRepository,
	stats repository.StatsRepository,
	quests cache.QuestCache,
	notifier client.Notifier,
	clk clock.Clock,
	logger *slog.Logger,
) *CompletionService {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompletionService{
		completions: completions,
		ledger:      ledger,
		stats:       stats,
		quests:      quests,
		notifier:    notifier,
		clk:         clk,
		logger:      logger,
	}
}

// SetCompleted marks a quest completed or uncompleted for the caller's
// current local day. It returns today's record and what the call granted.
//
// Completing a quest already completed today is a no-op with a zero summary.
// Completing after an uncheck grants again: no claw-back happened on the
// uncheck, so the ledger accumulates both grants. Unchecking a quest with no
// record today returns COMPLETION_NOT_FOUND.
func (s *CompletionService) SetCompleted(ctx context.Context, userID, questID string, completed bool) (*domain.CompletionRecord, *domain.RewardSummary, error) {
	if userID == "" {
		return nil, nil, errors.ErrInvalidInput("user id is required")
	}
	if questID == "" {
		return nil, nil, errors.ErrInvalidInput("quest id is required")
	}

	quest := s.quests.GetQuestByID(questID)
	if quest == nil {
		return nil, nil, errors.ErrQuestNotFound(questID)
	}

	now := s.clk.Now()
	day := clock.LocalDay(now)

	if !completed {
		return s.uncomplete(ctx, userID, questID, day)
	}
	return s.complete(ctx, userID, quest, day, now)
}

// complete performs the primary write for the completed direction and, when
// this call won the flip, runs the reward grant.
func (s *CompletionService) complete(ctx context.Context, userID string, quest *domain.QuestDefinition, day string, now time.Time) (*domain.CompletionRecord, *domain.RewardSummary, error) {
	rec := &domain.CompletionRecord{
		UserID:      userID,
		QuestID:     quest.ID,
		Kind:        quest.Kind,
		Day:         day,
		Completed:   true,
		CompletedAt: &now,
		XPEarned:    quest.XPReward,
		GoldEarned:  quest.GoldReward,
	}

	inserted, err := s.completions.InsertCompleted(ctx, rec)
	if err != nil {
		return nil, nil, err
	}

	if !inserted {
		// A row already holds this (user, quest, day) identity: either the
		// quest was completed earlier today, or it was unchecked and can be
		// re-completed.
		existing, err := s.completions.Get(ctx, userID, quest.ID, day)
		if err != nil {
			return nil, nil, err
		}
		if existing == nil {
			// The conflicting row vanished between insert and re-fetch.
			// Rows for today are never deleted, so this is not a state a
			// retry can be expected to resolve.
			return nil, nil, errors.ErrConflict("complete quest")
		}
		if existing.Completed {
			return existing, &domain.RewardSummary{}, nil // Already completed today
		}

		flipped, err := s.completions.MarkCompleted(ctx, userID, quest.ID, day, now, quest.XPReward, quest.GoldReward)
		if err != nil {
			return nil, nil, err
		}
		if !flipped {
			// A concurrent re-completion won the flip and owns the grant.
			return s.fetchRecord(ctx, userID, quest.ID, day, rec), &domain.RewardSummary{}, nil
		}
	}

	summary := s.grant(ctx, userID, quest, day)
	return s.fetchRecord(ctx, userID, quest.ID, day, rec), summary, nil
}

// fetchRecord re-reads the durable row after a successful primary write. The
// write already committed, so a failed read falls back to the locally built
// record instead of failing the call.
func (s *CompletionService) fetchRecord(ctx context.Context, userID, questID, day string, fallback *domain.CompletionRecord) *domain.CompletionRecord {
	current, err := s.completions.Get(ctx, userID, questID, day)
	if err != nil || current == nil {
		s.logger.Error("completion re-read failed",
			"user_id", userID,
			"quest_id", questID,
			"day", day,
			"error", err,
		)
		return fallback
	}
	return current
}

// uncomplete flips today's record back to uncompleted. Granted rewards are
// kept: the ledger is append-only and stats never decrease from an uncheck.
func (s *CompletionService) uncomplete(ctx context.Context, userID, questID, day string) (*domain.CompletionRecord, *domain.RewardSummary, error) {
	found, err := s.completions.MarkUncompleted(ctx, userID, questID, day)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, errors.ErrCompletionNotFound(userID, questID, day)
	}

	s.logger.Info("quest unchecked",
		"user_id", userID,
		"quest_id", questID,
		"day", day,
	)

	rec, err := s.completions.Get(ctx, userID, questID, day)
	if err != nil {
		return nil, nil, err
	}
	return rec, &domain.RewardSummary{}, nil
}

// grant runs all secondary effects of a completion this call won. Each
// effect is individually wrapped: a failure is logged and the rest still
// run, because the completion itself is already durable.
func (s *CompletionService) grant(ctx context.Context, userID string, quest *domain.QuestDefinition, day string) *domain.RewardSummary {
	summary := &domain.RewardSummary{
		XPGranted:   quest.XPReward,
		GoldGranted: quest.GoldReward,
	}

	rewardCtx := domain.NewQuestCompletionContext(quest, day)

	s.appendLedger(ctx, &domain.RewardLedgerEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventType: domain.EventTypeExperience,
		RelatedID: quest.ID,
		Amount:    quest.XPReward,
		Context:   rewardCtx,
	})
	s.appendLedger(ctx, &domain.RewardLedgerEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventType: domain.EventTypeGold,
		RelatedID: quest.ID,
		Amount:    quest.GoldReward,
		Context:   rewardCtx,
	})

	if stats, err := s.stats.AddExperience(ctx, userID, quest.XPReward); err != nil {
		s.logger.Error("experience grant failed",
			"user_id", userID,
			"quest_id", quest.ID,
			"error", err,
		)
	} else {
		summary.Stats = stats
	}

	if stats, err := s.stats.AddGold(ctx, userID, quest.GoldReward); err != nil {
		s.logger.Error("gold grant failed",
			"user_id", userID,
			"quest_id", quest.ID,
			"error", err,
		)
	} else {
		summary.Stats = stats
	}

	streakDays := 0
	if stats, err := s.stats.TouchStreak(ctx, userID, day, clock.PreviousDay(day)); err != nil {
		s.logger.Error("streak update failed",
			"user_id", userID,
			"day", day,
			"error", err,
		)
		// Milestone evaluation falls back to the last known streak.
		if current, err := s.stats.Get(ctx, userID); err == nil && current != nil {
			streakDays = current.StreakDays
		}
	} else {
		summary.Stats = stats
		streakDays = stats.StreakDays
	}

	summary.Milestone = s.evaluateMilestone(ctx, userID, day, streakDays)

	s.notifySender(ctx, userID, quest)

	s.logger.Info("quest completed",
		"user_id", userID,
		"quest_id", quest.ID,
		"day", day,
		"xp_granted", summary.XPGranted,
		"gold_granted", summary.GoldGranted,
		"milestone", summary.Milestone,
	)

	return summary
}

func (s *CompletionService) appendLedger(ctx context.Context, entry *domain.RewardLedgerEntry) {
	if err := s.ledger.Append(ctx, entry); err != nil {
		s.logger.Error("ledger append failed",
			"user_id", entry.UserID,
			"event_type", entry.EventType,
			"related_id", entry.RelatedID,
			"error", err,
		)
	}
}

// evaluateMilestone picks at most one milestone message for this completion.
// Streak milestones outrank daily-count milestones, and a milestone fires
// only at its exact threshold so each one is announced at most once per day.
func (s *CompletionService) evaluateMilestone(ctx context.Context, userID, day string, streakDays int) string {
	count, err := s.completions.CountCompletedOnDay(ctx, userID, day)
	if err != nil {
		s.logger.Error("milestone count failed",
			"user_id", userID,
			"day", day,
			"error", err,
		)
		count = 0
	}

	switch {
	case streakDays == 7:
		return domain.MilestoneStreak7
	case streakDays == 3:
		return domain.MilestoneStreak3
	case count == 10:
		return domain.MilestoneQuests10
	case count == 5:
		return domain.MilestoneQuests5
	case count == 3:
		return domain.MilestoneQuests3
	default:
		return ""
	}
}

// notifySender delivers a completion notification when the quest was
// authored by another user. Failures are logged with their retryability so
// an operator can tell transient delivery trouble from misconfiguration.
func (s *CompletionService) notifySender(ctx context.Context, userID string, quest *domain.QuestDefinition) {
	if s.notifier == nil || !quest.IsCrossUser(userID) {
		return
	}

	n := domain.Notification{
		Kind:          domain.NotificationKindQuestCompleted,
		QuestID:       quest.ID,
		QuestName:     quest.Name,
		CompletedByID: userID,
	}

	if err := s.notifier.Notify(ctx, quest.SenderID, n); err != nil {
		wrapped := errors.ErrNotificationFailed(quest.SenderID, err)
		s.logger.Error("notification failed",
			"to_user_id", quest.SenderID,
			"quest_id", quest.ID,
			"retryable", client.IsRetryableError(err),
			"error", wrapped,
		)
	}
}

// GetDay returns all of the user's completion records for the current local
// day, including unchecked ones.
func (s *CompletionService) GetDay(ctx context.Context, userID string) ([]*domain.CompletionRecord, error) {
	if userID == "" {
		return nil, errors.ErrInvalidInput("user id is required")
	}

	day := clock.LocalDay(s.clk.Now())
	return s.completions.ListDay(ctx, userID, day)
}

// ResetToday flips today's completed records back to uncompleted without
// deleting anything. Records from prior days are untouched, and rewards
// already granted today are kept. Running it twice is harmless.
func (s *CompletionService) ResetToday(ctx context.Context, userID string) (*repository.ResetCounts, error) {
	if userID == "" {
		return nil, errors.ErrInvalidInput("user id is required")
	}

	start, end := clock.DayBounds(s.clk.Now())
	counts, err := s.completions.ResetDay(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	s.logger.Info("daily reset",
		"user_id", userID,
		"quests_reset", counts.Quests,
		"challenges_reset", counts.Challenges,
	)
	return counts, nil
}

// DeleteAllHistory removes the user's entire completion history. This is the
// destructive account-level wipe and shares no code path with ResetToday.
// The reward ledger is untouched: it is the audit trail of what was granted.
func (s *CompletionService) DeleteAllHistory(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, errors.ErrInvalidInput("user id is required")
	}

	deleted, err := s.completions.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.logger.Warn("completion history deleted",
		"user_id", userID,
		"records_deleted", deleted,
	)
	return deleted, nil
}

// GetCharacterStats returns the user's stats, defaulting to a fresh level-1
// character when no grant has ever landed.
func (s *CompletionService) GetCharacterStats(ctx context.Context, userID string) (*domain.CharacterStats, error) {
	if userID == "" {
		return nil, errors.ErrInvalidInput("user id is required")
	}

	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return domain.NewCharacterStats(userID), nil
	}
	return stats, nil
}

// SpendGold deducts amount from the user's balance, rejecting overdrafts.
func (s *CompletionService) SpendGold(ctx context.Context, userID string, amount int) (*domain.CharacterStats, error) {
	if userID == "" {
		return nil, errors.ErrInvalidInput("user id is required")
	}
	if amount <= 0 {
		return nil, errors.ErrInvalidInput("spend amount must be positive")
	}

	return s.stats.SpendGold(ctx, userID, amount)
}

// GetLedger returns the user's most recent reward ledger entries, newest
// first. limit <= 0 returns everything.
func (s *CompletionService) GetLedger(ctx context.Context, userID string, limit int) ([]*domain.RewardLedgerEntry, error) {
	if userID == "" {
		return nil, errors.ErrInvalidInput("user id is required")
	}

	return s.ledger.ListByUser(ctx, userID, limit)
}

// GrantAchievement grants rewards for an unlocked achievement. Unlike quest
// completions there is no per-day dedup: the caller owns unlock-once
// semantics. The grant is recorded in the ledger and applied to stats.
func (s *CompletionService) GrantAchievement(ctx context.Context, userID, achievementID string, xp, gold int) (*domain.RewardSummary, error) {
	if userID == "" {
		return nil, errors.ErrInvalidInput("user id is required")
	}
	if achievementID == "" {
		return nil, errors.ErrInvalidInput("achievement id is required")
	}
	if xp < 0 || gold < 0 {
		return nil, errors.ErrInvalidInput("grant amounts must be non-negative")
	}

	return s.directGrant(ctx, userID, achievementID, domain.EventTypeAchievement, xp, gold,
		domain.NewAchievementUnlockContext(achievementID))
}

// GrantManual applies an operator-issued grant, recording who issued it and why.
func (s *CompletionService) GrantManual(ctx context.Context, userID string, xp, gold int, reason, grantedBy string) (*domain.RewardSummary, error) {
	if userID == "" {
		return nil, errors.ErrInvalidInput("user id is required")
	}
	if reason == "" || grantedBy == "" {
		return nil, errors.ErrInvalidInput("manual grants require a reason and issuer")
	}
	if xp < 0 || gold < 0 {
		return nil, errors.ErrInvalidInput("grant amounts must be non-negative")
	}

	return s.directGrant(ctx, userID, "", domain.EventTypeReward, xp, gold,
		domain.NewManualGrantContext(reason, grantedBy))
}

// directGrant is the shared path for non-quest grants: ledger entries per
// non-zero amount, then stats. Stats failures surface to the caller here
// because there is no durable primary write to fall back on.
func (s *CompletionService) directGrant(ctx context.Context, userID, relatedID string, eventType domain.EventType, xp, gold int, rewardCtx domain.RewardContext) (*domain.RewardSummary, error) {
	if xp > 0 {
		s.appendLedger(ctx, &domain.RewardLedgerEntry{
			ID:        uuid.NewString(),
			UserID:    userID,
			EventType: domain.EventTypeExperience,
			RelatedID: relatedID,
			Amount:    xp,
			Context:   rewardCtx,
		})
	}
	if gold > 0 {
		s.appendLedger(ctx, &domain.RewardLedgerEntry{
			ID:        uuid.NewString(),
			UserID:    userID,
			EventType: eventType,
			RelatedID: relatedID,
			Amount:    gold,
			Context:   rewardCtx,
		})
	}

	summary := &domain.RewardSummary{XPGranted: xp, GoldGranted: gold}

	if _, err := s.stats.AddExperience(ctx, userID, xp); err != nil {
		return nil, err
	}
	stats, err := s.stats.AddGold(ctx, userID, gold)
	if err != nil {
		return nil, err
	}
	summary.Stats = stats

	return summary, nil
}
