package domain

import (
	"math"
	"time"
)

// QuestKind distinguishes the two completable item types in the catalog.
type QuestKind string

const (
	// QuestKindQuest is a regular daily habit quest.
	QuestKindQuest QuestKind = "quest"

	// QuestKindChallenge is a challenge item; completion flow is identical
	// to quests, but resets report the two kinds separately.
	QuestKindChallenge QuestKind = "challenge"
)

// IsValid returns true if the quest kind is a valid type.
func (k QuestKind) IsValid() bool {
	switch k {
	case QuestKindQuest, QuestKindChallenge:
		return true
	default:
		return false
	}
}

// QuestDefinition describes a completable quest from the catalog.
// Definitions are read-only to this core; they come from quests.json.
type QuestDefinition struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Kind       QuestKind `json:"kind"`
	XPReward   int       `json:"xp_reward"`
	GoldReward int       `json:"gold_reward"`
	SenderID   string    `json:"sender_id,omitempty"` // User who authored/assigned this quest to someone else
}

// IsCrossUser returns true if the quest was authored by another user,
// meaning a completion by userID should notify the sender.
func (q *QuestDefinition) IsCrossUser(userID string) bool {
	return q.SenderID != "" && q.SenderID != userID
}

// CompletionRecord tracks whether a user completed a quest on a given local
// day. Identity is (user_id, quest_id, day); the storage layer enforces at
// most one row per identity. Reward amounts are captured at write time and
// never recomputed from the catalog afterwards.
type CompletionRecord struct {
	UserID      string     `json:"user_id" db:"user_id"`
	QuestID     string     `json:"quest_id" db:"quest_id"`
	Kind        QuestKind  `json:"kind" db:"kind"`
	Day         string     `json:"day" db:"day"` // YYYY-MM-DD in the reference timezone
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	XPEarned    int        `json:"xp_earned" db:"xp_earned"`
	GoldEarned  int        `json:"gold_earned" db:"gold_earned"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// EventType classifies a reward ledger entry.
type EventType string

const (
	EventTypeQuest       EventType = "quest"
	EventTypeChallenge   EventType = "challenge"
	EventTypeGold        EventType = "gold"
	EventTypeExperience  EventType = "exp"
	EventTypeAchievement EventType = "achievement"
	EventTypeReward      EventType = "reward"
)

// IsValid returns true if the event type is a valid type.
func (e EventType) IsValid() bool {
	switch e {
	case EventTypeQuest, EventTypeChallenge, EventTypeGold,
		EventTypeExperience, EventTypeAchievement, EventTypeReward:
		return true
	default:
		return false
	}
}

// ContextSource identifies which variant of RewardContext is populated.
type ContextSource string

const (
	ContextSourceQuestCompletion   ContextSource = "quest_completion"
	ContextSourceAchievementUnlock ContextSource = "achievement_unlock"
	ContextSourceManualGrant       ContextSource = "manual_grant"
)

// IsValid returns true if the context source is a valid type.
func (s ContextSource) IsValid() bool {
	switch s {
	case ContextSourceQuestCompletion, ContextSourceAchievementUnlock, ContextSourceManualGrant:
		return true
	default:
		return false
	}
}

// RewardContext is the metadata attached to a ledger entry. It is a closed,
// versioned variant type: exactly one of the pointer fields matching Source
// is set. Stored as JSONB.
type RewardContext struct {
	Version int           `json:"version"`
	Source  ContextSource `json:"source"`

	QuestCompletion   *QuestCompletionContext   `json:"quest_completion,omitempty"`
	AchievementUnlock *AchievementUnlockContext `json:"achievement_unlock,omitempty"`
	ManualGrant       *ManualGrantContext       `json:"manual_grant,omitempty"`
}

// QuestCompletionContext records which quest/day produced the grant.
type QuestCompletionContext struct {
	QuestID   string    `json:"quest_id"`
	QuestName string    `json:"quest_name"`
	Kind      QuestKind `json:"kind"`
	Day       string    `json:"day"`
}

// AchievementUnlockContext records the achievement that produced the grant.
type AchievementUnlockContext struct {
	AchievementID string `json:"achievement_id"`
}

// ManualGrantContext records an operator-issued grant.
type ManualGrantContext struct {
	Reason    string `json:"reason"`
	GrantedBy string `json:"granted_by"`
}

// NewQuestCompletionContext builds the context variant for a quest grant.
func NewQuestCompletionContext(quest *QuestDefinition, day string) RewardContext {
	return RewardContext{
		Version: 1,
		Source:  ContextSourceQuestCompletion,
		QuestCompletion: &QuestCompletionContext{
			QuestID:   quest.ID,
			QuestName: quest.Name,
			Kind:      quest.Kind,
			Day:       day,
		},
	}
}

// NewAchievementUnlockContext builds the context variant for an achievement grant.
func NewAchievementUnlockContext(achievementID string) RewardContext {
	return RewardContext{
		Version: 1,
		Source:  ContextSourceAchievementUnlock,
		AchievementUnlock: &AchievementUnlockContext{
			AchievementID: achievementID,
		},
	}
}

// NewManualGrantContext builds the context variant for an operator grant.
func NewManualGrantContext(reason, grantedBy string) RewardContext {
	return RewardContext{
		Version: 1,
		Source:  ContextSourceManualGrant,
		ManualGrant: &ManualGrantContext{
			Reason:    reason,
			GrantedBy: grantedBy,
		},
	}
}

// RewardLedgerEntry is one append-only grant event. Entries are never
// mutated or deleted; multiple entries per (user, quest, day) are expected.
// The completion store, not the ledger, carries the once-per-day semantics.
type RewardLedgerEntry struct {
	ID        string        `json:"id" db:"id"`
	UserID    string        `json:"user_id" db:"user_id"`
	EventType EventType     `json:"event_type" db:"event_type"`
	RelatedID string        `json:"related_id,omitempty" db:"related_id"`
	Amount    int           `json:"amount" db:"amount"`
	Context   RewardContext `json:"context" db:"context"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// CharacterStats is the derived character state for a user. Gold and
// experience only increase under grants; SpendGold is the one legitimate
// decrease. Level never decreases from an XP grant.
type CharacterStats struct {
	UserID        string    `json:"user_id" db:"user_id"`
	Gold          int       `json:"gold" db:"gold"`
	Experience    int       `json:"experience" db:"experience"`
	Level         int       `json:"level" db:"level"`
	StreakDays    int       `json:"streak_days" db:"streak_days"`
	LastStreakDay string    `json:"last_streak_day,omitempty" db:"last_streak_day"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// NewCharacterStats returns the default stats for a user with no history.
func NewCharacterStats(userID string) *CharacterStats {
	return &CharacterStats{
		UserID: userID,
		Gold:   0,
		Level:  1,
	}
}

// LevelForExperience computes level = floor(sqrt(experience / 100)) + 1.
// experience=0 -> 1, experience=99 -> 1, experience=100 -> 2, 900 -> 4.
func LevelForExperience(experience int) int {
	if experience <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(experience)/100.0)) + 1
}

// RewardSummary reports what a completion call granted. Zero amounts mean
// the call was a no-op (already completed today). Stats is the post-grant
// snapshot when available; it may be nil if the stats update failed (the
// completion itself still succeeded).
type RewardSummary struct {
	XPGranted   int             `json:"xp_granted"`
	GoldGranted int             `json:"gold_granted"`
	Stats       *CharacterStats `json:"stats,omitempty"`
	Milestone   string          `json:"milestone,omitempty"`
}

// Granted returns true if this summary represents an actual reward grant.
func (s *RewardSummary) Granted() bool {
	return s.XPGranted > 0 || s.GoldGranted > 0
}

// Milestone message codes, in evaluation priority order. At most one is
// emitted per completion call; first match wins.
const (
	MilestoneStreak7  = "streak_7"
	MilestoneStreak3  = "streak_3"
	MilestoneQuests10 = "quests_10"
	MilestoneQuests5  = "quests_5"
	MilestoneQuests3  = "quests_3"
)

// Notification is the payload handed to the notification sink when a quest
// authored by another user is completed.
type Notification struct {
	Kind          string `json:"kind"`
	QuestID       string `json:"quest_id"`
	QuestName     string `json:"quest_name"`
	CompletedByID string `json:"completed_by_id"`
}

// NotificationKindQuestCompleted is sent to the quest's sender when the
// assignee completes it.
const NotificationKindQuestCompleted = "quest_completed"
