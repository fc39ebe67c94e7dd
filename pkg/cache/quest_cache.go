package cache

import "github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"

// QuestCache provides O(1) in-memory lookups for quest definitions.
// This cache is built at application startup from the quests.json catalog.
// All lookups are read-only and thread-safe.
type QuestCache interface {
	// GetQuestByID retrieves a quest by its unique ID.
	// Returns nil if the quest does not exist.
	// Time complexity: O(1)
	GetQuestByID(questID string) *domain.QuestDefinition

	// GetQuestsByKind retrieves all quests of a given kind (quest or challenge).
	// Returns empty slice if no quests have this kind.
	// Time complexity: O(1)
	GetQuestsByKind(kind domain.QuestKind) []*domain.QuestDefinition

	// GetQuestsBySender retrieves all quests authored/assigned by a user.
	// Returns empty slice if the user has sent none.
	// Time complexity: O(1)
	GetQuestsBySender(senderID string) []*domain.QuestDefinition

	// GetAllQuests retrieves all configured quests in catalog order.
	// Time complexity: O(1)
	GetAllQuests() []*domain.QuestDefinition

	// Reload reloads the cache from the catalog file.
	// Returns error if the catalog cannot be read or is invalid.
	Reload() error
}
