package cache

import (
	"log/slog"
	"sync"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/config"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

// InMemoryQuestCache provides O(1) in-memory lookups for quest definitions.
// All maps are built at startup and provide thread-safe read access.
// The cache is immutable between Reload calls.
type InMemoryQuestCache struct {
	questsByID     map[string]*domain.QuestDefinition
	questsByKind   map[domain.QuestKind][]*domain.QuestDefinition
	questsBySender map[string][]*domain.QuestDefinition
	quests         []*domain.QuestDefinition // All quests (catalog order)
	configPath     string                    // Path to catalog file (for reload)
	mu             sync.RWMutex              // Protects all maps
	logger         *slog.Logger
}

// NewInMemoryQuestCache creates a new cache from the provided catalog.
// The cache is immediately built and ready for lookups.
//
// Parameters:
//   - cfg: Validated catalog containing quest definitions
//   - configPath: Path to catalog file (used for reload operation)
//   - logger: Structured logger for operational logging
func NewInMemoryQuestCache(cfg *config.Config, configPath string, logger *slog.Logger) *InMemoryQuestCache {
	cache := &InMemoryQuestCache{
		configPath: configPath,
		logger:     logger,
	}

	cache.buildCache(cfg)

	return cache
}

// buildCache constructs all cache indexes from the catalog.
// It replaces all existing cache data.
func (c *InMemoryQuestCache) buildCache(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.questsByID = make(map[string]*domain.QuestDefinition, len(cfg.Quests))
	c.questsByKind = make(map[domain.QuestKind][]*domain.QuestDefinition)
	c.questsBySender = make(map[string][]*domain.QuestDefinition)
	c.quests = make([]*domain.QuestDefinition, 0, len(cfg.Quests))

	for _, quest := range cfg.Quests {
		c.questsByID[quest.ID] = quest
		c.questsByKind[quest.Kind] = append(c.questsByKind[quest.Kind], quest)
		if quest.SenderID != "" {
			c.questsBySender[quest.SenderID] = append(c.questsBySender[quest.SenderID], quest)
		}
		c.quests = append(c.quests, quest)
	}

	c.logger.Info("Quest cache built successfully",
		"quests", len(c.questsByID),
		"senders", len(c.questsBySender),
	)
}

// GetQuestByID retrieves a quest by its unique ID.
// Returns nil if the quest does not exist.
func (c *InMemoryQuestCache) GetQuestByID(questID string) *domain.QuestDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.questsByID[questID]
}

// GetQuestsByKind retrieves all quests of a given kind.
// Returns an empty slice if no quests have this kind.
func (c *InMemoryQuestCache) GetQuestsByKind(kind domain.QuestKind) []*domain.QuestDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	quests := c.questsByKind[kind]
	if quests == nil {
		return []*domain.QuestDefinition{}
	}

	// Safe to return directly - definitions are immutable after load
	return quests
}

// GetQuestsBySender retrieves all quests authored/assigned by a user.
// Returns an empty slice if the user has sent none.
func (c *InMemoryQuestCache) GetQuestsBySender(senderID string) []*domain.QuestDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	quests := c.questsBySender[senderID]
	if quests == nil {
		return []*domain.QuestDefinition{}
	}

	return quests
}

// GetAllQuests retrieves all configured quests in catalog order.
func (c *InMemoryQuestCache) GetAllQuests() []*domain.QuestDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.quests
}

// Reload reloads the cache from the catalog file.
//
// Returns:
//   - error: If the catalog cannot be read or validation fails
func (c *InMemoryQuestCache) Reload() error {
	loader := config.NewConfigLoader(c.configPath, c.logger)
	newConfig, err := loader.LoadConfig()
	if err != nil {
		return err
	}

	c.buildCache(newConfig)

	c.logger.Info("Quest cache reloaded successfully")

	return nil
}
