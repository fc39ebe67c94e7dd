package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/config"
	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

func testCatalog() *config.Config {
	return &config.Config{
		Quests: []*domain.QuestDefinition{
			{
				ID:         "quest-1",
				Name:       "Morning run",
				Category:   "might",
				Kind:       domain.QuestKindQuest,
				XPReward:   50,
				GoldReward: 25,
			},
			{
				ID:         "quest-2",
				Name:       "Read a chapter",
				Category:   "wisdom",
				Kind:       domain.QuestKindQuest,
				XPReward:   30,
				GoldReward: 10,
				SenderID:   "user-2",
			},
			{
				ID:         "challenge-1",
				Name:       "Weekly tournament",
				Category:   "honor",
				Kind:       domain.QuestKindChallenge,
				XPReward:   200,
				GoldReward: 100,
				SenderID:   "user-2",
			},
		},
	}
}

func newTestCache(t *testing.T) *InMemoryQuestCache {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewInMemoryQuestCache(testCatalog(), "", logger)
}

func TestInMemoryQuestCache_GetQuestByID(t *testing.T) {
	c := newTestCache(t)

	quest := c.GetQuestByID("quest-1")
	if quest == nil {
		t.Fatal("expected quest-1 to exist")
	}
	if quest.Name != "Morning run" {
		t.Errorf("Name = %q, want 'Morning run'", quest.Name)
	}

	if c.GetQuestByID("missing") != nil {
		t.Error("expected nil for unknown quest ID")
	}
}

func TestInMemoryQuestCache_GetQuestsByKind(t *testing.T) {
	c := newTestCache(t)

	quests := c.GetQuestsByKind(domain.QuestKindQuest)
	if len(quests) != 2 {
		t.Errorf("expected 2 quests, got %d", len(quests))
	}

	challenges := c.GetQuestsByKind(domain.QuestKindChallenge)
	if len(challenges) != 1 {
		t.Errorf("expected 1 challenge, got %d", len(challenges))
	}

	none := c.GetQuestsByKind(domain.QuestKind("habit"))
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

func TestInMemoryQuestCache_GetQuestsBySender(t *testing.T) {
	c := newTestCache(t)

	sent := c.GetQuestsBySender("user-2")
	if len(sent) != 2 {
		t.Errorf("expected 2 quests from user-2, got %d", len(sent))
	}

	none := c.GetQuestsBySender("user-1")
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

func TestInMemoryQuestCache_GetAllQuests(t *testing.T) {
	c := newTestCache(t)

	all := c.GetAllQuests()
	if len(all) != 3 {
		t.Errorf("expected 3 quests, got %d", len(all))
	}

	// Catalog order is preserved.
	if all[0].ID != "quest-1" || all[2].ID != "challenge-1" {
		t.Errorf("unexpected order: %s ... %s", all[0].ID, all[2].ID)
	}
}

func TestInMemoryQuestCache_Reload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	path := filepath.Join(t.TempDir(), "quests.json")
	writeCatalog := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write catalog: %v", err)
		}
	}

	writeCatalog(`{"quests": [{"id": "quest-1", "name": "Original", "xp_reward": 10, "gold_reward": 5}]}`)

	loader := config.NewConfigLoader(path, logger)
	cfg, err := loader.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	c := NewInMemoryQuestCache(cfg, path, logger)

	writeCatalog(`{"quests": [
		{"id": "quest-1", "name": "Renamed", "xp_reward": 10, "gold_reward": 5},
		{"id": "quest-2", "name": "Added", "xp_reward": 20, "gold_reward": 5}
	]}`)

	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	if len(c.GetAllQuests()) != 2 {
		t.Errorf("expected 2 quests after reload, got %d", len(c.GetAllQuests()))
	}
	if got := c.GetQuestByID("quest-1").Name; got != "Renamed" {
		t.Errorf("Name after reload = %q, want 'Renamed'", got)
	}

	// A failing reload keeps the existing cache intact.
	writeCatalog(`{"quests": [`)
	if err := c.Reload(); err == nil {
		t.Fatal("expected reload error for malformed catalog")
	}
	if len(c.GetAllQuests()) != 2 {
		t.Errorf("cache should be unchanged after failed reload, got %d quests", len(c.GetAllQuests()))
	}
}
