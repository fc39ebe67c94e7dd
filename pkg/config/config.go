package config

import "github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"

// Config represents the top-level quest catalog loaded from quests.json.
// This structure is parsed from JSON and validated during application startup.
type Config struct {
	Quests []*domain.QuestDefinition `json:"quests"`
}
