package config

import (
	"errors"
	"fmt"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

// Validator validates quest catalog files.
// It ensures all business rules are met before the application starts.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate performs comprehensive validation of the catalog.
// It checks for:
// - At least one quest exists
// - All quest IDs are unique
// - Names are present
// - Kinds are valid
// - Reward amounts are non-negative
//
// Returns an error describing the first validation failure encountered.
func (v *Validator) Validate(config *Config) error {
	if len(config.Quests) == 0 {
		return errors.New("catalog must have at least one quest")
	}

	questIDs := make(map[string]bool)

	for _, quest := range config.Quests {
		if err := v.validateQuest(quest); err != nil {
			return fmt.Errorf("invalid quest '%s': %w", quest.ID, err)
		}

		if questIDs[quest.ID] {
			return fmt.Errorf("duplicate quest ID: %s", quest.ID)
		}
		questIDs[quest.ID] = true
	}

	return nil
}

// validateQuest validates a single quest definition.
func (v *Validator) validateQuest(quest *domain.QuestDefinition) error {
	if quest.ID == "" {
		return errors.New("quest ID is required")
	}

	if quest.Name == "" {
		return errors.New("quest name is required")
	}

	if !quest.Kind.IsValid() {
		return fmt.Errorf("invalid kind: %s", quest.Kind)
	}

	if quest.XPReward < 0 {
		return fmt.Errorf("xp_reward must be non-negative, got %d", quest.XPReward)
	}

	if quest.GoldReward < 0 {
		return fmt.Errorf("gold_reward must be non-negative, got %d", quest.GoldReward)
	}

	return nil
}
