package config

import (
	"strings"
	"testing"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

func validQuest(id string) *domain.QuestDefinition {
	return &domain.QuestDefinition{
		ID:         id,
		Name:       "Quest " + id,
		Category:   "might",
		Kind:       domain.QuestKindQuest,
		XPReward:   50,
		GoldReward: 25,
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		config  *Config
		wantErr string // empty means valid
	}{
		{
			name:   "valid single quest",
			config: &Config{Quests: []*domain.QuestDefinition{validQuest("q1")}},
		},
		{
			name: "valid quest and challenge",
			config: &Config{Quests: []*domain.QuestDefinition{
				validQuest("q1"),
				{
					ID:         "c1",
					Name:       "Challenge",
					Kind:       domain.QuestKindChallenge,
					XPReward:   100,
					GoldReward: 50,
					SenderID:   "user-2",
				},
			}},
		},
		{
			name:    "empty catalog",
			config:  &Config{},
			wantErr: "at least one quest",
		},
		{
			name: "duplicate quest ID",
			config: &Config{Quests: []*domain.QuestDefinition{
				validQuest("q1"),
				validQuest("q1"),
			}},
			wantErr: "duplicate quest ID",
		},
		{
			name: "missing quest ID",
			config: &Config{Quests: []*domain.QuestDefinition{
				{Name: "No ID", Kind: domain.QuestKindQuest},
			}},
			wantErr: "quest ID is required",
		},
		{
			name: "missing name",
			config: &Config{Quests: []*domain.QuestDefinition{
				{ID: "q1", Kind: domain.QuestKindQuest},
			}},
			wantErr: "quest name is required",
		},
		{
			name: "invalid kind",
			config: &Config{Quests: []*domain.QuestDefinition{
				{ID: "q1", Name: "Quest", Kind: domain.QuestKind("habit")},
			}},
			wantErr: "invalid kind",
		},
		{
			name: "negative xp reward",
			config: &Config{Quests: []*domain.QuestDefinition{
				{ID: "q1", Name: "Quest", Kind: domain.QuestKindQuest, XPReward: -1},
			}},
			wantErr: "xp_reward must be non-negative",
		},
		{
			name: "negative gold reward",
			config: &Config{Quests: []*domain.QuestDefinition{
				{ID: "q1", Name: "Quest", Kind: domain.QuestKindQuest, GoldReward: -5},
			}},
			wantErr: "gold_reward must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.config)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
