package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

// ConfigLoader loads and validates the quest catalog from a JSON file.
// It performs file reading, JSON parsing, and comprehensive validation.
type ConfigLoader struct {
	configPath string
	validator  *Validator
	logger     *slog.Logger
}

// NewConfigLoader creates a new ConfigLoader instance.
//
// Parameters:
//   - configPath: Path to the quests.json file
//   - logger: Structured logger for operational logging
func NewConfigLoader(configPath string, logger *slog.Logger) *ConfigLoader {
	return &ConfigLoader{
		configPath: configPath,
		validator:  NewValidator(),
		logger:     logger,
	}
}

// LoadConfig loads the catalog file and returns a validated Config.
// This is a "fail fast" operation - an invalid catalog prevents startup.
//
// Steps:
// 1. Read the config file from disk
// 2. Parse JSON into Config struct
// 3. Default missing kinds to "quest" (backward compatibility)
// 4. Validate all business rules
func (l *ConfigLoader) LoadConfig() (*Config, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Backward compatibility: catalogs written before challenges existed
	// carry no kind field.
	for _, quest := range config.Quests {
		if quest.Kind == "" {
			quest.Kind = domain.QuestKindQuest
		}
	}

	if err := l.validator.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	l.logger.Info("Quest catalog loaded successfully",
		"quests", len(config.Quests),
		"config_path", l.configPath,
	)

	return &config, nil
}
