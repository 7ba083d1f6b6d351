// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"statement-scan/internal/paths"
)

// Config represents the application configuration. Heuristic variants
// (offsets, window sizes, templates) are configuration, not separate code
// paths; document families are expressed as profiles over the same
// strategy set.
type Config struct {
	// Default settings
	Defaults struct {
		Format           string  `yaml:"format"`
		ConfidenceLevels string  `yaml:"confidence_levels"`
		Strategies       string  `yaml:"strategies"`
		MinMagnitude     float64 `yaml:"min_magnitude"`
		Verbose          bool    `yaml:"verbose"`
		Debug            bool    `yaml:"debug"`
		NoColor          bool    `yaml:"no_color"`
		Recursive        bool    `yaml:"recursive"`
		OverridesFile    string  `yaml:"overrides_file"`
	} `yaml:"defaults"`

	// Per-strategy tuning
	Strategies StrategySettings `yaml:"strategy_settings"`

	// Fusion conflict resolution
	Fusion FusionSettings `yaml:"fusion"`

	// Plausibility validation
	Validation ValidationSettings `yaml:"validation"`

	// Profiles for different document families
	Profiles map[string]Profile `yaml:"profiles"`
}

// StrategySettings holds the tunable parameters of each strategy.
type StrategySettings struct {
	FixedOffset struct {
		Offset    int  `yaml:"offset"`
		Validated bool `yaml:"validated"`
	} `yaml:"fixed_offset"`

	ContextWindow struct {
		Window int `yaml:"window"`
	} `yaml:"context_window"`

	Template struct {
		Templates []TemplateSpec `yaml:"templates"`
	} `yaml:"template"`

	RowAdjacency struct {
		NeighborRows int `yaml:"neighbor_rows"`
	} `yaml:"row_adjacency"`
}

// TemplateSpec is a configurable compound line template.
type TemplateSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// FusionSettings controls how conflicting proposals are resolved.
type FusionSettings struct {
	// PriorityOrder ranks strategies for confidence ties, highest priority
	// first. No strategy always wins: priority only breaks ties.
	PriorityOrder []string `yaml:"priority_order"`

	Tolerance           float64 `yaml:"tolerance"`
	DisagreementPenalty float64 `yaml:"disagreement_penalty"`
	CorroborationBoost  float64 `yaml:"corroboration_boost"`
}

// PriorityMap converts the ordered list into the rank map fusion consumes.
func (f FusionSettings) PriorityMap() map[string]int {
	if len(f.PriorityOrder) == 0 {
		return nil
	}
	m := make(map[string]int, len(f.PriorityOrder))
	for i, name := range f.PriorityOrder {
		m[name] = i
	}
	return m
}

// ValidationSettings bounds the plausible band for a single position.
type ValidationSettings struct {
	PlausibleMin float64 `yaml:"plausible_min"`
	PlausibleMax float64 `yaml:"plausible_max"`
}

// Profile represents a document-family profile with specific settings.
type Profile struct {
	Description      string              `yaml:"description"`
	Format           string              `yaml:"format"`
	ConfidenceLevels string              `yaml:"confidence_levels"`
	Strategies       string              `yaml:"strategies"`
	MinMagnitude     float64             `yaml:"min_magnitude"`
	StrategySettings *StrategySettings   `yaml:"strategy_settings,omitempty"`
	Fusion           *FusionSettings     `yaml:"fusion,omitempty"`
	Validation       *ValidationSettings `yaml:"validation,omitempty"`
}

// LoadConfig loads configuration from the specified file path.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.ConfidenceLevels = "all"
	config.Defaults.Strategies = "all"
	config.Defaults.MinMagnitude = 100
	config.Strategies.FixedOffset.Offset = 2
	config.Strategies.ContextWindow.Window = 5
	config.Strategies.RowAdjacency.NeighborRows = 2
	config.Fusion.PriorityOrder = []string{"override", "template", "fixed-offset", "row-adjacency", "context-window"}
	config.Fusion.Tolerance = 0.005
	config.Fusion.DisagreementPenalty = 0.25
	config.Fusion.CorroborationBoost = 0.10
	config.Validation.PlausibleMin = 100
	config.Validation.PlausibleMax = 1e8

	// Built-in profile for Swiss custody statements, the family the fixed
	// offset has been validated against.
	config.Profiles["swiss-custody"] = Profile{
		Description: "Swiss custody statements: apostrophe grouping, value two lines below the identifier",
		StrategySettings: &StrategySettings{
			FixedOffset: struct {
				Offset    int  `yaml:"offset"`
				Validated bool `yaml:"validated"`
			}{Offset: 2, Validated: true},
			ContextWindow: struct {
				Window int `yaml:"window"`
			}{Window: 5},
			RowAdjacency: struct {
				NeighborRows int `yaml:"neighbor_rows"`
			}{NeighborRows: 2},
		},
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ApplyProfile overlays a named profile's non-zero settings onto the
// config's defaults, returning an error for unknown profile names.
func (c *Config) ApplyProfile(name string) error {
	if name == "" {
		return nil
	}
	profile, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile: %s", name)
	}

	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.ConfidenceLevels != "" {
		c.Defaults.ConfidenceLevels = profile.ConfidenceLevels
	}
	if profile.Strategies != "" {
		c.Defaults.Strategies = profile.Strategies
	}
	if profile.MinMagnitude != 0 {
		c.Defaults.MinMagnitude = profile.MinMagnitude
	}
	if profile.StrategySettings != nil {
		c.Strategies = *profile.StrategySettings
	}
	if profile.Fusion != nil {
		c.Fusion = *profile.Fusion
	}
	if profile.Validation != nil {
		c.Validation = *profile.Validation
	}
	return nil
}

// ValidateConfig checks configuration consistency.
func ValidateConfig(config *Config) error {
	if config.Defaults.MinMagnitude < 0 {
		return fmt.Errorf("min_magnitude must be non-negative")
	}
	if config.Fusion.Tolerance < 0 || config.Fusion.Tolerance > 1 {
		return fmt.Errorf("fusion tolerance must be in [0,1]")
	}
	if config.Fusion.DisagreementPenalty < 0 || config.Fusion.DisagreementPenalty > 1 {
		return fmt.Errorf("fusion disagreement_penalty must be in [0,1]")
	}
	if config.Validation.PlausibleMax != 0 && config.Validation.PlausibleMin > config.Validation.PlausibleMax {
		return fmt.Errorf("validation plausible_min exceeds plausible_max")
	}
	for name, profile := range config.Profiles {
		if profile.Fusion != nil {
			if profile.Fusion.Tolerance < 0 || profile.Fusion.Tolerance > 1 {
				return fmt.Errorf("profile %s: fusion tolerance must be in [0,1]", name)
			}
		}
	}
	return nil
}

// FindConfigFile looks for a configuration file in standard locations:
// the working directory first, then the per-user config directory.
func FindConfigFile() string {
	candidates := []string{
		".statement-scan.yaml",
		".statement-scan.yml",
		paths.GetConfigFile(),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".statement-scan.yaml"),
		)
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
