// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package overrides

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Rule is one externally supplied identifier-to-value correction, with the
// bookkeeping needed to audit and retire it. Overrides are configuration,
// not derived state: nothing in the pipeline ever writes one implicitly.
type Rule struct {
	ID         string     `yaml:"id"`
	Identifier string     `yaml:"identifier"`
	Value      float64    `yaml:"value"`
	Reason     string     `yaml:"reason"`
	Enabled    bool       `yaml:"enabled"`
	CreatedBy  string     `yaml:"created_by,omitempty"`
	CreatedAt  time.Time  `yaml:"created_at"`
	ExpiresAt  *time.Time `yaml:"expires_at,omitempty"`
}

// Config represents the override configuration file.
type Config struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Manager loads and serves override rules.
type Manager struct {
	configPath string
	config     *Config
}

// NewManager creates an override manager. A missing or unreadable file
// yields an empty rule set: overrides are optional input, and their absence
// is not an error.
func NewManager(configPath string) *Manager {
	m := &Manager{configPath: configPath}
	m.loadConfig()
	return m
}

// loadConfig loads the override configuration.
func (m *Manager) loadConfig() {
	m.config = &Config{Version: "1.0"}
	if m.configPath == "" {
		return
	}

	cleanPath := filepath.Clean(m.configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return
	}
	m.config = &config
}

// Table returns the active identifier-to-value map: enabled, unexpired
// rules only. Later rules for the same identifier win, so a file can be
// appended to without editing history.
func (m *Manager) Table() map[string]float64 {
	table := make(map[string]float64)
	now := time.Now()
	for _, rule := range m.config.Rules {
		if !rule.Enabled {
			continue
		}
		if rule.ExpiresAt != nil && now.After(*rule.ExpiresAt) {
			continue
		}
		table[rule.Identifier] = rule.Value
	}
	return table
}

// Rules returns a copy of all loaded rules, active or not.
func (m *Manager) Rules() []Rule {
	out := make([]Rule, len(m.config.Rules))
	copy(out, m.config.Rules)
	return out
}

// Add appends a new override rule with a sequential ID.
func (m *Manager) Add(identifier string, value float64, reason, createdBy string, expiresAt *time.Time) (*Rule, error) {
	for _, rule := range m.config.Rules {
		if rule.Identifier == identifier && rule.Enabled {
			return nil, fmt.Errorf("an enabled override already exists for %s", identifier)
		}
	}

	maxID := 0
	for _, existing := range m.config.Rules {
		var num int
		if _, err := fmt.Sscanf(existing.ID, "OVR-%08d", &num); err == nil && num > maxID {
			maxID = num
		}
	}

	rule := Rule{
		ID:         fmt.Sprintf("OVR-%08d", maxID+1),
		Identifier: identifier,
		Value:      value,
		Reason:     reason,
		Enabled:    true,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
		ExpiresAt:  expiresAt,
	}
	m.config.Rules = append(m.config.Rules, rule)
	return &rule, nil
}

// Remove deletes a rule by ID.
func (m *Manager) Remove(id string) error {
	for i, rule := range m.config.Rules {
		if rule.ID == id {
			m.config.Rules = append(m.config.Rules[:i], m.config.Rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("override rule not found: %s", id)
}

// CleanupExpired removes every expired rule and returns how many were
// dropped.
func (m *Manager) CleanupExpired() int {
	now := time.Now()
	kept := m.config.Rules[:0]
	removed := 0
	for _, rule := range m.config.Rules {
		if rule.ExpiresAt != nil && now.After(*rule.ExpiresAt) {
			removed++
			continue
		}
		kept = append(kept, rule)
	}
	m.config.Rules = kept
	return removed
}

// Save writes the rule set back to the configured path.
func (m *Manager) Save() error {
	if m.configPath == "" {
		return fmt.Errorf("no override file path configured")
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("error marshaling overrides: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(m.configPath), data, 0o600); err != nil {
		return fmt.Errorf("error writing override file: %w", err)
	}
	return nil
}
