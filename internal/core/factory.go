// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"

	"statement-scan/internal/config"
	"statement-scan/internal/strategy"
	"statement-scan/internal/strategy/contextwindow"
	"statement-scan/internal/strategy/fixedoffset"
	"statement-scan/internal/strategy/rowadjacency"
	"statement-scan/internal/strategy/template"
)

// BuildStrategySet constructs the standard set of strategies filtered by
// the enabled map and tuned from the config. The override pseudo-strategy
// is not part of the set; the pipeline injects it when an override table is
// present.
func BuildStrategySet(enabled map[string]bool, cfg *config.Config) ([]strategy.Strategy, error) {
	var result []strategy.Strategy

	if enabled[fixedoffset.Name] {
		result = append(result, fixedoffset.New(
			cfg.Strategies.FixedOffset.Offset,
			cfg.Strategies.FixedOffset.Validated,
		))
	}
	if enabled[contextwindow.Name] {
		result = append(result, contextwindow.New(
			cfg.Strategies.ContextWindow.Window,
			cfg.Validation.PlausibleMin,
			cfg.Validation.PlausibleMax,
		))
	}
	if enabled[template.Name] {
		var specs []template.Spec
		for _, t := range cfg.Strategies.Template.Templates {
			specs = append(specs, template.Spec{Name: t.Name, Pattern: t.Pattern})
		}
		s, err := template.New(specs)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if enabled[rowadjacency.Name] {
		s := rowadjacency.New()
		if cfg.Strategies.RowAdjacency.NeighborRows > 0 {
			s.NeighborRows = cfg.Strategies.RowAdjacency.NeighborRows
		}
		result = append(result, s)
	}

	return result, nil
}

// ParseStrategiesToRun converts a comma-separated strategy list into an
// enabled-strategies map. An empty string or "all" enables every strategy.
func ParseStrategiesToRun(strategies string) map[string]bool {
	result := map[string]bool{
		fixedoffset.Name:   false,
		contextwindow.Name: false,
		template.Name:      false,
		rowadjacency.Name:  false,
	}

	if strategies == "" || strategies == "all" {
		for key := range result {
			result[key] = true
		}
		return result
	}

	for _, name := range strings.Split(strategies, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(name)); trimmed != "" {
			if _, exists := result[trimmed]; exists {
				result[trimmed] = true
			}
		}
	}

	return result
}

// ParseConfidenceLevels converts a comma-separated confidence level string
// into a map. "all" or empty string enables every level.
func ParseConfidenceLevels(levels string) map[string]bool {
	result := map[string]bool{
		"high":   false,
		"medium": false,
		"low":    false,
	}

	if levels == "all" || levels == "" {
		result["high"] = true
		result["medium"] = true
		result["low"] = true
		return result
	}

	for _, level := range strings.Split(levels, ",") {
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "high", "medium", "low":
			result[strings.ToLower(strings.TrimSpace(level))] = true
		}
	}

	return result
}
