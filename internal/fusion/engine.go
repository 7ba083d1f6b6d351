// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fusion

import (
	"math"
	"sort"

	"statement-scan/internal/extract"
)

// SecurityRecord is the fused, authoritative answer for one identifier.
// Alternatives keep every losing proposal for auditability; nothing is
// discarded at fusion time.
type SecurityRecord struct {
	IdentifierCode         string                     `json:"identifier_code"`
	Name                   string                     `json:"name,omitempty"`
	Value                  *float64                   `json:"value"`
	Currency               string                     `json:"currency,omitempty"`
	Confidence             float64                    `json:"confidence"`
	ContributingStrategies []string                   `json:"contributing_strategies"`
	Alternatives           []extract.StrategyProposal `json:"alternatives,omitempty"`

	// NeedsReview marks identifiers no strategy could resolve. They are
	// emitted with an unset value instead of being dropped.
	NeedsReview bool `json:"needs_review,omitempty"`

	// OutOfBand marks values outside the plausible band. Set by the
	// validator; the value itself is never rewritten.
	OutOfBand bool `json:"out_of_band,omitempty"`
}

// FusionResult is the full output of one pipeline run.
type FusionResult struct {
	Records     []SecurityRecord `json:"records"`
	RecordCount int              `json:"record_count"`
	TotalValue  float64          `json:"total_value"`

	// AccuracyAgainstExpected is only present when the caller supplied an
	// expected total: min(total, expected) / max(total, expected).
	AccuracyAgainstExpected *float64 `json:"accuracy_against_expected,omitempty"`

	FlaggedCount int `json:"flagged_count,omitempty"`

	// StrategyErrors records strategies that failed and were excluded.
	StrategyErrors map[string]string `json:"strategy_errors,omitempty"`
}

// Config controls conflict resolution.
type Config struct {
	// Priorities ranks strategies for confidence ties; lower wins. Unknown
	// strategies sort after every configured one.
	Priorities map[string]int

	// Tolerance is the relative difference under which two proposals are
	// considered to agree on a value.
	Tolerance float64

	// DisagreementPenalty scales the confidence discount applied when
	// contributing strategies disagree with the winner.
	DisagreementPenalty float64

	// CorroborationBoost is added per agreeing strategy, offsetting the
	// disagreement discount. The result is always capped at the winner's
	// own confidence, which keeps the record-confidence bound.
	CorroborationBoost float64
}

// DefaultConfig returns the standard fusion parameters. The default
// priority order reflects how specific each heuristic is.
func DefaultConfig() Config {
	return Config{
		Priorities: map[string]int{
			"override":       0,
			"template":       1,
			"fixed-offset":   2,
			"row-adjacency":  3,
			"context-window": 4,
		},
		Tolerance:           0.005,
		DisagreementPenalty: 0.25,
		CorroborationBoost:  0.10,
	}
}

// Engine merges per-strategy proposals into one record per identifier.
type Engine struct {
	config Config
}

// NewEngine creates a fusion engine. Zero-valued config fields fall back to
// defaults.
func NewEngine(config Config) *Engine {
	def := DefaultConfig()
	if config.Priorities == nil {
		config.Priorities = def.Priorities
	}
	if config.Tolerance == 0 {
		config.Tolerance = def.Tolerance
	}
	if config.DisagreementPenalty == 0 {
		config.DisagreementPenalty = def.DisagreementPenalty
	}
	if config.CorroborationBoost == 0 {
		config.CorroborationBoost = def.CorroborationBoost
	}
	return &Engine{config: config}
}

// Fuse produces exactly one record per distinct identifier code, in order
// of first appearance. Identifiers with no proposals are emitted as
// needs-review records, never silently dropped.
func (e *Engine) Fuse(matches []extract.IdentifierMatch, proposals []extract.StrategyProposal) *FusionResult {
	byCode := make(map[string][]extract.StrategyProposal)
	for _, p := range proposals {
		byCode[p.IdentifierCode] = append(byCode[p.IdentifierCode], p)
	}

	// First occurrence per code anchors record order and enrichment context.
	var order []string
	anchor := make(map[string]extract.IdentifierMatch)
	for _, m := range matches {
		if _, seen := anchor[m.Code]; !seen {
			anchor[m.Code] = m
			order = append(order, m.Code)
		}
	}

	result := &FusionResult{}
	for _, code := range order {
		record := e.fuseOne(code, anchor[code], byCode[code])
		result.Records = append(result.Records, record)
	}
	result.RecordCount = len(result.Records)
	return result
}

// fuseOne resolves a single identifier.
func (e *Engine) fuseOne(code string, anchor extract.IdentifierMatch, proposals []extract.StrategyProposal) SecurityRecord {
	record := SecurityRecord{
		IdentifierCode: code,
		Name:           InferName(anchor.Context),
		Currency:       InferCurrency(anchor.Context),
	}

	if len(proposals) == 0 {
		record.NeedsReview = true
		return record
	}

	sorted := make([]extract.StrategyProposal, len(proposals))
	copy(sorted, proposals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		pi, pj := e.priority(sorted[i].StrategyName), e.priority(sorted[j].StrategyName)
		if pi != pj {
			return pi < pj
		}
		return sorted[i].StrategyName < sorted[j].StrategyName
	})

	winner := sorted[0]
	record.Value = &winner.Value
	record.Alternatives = sorted[1:]
	record.ContributingStrategies = []string{winner.StrategyName}
	record.Confidence = winner.Confidence

	if len(sorted) > 1 && !winner.Authoritative {
		agree, disagree := 0, 0
		for _, other := range sorted[1:] {
			if valuesAgree(winner.Value, other.Value, e.config.Tolerance) {
				agree++
				record.ContributingStrategies = append(record.ContributingStrategies, other.StrategyName)
			} else {
				disagree++
			}
		}

		// Corroboration boosts confidence back toward the winner's own
		// score; disagreement discounts it. The cap at winner confidence
		// preserves the invariant that a record never scores above its
		// best contributing proposal.
		discounted := winner.Confidence * (1 - e.config.DisagreementPenalty*float64(disagree)/float64(agree+disagree))
		boosted := discounted + e.config.CorroborationBoost*float64(agree)
		record.Confidence = extract.ClampConfidence(math.Min(boosted, winner.Confidence))
	}

	return record
}

func (e *Engine) priority(name string) int {
	if p, ok := e.config.Priorities[name]; ok {
		return p
	}
	return len(e.config.Priorities) + 1
}

func valuesAgree(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return true
	}
	return math.Abs(a-b)/larger <= tolerance
}
