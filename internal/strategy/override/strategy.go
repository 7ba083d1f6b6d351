// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package override

import (
	"fmt"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/strategy"
)

// Name is the registered strategy name.
const Name = "override"

// Strategy turns an externally supplied identifier-to-value table into
// maximal-priority proposals. Overrides are explicit corrections, never
// silent rewrites: they enter fusion as a regular (authoritative) strategy
// so they always appear in a record's contributing strategies.
type Strategy struct {
	table map[string]float64
}

// New creates the strategy over a correction table. A nil or empty table
// yields a strategy that proposes nothing.
func New(table map[string]float64) *Strategy {
	return &Strategy{table: table}
}

// Name implements strategy.Strategy.
func (s *Strategy) Name() string { return Name }

// Propose implements strategy.Strategy.
func (s *Strategy) Propose(matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, error) {
	if len(s.table) == 0 {
		return nil, nil
	}

	var proposals []extract.StrategyProposal
	for _, m := range strategy.DedupeMatches(matches) {
		value, ok := s.table[m.Code]
		if !ok {
			continue
		}
		proposals = append(proposals, extract.StrategyProposal{
			IdentifierCode:  m.Code,
			Value:           value,
			Confidence:      1.0,
			StrategyName:    Name,
			SourceLineIndex: m.LineIndex,
			Reasoning:       fmt.Sprintf("external override for %s", m.Code),
			Authoritative:   true,
		})
	}

	return proposals, nil
}
