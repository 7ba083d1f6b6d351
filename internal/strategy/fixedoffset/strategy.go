// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fixedoffset

import (
	"fmt"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/strategy"
)

// Name is the registered strategy name.
const Name = "fixed-offset"

// Strategy proposes the value candidate found at a document-wide constant
// line offset from each identifier. The offset is tuned per document family
// via profiles; a family whose offset has been empirically validated gets
// the higher confidence base.
type Strategy struct {
	// Offset is the line distance from identifier to value (positive means
	// below the identifier line).
	Offset int

	// Validated marks the offset as empirically confirmed for this
	// document family.
	Validated bool

	// Slack permits a one-line miss at reduced confidence. Zero disables
	// the fallback.
	Slack int
}

const (
	confidenceValidated = 0.85
	confidenceTuned     = 0.70
	slackPenalty        = 0.25
)

// New creates the strategy with the family-tuned offset.
func New(offset int, validated bool) *Strategy {
	return &Strategy{Offset: offset, Validated: validated, Slack: 1}
}

// Name implements strategy.Strategy.
func (s *Strategy) Name() string { return Name }

// Propose implements strategy.Strategy.
func (s *Strategy) Propose(matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, error) {
	byLine := strategy.CandidatesByLine(candidates)

	var proposals []extract.StrategyProposal
	for _, m := range strategy.DedupeMatches(matches) {
		target := m.LineIndex + s.Offset

		if best, ok := strategy.PickBest(byLine[target], m.LineIndex); ok {
			proposals = append(proposals, s.proposal(m, best, 0))
			continue
		}

		// Offset missed: look one line either side at reduced confidence.
		if s.Slack > 0 {
			var nearby []extract.ValueCandidate
			for d := 1; d <= s.Slack; d++ {
				nearby = append(nearby, byLine[target-d]...)
				nearby = append(nearby, byLine[target+d]...)
			}
			if best, ok := strategy.PickBest(nearby, m.LineIndex); ok {
				proposals = append(proposals, s.proposal(m, best, slackPenalty))
			}
		}
	}

	return proposals, nil
}

func (s *Strategy) proposal(m extract.IdentifierMatch, c extract.ValueCandidate, penalty float64) extract.StrategyProposal {
	base := confidenceTuned
	if s.Validated {
		base = confidenceValidated
	}
	return extract.StrategyProposal{
		IdentifierCode:  m.Code,
		Value:           c.Value,
		Confidence:      extract.ClampConfidence(base - penalty),
		StrategyName:    Name,
		SourceLineIndex: c.LineIndex,
		Reasoning:       fmt.Sprintf("candidate %q at line offset %+d from identifier", c.Raw, c.LineIndex-m.LineIndex),
	}
}
