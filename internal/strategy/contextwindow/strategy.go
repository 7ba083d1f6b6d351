// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package contextwindow

import (
	"fmt"
	"math"
	"sort"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/strategy"
)

// Name is the registered strategy name.
const Name = "context-window"

// Strategy scores every value candidate inside a symmetric window of lines
// around each identifier and proposes the best one. Scoring is an explicit
// function of three signals so each term is testable on its own:
//
//	score = base
//	      + grammarWeight   * (grammar constraint rank / max rank)
//	      + plausibleWeight * (1 if value inside the plausible band)
//	      + proximityWeight / (1 + line distance)
//
// The result is clamped to [0,1] and lands in the medium band for typical
// statements.
type Strategy struct {
	// Window is the number of lines scanned on each side of the identifier.
	Window int

	// PlausibleMin and PlausibleMax bound the range a market value is
	// expected to fall in for this document family.
	PlausibleMin float64
	PlausibleMax float64
}

const (
	baseScore       = 0.30
	grammarWeight   = 0.20
	plausibleWeight = 0.15
	proximityWeight = 0.20
)

// New creates the strategy with the given window size and plausible band.
func New(window int, plausibleMin, plausibleMax float64) *Strategy {
	return &Strategy{Window: window, PlausibleMin: plausibleMin, PlausibleMax: plausibleMax}
}

// Name implements strategy.Strategy.
func (s *Strategy) Name() string { return Name }

// Propose implements strategy.Strategy.
func (s *Strategy) Propose(matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, error) {
	var proposals []extract.StrategyProposal

	for _, m := range strategy.DedupeMatches(matches) {
		var windowed []extract.ValueCandidate
		for _, c := range candidates {
			if dist(c.LineIndex, m.LineIndex) <= s.Window {
				windowed = append(windowed, c)
			}
		}
		if len(windowed) == 0 {
			continue
		}

		best, score := s.bestScored(windowed, m.LineIndex)
		proposals = append(proposals, extract.StrategyProposal{
			IdentifierCode:  m.Code,
			Value:           best.Value,
			Confidence:      extract.ClampConfidence(score),
			StrategyName:    Name,
			SourceLineIndex: best.LineIndex,
			Reasoning: fmt.Sprintf("best of %d candidates within %d lines (grammar %s, distance %d)",
				len(windowed), s.Window, best.Format, dist(best.LineIndex, m.LineIndex)),
		})
	}

	return proposals, nil
}

// bestScored returns the highest scoring candidate. Score ties fall back to
// the shared tie-break so results stay deterministic.
func (s *Strategy) bestScored(candidates []extract.ValueCandidate, identifierLine int) (extract.ValueCandidate, float64) {
	type scored struct {
		cand  extract.ValueCandidate
		score float64
	}

	all := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		all = append(all, scored{c, s.Score(c, identifierLine)})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		ri, rj := all[i].cand.Format.ConstraintRank(), all[j].cand.Format.ConstraintRank()
		if ri != rj {
			return ri > rj
		}
		di := dist(all[i].cand.LineIndex, identifierLine)
		dj := dist(all[j].cand.LineIndex, identifierLine)
		if di != dj {
			return di < dj
		}
		return math.Abs(all[i].cand.Value) > math.Abs(all[j].cand.Value)
	})

	return all[0].cand, all[0].score
}

// Score computes the documented scoring function for a single candidate.
// Exported so the scoring rules themselves are unit-testable.
func (s *Strategy) Score(c extract.ValueCandidate, identifierLine int) float64 {
	score := baseScore
	score += grammarWeight * float64(c.Format.ConstraintRank()) / 4.0
	if c.Value >= s.PlausibleMin && c.Value <= s.PlausibleMax {
		score += plausibleWeight
	}
	score += proximityWeight / float64(1+dist(c.LineIndex, identifierLine))
	return score
}

func dist(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
