// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategy

import (
	"math"
	"sort"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
)

// Strategy is one independent heuristic for correlating identifiers with
// market values. Implementations must be stateless across calls: the runner
// may execute them concurrently on the same inputs.
//
// Propose returns at most one proposal per identifier code. A strategy that
// has no usable signal for an identifier returns nothing for it rather than
// guessing; returning an error marks the whole strategy run as failed and
// excludes it from fusion without aborting the pipeline.
type Strategy interface {
	Name() string
	Propose(matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, error)
}

// CandidatesByLine indexes value candidates by their line for O(1) offset
// and window lookups.
func CandidatesByLine(candidates []extract.ValueCandidate) map[int][]extract.ValueCandidate {
	byLine := make(map[int][]extract.ValueCandidate)
	for _, c := range candidates {
		byLine[c.LineIndex] = append(byLine[c.LineIndex], c)
	}
	return byLine
}

// PickBest applies the shared within-strategy tie-break to a candidate set:
// most constrained grammar first, then smallest line distance from the
// identifier, then larger magnitude (fee and unit figures run much smaller
// than market values in this domain).
func PickBest(candidates []extract.ValueCandidate, identifierLine int) (extract.ValueCandidate, bool) {
	if len(candidates) == 0 {
		return extract.ValueCandidate{}, false
	}

	sorted := make([]extract.ValueCandidate, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Format.ConstraintRank(), sorted[j].Format.ConstraintRank()
		if ri != rj {
			return ri > rj
		}
		di := lineDistance(sorted[i].LineIndex, identifierLine)
		dj := lineDistance(sorted[j].LineIndex, identifierLine)
		if di != dj {
			return di < dj
		}
		return math.Abs(sorted[i].Value) > math.Abs(sorted[j].Value)
	})

	return sorted[0], true
}

func lineDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// DedupeMatches keeps the first occurrence per identifier code, preserving
// document order. Strategies that want one anchor per code use this; the
// full occurrence list still flows to fusion via the locator output.
func DedupeMatches(matches []extract.IdentifierMatch) []extract.IdentifierMatch {
	seen := make(map[string]bool, len(matches))
	var out []extract.IdentifierMatch
	for _, m := range matches {
		if seen[m.Code] {
			continue
		}
		seen[m.Code] = true
		out = append(out, m)
	}
	return out
}
