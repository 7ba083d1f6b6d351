// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rowadjacency

import (
	"fmt"
	"regexp"
	"strings"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/strategy"
)

// Name is the registered strategy name.
const Name = "row-adjacency"

// Strategy treats the document as a virtual table: the value for an
// identifier is picked from the identifier's own row using column alignment
// cues. Confidence depends on how regular the table is around the row; a
// run of neighbor rows with the same column count is a strong cue that the
// layout really is tabular.
type Strategy struct {
	// NeighborRows is how many rows on each side are inspected for column
	// regularity.
	NeighborRows int
}

const (
	confidenceBase   = 0.55
	regularityBonus  = 0.10
	defaultNeighbors = 2
	minRowColumns    = 2
)

// Columns are separated by runs of two or more spaces, tabs, or pipes, the
// delimiters produced by layout-preserving text extraction.
var columnDelimiter = regexp.MustCompile(`\s{2,}|\t+|\s*\|\s*`)

// New creates the strategy.
func New() *Strategy {
	return &Strategy{NeighborRows: defaultNeighbors}
}

// Name implements strategy.Strategy.
func (s *Strategy) Name() string { return Name }

// Propose implements strategy.Strategy.
func (s *Strategy) Propose(matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, error) {
	byLine := strategy.CandidatesByLine(candidates)

	var proposals []extract.StrategyProposal
	for _, m := range strategy.DedupeMatches(matches) {
		rowCandidates := byLine[m.LineIndex]
		if len(rowCandidates) == 0 {
			continue
		}

		cols := SplitColumns(doc.LineText(m.LineIndex))
		if len(cols) < minRowColumns {
			// Single-column line: no table structure to exploit.
			continue
		}

		// Market value is the rightmost numeric column in every tabular
		// family seen; prefer the candidate furthest into the row, with the
		// shared tie-break on equal columns.
		best := rowCandidates[0]
		for _, c := range rowCandidates[1:] {
			if c.ColumnHint > best.ColumnHint {
				best = c
			} else if c.ColumnHint == best.ColumnHint {
				if picked, ok := strategy.PickBest([]extract.ValueCandidate{best, c}, m.LineIndex); ok {
					best = picked
				}
			}
		}

		confidence := confidenceBase
		if s.isRegular(doc, m.LineIndex, len(cols)) {
			confidence += regularityBonus
		}

		proposals = append(proposals, extract.StrategyProposal{
			IdentifierCode:  m.Code,
			Value:           best.Value,
			Confidence:      extract.ClampConfidence(confidence),
			StrategyName:    Name,
			SourceLineIndex: m.LineIndex,
			Reasoning:       fmt.Sprintf("rightmost of %d numeric columns in a %d-column row", len(rowCandidates), len(cols)),
		})
	}

	return proposals, nil
}

// SplitColumns splits a table row into trimmed, non-empty cells.
func SplitColumns(line string) []string {
	var cols []string
	for _, c := range columnDelimiter.Split(strings.TrimSpace(line), -1) {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// isRegular reports whether at least one neighbor row shares the row's
// column count, the cue that the surrounding lines form a real table.
func (s *Strategy) isRegular(doc *document.Document, lineIndex, columns int) bool {
	for d := 1; d <= s.NeighborRows; d++ {
		for _, idx := range []int{lineIndex - d, lineIndex + d} {
			text := doc.LineText(idx)
			if strings.TrimSpace(text) == "" {
				continue
			}
			if len(SplitColumns(text)) == columns {
				return true
			}
		}
	}
	return false
}
