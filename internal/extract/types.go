// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

// ContextInfo stores the text surrounding an identifier match. Strategies use
// it for keyword scoring and name/currency enrichment.
type ContextInfo struct {
	// Lines before and after the match line, nearest first
	BeforeLines []string
	AfterLines  []string

	// Line containing the match
	FullLine string

	// Text on the match line before and after the identifier itself
	BeforeText string
	AfterText  string
}

// IdentifierMatch is one occurrence of a security identifier code in a
// document. An identifier may legitimately repeat (table continuations,
// summary rows); every occurrence is kept and duplicates are resolved at
// fusion time, not here.
type IdentifierMatch struct {
	Code      string
	LineIndex int
	Context   ContextInfo
}

// LocaleFormat identifies the numeric grammar a value candidate was parsed
// with. More constrained grammars rank higher in tie-breaks.
type LocaleFormat string

const (
	// LocaleSwissApostrophe is apostrophe grouping with period decimals: 1'234'567.89
	LocaleSwissApostrophe LocaleFormat = "swiss-apostrophe"
	// LocaleEuroComma is period grouping with comma decimals: 1.234.567,89
	LocaleEuroComma LocaleFormat = "euro-comma"
	// LocaleUSComma is comma grouping with period decimals: 1,234,567.89
	LocaleUSComma LocaleFormat = "us-comma"
	// LocalePlain is an ungrouped number with optional period decimals: 1234567.89
	LocalePlain LocaleFormat = "plain"
)

// ConstraintRank orders grammars by how constrained they are. Higher values
// are harder to match by accident and win same-strategy tie-breaks.
func (f LocaleFormat) ConstraintRank() int {
	switch f {
	case LocaleSwissApostrophe:
		return 4
	case LocaleEuroComma:
		return 3
	case LocaleUSComma:
		return 2
	case LocalePlain:
		return 1
	default:
		return 0
	}
}

// ValueCandidate is a numeric token parsed from a document line. Candidates
// are cheap to over-generate; strategies decide which ones matter.
type ValueCandidate struct {
	Raw        string
	Value      float64
	Format     LocaleFormat
	LineIndex  int
	ColumnHint int // byte offset of the token within its line
}

// StrategyProposal is one strategy's answer for one identifier: exactly zero
// or one proposal per identifier per strategy invocation.
type StrategyProposal struct {
	IdentifierCode  string  `json:"identifier_code"`
	Value           float64 `json:"value"`
	Confidence      float64 `json:"confidence"`
	StrategyName    string  `json:"strategy"`
	SourceLineIndex int     `json:"source_line_index"`
	Reasoning       string  `json:"reasoning"`

	// Authoritative marks proposals from the external override table. They
	// bypass fusion discounts and always keep their stated confidence.
	Authoritative bool `json:"authoritative,omitempty"`
}

// ClampConfidence bounds a confidence score to [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
