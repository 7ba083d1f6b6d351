// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"statement-scan/internal/document"
)

// DefaultMinMagnitude filters out page numbers, percentages and small counts.
// Candidates are cheap to over-generate but values this small are noise in
// every statement family we have seen.
const DefaultMinMagnitude = 100.0

// Extractor scans document lines for numeric tokens and parses them against
// the supported locale grammars. A token that matches no grammar is skipped;
// extraction never fails on malformed input.
type Extractor struct {
	MinMagnitude float64
}

// NewExtractor creates an extractor with the default magnitude filter.
func NewExtractor() *Extractor {
	return &Extractor{MinMagnitude: DefaultMinMagnitude}
}

// WithMinMagnitude overrides the minimum absolute value a candidate must
// reach. Zero disables the filter.
func (e *Extractor) WithMinMagnitude(min float64) *Extractor {
	e.MinMagnitude = min
	return e
}

// numericToken matches a maximal run that starts and ends on a digit and may
// contain grouping or decimal punctuation inside. Classification happens
// separately; this only finds token boundaries.
var numericToken = regexp.MustCompile(`-?\d(?:[\d'.,]*\d)?`)

// Locale grammars. Grouping requires exactly three digits between
// separators; a decimal tail is at most two digits. A lone comma or period
// is disambiguated by these shapes, not by mere presence of the character.
var (
	swissNumber      = regexp.MustCompile(`^-?\d{1,3}(?:'\d{3})+(?:\.\d{1,2})?$`)
	euroGroupNumber  = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?$`)
	usGroupNumber    = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?$`)
	euroPlainDecimal = regexp.MustCompile(`^-?\d+,\d{1,2}$`)
	plainNumber      = regexp.MustCompile(`^-?\d+(?:\.\d{1,2})?$`)
)

// Extract returns all value candidates in the document, in line order.
func (e *Extractor) Extract(doc *document.Document) []ValueCandidate {
	var candidates []ValueCandidate
	if doc == nil {
		return candidates
	}

	for _, line := range doc.Lines {
		for _, loc := range numericToken.FindAllStringIndex(line.Text, -1) {
			if !isTokenBoundary(line.Text, loc[0], loc[1]) {
				continue
			}
			token := line.Text[loc[0]:loc[1]]
			value, format, ok := ClassifyNumeric(token)
			if !ok {
				continue
			}
			if e.MinMagnitude > 0 && math.Abs(value) < e.MinMagnitude {
				continue
			}
			candidates = append(candidates, ValueCandidate{
				Raw:        token,
				Value:      value,
				Format:     format,
				LineIndex:  line.Index,
				ColumnHint: loc[0],
			})
		}
	}

	return candidates
}

// isTokenBoundary rejects numeric runs embedded in alphanumeric text, such
// as the digit tail of an identifier code.
func isTokenBoundary(line string, start, end int) bool {
	if start > 0 {
		prev := line[start-1]
		if isAlnum(prev) {
			return false
		}
	}
	if end < len(line) {
		if isAlnum(line[end]) {
			return false
		}
	}
	return true
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ClassifyNumeric parses a token against the locale grammars, most
// constrained first. It returns the canonical value, the grammar used, and
// whether any grammar matched.
func ClassifyNumeric(token string) (float64, LocaleFormat, bool) {
	switch {
	case swissNumber.MatchString(token):
		clean := strings.ReplaceAll(token, "'", "")
		return mustParse(clean), LocaleSwissApostrophe, true

	case euroGroupNumber.MatchString(token):
		clean := strings.ReplaceAll(token, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
		return mustParse(clean), LocaleEuroComma, true

	case usGroupNumber.MatchString(token):
		clean := strings.ReplaceAll(token, ",", "")
		return mustParse(clean), LocaleUSComma, true

	case euroPlainDecimal.MatchString(token):
		clean := strings.ReplaceAll(token, ",", ".")
		return mustParse(clean), LocaleEuroComma, true

	case plainNumber.MatchString(token):
		return mustParse(token), LocalePlain, true
	}

	return 0, "", false
}

// mustParse converts an already grammar-validated numeric string.
func mustParse(clean string) float64 {
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}
