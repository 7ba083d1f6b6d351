// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"

	"statement-scan/internal/document"
)

// Locator finds identifier codes in statement text. Matching is purely
// structural: two uppercase letters followed by ten alphanumerics, the
// ISIN-like shape used across custody statements. Semantic validation
// (checksum) is a pluggable extra check, disabled by default.
type Locator struct {
	regex *regexp.Regexp

	// ContextLines is how many lines before and after a match are captured.
	ContextLines int

	// Checksum, when set, rejects codes that fail it. Left nil by default
	// because sample statements contain codes that a strict ISIN checksum
	// would reject.
	Checksum func(code string) bool
}

// The pattern matches the bare code shape; boundary rejection is done
// manually so a single separator between two codes serves both. A regex
// guard would consume the separator and drop the second code.
var identifierPattern = regexp.MustCompile(`[A-Z]{2}[A-Z0-9]{10}`)

// NewLocator creates a locator with default context capture.
func NewLocator() *Locator {
	return &Locator{
		regex:        identifierPattern,
		ContextLines: 2,
	}
}

// WithContextLines sets the number of context lines captured per match.
func (l *Locator) WithContextLines(n int) *Locator {
	l.ContextLines = n
	return l
}

// WithChecksum installs an optional semantic check on located codes.
func (l *Locator) WithChecksum(fn func(code string) bool) *Locator {
	l.Checksum = fn
	return l
}

// Locate returns every identifier occurrence in the document. Absence of
// identifiers is a valid result: the return is empty, never an error.
func (l *Locator) Locate(doc *document.Document) []IdentifierMatch {
	var matches []IdentifierMatch
	if doc == nil {
		return matches
	}

	for _, line := range doc.Lines {
		for _, idx := range l.regex.FindAllStringIndex(line.Text, -1) {
			if !isCodeBoundary(line.Text, idx[0], idx[1]) {
				continue
			}
			code := line.Text[idx[0]:idx[1]]
			if l.Checksum != nil && !l.Checksum(code) {
				continue
			}
			matches = append(matches, IdentifierMatch{
				Code:      code,
				LineIndex: line.Index,
				Context:   l.buildContext(doc, line.Index, line.Text, idx[0], idx[1]),
			})
		}
	}

	return matches
}

// isCodeBoundary rejects code shapes embedded in longer alphanumeric runs,
// the same technique isTokenBoundary uses for numeric tokens.
func isCodeBoundary(line string, start, end int) bool {
	if start > 0 && isCodeChar(line[start-1]) {
		return false
	}
	if end < len(line) && isCodeChar(line[end]) {
		return false
	}
	return true
}

func isCodeChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// buildContext captures surrounding lines and the split of the match line
// around the code itself.
func (l *Locator) buildContext(doc *document.Document, lineIndex int, lineText string, start, end int) ContextInfo {
	ctx := ContextInfo{
		FullLine:   lineText,
		BeforeText: lineText[:start],
		AfterText:  lineText[end:],
	}
	for i := 1; i <= l.ContextLines; i++ {
		if lineIndex-i >= 0 {
			ctx.BeforeLines = append(ctx.BeforeLines, doc.LineText(lineIndex-i))
		}
		if lineIndex+i < len(doc.Lines) {
			ctx.AfterLines = append(ctx.AfterLines, doc.LineText(lineIndex+i))
		}
	}
	return ctx
}

// ISINChecksum implements the ISO 6166 check digit (Luhn over expanded
// letters). Provided for callers that opt into strict validation via
// WithChecksum; not applied by default.
func ISINChecksum(code string) bool {
	if len(code) != 12 {
		return false
	}

	// Expand letters to two-digit values (A=10 .. Z=35)
	var digits []int
	for _, r := range code {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			digits = append(digits, v/10, v%10)
		default:
			return false
		}
	}

	// Luhn from the rightmost digit
	sum := 0
	double := true
	for i := len(digits) - 2; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	check := (10 - sum%10) % 10
	return check == digits[len(digits)-1]
}
