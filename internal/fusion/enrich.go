// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fusion

import (
	"regexp"
	"strings"

	"statement-scan/internal/extract"
)

// currencyPattern matches the ISO 4217 codes seen in custody statements.
var currencyPattern = regexp.MustCompile(`\b(USD|EUR|CHF|GBP|JPY|CAD|AUD|SEK|NOK|DKK|SGD|HKD|NZD)\b`)

// identifierLabel strips the label that typically precedes a code, plus any
// separator noise, from name candidates.
var identifierLabel = regexp.MustCompile(`(?i)\b(?:isin|valor|wkn|security\s*(?:id|no\.?))\b\s*:?\s*$`)

// InferCurrency finds the currency token closest to the identifier: first
// the text after the code on its own line, then the whole line, then the
// following context lines.
func InferCurrency(ctx extract.ContextInfo) string {
	for _, text := range append([]string{ctx.AfterText, ctx.FullLine}, ctx.AfterLines...) {
		if m := currencyPattern.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// InferName extracts a security name from the text around an identifier.
// Statements put the name either on the same line before the code or on one
// of the lines directly above it.
func InferName(ctx extract.ContextInfo) string {
	if name := cleanName(ctx.BeforeText); name != "" {
		return name
	}
	for _, line := range ctx.BeforeLines {
		if name := cleanName(line); name != "" {
			return name
		}
	}
	return ""
}

// cleanName strips labels, separator runs and numeric noise; it returns ""
// when too little readable text remains to be a name.
func cleanName(text string) string {
	text = identifierLabel.ReplaceAllString(strings.TrimSpace(text), "")
	text = strings.Trim(text, " \t.:-|,;")

	// Drop trailing ellipsis-style separators left by table extraction.
	for strings.HasSuffix(text, "..") {
		text = strings.TrimRight(text, ".")
		text = strings.TrimSpace(text)
	}

	letters := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	if letters < 3 || len(text) < 3 {
		return ""
	}
	return text
}
