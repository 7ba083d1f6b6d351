// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"statement-scan/internal/formatters"
	"statement-scan/internal/formatters/shared"
	"statement-scan/internal/fusion"
	"statement-scan/internal/validate"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(results []formatters.ScanResult, options formatters.Options) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	totalRecords := 0
	for _, sr := range results {
		if sr.Err != nil {
			continue
		}
		if sr.Result != nil {
			totalRecords += len(shared.FilterRecords(sr.Result.Records, options))
		}
	}

	if totalRecords == 0 && !f.hasFailures(results) {
		return "No securities found.", nil
	}

	if totalRecords > 0 {
		f.appendHeaders(&builder, results, options)
	}

	for _, sr := range results {
		if sr.Err != nil {
			continue
		}
		if sr.Result == nil {
			continue
		}
		records := shared.FilterRecords(sr.Result.Records, options)
		f.sortRecords(records)
		for _, rec := range records {
			if options.Verbose {
				f.appendDetailedRecord(&builder, rec, sr.Source, options)
				continue
			}
			f.appendSummaryLine(&builder, rec, sr.Source, results, options)
		}
	}

	f.appendRunSummary(&builder, results, options)

	return builder.String(), nil
}

func (f *Formatter) hasFailures(results []formatters.ScanResult) bool {
	for _, sr := range results {
		if sr.Err != nil {
			return true
		}
	}
	return false
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, results []formatters.ScanResult, options formatters.Options) {
	headerStr := fmt.Sprintf("%-8s %-14s %16s %-4s %-8s %-30s %s\n",
		"LEVEL", "IDENTIFIER", "VALUE", "CCY", "CONF%", "STRATEGIES", "SOURCE")
	if !options.NoColor {
		headerStr = f.colors["white"].Sprintf("%-8s %-14s %16s %-4s %-8s %-30s %s\n",
			"LEVEL", "IDENTIFIER", "VALUE", "CCY", "CONF%", "STRATEGIES", "SOURCE")
	}
	builder.WriteString(headerStr)

	totalWidth := 8 + 1 + 14 + 1 + 16 + 1 + 4 + 1 + 8 + 1 + 30 + 1 + 10
	separator := strings.Repeat("-", totalWidth) + "\n"
	if !options.NoColor {
		separator = f.colors["white"].Sprint(strings.Repeat("-", totalWidth) + "\n")
	}
	builder.WriteString(separator)
}

// appendSummaryLine adds a single line summary to the string builder
func (f *Formatter) appendSummaryLine(builder *strings.Builder, rec fusion.SecurityRecord, source string, allResults []formatters.ScanResult, options formatters.Options) {
	level := f.displayLevel(rec)
	levelColor := f.levelColor(rec)

	levelStr := fmt.Sprintf("[%-6s]", level)
	if !options.NoColor {
		levelStr = levelColor.Sprintf("[%-6s]", level)
	}

	codeStr := fmt.Sprintf("%-14s", rec.IdentifierCode)
	if !options.NoColor {
		codeStr = f.colors["cyan"].Sprintf("%-14s", rec.IdentifierCode)
	}

	valueText := "-"
	if rec.Value != nil {
		valueText = fmt.Sprintf("%.2f", *rec.Value)
	}
	valueStr := fmt.Sprintf("%16s", valueText)
	if !options.NoColor {
		if rec.OutOfBand {
			valueStr = f.colors["red"].Sprintf("%16s", valueText)
		} else {
			valueStr = f.colors["white"].Sprintf("%16s", valueText)
		}
	}

	currency := rec.Currency
	if currency == "" {
		currency = "-"
	}
	currencyStr := fmt.Sprintf("%-4s", currency)
	if !options.NoColor {
		currencyStr = f.colors["magenta"].Sprintf("%-4s", currency)
	}

	confidenceStr := fmt.Sprintf("%6.1f%%", rec.Confidence*100)
	if !options.NoColor {
		confidenceStr = f.colors["blue"].Sprintf("%6.1f%%", rec.Confidence*100)
	}

	strategies := strings.Join(rec.ContributingStrategies, ",")
	if strategies == "" {
		strategies = "-"
	}
	if len(strategies) > 30 {
		strategies = strategies[:27] + "..."
	}
	strategiesStr := fmt.Sprintf("%-30s", strategies)
	if !options.NoColor {
		strategiesStr = f.colors["green"].Sprintf("%-30s", strategies)
	}

	filename := f.getSmartFilename(source, allResults)
	filenameStr := filename
	if !options.NoColor {
		filenameStr = f.colors["white"].Sprint(filename)
	}

	fmt.Fprintf(builder, "%s %s %s %s %s %s %s\n",
		levelStr,
		codeStr,
		valueStr,
		currencyStr,
		confidenceStr,
		strategiesStr,
		filenameStr)
}

// appendDetailedRecord adds detailed record information to the string builder
func (f *Formatter) appendDetailedRecord(builder *strings.Builder, rec fusion.SecurityRecord, source string, options formatters.Options) {
	if !options.NoColor {
		f.colors["white"].Fprintf(builder, "=== Security Record ===\n")
	} else {
		fmt.Fprintf(builder, "=== Security Record ===\n")
	}

	if !options.NoColor {
		f.colors["cyan"].Fprintf(builder, "Identifier: ")
		f.colors["white"].Fprintf(builder, "%s", rec.IdentifierCode)
		f.colors["cyan"].Fprintf(builder, " in ")
		f.colors["white"].Fprintf(builder, "%s\n", source)
	} else {
		fmt.Fprintf(builder, "Identifier: %s in %s\n", rec.IdentifierCode, source)
	}

	if rec.Name != "" {
		if !options.NoColor {
			f.colors["cyan"].Fprintf(builder, "Name: ")
			f.colors["white"].Fprintf(builder, "%s\n", rec.Name)
		} else {
			fmt.Fprintf(builder, "Name: %s\n", rec.Name)
		}
	}

	if rec.Value != nil {
		if !options.NoColor {
			f.colors["cyan"].Fprintf(builder, "Value: ")
			f.colors["white"].Fprintf(builder, "%.2f", *rec.Value)
			if rec.Currency != "" {
				f.colors["magenta"].Fprintf(builder, " %s", rec.Currency)
			}
			fmt.Fprintln(builder)
		} else {
			fmt.Fprintf(builder, "Value: %.2f %s\n", *rec.Value, rec.Currency)
		}
	} else {
		if !options.NoColor {
			f.colors["cyan"].Fprintf(builder, "Value: ")
			f.colors["yellow"].Fprintf(builder, "unresolved (needs review)\n")
		} else {
			fmt.Fprintf(builder, "Value: unresolved (needs review)\n")
		}
	}

	levelColor := f.levelColor(rec)
	if !options.NoColor {
		f.colors["cyan"].Fprintf(builder, "Confidence: ")
		f.colors["white"].Fprintf(builder, "%.1f%% ", rec.Confidence*100)
		levelColor.Fprintf(builder, "(%s)\n", f.displayLevel(rec))
	} else {
		fmt.Fprintf(builder, "Confidence: %.1f%% (%s)\n", rec.Confidence*100, f.displayLevel(rec))
	}

	if len(rec.ContributingStrategies) > 0 {
		if !options.NoColor {
			f.colors["cyan"].Fprintf(builder, "Strategies: ")
			f.colors["green"].Fprintf(builder, "%s\n", strings.Join(rec.ContributingStrategies, ", "))
		} else {
			fmt.Fprintf(builder, "Strategies: %s\n", strings.Join(rec.ContributingStrategies, ", "))
		}
	}

	if rec.OutOfBand {
		if !options.NoColor {
			f.colors["red"].Fprintf(builder, "Flagged: value outside plausible band\n")
		} else {
			fmt.Fprintf(builder, "Flagged: value outside plausible band\n")
		}
	}

	if len(rec.Alternatives) > 0 && (options.Verbose || options.ShowAlternatives) {
		if !options.NoColor {
			f.colors["cyan"].Fprintf(builder, "Alternatives:\n")
		} else {
			fmt.Fprintf(builder, "Alternatives:\n")
		}
		for _, alt := range rec.Alternatives {
			fmt.Fprintf(builder, "- %s: %.2f (%.1f%%) %s\n",
				alt.StrategyName, alt.Value, alt.Confidence*100, alt.Reasoning)
		}
	}

	fmt.Fprintln(builder)
}

// appendRunSummary adds aggregate statistics across all statements
func (f *Formatter) appendRunSummary(builder *strings.Builder, results []formatters.ScanResult, options formatters.Options) {
	report := shared.BuildReport(results, options)
	s := report.Summary

	fmt.Fprintln(builder)
	if !options.NoColor {
		f.colors["white"].Fprintf(builder, "Summary: ")
	} else {
		fmt.Fprintf(builder, "Summary: ")
	}
	fmt.Fprintf(builder, "%d statement(s), %d record(s), total value %.2f\n",
		s.StatementCount, s.RecordCount, s.TotalValue)

	if s.FlaggedCount > 0 || s.NeedsReview > 0 {
		fmt.Fprintf(builder, "Attention: %d flagged, %d need review\n", s.FlaggedCount, s.NeedsReview)
	}

	for _, sr := range results {
		if sr.Err != nil {
			if !options.NoColor {
				f.colors["red"].Fprintf(builder, "Failed: %s: %v\n", sr.Source, sr.Err)
			} else {
				fmt.Fprintf(builder, "Failed: %s: %v\n", sr.Source, sr.Err)
			}
			continue
		}
		if sr.Result == nil {
			continue
		}
		if sr.Result.AccuracyAgainstExpected != nil {
			fmt.Fprintf(builder, "Accuracy vs expected total for %s: %.2f%%\n",
				sr.Source, *sr.Result.AccuracyAgainstExpected*100)
		}
		for name, msg := range sr.Result.StrategyErrors {
			if !options.NoColor {
				f.colors["yellow"].Fprintf(builder, "Strategy degraded: %s: %s\n", name, msg)
			} else {
				fmt.Fprintf(builder, "Strategy degraded: %s: %s\n", name, msg)
			}
		}
	}
}

// sortRecords sorts records by confidence level (high, medium, low) and then
// by confidence score within each level.
func (f *Formatter) sortRecords(records []fusion.SecurityRecord) {
	levelPriority := map[string]int{"high": 0, "medium": 1, "low": 2}
	sort.SliceStable(records, func(i, j int) bool {
		li := levelPriority[validate.ConfidenceLevel(records[i].Confidence)]
		lj := levelPriority[validate.ConfidenceLevel(records[j].Confidence)]
		if li != lj {
			return li < lj
		}
		return records[i].Confidence > records[j].Confidence
	})
}

func (f *Formatter) displayLevel(rec fusion.SecurityRecord) string {
	if rec.NeedsReview {
		return "REVIEW"
	}
	if rec.OutOfBand {
		return "FLAG"
	}
	return strings.ToUpper(validate.ConfidenceLevel(rec.Confidence))
}

func (f *Formatter) levelColor(rec fusion.SecurityRecord) *color.Color {
	if rec.NeedsReview || rec.OutOfBand {
		return f.colors["yellow"]
	}
	switch validate.ConfidenceLevel(rec.Confidence) {
	case "high":
		return f.colors["green"]
	case "medium":
		return f.colors["yellow"]
	default:
		return f.colors["red"]
	}
}

// getSmartFilename returns a smart filename that avoids conflicts
func (f *Formatter) getSmartFilename(fullPath string, allResults []formatters.ScanResult) string {
	if !strings.Contains(fullPath, "/") {
		return fullPath
	}

	parts := strings.Split(fullPath, "/")
	basename := parts[len(parts)-1]

	// Check if any other statement has the same basename
	conflicts := false
	for _, sr := range allResults {
		if sr.Source != fullPath && strings.Contains(sr.Source, "/") {
			otherParts := strings.Split(sr.Source, "/")
			if basename == otherParts[len(otherParts)-1] {
				conflicts = true
				break
			}
		}
	}

	if !conflicts {
		return basename
	}

	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + basename
	}

	return basename
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
