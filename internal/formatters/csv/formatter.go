// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strings"

	"statement-scan/internal/formatters"
	"statement-scan/internal/formatters/shared"
	"statement-scan/internal/fusion"
	"statement-scan/internal/validate"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(results []formatters.ScanResult, options formatters.Options) (string, error) {
	headers := []string{"Source", "Identifier", "Name", "Value", "Currency", "Confidence", "Level", "Strategies", "Needs Review", "Flagged"}
	csvRows := []string{strings.Join(headers, ",")}

	for _, sr := range results {
		if sr.Err != nil || sr.Result == nil {
			continue
		}
		for _, rec := range shared.FilterRecords(sr.Result.Records, options) {
			csvRows = append(csvRows, f.createCSVRow(sr.Source, rec))
		}
	}

	return strings.Join(csvRows, "\n"), nil
}

// createCSVRow creates a CSV row for a record
func (f *Formatter) createCSVRow(source string, rec fusion.SecurityRecord) string {
	valueText := ""
	if rec.Value != nil {
		valueText = fmt.Sprintf("%.2f", *rec.Value)
	}

	row := []string{
		f.escapeCSVField(source),
		f.escapeCSVField(rec.IdentifierCode),
		f.escapeCSVField(rec.Name),
		valueText,
		f.escapeCSVField(rec.Currency),
		fmt.Sprintf("%.3f", rec.Confidence),
		f.escapeCSVField(validate.ConfidenceLevel(rec.Confidence)),
		f.escapeCSVField(strings.Join(rec.ContributingStrategies, ";")),
		fmt.Sprintf("%t", rec.NeedsReview),
		fmt.Sprintf("%t", rec.OutOfBand),
	}

	return strings.Join(row, ",")
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	// Prevent CSV injection by sanitizing formula characters
	field = f.sanitizeFormulaInjection(field)

	// If field contains comma, quote, or newline, wrap in quotes and escape internal quotes
	if strings.Contains(field, ",") || strings.Contains(field, "\"") || strings.Contains(field, "\n") || strings.Contains(field, "\r") {
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return field
}

// sanitizeFormulaInjection prevents CSV injection attacks by sanitizing formula characters
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	firstChar := field[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		// Prefix with single quote to prevent formula execution
		return "'" + field
	}

	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
