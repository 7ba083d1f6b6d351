// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"statement-scan/internal/extract"
	"statement-scan/internal/formatters"
	"statement-scan/internal/fusion"
	"statement-scan/internal/validate"
)

// Report is the top-level structure for JSON/YAML output.
type Report struct {
	Statements []StatementReport `json:"statements" yaml:"statements"`
	Summary    Summary           `json:"summary" yaml:"summary"`
}

// StatementReport is one statement file's outcome.
type StatementReport struct {
	Source                  string             `json:"source" yaml:"source"`
	Records                 []RecordView       `json:"records" yaml:"records"`
	RecordCount             int                `json:"record_count" yaml:"record_count"`
	TotalValue              float64            `json:"total_value" yaml:"total_value"`
	AccuracyAgainstExpected *float64           `json:"accuracy_against_expected,omitempty" yaml:"accuracy_against_expected,omitempty"`
	FlaggedCount            int                `json:"flagged_count,omitempty" yaml:"flagged_count,omitempty"`
	StrategyErrors          map[string]string  `json:"strategy_errors,omitempty" yaml:"strategy_errors,omitempty"`
	Error                   string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// RecordView is a single fused record in JSON/YAML format.
type RecordView struct {
	IdentifierCode         string                     `json:"identifier_code" yaml:"identifier_code"`
	Name                   string                     `json:"name,omitempty" yaml:"name,omitempty"`
	Value                  *float64                   `json:"value" yaml:"value"`
	Currency               string                     `json:"currency,omitempty" yaml:"currency,omitempty"`
	Confidence             float64                    `json:"confidence" yaml:"confidence"`
	ConfidenceLevel        string                     `json:"confidence_level" yaml:"confidence_level"`
	ContributingStrategies []string                   `json:"contributing_strategies,omitempty" yaml:"contributing_strategies,omitempty"`
	NeedsReview            bool                       `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`
	OutOfBand              bool                       `json:"out_of_band,omitempty" yaml:"out_of_band,omitempty"`
	Alternatives           []extract.StrategyProposal `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// Summary aggregates across every statement in the run.
type Summary struct {
	StatementCount int     `json:"statement_count" yaml:"statement_count"`
	FailedCount    int     `json:"failed_count,omitempty" yaml:"failed_count,omitempty"`
	RecordCount    int     `json:"record_count" yaml:"record_count"`
	TotalValue     float64 `json:"total_value" yaml:"total_value"`
	FlaggedCount   int     `json:"flagged_count,omitempty" yaml:"flagged_count,omitempty"`
	NeedsReview    int     `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`
	HighCount      int     `json:"high_confidence" yaml:"high_confidence"`
	MediumCount    int     `json:"medium_confidence" yaml:"medium_confidence"`
	LowCount       int     `json:"low_confidence" yaml:"low_confidence"`
}

// FilterRecords filters records based on confidence level settings.
// Needs-review records are always kept: an unresolved identifier demands
// attention regardless of the display filter.
func FilterRecords(records []fusion.SecurityRecord, options formatters.Options) []fusion.SecurityRecord {
	if options.ConfidenceLevels == nil {
		return records
	}
	var filtered []fusion.SecurityRecord
	for _, rec := range records {
		if rec.NeedsReview || options.ConfidenceLevels[validate.ConfidenceLevel(rec.Confidence)] {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// BuildReport converts scan results into the shared report structure.
func BuildReport(results []formatters.ScanResult, options formatters.Options) Report {
	report := Report{}
	for _, sr := range results {
		stmt := StatementReport{Source: sr.Source}
		report.Summary.StatementCount++

		if sr.Err != nil {
			stmt.Error = sr.Err.Error()
			report.Summary.FailedCount++
			report.Statements = append(report.Statements, stmt)
			continue
		}
		if sr.Result == nil {
			report.Statements = append(report.Statements, stmt)
			continue
		}

		stmt.RecordCount = sr.Result.RecordCount
		stmt.TotalValue = sr.Result.TotalValue
		stmt.AccuracyAgainstExpected = sr.Result.AccuracyAgainstExpected
		stmt.FlaggedCount = sr.Result.FlaggedCount
		stmt.StrategyErrors = sr.Result.StrategyErrors

		for _, rec := range FilterRecords(sr.Result.Records, options) {
			view := RecordView{
				IdentifierCode:         rec.IdentifierCode,
				Name:                   rec.Name,
				Value:                  rec.Value,
				Currency:               rec.Currency,
				Confidence:             rec.Confidence,
				ConfidenceLevel:        validate.ConfidenceLevel(rec.Confidence),
				ContributingStrategies: rec.ContributingStrategies,
				NeedsReview:            rec.NeedsReview,
				OutOfBand:              rec.OutOfBand,
			}
			if options.ShowAlternatives || options.Verbose {
				view.Alternatives = rec.Alternatives
			}
			stmt.Records = append(stmt.Records, view)

			report.Summary.RecordCount++
			report.Summary.TotalValue += valueOrZero(rec.Value)
			if rec.OutOfBand {
				report.Summary.FlaggedCount++
			}
			if rec.NeedsReview {
				report.Summary.NeedsReview++
				continue
			}
			switch validate.ConfidenceLevel(rec.Confidence) {
			case "high":
				report.Summary.HighCount++
			case "medium":
				report.Summary.MediumCount++
			default:
				report.Summary.LowCount++
			}
		}

		report.Statements = append(report.Statements, stmt)
	}
	return report
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
