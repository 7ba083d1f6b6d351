// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"math"

	"statement-scan/internal/fusion"
)

// Validator computes aggregate statistics over a fusion result and flags
// records whose value falls outside a plausible band. It never rewrites a
// value and never removes a record; flagging is the only intervention.
type Validator struct {
	// PlausibleMin and PlausibleMax bound the band a single position's
	// market value is expected to fall in.
	PlausibleMin float64
	PlausibleMax float64

	// FlaggedConfidenceCap is the ceiling applied to the confidence of
	// out-of-band records.
	FlaggedConfidenceCap float64
}

const (
	// DefaultPlausibleMin matches the extractor's noise floor.
	DefaultPlausibleMin = 100.0
	// DefaultPlausibleMax is the single-position ceiling.
	DefaultPlausibleMax = 1e8

	defaultFlaggedCap = 0.30
)

// New creates a validator with the default plausible band.
func New() *Validator {
	return &Validator{
		PlausibleMin:         DefaultPlausibleMin,
		PlausibleMax:         DefaultPlausibleMax,
		FlaggedConfidenceCap: defaultFlaggedCap,
	}
}

// WithBand overrides the plausible band.
func (v *Validator) WithBand(min, max float64) *Validator {
	v.PlausibleMin = min
	v.PlausibleMax = max
	return v
}

// Apply fills in record count, total value, flagging and (when an expected
// total is supplied) the accuracy ratio. A nil expectedTotal skips the
// accuracy computation entirely; there is no default.
func (v *Validator) Apply(result *fusion.FusionResult, expectedTotal *float64) {
	if result == nil {
		return
	}

	total := 0.0
	flagged := 0
	for i := range result.Records {
		rec := &result.Records[i]
		if rec.Value == nil {
			continue
		}
		total += *rec.Value

		if *rec.Value < v.PlausibleMin || *rec.Value > v.PlausibleMax {
			rec.OutOfBand = true
			if rec.Confidence > v.FlaggedConfidenceCap {
				rec.Confidence = v.FlaggedConfidenceCap
			}
			flagged++
		}
	}

	result.TotalValue = total
	result.RecordCount = len(result.Records)
	result.FlaggedCount = flagged

	if expectedTotal != nil {
		accuracy := Accuracy(total, *expectedTotal)
		result.AccuracyAgainstExpected = &accuracy
	}
}

// Accuracy is min(total, expected) / max(total, expected), 1.0 when both
// are zero.
func Accuracy(total, expected float64) float64 {
	a, b := math.Abs(total), math.Abs(expected)
	if a == 0 && b == 0 {
		return 1.0
	}
	return math.Min(a, b) / math.Max(a, b)
}

// ConfidenceLevel buckets a [0,1] confidence score for display filtering.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "high"
	case confidence >= 0.5:
		return "medium"
	default:
		return "low"
	}
}
