// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"math"
	"testing"

	"statement-scan/internal/fusion"
)

func record(code string, value float64, confidence float64) fusion.SecurityRecord {
	v := value
	return fusion.SecurityRecord{
		IdentifierCode: code,
		Value:          &v,
		Confidence:     confidence,
	}
}

func TestApply_TotalsAndCounts(t *testing.T) {
	result := &fusion.FusionResult{
		Records: []fusion.SecurityRecord{
			record("XS1234567890", 199080, 0.85),
			record("CH0012345678", 50000, 0.70),
			{IdentifierCode: "DE0001234567", NeedsReview: true},
		},
	}

	New().Apply(result, nil)

	if result.TotalValue != 249080 {
		t.Errorf("expected total 249080, got %f", result.TotalValue)
	}
	if result.RecordCount != 3 {
		t.Errorf("needs-review records still count, got %d", result.RecordCount)
	}
	if result.AccuracyAgainstExpected != nil {
		t.Error("no expected total supplied, accuracy must stay unset")
	}
	if result.FlaggedCount != 0 {
		t.Errorf("all values plausible, got %d flagged", result.FlaggedCount)
	}
}

func TestApply_FlagsImplausibleValues(t *testing.T) {
	result := &fusion.FusionResult{
		Records: []fusion.SecurityRecord{
			record("XS0000000001", 0.01, 0.85),
			record("XS0000000002", 500000000, 0.85),
			record("XS0000000003", 199080, 0.85),
		},
	}

	New().Apply(result, nil)

	if result.FlaggedCount != 2 {
		t.Fatalf("expected both extremes flagged, got %d", result.FlaggedCount)
	}
	if !result.Records[0].OutOfBand || !result.Records[1].OutOfBand {
		t.Error("tiny and huge values must be flagged")
	}
	if result.Records[2].OutOfBand {
		t.Error("plausible value must not be flagged")
	}

	// Flagging caps confidence but never rewrites the value.
	if result.Records[0].Confidence != 0.30 {
		t.Errorf("flagged confidence should be capped at 0.30, got %f", result.Records[0].Confidence)
	}
	if *result.Records[1].Value != 500000000 {
		t.Errorf("flagged value must be preserved, got %f", *result.Records[1].Value)
	}
	if result.Records[2].Confidence != 0.85 {
		t.Errorf("unflagged confidence must be untouched, got %f", result.Records[2].Confidence)
	}
}

func TestApply_FlaggedRecordBelowCapKeepsConfidence(t *testing.T) {
	result := &fusion.FusionResult{
		Records: []fusion.SecurityRecord{record("XS0000000001", 1, 0.20)},
	}

	New().Apply(result, nil)

	if result.Records[0].Confidence != 0.20 {
		t.Errorf("cap only lowers, never raises, got %f", result.Records[0].Confidence)
	}
}

func TestApply_AccuracyAgainstExpected(t *testing.T) {
	result := &fusion.FusionResult{
		Records: []fusion.SecurityRecord{record("XS1234567890", 95000, 0.85)},
	}
	expected := 100000.0

	New().Apply(result, &expected)

	if result.AccuracyAgainstExpected == nil {
		t.Fatal("accuracy must be computed when expected total is supplied")
	}
	if math.Abs(*result.AccuracyAgainstExpected-0.95) > 1e-9 {
		t.Errorf("expected accuracy 0.95, got %f", *result.AccuracyAgainstExpected)
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		total, expected, want float64
	}{
		{100, 100, 1.0},
		{95, 100, 0.95},
		{100, 95, 0.95}, // symmetric
		{0, 0, 1.0},
		{0, 100, 0.0},
	}

	for _, tt := range tests {
		if got := Accuracy(tt.total, tt.expected); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Accuracy(%f, %f) = %f, want %f", tt.total, tt.expected, got, tt.want)
		}
	}
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.95, "high"},
		{0.80, "high"},
		{0.79, "medium"},
		{0.50, "medium"},
		{0.49, "low"},
		{0, "low"},
	}

	for _, tt := range tests {
		if got := ConfidenceLevel(tt.confidence); got != tt.want {
			t.Errorf("ConfidenceLevel(%f) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestWithBand(t *testing.T) {
	v := New().WithBand(1, 1000)
	result := &fusion.FusionResult{
		Records: []fusion.SecurityRecord{record("XS0000000001", 5000, 0.85)},
	}

	v.Apply(result, nil)

	if !result.Records[0].OutOfBand {
		t.Error("custom band should flag 5000 when max is 1000")
	}
}
