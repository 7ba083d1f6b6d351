// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package contextwindow

import (
	"math"
	"testing"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
)

func testStrategy() *Strategy {
	return New(5, 100, 1e8)
}

func TestScore_Terms(t *testing.T) {
	s := testStrategy()

	tests := []struct {
		name string
		cand extract.ValueCandidate
		want float64
	}{
		{
			"swiss grammar, in band, same line",
			extract.ValueCandidate{Value: 199080, Format: extract.LocaleSwissApostrophe, LineIndex: 1},
			0.30 + 0.20 + 0.15 + 0.20,
		},
		{
			"plain grammar, in band, two lines away",
			extract.ValueCandidate{Value: 500, Format: extract.LocalePlain, LineIndex: 3},
			0.30 + 0.05 + 0.15 + 0.20/3.0,
		},
		{
			"out of band value",
			extract.ValueCandidate{Value: 5e8, Format: extract.LocaleSwissApostrophe, LineIndex: 1},
			0.30 + 0.20 + 0.20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.cand, 1)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestPropose_WindowExcludesDistantCandidates(t *testing.T) {
	s := testStrategy()
	doc := document.FromText("t", "ISIN: XS1234567890\n\n\n\n\n\n\n\n\n199'080.00")

	proposals, err := s.Propose(
		[]extract.IdentifierMatch{{Code: "XS1234567890", LineIndex: 0}},
		[]extract.ValueCandidate{{Value: 199080, Format: extract.LocaleSwissApostrophe, LineIndex: 9}},
		doc,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proposals) != 0 {
		t.Errorf("candidate 9 lines away is outside window 5, got %d proposals", len(proposals))
	}
}

func TestPropose_PicksBestScore(t *testing.T) {
	s := testStrategy()
	doc := document.FromText("t", "ISIN: XS1234567890 USD\nfee 250.00\n199'080.00")

	proposals, _ := s.Propose(
		[]extract.IdentifierMatch{{Code: "XS1234567890", LineIndex: 0}},
		[]extract.ValueCandidate{
			{Value: 250, Format: extract.LocalePlain, LineIndex: 1},
			{Value: 199080, Format: extract.LocaleSwissApostrophe, LineIndex: 2},
		},
		doc,
	)
	if len(proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(proposals))
	}
	if proposals[0].Value != 199080 {
		t.Errorf("swiss grammar candidate should outscore the nearer plain one, got %f", proposals[0].Value)
	}
	if proposals[0].Confidence <= 0 || proposals[0].Confidence > 1 {
		t.Errorf("confidence out of range: %f", proposals[0].Confidence)
	}
}

func TestPropose_DeterministicOnScoreTies(t *testing.T) {
	s := testStrategy()
	doc := document.FromText("t", "ISIN: XS1234567890\n150'000.00   199'080.00")

	// Same line, same grammar, same distance: magnitude breaks the tie.
	proposals, _ := s.Propose(
		[]extract.IdentifierMatch{{Code: "XS1234567890", LineIndex: 0}},
		[]extract.ValueCandidate{
			{Value: 150000, Format: extract.LocaleSwissApostrophe, LineIndex: 1},
			{Value: 199080, Format: extract.LocaleSwissApostrophe, LineIndex: 1},
		},
		doc,
	)
	if len(proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(proposals))
	}
	if proposals[0].Value != 199080 {
		t.Errorf("expected magnitude tie-break, got %f", proposals[0].Value)
	}
}
