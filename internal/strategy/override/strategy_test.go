// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package override

import (
	"testing"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
)

func TestPropose_TableHit(t *testing.T) {
	s := New(map[string]float64{"XS1234567890": 199080.00})
	doc := document.FromText("t", "ISIN: XS1234567890")

	proposals, err := s.Propose(
		[]extract.IdentifierMatch{{Code: "XS1234567890", LineIndex: 0}},
		nil,
		doc,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(proposals))
	}

	p := proposals[0]
	if p.Value != 199080.00 {
		t.Errorf("expected override value, got %f", p.Value)
	}
	if p.Confidence != 1.0 {
		t.Errorf("override proposals carry maximal confidence, got %f", p.Confidence)
	}
	if !p.Authoritative {
		t.Error("override proposals must be authoritative")
	}
}

func TestPropose_NoTableEntry(t *testing.T) {
	s := New(map[string]float64{"CH0012345678": 1000})
	doc := document.FromText("t", "ISIN: XS1234567890")

	proposals, _ := s.Propose(
		[]extract.IdentifierMatch{{Code: "XS1234567890", LineIndex: 0}},
		nil,
		doc,
	)
	if len(proposals) != 0 {
		t.Errorf("identifiers outside the table get nothing, got %d", len(proposals))
	}
}

func TestPropose_EmptyTable(t *testing.T) {
	s := New(nil)
	proposals, _ := s.Propose(
		[]extract.IdentifierMatch{{Code: "XS1234567890", LineIndex: 0}},
		nil,
		document.FromText("t", "x"),
	)
	if len(proposals) != 0 {
		t.Errorf("empty table proposes nothing, got %d", len(proposals))
	}
}
