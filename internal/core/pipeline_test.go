// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"statement-scan/internal/document"
	"statement-scan/internal/overrides"
)

const custodyStatement = `GOLDMAN SACHS NOTE
ISIN: XS1234567890                USD
Valuation
199'080.00`

func TestProcessDocument_CustodyStatement(t *testing.T) {
	p, err := NewPipeline(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := p.ProcessDocument(context.Background(), document.FromText("statement.txt", custodyStatement))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RecordCount != 1 {
		t.Fatalf("expected 1 record, got %d", result.RecordCount)
	}

	rec := result.Records[0]
	if rec.IdentifierCode != "XS1234567890" {
		t.Errorf("unexpected identifier %s", rec.IdentifierCode)
	}
	if rec.Value == nil || *rec.Value != 199080.00 {
		t.Fatalf("expected value 199080.00, got %v", rec.Value)
	}
	if rec.Currency != "USD" {
		t.Errorf("expected USD from the identifier line, got %q", rec.Currency)
	}
	if rec.Confidence < 0.7 {
		t.Errorf("agreeing strategies should land above 0.7, got %f", rec.Confidence)
	}
	if rec.Name != "GOLDMAN SACHS NOTE" {
		t.Errorf("expected the issuer line as name, got %q", rec.Name)
	}
	if result.TotalValue != 199080.00 {
		t.Errorf("expected total 199080.00, got %f", result.TotalValue)
	}
}

func TestProcessDocument_EmptyDocument(t *testing.T) {
	p, err := NewPipeline(Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.ProcessDocument(context.Background(), nil); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("nil document should fail with ErrEmptyDocument, got %v", err)
	}
	if _, err := p.ProcessDocument(context.Background(), document.FromText("t", "   \n  ")); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("whitespace-only document should fail with ErrEmptyDocument, got %v", err)
	}
}

func TestProcessDocument_Idempotent(t *testing.T) {
	p, err := NewPipeline(Options{})
	if err != nil {
		t.Fatal(err)
	}
	doc := document.FromText("statement.txt", custodyStatement)

	first, err := p.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	if first.RecordCount != second.RecordCount {
		t.Fatal("record counts differ between runs")
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.IdentifierCode != b.IdentifierCode || a.Confidence != b.Confidence {
			t.Errorf("record %d differs between runs: %+v vs %+v", i, a, b)
		}
		if (a.Value == nil) != (b.Value == nil) || (a.Value != nil && *a.Value != *b.Value) {
			t.Errorf("record %d value differs between runs", i)
		}
	}
}

func TestProcessDocument_OverridePrecedence(t *testing.T) {
	m := overrides.NewManager("")
	if _, err := m.Add("XS1234567890", 150000, "verified against custodian", "analyst", nil); err != nil {
		t.Fatal(err)
	}

	p, err := NewPipeline(Options{Overrides: m})
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.ProcessDocument(context.Background(), document.FromText("statement.txt", custodyStatement))
	if err != nil {
		t.Fatal(err)
	}

	rec := result.Records[0]
	if rec.Value == nil || *rec.Value != 150000 {
		t.Fatalf("override value must displace the heuristics, got %v", rec.Value)
	}
	if rec.Confidence != 1.0 {
		t.Errorf("override-backed record carries maximal confidence, got %f", rec.Confidence)
	}
	if len(rec.Alternatives) == 0 {
		t.Error("displaced heuristic value should survive as an alternative")
	}
}

func TestProcessDocument_ExpectedTotal(t *testing.T) {
	expected := 200000.0
	p, err := NewPipeline(Options{ExpectedTotal: &expected})
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.ProcessDocument(context.Background(), document.FromText("statement.txt", custodyStatement))
	if err != nil {
		t.Fatal(err)
	}
	if result.AccuracyAgainstExpected == nil {
		t.Fatal("accuracy must be computed when an expected total is supplied")
	}
	if *result.AccuracyAgainstExpected <= 0.99 || *result.AccuracyAgainstExpected >= 1.0 {
		t.Errorf("199080 against 200000 should be just under 1.0, got %f", *result.AccuracyAgainstExpected)
	}
}

func TestProcessDocument_UnresolvedIdentifier(t *testing.T) {
	p, err := NewPipeline(Options{})
	if err != nil {
		t.Fatal(err)
	}

	// An identifier with no numeric values anywhere near it.
	result, err := p.ProcessDocument(context.Background(),
		document.FromText("t", "Reference ISIN: XS1234567890 pending settlement"))
	if err != nil {
		t.Fatal(err)
	}
	if result.RecordCount != 1 {
		t.Fatalf("expected 1 record, got %d", result.RecordCount)
	}
	if !result.Records[0].NeedsReview {
		t.Error("an identifier with no proposals must be marked needs-review")
	}
}

func TestProcessFile_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.txt")
	if err := os.WriteFile(path, []byte(custodyStatement), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := NewPipeline(Options{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RecordCount != 1 {
		t.Errorf("expected 1 record from file run, got %d", result.RecordCount)
	}
}

func TestProcessFile_TranscriptFallback(t *testing.T) {
	dir := t.TempDir()

	// An unparseable PDF with a sibling recognition transcript: the
	// transcript keeps the statement readable.
	pdfPath := filepath.Join(dir, "statement.pdf")
	if err := os.WriteFile(pdfPath, []byte("not a real pdf"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "statement.ocr"), []byte(custodyStatement), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := NewPipeline(Options{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.ProcessFile(context.Background(), pdfPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RecordCount != 1 {
		t.Errorf("expected 1 record from the transcript, got %d", result.RecordCount)
	}
}

func TestProcessFile_MissingFile(t *testing.T) {
	p, err := NewPipeline(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
