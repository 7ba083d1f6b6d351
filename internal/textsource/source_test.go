// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"statement-scan/internal/document"
	"statement-scan/internal/resilience"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		path     string
		wantType string
		wantErr  bool
	}{
		{"statement.pdf", "pdf", false},
		{"statement.PDF", "pdf", false},
		{"statement.txt", "plaintext", false},
		{"statement.ocr", "plaintext", false},
		{"statement", "plaintext", false},
		{"statement.docx", "", true},
		{"image.png", "", true},
	}

	for _, tt := range tests {
		src, err := ForFile(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForFile(%q) should fail", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForFile(%q) unexpected error: %v", tt.path, err)
			continue
		}
		switch tt.wantType {
		case "pdf":
			if _, ok := src.(*PDFSource); !ok {
				t.Errorf("ForFile(%q) = %T, want *PDFSource", tt.path, src)
			}
		case "plaintext":
			if _, ok := src.(*PlainTextSource); !ok {
				t.Errorf("ForFile(%q) = %T, want *PlainTextSource", tt.path, src)
			}
		}
	}
}

func TestCandidatesForFile(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "statement.pdf")
	if err := os.WriteFile(pdfPath, []byte("stub"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A lone PDF gets a single source.
	sources, err := CandidatesForFile(pdfPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source without a transcript, got %d", len(sources))
	}

	// A sibling recognition transcript adds a fallback source.
	if err := os.WriteFile(filepath.Join(dir, "statement.ocr"), []byte("text"), 0o600); err != nil {
		t.Fatal(err)
	}
	sources, err = CandidatesForFile(pdfPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected pdf plus transcript, got %d sources", len(sources))
	}
	if _, ok := sources[0].(*PDFSource); !ok {
		t.Errorf("primary source must stay first, got %T", sources[0])
	}
	if _, ok := sources[1].(*PlainTextSource); !ok {
		t.Errorf("transcript source must be plaintext, got %T", sources[1])
	}

	// Plain text files never fan out.
	txtPath := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(txtPath, []byte("text"), 0o600); err != nil {
		t.Fatal(err)
	}
	sources, err = CandidatesForFile(txtPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 1 {
		t.Errorf("expected 1 source for plain text, got %d", len(sources))
	}

	if _, err := CandidatesForFile("statement.docx"); err == nil {
		t.Error("unsupported types should fail")
	}
}

func TestPlainTextSource_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.txt")
	content := "ISIN: XS1234567890\n\n199'080.00\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := NewPlainTextSource(path).Extract(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Lines) != 2 {
		t.Errorf("blank lines are dropped, expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Metadata["extraction"] != "plaintext" {
		t.Errorf("expected plaintext extraction metadata, got %q", doc.Metadata["extraction"])
	}
}

func TestPlainTextSource_MissingFileIsPermanent(t *testing.T) {
	src := NewPlainTextSource(filepath.Join(t.TempDir(), "absent.txt"))

	_, err := src.Extract(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if resilience.IsRetryable(err) {
		t.Errorf("a missing file is not retryable, got %v", err)
	}
}

func TestPlainTextSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewPlainTextSource("anything.txt").Extract(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context cancellation, got %v", err)
	}
}

// fakeSource scripts a MultiSource participant.
type fakeSource struct {
	name string
	doc  *document.Document
	err  error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Extract(ctx context.Context) (*document.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func TestMultiSource_FailureIsolation(t *testing.T) {
	good := &fakeSource{name: "good", doc: document.FromText("good", "ISIN: XS1234567890")}
	bad := &fakeSource{name: "bad", err: resilience.NewPermanentError("recognition rejected the upload", nil)}

	ms := NewMultiSource([]TextSource{good, bad}, nil)
	results := ms.ExtractAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("every source must report, got %d results", len(results))
	}
	if results[0].Source != "good" || results[0].Err != nil || results[0].Document == nil {
		t.Errorf("healthy source must succeed, got %+v", results[0])
	}
	if results[1].Source != "bad" || results[1].Err == nil {
		t.Errorf("failing source must report its error, got %+v", results[1])
	}
}

func TestMultiSource_Empty(t *testing.T) {
	if results := NewMultiSource(nil, nil).ExtractAll(context.Background()); len(results) != 0 {
		t.Errorf("no sources, no results, got %d", len(results))
	}
}
