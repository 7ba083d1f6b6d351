// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"statement-scan/internal/document"
	"statement-scan/internal/resilience"
)

// PlainTextSource reads an already-converted statement: the output of an
// external PDF-to-text or OCR step, one statement line per text line.
type PlainTextSource struct {
	path string
}

// NewPlainTextSource creates a source over a text file.
func NewPlainTextSource(path string) *PlainTextSource {
	return &PlainTextSource{path: path}
}

// Name implements TextSource.
func (s *PlainTextSource) Name() string { return "plaintext:" + filepath.Base(s.path) }

// Extract implements TextSource.
func (s *PlainTextSource) Extract(ctx context.Context) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, resilience.NewPermanentError(fmt.Sprintf("statement file not found: %s", s.path), err)
		}
		return nil, fmt.Errorf("error reading statement text: %w", err)
	}

	doc := document.FromText(s.path, string(data))
	doc.SetMetadata("extraction", "plaintext")
	return doc, nil
}
