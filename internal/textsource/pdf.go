// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textsource

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"statement-scan/internal/document"
	"statement-scan/internal/resilience"
)

// PDFSource extracts statement lines directly from a PDF, preserving page
// numbers and row coordinates so that layout-aware strategies keep their
// geometry. Structural validation runs first: a corrupt container fails
// fast and permanently instead of producing a half-empty document.
type PDFSource struct {
	path string

	// MaxPages bounds extraction for very large statements.
	MaxPages int
}

// NewPDFSource creates a source over a PDF statement.
func NewPDFSource(path string) *PDFSource {
	return &PDFSource{path: path, MaxPages: 50}
}

// Name implements TextSource.
func (s *PDFSource) Name() string { return "pdf:" + filepath.Base(s.path) }

// Extract implements TextSource.
func (s *PDFSource) Extract(ctx context.Context) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validate the container before parsing content.
	if err := api.ValidateFile(s.path, nil); err != nil {
		return nil, resilience.NewPermanentError(fmt.Sprintf("malformed PDF %s: %v", s.path, err), err)
	}

	f, r, err := pdf.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if s.MaxPages > 0 && pageCount > s.MaxPages {
		pageCount = s.MaxPages
	}

	var lines []document.Line
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}
		lines = append(lines, extractPageLines(p, pageNum)...)
	}

	doc := document.FromLines(s.path, lines)
	doc.SetMetadata("extraction", "pdf")
	doc.SetMetadata("pages", fmt.Sprintf("%d", pageCount))
	return doc, nil
}

// extractPageLines reconstructs a page's rows in reading order with their
// coordinates. Falls back to plain text when row extraction fails.
func extractPageLines(p pdf.Page, pageNum int) []document.Line {
	rows, err := p.GetTextByRow()
	if err != nil {
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil
		}
		var lines []document.Line
		for _, t := range strings.Split(text, "\n") {
			if strings.TrimSpace(t) == "" {
				continue
			}
			lines = append(lines, document.Line{Text: t, Page: pageNum})
		}
		return lines
	}

	var usable []*pdf.Row
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			usable = append(usable, row)
		}
	}

	// Top-to-bottom reading order: PDF Y grows upward, so higher Y first.
	sort.Slice(usable, func(i, j int) bool {
		return averageY(usable[i].Content) > averageY(usable[j].Content)
	})

	var lines []document.Line
	for _, row := range usable {
		text, bbox := reconstructRow(row.Content)
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, document.Line{
			Text: text,
			Page: pageNum,
			BBox: bbox,
		})
	}
	return lines
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, e := range elements {
		total += e.Y
	}
	return total / float64(len(elements))
}

// reconstructRow joins a row's text elements left to right, inserting
// spaces for significant horizontal gaps, and computes the row's bounding
// box.
func reconstructRow(elements []pdf.Text) (string, *document.BoundingBox) {
	if len(elements) == 0 {
		return "", nil
	}

	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var sb strings.Builder
	for i, element := range sorted {
		sb.WriteString(element.S)

		if i < len(sorted)-1 {
			next := sorted[i+1]
			gap := next.X - (element.X + element.W)

			fontSize := element.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}
			// A gap over 20% of the font size separates words; a gap of
			// several font sizes separates table columns, which downstream
			// column splitting detects via the double space.
			switch {
			case gap > fontSize*3:
				sb.WriteString("  ")
			case gap > fontSize*0.2:
				sb.WriteString(" ")
			}
		}
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	bbox := &document.BoundingBox{
		X: first.X,
		Y: averageY(sorted),
		W: last.X + last.W - first.X,
		H: first.FontSize,
	}
	return sb.String(), bbox
}
