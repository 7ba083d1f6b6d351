// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"
)

// BoundingBox describes the position of a line on its source page, in PDF
// coordinate space. Only present when the text source preserves layout.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Line is a single line of statement text with its position in the document.
type Line struct {
	Text  string       `json:"text"`
	Index int          `json:"index"`
	Page  int          `json:"page,omitempty"`
	BBox  *BoundingBox `json:"bbox,omitempty"`
}

// Document is an ordered sequence of lines produced by a text source.
// Documents are immutable once built; every pipeline run operates on the
// same lines it was given.
type Document struct {
	Lines    []Line            `json:"lines"`
	Source   string            `json:"source,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FromText builds a Document by splitting raw text into lines. Blank lines
// are kept so that line-offset heuristics see the same geometry as the
// original page.
func FromText(source, text string) *Document {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]Line, len(raw))
	for i, t := range raw {
		lines[i] = Line{Text: t, Index: i}
	}
	return &Document{Lines: lines, Source: source}
}

// FromLines builds a Document from pre-positioned lines (e.g. a PDF source
// that knows pages and coordinates). Indexes are reassigned to be dense and
// ordered.
func FromLines(source string, lines []Line) *Document {
	out := make([]Line, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].Index = i
	}
	return &Document{Lines: out, Source: source}
}

// IsEmpty reports whether the document has no usable text at all. An empty
// document is the one structural failure the pipeline refuses to process.
func (d *Document) IsEmpty() bool {
	if d == nil || len(d.Lines) == 0 {
		return true
	}
	for _, l := range d.Lines {
		if strings.TrimSpace(l.Text) != "" {
			return false
		}
	}
	return true
}

// LineText returns the text of the line at index, or "" when the index is
// out of range. Strategies use this instead of indexing Lines directly so
// that offset arithmetic near document edges stays safe.
func (d *Document) LineText(index int) string {
	if index < 0 || index >= len(d.Lines) {
		return ""
	}
	return d.Lines[index].Text
}

// SetMetadata records a provenance key on the document (scan device, capture
// time, extraction source). Called only during document construction.
func (d *Document) SetMetadata(key, value string) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	d.Metadata[key] = value
}
