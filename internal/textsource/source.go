// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"statement-scan/internal/document"
	"statement-scan/internal/observability"
	"statement-scan/internal/resilience"
)

// TextSource supplies a document for the pipeline. Sources sit outside the
// core boundary: the engine consumes whatever lines they produce and does
// not care whether they came from a local file, a PDF, or a hosted
// recognition service.
type TextSource interface {
	Name() string
	Extract(ctx context.Context) (*document.Document, error)
}

// ForFile picks a source for a statement file by extension.
func ForFile(path string) (TextSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFSource(path), nil
	case ".txt", ".text", ".ocr", "":
		return NewPlainTextSource(path), nil
	default:
		return nil, fmt.Errorf("unsupported statement file type: %s", path)
	}
}

// CandidatesForFile returns every source that can produce text for a
// statement file, primary first. A PDF with a sibling recognition
// transcript (same name, .ocr or .txt extension) gets both: the transcript
// keeps the statement readable when the PDF itself cannot be parsed.
func CandidatesForFile(path string) ([]TextSource, error) {
	primary, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	sources := []TextSource{primary}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		stem := strings.TrimSuffix(path, filepath.Ext(path))
		for _, ext := range []string{".ocr", ".txt"} {
			sibling := stem + ext
			if _, err := os.Stat(sibling); err == nil {
				sources = append(sources, NewPlainTextSource(sibling))
				break
			}
		}
	}

	return sources, nil
}

// MultiSource fans a document out to several text sources concurrently.
// Each source gets its own timeout and bounded retry; a source that fails
// or times out only reduces the number of documents handed to fusion, it
// never blocks or fails its siblings.
type MultiSource struct {
	sources  []TextSource
	timeout  time.Duration
	retry    resilience.RetryConfig
	observer *observability.StandardObserver
}

// NewMultiSource creates a fan-out over the given sources.
func NewMultiSource(sources []TextSource, observer *observability.StandardObserver) *MultiSource {
	return &MultiSource{
		sources:  sources,
		timeout:  30 * time.Second,
		retry:    resilience.HostedSourceRetryConfig(),
		observer: observer,
	}
}

// SourceResult is one source's outcome.
type SourceResult struct {
	Source   string
	Document *document.Document
	Err      error
}

// ExtractAll runs every source concurrently and returns whatever succeeded.
func (m *MultiSource) ExtractAll(ctx context.Context) []SourceResult {
	results := make([]SourceResult, len(m.sources))
	var wg sync.WaitGroup

	for i, src := range m.sources {
		wg.Add(1)
		go func(i int, src TextSource) {
			defer wg.Done()

			var finishTiming func(bool, map[string]interface{})
			if m.observer != nil {
				finishTiming = m.observer.StartTiming("textsource", "extract", src.Name())
			}

			srcCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			doc, err := resilience.RetryWithResult(srcCtx, m.retry, func(ctx context.Context) (*document.Document, error) {
				return src.Extract(ctx)
			})

			if finishTiming != nil {
				finishTiming(err == nil, nil)
			}
			results[i] = SourceResult{Source: src.Name(), Document: doc, Err: err}
		}(i, src)
	}

	wg.Wait()
	return results
}
