// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"

	"statement-scan/internal/config"
	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/fusion"
	"statement-scan/internal/observability"
	"statement-scan/internal/overrides"
	"statement-scan/internal/parallel"
	"statement-scan/internal/strategy"
	"statement-scan/internal/strategy/override"
	"statement-scan/internal/textsource"
	"statement-scan/internal/validate"
)

// ErrEmptyDocument is the single hard failure of a pipeline run. Everything
// else degrades: a failed strategy is excluded, an unresolved identifier
// becomes a needs-review record.
var ErrEmptyDocument = errors.New("document contains no text")

// Options configures a pipeline run.
type Options struct {
	Config *config.Config

	// Overrides supplies manually verified values that outrank every
	// heuristic. Nil disables the override path.
	Overrides *overrides.Manager

	// ExpectedTotal enables the accuracy computation when the caller knows
	// the statement's declared portfolio total. Nil skips it.
	ExpectedTotal *float64

	// VerifyChecksum enables ISIN checksum verification during location.
	VerifyChecksum bool

	Observer *observability.StandardObserver
}

// Pipeline wires location, extraction, strategies, fusion and validation
// into one run per document.
type Pipeline struct {
	locator    *extract.Locator
	extractor  *extract.Extractor
	strategies []strategy.Strategy
	runner     *parallel.StrategyRunner
	engine     *fusion.Engine
	validator  *validate.Validator
	observer   *observability.StandardObserver

	overrideTable map[string]float64
	expectedTotal *float64
}

// NewPipeline builds a pipeline from the given options. A nil config gets
// the defaults.
func NewPipeline(opts Options) (*Pipeline, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig("")
		if err != nil {
			return nil, err
		}
	}

	enabled := ParseStrategiesToRun(cfg.Defaults.Strategies)
	strategies, err := BuildStrategySet(enabled, cfg)
	if err != nil {
		return nil, fmt.Errorf("building strategies: %w", err)
	}
	if len(strategies) == 0 {
		return nil, errors.New("no strategies enabled")
	}

	locator := extract.NewLocator()
	if opts.VerifyChecksum {
		locator = locator.WithChecksum(extract.ISINChecksum)
	}

	extractor := extract.NewExtractor()
	if cfg.Defaults.MinMagnitude > 0 {
		extractor = extractor.WithMinMagnitude(cfg.Defaults.MinMagnitude)
	}

	engine := fusion.NewEngine(fusion.Config{
		Priorities:          cfg.Fusion.PriorityMap(),
		Tolerance:           cfg.Fusion.Tolerance,
		DisagreementPenalty: cfg.Fusion.DisagreementPenalty,
		CorroborationBoost:  cfg.Fusion.CorroborationBoost,
	})

	validator := validate.New()
	if cfg.Validation.PlausibleMax > 0 {
		validator = validator.WithBand(cfg.Validation.PlausibleMin, cfg.Validation.PlausibleMax)
	}

	p := &Pipeline{
		locator:       locator,
		extractor:     extractor,
		strategies:    strategies,
		runner:        parallel.NewStrategyRunner(opts.Observer),
		engine:        engine,
		validator:     validator,
		observer:      opts.Observer,
		expectedTotal: opts.ExpectedTotal,
	}
	if opts.Overrides != nil {
		p.overrideTable = opts.Overrides.Table()
	}
	return p, nil
}

// ProcessDocument runs the full pipeline over one document. The result is a
// pure function of the document and configuration: running it twice yields
// identical records.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *document.Document) (*fusion.FusionResult, error) {
	if doc == nil || doc.IsEmpty() {
		return nil, ErrEmptyDocument
	}

	var finishTiming func(bool, map[string]interface{})
	if p.observer != nil {
		finishTiming = p.observer.StartTiming("pipeline", "process_document", doc.Source)
	}

	matches := p.locator.Locate(doc)
	candidates := p.extractor.Extract(doc)

	strategies := p.strategies
	if len(p.overrideTable) > 0 {
		strategies = append(append([]strategy.Strategy{}, strategies...), override.New(p.overrideTable))
	}

	proposals, strategyErrs := p.runner.Run(ctx, strategies, matches, candidates, doc)

	result := p.engine.Fuse(matches, proposals)
	if len(strategyErrs) > 0 {
		result.StrategyErrors = make(map[string]string, len(strategyErrs))
		for name, err := range strategyErrs {
			result.StrategyErrors[name] = err.Error()
		}
	}

	p.validator.Apply(result, p.expectedTotal)

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"identifier_count": len(matches),
			"candidate_count":  len(candidates),
			"record_count":     result.RecordCount,
		})
	}

	return result, nil
}

// ProcessFile extracts text from a statement file and runs the pipeline
// over it. Matches parallel.ProcessFunc so directory scans can hand it to a
// worker pool unchanged. When the file has more than one candidate source
// (a PDF with a sibling recognition transcript), all of them are tried
// concurrently and the first successful document in preference order wins.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*fusion.FusionResult, error) {
	sources, err := textsource.CandidatesForFile(path)
	if err != nil {
		return nil, err
	}

	if len(sources) == 1 {
		doc, err := sources[0].Extract(ctx)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", path, err)
		}
		return p.ProcessDocument(ctx, doc)
	}

	var doc *document.Document
	results := textsource.NewMultiSource(sources, p.observer).ExtractAll(ctx)
	for _, result := range results {
		if result.Err == nil && result.Document != nil {
			doc = result.Document
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("extracting %s: every source failed (%v)", path, results[0].Err)
	}

	return p.ProcessDocument(ctx, doc)
}
