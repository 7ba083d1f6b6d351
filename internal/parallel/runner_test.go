// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"errors"
	"testing"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/strategy"
)

// fakeStrategy lets tests script success, failure, and panic behavior.
type fakeStrategy struct {
	name      string
	proposals []extract.StrategyProposal
	err       error
	panics    bool
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Propose(matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, error) {
	if f.panics {
		panic("scripted panic")
	}
	return f.proposals, f.err
}

func TestRun_CollectsAllProposals(t *testing.T) {
	runner := NewStrategyRunner(nil)
	doc := document.FromText("t", "x")

	strategies := []strategy.Strategy{
		&fakeStrategy{name: "a", proposals: []extract.StrategyProposal{
			{IdentifierCode: "XS1234567890", StrategyName: "a"},
		}},
		&fakeStrategy{name: "b", proposals: []extract.StrategyProposal{
			{IdentifierCode: "XS1234567890", StrategyName: "b"},
			{IdentifierCode: "CH0012345678", StrategyName: "b"},
		}},
	}

	proposals, errs := runner.Run(context.Background(), strategies, nil, nil, doc)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(proposals) != 3 {
		t.Errorf("expected 3 proposals from both strategies, got %d", len(proposals))
	}
}

func TestRun_ErrorIsolation(t *testing.T) {
	runner := NewStrategyRunner(nil)
	doc := document.FromText("t", "x")

	strategies := []strategy.Strategy{
		&fakeStrategy{name: "healthy", proposals: []extract.StrategyProposal{
			{IdentifierCode: "XS1234567890", StrategyName: "healthy"},
		}},
		&fakeStrategy{name: "broken", err: errors.New("template compile failed")},
	}

	proposals, errs := runner.Run(context.Background(), strategies, nil, nil, doc)
	if len(proposals) != 1 {
		t.Errorf("healthy strategy output must survive a sibling failure, got %d proposals", len(proposals))
	}
	if err, ok := errs["broken"]; !ok || err == nil {
		t.Errorf("failing strategy must be reported by name, got %v", errs)
	}
	if _, ok := errs["healthy"]; ok {
		t.Error("healthy strategy must not appear in the error map")
	}
}

func TestRun_PanicRecovered(t *testing.T) {
	runner := NewStrategyRunner(nil)
	doc := document.FromText("t", "x")

	strategies := []strategy.Strategy{
		&fakeStrategy{name: "panicky", panics: true},
		&fakeStrategy{name: "healthy", proposals: []extract.StrategyProposal{
			{IdentifierCode: "XS1234567890", StrategyName: "healthy"},
		}},
	}

	proposals, errs := runner.Run(context.Background(), strategies, nil, nil, doc)
	if len(proposals) != 1 {
		t.Errorf("a panicking strategy must not take down the run, got %d proposals", len(proposals))
	}
	if err, ok := errs["panicky"]; !ok || err == nil {
		t.Errorf("panic must surface as an error, got %v", errs)
	}
}

func TestRun_NoStrategies(t *testing.T) {
	runner := NewStrategyRunner(nil)
	doc := document.FromText("t", "x")

	proposals, errs := runner.Run(context.Background(), nil, nil, nil, doc)
	if len(proposals) != 0 || len(errs) != 0 {
		t.Errorf("empty strategy set should yield nothing, got %d proposals, %d errors", len(proposals), len(errs))
	}
}
