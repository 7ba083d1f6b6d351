// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/observability"
	"statement-scan/internal/strategy"
)

// StrategyRunner executes strategies concurrently with error isolation.
// Strategies are pure functions of the same immutable inputs, so no
// synchronization is needed beyond collecting results before fusion.
type StrategyRunner struct {
	observer *observability.StandardObserver
}

// NewStrategyRunner creates a runner.
func NewStrategyRunner(observer *observability.StandardObserver) *StrategyRunner {
	return &StrategyRunner{observer: observer}
}

// Run invokes every strategy on the shared inputs and collects proposals.
// A strategy that errors or panics is excluded from the results and
// reported in the returned error map; it never aborts sibling strategies
// or the run itself.
func (r *StrategyRunner) Run(ctx context.Context, strategies []strategy.Strategy, matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, map[string]error) {
	type outcome struct {
		name      string
		proposals []extract.StrategyProposal
		err       error
	}

	results := make(chan outcome, len(strategies))
	var wg sync.WaitGroup

	for _, s := range strategies {
		wg.Add(1)
		go func(s strategy.Strategy) {
			defer wg.Done()

			var finishTiming func(bool, map[string]interface{})
			if r.observer != nil {
				finishTiming = r.observer.StartTiming("strategy_runner", s.Name(), doc.Source)
			}

			out := outcome{name: s.Name()}
			func() {
				// A panicking strategy is a strategy failure, not a
				// pipeline failure.
				defer func() {
					if rec := recover(); rec != nil {
						out.err = fmt.Errorf("strategy %s panicked: %v", s.Name(), rec)
						out.proposals = nil
					}
				}()
				out.proposals, out.err = s.Propose(matches, candidates, doc)
			}()

			if finishTiming != nil {
				finishTiming(out.err == nil, map[string]interface{}{
					"proposal_count": len(out.proposals),
				})
			}

			select {
			case results <- out:
			case <-ctx.Done():
			}
		}(s)
	}

	wg.Wait()
	close(results)

	var proposals []extract.StrategyProposal
	errs := make(map[string]error)
	for out := range results {
		if out.err != nil {
			errs[out.name] = out.err
			continue
		}
		proposals = append(proposals, out.proposals...)
	}

	return proposals, errs
}
