// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"statement-scan/internal/document"
	"statement-scan/internal/extract"
	"statement-scan/internal/strategy"
)

// Name is the registered strategy name.
const Name = "template"

// Spec is one compound line template. The pattern must contain a named
// group "value"; optional "price" (a percentage of nominal) and "nominal"
// groups enable algebraic verification of the decomposition.
type Spec struct {
	Name    string
	Pattern string
}

// Strategy matches whole lines against compound templates. Converted
// statements frequently fuse adjacent table columns into one token (a price
// percentage concatenated with the market value); templates split such
// lines back into components and, when the nominal is also present, verify
// nominal * price / 100 against the extracted value before proposing it.
type Strategy struct {
	templates []compiled

	// SearchAfter is how many lines below an identifier are tried. Compound
	// rows sit at or just below the identifier row in every family seen.
	SearchAfter int

	// Tolerance is the relative error allowed by algebraic verification.
	Tolerance float64
}

type compiled struct {
	name    string
	regex   *regexp.Regexp
	value   int
	price   int
	nominal int
}

const (
	confidenceVerified   = 0.85
	confidenceUnverified = 0.75
	defaultSearchAfter   = 3
	defaultTolerance     = 0.01
)

// DefaultSpecs returns the built-in template set.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			// Price column fused into the value column: 99.8750150'000.00
			Name:    "concatenated-price-value",
			Pattern: `(?P<price>\d{1,3}\.\d{2,4})(?P<value>\d{1,3}(?:'\d{3})+(?:\.\d{2})?)`,
		},
		{
			// Separated nominal / price / value row
			Name:    "nominal-price-value",
			Pattern: `(?P<nominal>\d{1,3}(?:'\d{3})+)\s+(?P<price>\d{1,3}\.\d{2,4})%?\s+(?P<value>\d{1,3}(?:'\d{3})+\.\d{2})`,
		},
	}
}

// New compiles the template set. An invalid pattern fails construction so a
// bad config entry is reported once instead of on every document.
func New(specs []Spec) (*Strategy, error) {
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}

	s := &Strategy{SearchAfter: defaultSearchAfter, Tolerance: defaultTolerance}
	for _, spec := range specs {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", spec.Name, err)
		}
		c := compiled{name: spec.Name, regex: re, value: -1, price: -1, nominal: -1}
		for i, g := range re.SubexpNames() {
			switch g {
			case "value":
				c.value = i
			case "price":
				c.price = i
			case "nominal":
				c.nominal = i
			}
		}
		if c.value < 0 {
			return nil, fmt.Errorf("template %q: missing required group \"value\"", spec.Name)
		}
		s.templates = append(s.templates, c)
	}
	return s, nil
}

// Name implements strategy.Strategy.
func (s *Strategy) Name() string { return Name }

// Propose implements strategy.Strategy.
func (s *Strategy) Propose(matches []extract.IdentifierMatch, candidates []extract.ValueCandidate, doc *document.Document) ([]extract.StrategyProposal, error) {
	var proposals []extract.StrategyProposal

	for _, m := range strategy.DedupeMatches(matches) {
		if p, ok := s.proposeFor(m, doc); ok {
			proposals = append(proposals, p)
		}
	}

	return proposals, nil
}

// proposeFor tries each template against the identifier line and the lines
// just below it. The first decomposition that survives verification wins.
func (s *Strategy) proposeFor(m extract.IdentifierMatch, doc *document.Document) (extract.StrategyProposal, bool) {
	for offset := 0; offset <= s.SearchAfter; offset++ {
		lineIndex := m.LineIndex + offset
		line := doc.LineText(lineIndex)
		if line == "" {
			continue
		}

		for _, tpl := range s.templates {
			groups := tpl.regex.FindStringSubmatch(line)
			if groups == nil {
				continue
			}

			value, _, ok := extract.ClassifyNumeric(groups[tpl.value])
			if !ok {
				continue
			}

			confidence := confidenceUnverified
			reason := fmt.Sprintf("template %q matched line %d", tpl.name, lineIndex)

			if tpl.price >= 0 && tpl.nominal >= 0 {
				// Prices carry up to four decimals, beyond what the value
				// grammars accept, so they parse directly.
				price, perr := strconv.ParseFloat(groups[tpl.price], 64)
				nominal, _, nok := extract.ClassifyNumeric(groups[tpl.nominal])
				if perr != nil || !nok {
					continue
				}
				expected := nominal * price / 100.0
				if !withinRelative(expected, value, s.Tolerance) {
					// Decomposition is algebraically inconsistent, so the
					// template did not really match this row.
					continue
				}
				confidence = confidenceVerified
				reason = fmt.Sprintf("template %q verified %s * %s%% = %s on line %d",
					tpl.name, groups[tpl.nominal], groups[tpl.price], groups[tpl.value], lineIndex)
			}

			return extract.StrategyProposal{
				IdentifierCode:  m.Code,
				Value:           value,
				Confidence:      confidence,
				StrategyName:    Name,
				SourceLineIndex: lineIndex,
				Reasoning:       reason,
			}, true
		}
	}

	return extract.StrategyProposal{}, false
}

func withinRelative(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return true
	}
	return math.Abs(a-b)/larger <= tolerance
}
