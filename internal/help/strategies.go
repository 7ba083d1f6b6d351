// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

// builtinStrategies describes the shipped correlation strategies.
func builtinStrategies() []StrategyInfo {
	return []StrategyInfo{
		{
			Name:                "fixed-offset",
			ShortDescription:    "Value at a fixed line distance below the identifier",
			DetailedDescription: "Looks for the position value a fixed number of lines below each identifier. Custody statements from the same issuer keep a stable layout, so a calibrated offset is both fast and precise on the document family it was tuned for.",
			Signals: []string{
				"Line distance between identifier and value",
				"One line of slack in either direction for minor layout drift",
			},
			ConfidenceNotes: []string{
				"0.85 when the offset was validated against the document family",
				"0.70 for a tuned but unvalidated offset",
				"0.25 penalty when the value sits one line off the configured offset",
			},
			Configuration: "strategy_settings.fixed_offset.offset and .validated in the config file; the swiss-custody profile ships offset 2, validated.",
			Examples: []string{
				"statement-scan --file statement.txt --strategies fixed-offset",
				"statement-scan --file statement.txt --profile swiss-custody",
			},
		},
		{
			Name:                "context-window",
			ShortDescription:    "Best-scored value within a window of lines around the identifier",
			DetailedDescription: "Scores every numeric candidate within a window of lines around each identifier. Grammar specificity, plausibility and proximity each contribute, so the strategy degrades gracefully on layouts no offset was calibrated for.",
			Signals: []string{
				"Locale grammar of the candidate (apostrophe and dot-comma groupings score highest)",
				"Whether the value falls inside the plausible band",
				"Line distance from the identifier",
			},
			ConfidenceNotes: []string{
				"Base 0.30 plus grammar rank, plausibility and proximity terms",
				"Tops out at 0.85 for a specific grammar on the identifier's own line",
			},
			Configuration: "strategy_settings.context_window.window sets the line radius (default 5).",
			Examples: []string{
				"statement-scan --file statement.txt --strategies context-window",
			},
		},
		{
			Name:                "template",
			ShortDescription:    "Compound line patterns with arithmetic cross-checks",
			DetailedDescription: "Matches configured line templates that capture nominal, price and value in one pattern. When all three groups are present the strategy verifies nominal times price against the captured value and only proposes consistent matches.",
			Signals: []string{
				"Configured regular expression templates",
				"Nominal times price arithmetic consistency",
			},
			ConfidenceNotes: []string{
				"0.85 for an arithmetically verified match",
				"0.75 for a structural match without a cross-check",
			},
			Configuration: "strategy_settings.template.templates in the config file; each entry names a pattern with nominal, price and value capture groups.",
			Examples: []string{
				"statement-scan --file statement.txt --config templates.yaml --strategies template",
			},
		},
		{
			Name:                "row-adjacency",
			ShortDescription:    "Rightmost value on the identifier's own table row",
			DetailedDescription: "Treats multi-column lines as table rows and proposes the rightmost numeric candidate on the identifier's row. Statement tables conventionally put the position value in the last column.",
			Signals: []string{
				"Column structure split on runs of whitespace, tabs or pipes",
				"Column regularity of the neighboring rows",
			},
			ConfidenceNotes: []string{
				"Base 0.55, plus 0.10 when neighboring rows share the column shape",
			},
			Configuration: "strategy_settings.row_adjacency.neighbor_rows controls how many neighbors vote on regularity (default 2).",
			Examples: []string{
				"statement-scan --file statement.txt --strategies row-adjacency",
			},
		},
		{
			Name:                "override",
			ShortDescription:    "Manually verified values from the overrides file",
			DetailedDescription: "Serves values a human has verified and recorded in the overrides file. Override proposals are authoritative: they outrank every heuristic and keep full confidence even when strategies disagree.",
			Signals: []string{
				"Identifier listed in an enabled, unexpired override rule",
			},
			ConfidenceNotes: []string{
				"Always 1.0; fusion never discounts an authoritative proposal",
			},
			Configuration: "Managed with the override command; --overrides-file points the scanner at a rule file.",
			Examples: []string{
				"override -action add -identifier XS1234567890 -value 199080.00 -reason 'verified against custodian'",
				"statement-scan --file statement.txt --overrides-file .statement-scan-overrides.yaml",
			},
		},
	}
}
