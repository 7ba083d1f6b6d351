// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// StrategyInfo contains standardized information about a correlation strategy.
type StrategyInfo struct {
	Name                string   // Strategy name (e.g., "fixed-offset")
	ShortDescription    string   // One-line description for the strategies list
	DetailedDescription string   // What the strategy does and when it works
	Signals             []string // Document signals the strategy relies on
	ConfidenceNotes     []string // How the confidence score is built
	Configuration       string   // How to tune the strategy
	Examples            []string // Usage examples
}

// System renders strategy help for the CLI.
type System struct {
	strategies map[string]StrategyInfo
	colors     map[string]*color.Color
}

// NewSystem creates a help system populated with the built-in strategies.
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	s := &System{
		strategies: make(map[string]StrategyInfo),
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"example":  color.New(color.FgMagenta),
		},
	}
	for _, info := range builtinStrategies() {
		s.Register(info)
	}
	return s
}

// Register adds a strategy description to the system.
func (h *System) Register(info StrategyInfo) {
	h.strategies[strings.ToLower(info.Name)] = info
}

// ShowStrategiesList displays a summary of all available strategies.
func (h *System) ShowStrategiesList() {
	h.colors["title"].Println("Available Correlation Strategies")
	fmt.Println("================================")
	fmt.Println()

	names := make([]string, 0, len(h.strategies))
	for name := range h.strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		info := h.strategies[name]
		fmt.Fprintf(w, "  %s\t%s\n", info.Name, info.ShortDescription)
	}
	w.Flush()
	fmt.Println()
	fmt.Println("Use --explain <strategy> for details on a specific strategy.")
}

// ShowStrategyHelp displays detailed help for one strategy.
func (h *System) ShowStrategyHelp(name string) error {
	info, ok := h.strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown strategy: %s", name)
	}

	h.colors["title"].Printf("%s\n", info.Name)
	fmt.Println(strings.Repeat("=", len(info.Name)))
	fmt.Println()
	fmt.Println(info.DetailedDescription)
	fmt.Println()

	if len(info.Signals) > 0 {
		h.colors["header"].Println("SIGNALS:")
		for _, signal := range info.Signals {
			h.colors["item"].Printf("  • %s\n", signal)
		}
		fmt.Println()
	}

	if len(info.ConfidenceNotes) > 0 {
		h.colors["header"].Println("CONFIDENCE:")
		for _, note := range info.ConfidenceNotes {
			fmt.Printf("  %s\n", note)
		}
		fmt.Println()
	}

	if info.Configuration != "" {
		h.colors["header"].Println("CONFIGURATION:")
		fmt.Printf("  %s\n", info.Configuration)
		fmt.Println()
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Println("EXAMPLES:")
		for _, example := range info.Examples {
			h.colors["example"].Printf("  %s\n", example)
		}
		fmt.Println()
	}

	return nil
}
