// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/term"

	"statement-scan/internal/config"
	"statement-scan/internal/core"
	"statement-scan/internal/formatters"
	_ "statement-scan/internal/formatters/csv"
	_ "statement-scan/internal/formatters/json"
	_ "statement-scan/internal/formatters/text"
	_ "statement-scan/internal/formatters/yaml"
	"statement-scan/internal/help"
	"statement-scan/internal/observability"
	"statement-scan/internal/overrides"
	"statement-scan/internal/parallel"
	"statement-scan/internal/paths"
	"statement-scan/internal/platform"
	"statement-scan/internal/textsource"
	"statement-scan/internal/version"
)

// configFlags holds command line flag values
type configFlags struct {
	outputFormat     string
	confidenceLevels string
	strategiesToRun  string
	verbose          bool
	debug            bool
	noColor          bool
	recursive        bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format           string
	confidenceLevels string
	verbose          bool
	debug            bool
	noColor          bool
	recursive        bool
}

func main() {
	inputFile := flag.String("file", "", "Path to the statement file or directory")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	outputFormat := flag.String("format", "", "Output format: text, json, csv, yaml (default: text)")
	confidenceLevels := flag.String("confidence", "", "Confidence levels to display: high, medium, low, or combinations like 'high,medium'")
	strategiesToRun := flag.String("strategies", "", "Specific strategies to run: fixed-offset, context-window, template, row-adjacency, or combinations")
	verbose := flag.Bool("verbose", false, "Display detailed information for each record")
	showAlternatives := flag.Bool("show-alternatives", false, "Include losing proposals per record in the output")
	debug := flag.Bool("debug", false, "Enable debug logging of pipeline stages")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showVersion := flag.Bool("version", false, "Show version information")
	recursive := flag.Bool("recursive", false, "Recursively scan directories")
	overridesFile := flag.String("overrides-file", "", "Path to override configuration file (default: .statement-scan-overrides.yaml)")
	expectedTotal := flag.Float64("expected-total", 0, "Declared portfolio total for accuracy measurement")
	verifyChecksum := flag.Bool("verify-checksum", false, "Verify ISIN checksums during identifier location")
	scanImage := flag.String("scan-image", "", "Path to the scanned statement image; its capture metadata is reported for the audit trail")
	quiet := flag.Bool("quiet", false, "Suppress progress output (useful for scripts and CI/CD)")
	listStrategies := flag.Bool("list-strategies", false, "List available correlation strategies")
	explainStrategy := flag.String("explain", "", "Show detailed help for one strategy")

	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	if *listStrategies {
		help.NewSystem(*noColor).ShowStrategiesList()
		return
	}
	if *explainStrategy != "" {
		if err := help.NewSystem(*noColor).ShowStrategyHelp(*explainStrategy); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg := loadConfiguration(*configFile)

	if *listProfiles {
		printProfiles(cfg)
		return
	}

	if *profileName != "" {
		if err := cfg.ApplyProfile(*profileName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	flags := &configFlags{
		outputFormat:     *outputFormat,
		confidenceLevels: *confidenceLevels,
		strategiesToRun:  *strategiesToRun,
		verbose:          *verbose,
		debug:            *debug,
		noColor:          *noColor,
		recursive:        *recursive,
	}
	finalConfig := resolveConfiguration(cfg, flags)

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		flag.Usage()
		os.Exit(1)
	}

	// Strategies from the flag override the config default.
	if isFlagSet("strategies") && flags.strategiesToRun != "" {
		cfg.Defaults.Strategies = flags.strategiesToRun
	}

	// Colors are pointless when piping output.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		finalConfig.noColor = true
	}

	observerLevel := observability.ObservabilityMetrics
	if finalConfig.debug {
		observerLevel = observability.ObservabilityDebug
	}
	if *quiet {
		observerLevel = observability.ObservabilityOff
	}
	observer := observability.NewStandardObserver(observerLevel, os.Stderr)

	if *scanImage != "" {
		reportProvenance(*scanImage, *quiet)
	}

	overridesPath := *overridesFile
	if overridesPath == "" {
		overridesPath = cfg.Defaults.OverridesFile
	}
	if overridesPath == "" {
		for _, candidate := range []string{".statement-scan-overrides.yaml", paths.GetOverridesFile()} {
			if _, err := os.Stat(candidate); err == nil {
				overridesPath = candidate
				break
			}
		}
	}

	opts := core.Options{
		Config:         cfg,
		Observer:       observer,
		VerifyChecksum: *verifyChecksum,
	}
	if overridesPath != "" {
		opts.Overrides = overrides.NewManager(overridesPath)
	}
	if isFlagSet("expected-total") {
		opts.ExpectedTotal = expectedTotal
	}

	pipeline, err := core.NewPipeline(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := getFilesToProcess(*inputFile, finalConfig.recursive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no statement files found")
		os.Exit(1)
	}

	results := processFiles(pipeline, files, observer)

	options := formatters.Options{
		ConfidenceLevels: core.ParseConfidenceLevels(finalConfig.confidenceLevels),
		Verbose:          finalConfig.verbose,
		NoColor:          finalConfig.noColor,
		ShowAlternatives: *showAlternatives,
	}

	output, err := formatters.Export(finalConfig.format, results, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(output)
	}

	os.Exit(exitCode(results))
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// resolveConfiguration resolves final values from config file and command
// line flags; flags win when explicitly set.
func resolveConfiguration(cfg *config.Config, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{}

	final.format = "text"
	if cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	final.confidenceLevels = "all"
	if cfg.Defaults.ConfidenceLevels != "" {
		final.confidenceLevels = cfg.Defaults.ConfidenceLevels
	}
	if isFlagSet("confidence") && flags.confidenceLevels != "" {
		final.confidenceLevels = flags.confidenceLevels
	}

	final.verbose = cfg.Defaults.Verbose
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}

	final.debug = cfg.Defaults.Debug
	if isFlagSet("debug") {
		final.debug = flags.debug
	}

	final.noColor = cfg.Defaults.NoColor
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}

	final.recursive = cfg.Defaults.Recursive
	if isFlagSet("recursive") {
		final.recursive = flags.recursive
	}

	return final
}

// printProfiles lists the profiles available in the loaded configuration.
func printProfiles(cfg *config.Config) {
	if len(cfg.Profiles) == 0 {
		fmt.Println("No profiles defined.")
		return
	}
	var names []string
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("Available profiles:")
	for _, name := range names {
		profile := cfg.Profiles[name]
		if profile.Description != "" {
			fmt.Printf("  %s - %s\n", name, profile.Description)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}

// reportProvenance prints the capture metadata of a scanned statement image.
func reportProvenance(path string, quiet bool) {
	provenance, err := textsource.ReadScanProvenance(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no scan provenance for %s: %v\n", path, err)
		return
	}
	if quiet {
		return
	}
	if provenance.Device != "" {
		fmt.Fprintf(os.Stderr, "Scan device: %s\n", provenance.Device)
	}
	if provenance.CaptureTime != "" {
		fmt.Fprintf(os.Stderr, "Scan captured: %s\n", provenance.CaptureTime)
	}
	if provenance.Software != "" {
		fmt.Fprintf(os.Stderr, "Scan software: %s\n", provenance.Software)
	}
}

// getFilesToProcess expands the input path into the list of statement files.
// Hidden files are skipped during directory scans but an explicitly named
// file is always processed.
func getFilesToProcess(inputPath string, recursive bool) ([]string, error) {
	if err := paths.ValidatePath(inputPath); err != nil {
		return nil, err
	}
	inputPath = paths.NormalizePath(inputPath)

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", inputPath, err)
	}

	if !info.IsDir() {
		if err := platform.CheckFileAccessibility(inputPath); err != nil {
			return nil, err
		}
		return []string{inputPath}, nil
	}

	var files []string
	if recursive {
		err = filepath.Walk(inputPath, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && isSupportedType(path) && !isHidden(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return files, nil
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(inputPath, entry.Name())
		if isSupportedType(path) && !isHidden(path) {
			files = append(files, path)
		}
	}
	return files, nil
}

func isHidden(path string) bool {
	hidden, err := platform.IsFileHidden(path)
	return err == nil && hidden
}

func isSupportedType(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".text", ".ocr":
		return true
	}
	return false
}

// processFiles runs the pipeline over every file, using a worker pool when
// there is more than one.
func processFiles(pipeline *core.Pipeline, files []string, observer *observability.StandardObserver) []formatters.ScanResult {
	if len(files) == 1 {
		fused, err := pipeline.ProcessFile(context.Background(), files[0])
		return []formatters.ScanResult{{Source: files[0], Result: fused, Err: err}}
	}

	workers := runtime.NumCPU()
	if workers > len(files) {
		workers = len(files)
	}

	pool := parallel.NewWorkerPool(workers, pipeline.ProcessFile, observer)
	pool.Start()

	go func() {
		for i, path := range files {
			pool.Submit(&parallel.Job{JobID: fmt.Sprintf("job-%d", i), Path: path})
		}
		pool.Close()
	}()

	collected := make(map[string]formatters.ScanResult, len(files))
	done := make(chan struct{})
	go func() {
		for result := range pool.Results() {
			collected[result.Path] = formatters.ScanResult{
				Source: result.Path,
				Result: result.Fusion,
				Err:    result.Error,
			}
		}
		close(done)
	}()

	pool.Stop()
	<-done

	// Input order, not completion order.
	results := make([]formatters.ScanResult, 0, len(files))
	for _, path := range files {
		if sr, ok := collected[path]; ok {
			results = append(results, sr)
		}
	}
	return results
}

// exitCode maps the run outcome to a process exit code: 0 clean, 1 when any
// statement failed outright.
func exitCode(results []formatters.ScanResult) int {
	for _, sr := range results {
		if sr.Err != nil {
			return 1
		}
	}
	return 0
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
