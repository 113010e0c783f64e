// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	"tamperscan/internal/analyzer"
	"tamperscan/internal/config"
	"tamperscan/internal/formatters"
	"tamperscan/internal/formatters/shared"
	"tamperscan/internal/help"
	"tamperscan/internal/pdfmeta"
	"tamperscan/internal/version"
	"tamperscan/internal/web"

	_ "tamperscan/internal/formatters/json"
	_ "tamperscan/internal/formatters/text"
	_ "tamperscan/internal/formatters/yaml"

	"golang.org/x/term"
)

const (
	exitClean      = 0
	exitSuspicious = 1
	exitError      = 2
)

// fileOutcome pairs one input file with its analysis or extraction error.
type fileOutcome struct {
	path   string
	report shared.Report
	err    error
}

func main() {
	outputFormat := flag.String("format", "", "Output format: text, json, yaml (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	summary := flag.Bool("summary", false, "Only show summary results (suspicious/clean)")
	verbose := flag.Bool("verbose", false, "Include the full metadata in the report")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")
	webMode := flag.Bool("web", false, "Start web server mode instead of CLI scanning")
	webPort := flag.String("port", "8080", "Port for web server (default: 8080)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(exitClean)
	}
	if *showHelp {
		help.PrintUsage(*noColor)
		os.Exit(exitClean)
	}

	cfg := config.LoadConfigOrDefault(*configFile)

	if *webMode {
		if flag.NArg() > 0 {
			fmt.Fprintf(os.Stderr, "Error: -web mode does not take file arguments\n")
			os.Exit(exitError)
		}
		port := *webPort
		if !isFlagSet("port") && cfg.Web.Port != "" {
			port = cfg.Web.Port
		}
		if err := web.NewServer(port, cfg).Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}
		os.Exit(exitClean)
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no input files\n\n")
		help.PrintUsage(true)
		os.Exit(exitError)
	}

	options := resolveOptions(cfg, *summary, *verbose, *noColor, *outputFile)
	format := resolveFormat(cfg, *outputFormat)

	outcomes := analyzeFiles(files, cfg.AnalyzerConfig())

	var reports []shared.Report
	anySuspicious := false
	anyError := false
	for _, outcome := range outcomes {
		if outcome.err != nil {
			anyError = true
			fmt.Fprintf(os.Stderr, "Error: %v\n", outcome.err)
			continue
		}
		if outcome.report.Suspicious {
			anySuspicious = true
		}
		reports = append(reports, outcome.report)
	}

	output, err := formatters.Export(format, reports, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	if err := writeOutput(output, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	switch {
	case anyError:
		os.Exit(exitError)
	case anySuspicious:
		os.Exit(exitSuspicious)
	}
	os.Exit(exitClean)
}

// analyzeFiles runs the extraction and analysis for each input file.
// Analyses are independent pure computations, so they run concurrently;
// outcomes keep input order.
func analyzeFiles(files []string, rules analyzer.Config) []fileOutcome {
	outcomes := make([]fileOutcome, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			outcomes[i] = analyzeOne(path, rules)
		}(i, path)
	}
	wg.Wait()
	return outcomes
}

func analyzeOne(path string, rules analyzer.Config) fileOutcome {
	doc, err := pdfmeta.Extract(path)
	if err != nil {
		var extractionErr *pdfmeta.ExtractionError
		if errors.As(err, &extractionErr) {
			return fileOutcome{path: path, err: fmt.Errorf("could not read this file as a PDF: %s (%s)", path, extractionErr.Reason)}
		}
		return fileOutcome{path: path, err: err}
	}

	result := analyzer.Analyze(doc.Filename, doc.Fields, doc.Signals, rules)
	return fileOutcome{path: path, report: shared.FromResult(result)}
}

// resolveOptions merges config defaults with command line flags. Flags
// win when explicitly set.
func resolveOptions(cfg *config.Config, summary, verbose, noColor bool, outputFile string) formatters.FormatterOptions {
	options := formatters.FormatterOptions{
		Summary: cfg.Defaults.Summary,
		Verbose: cfg.Defaults.Verbose,
		NoColor: cfg.Defaults.NoColor,
	}
	if isFlagSet("summary") {
		options.Summary = summary
	}
	if isFlagSet("verbose") {
		options.Verbose = verbose
	}
	if isFlagSet("no-color") {
		options.NoColor = noColor
	}

	// Color codes in a file or pipe are never useful.
	if outputFile != "" || !isTerminal(os.Stdout) {
		options.NoColor = true
	}
	return options
}

func resolveFormat(cfg *config.Config, flagFormat string) string {
	format := "text"
	if cfg.Defaults.Format != "" {
		format = cfg.Defaults.Format
	}
	if isFlagSet("format") && flagFormat != "" {
		format = flagFormat
	}
	return format
}

func writeOutput(output, outputFile string) error {
	if outputFile == "" {
		fmt.Println(output)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(output), 0600); err != nil {
		return fmt.Errorf("error writing to output file: %w", err)
	}
	fmt.Printf("Results written to %s\n", outputFile)
	return nil
}

// isFlagSet checks whether a flag was explicitly provided on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
