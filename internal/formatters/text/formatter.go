// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"tamperscan/internal/analyzer"
	"tamperscan/internal/formatters"
	"tamperscan/internal/formatters/shared"

	"github.com/fatih/color"
)

// metadataDisplayOrder fixes the order of the key fields in the report
// header; remaining fields follow alphabetically via sortedKeys.
var metadataDisplayOrder = []string{
	"Title", "Author", "Subject", "Keywords", "Creator", "Producer",
	"CreationDate", "ModificationDate",
}

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(reports []shared.Report, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder
	for i, report := range reports {
		if i > 0 {
			builder.WriteString("\n" + strings.Repeat("-", 50) + "\n\n")
		}
		if options.Summary {
			f.appendSummaryLine(&builder, report)
		} else {
			f.appendReport(&builder, report, options)
		}
	}
	return builder.String(), nil
}

// appendSummaryLine writes the one-line verdict used in summary mode.
func (f *Formatter) appendSummaryLine(builder *strings.Builder, report shared.Report) {
	if report.Suspicious {
		builder.WriteString(fmt.Sprintf("%s: %s - %d issues detected\n",
			report.Filename, f.colors["red"].Sprint("SUSPICIOUS"), len(report.Findings)))
		return
	}
	builder.WriteString(fmt.Sprintf("%s: %s\n", report.Filename, f.colors["green"].Sprint("CLEAN")))
}

func (f *Formatter) appendReport(builder *strings.Builder, report shared.Report, options formatters.FormatterOptions) {
	builder.WriteString(f.colors["white"].Sprintf("Analyzing file: %s\n", report.Filename))

	for _, key := range metadataDisplayOrder {
		if value := report.Metadata[key]; value != "" {
			builder.WriteString(fmt.Sprintf("%s: %s\n", key, value))
		}
	}
	if options.Verbose {
		for _, key := range sortedExtraKeys(report.Metadata) {
			builder.WriteString(fmt.Sprintf("%s: %s\n", key, report.Metadata[key]))
		}
	}

	if !report.Suspicious {
		builder.WriteString("\n")
		builder.WriteString(f.colors["green"].Sprint("No tampering detected. Document appears clean.\n"))
		return
	}

	builder.WriteString("\n")
	builder.WriteString(f.colors["red"].Sprint("Tampering indicators detected:\n"))

	sections := []struct {
		title    string
		findings []analyzer.Finding
	}{
		{"Date issues", report.Categories.DateIssues},
		{"Software issues", report.Categories.SoftwareIssues},
		{"Metadata issues", report.Categories.MetadataIssues},
		{"Integrity issues", report.Categories.IntegrityIssues},
	}
	for _, section := range sections {
		if len(section.findings) == 0 {
			continue
		}
		builder.WriteString(f.colors["cyan"].Sprintf("  %s:\n", section.title))
		for _, finding := range section.findings {
			builder.WriteString(fmt.Sprintf("    - %s\n", finding.Message))
		}
	}
}

// sortedExtraKeys returns metadata keys outside the fixed display order,
// sorted for stable output.
func sortedExtraKeys(metadata map[string]string) []string {
	shown := make(map[string]bool, len(metadataDisplayOrder))
	for _, key := range metadataDisplayOrder {
		shown[key] = true
	}

	var keys []string
	for key, value := range metadata {
		if !shown[key] && value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
