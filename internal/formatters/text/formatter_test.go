// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"strings"
	"testing"
	"time"

	"tamperscan/internal/analyzer"
	"tamperscan/internal/formatters"
	"tamperscan/internal/formatters/shared"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
}

func suspiciousReport() shared.Report {
	cfg := analyzer.DefaultConfig()
	cfg.Now = fixedClock()
	meta := analyzer.Metadata{
		"CreationDate":     "D:20230510120000",
		"ModificationDate": "D:20230509120000",
		"Author":           "Jane Roe",
		"Producer":         "PDFEditorX 2.1",
	}
	return shared.FromResult(analyzer.Analyze("edited.pdf", meta, nil, cfg))
}

func cleanReport() shared.Report {
	cfg := analyzer.DefaultConfig()
	cfg.Now = fixedClock()
	meta := analyzer.Metadata{
		"CreationDate":     "D:20230110090000",
		"ModificationDate": "D:20230110091500",
		"Author":           "Jane Roe",
		"Producer":         "Adobe PDF Library 15.0",
	}
	return shared.FromResult(analyzer.Analyze("clean.pdf", meta, nil, cfg))
}

func format(t *testing.T, reports []shared.Report, options formatters.FormatterOptions) string {
	t.Helper()
	options.NoColor = true
	output, err := NewFormatter().Format(reports, options)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	return output
}

func TestTextFormatterCleanReport(t *testing.T) {
	output := format(t, []shared.Report{cleanReport()}, formatters.FormatterOptions{})

	if !strings.Contains(output, "Analyzing file: clean.pdf") {
		t.Errorf("missing header:\n%s", output)
	}
	if !strings.Contains(output, "No tampering detected. Document appears clean.") {
		t.Errorf("missing clean verdict:\n%s", output)
	}
	if strings.Contains(output, "Tampering indicators detected") {
		t.Errorf("clean report shows tampering section:\n%s", output)
	}
}

func TestTextFormatterSuspiciousReport(t *testing.T) {
	output := format(t, []shared.Report{suspiciousReport()}, formatters.FormatterOptions{})

	if !strings.Contains(output, "Tampering indicators detected:") {
		t.Errorf("missing verdict:\n%s", output)
	}
	if !strings.Contains(output, "Date issues:") {
		t.Errorf("missing date section:\n%s", output)
	}
	if !strings.Contains(output, "Software issues:") {
		t.Errorf("missing software section:\n%s", output)
	}
	if !strings.Contains(output, "- Suspicious editing software detected in Producer: PDFEditorX") {
		t.Errorf("missing software finding:\n%s", output)
	}
	if strings.Contains(output, "Metadata issues:") {
		t.Errorf("empty section rendered:\n%s", output)
	}
}

func TestTextFormatterSummaryMode(t *testing.T) {
	output := format(t, []shared.Report{suspiciousReport(), cleanReport()},
		formatters.FormatterOptions{Summary: true})

	suspicious := suspiciousReport()
	if !strings.Contains(output, "edited.pdf: SUSPICIOUS") {
		t.Errorf("missing suspicious line:\n%s", output)
	}
	if !strings.Contains(output, "clean.pdf: CLEAN") {
		t.Errorf("missing clean line:\n%s", output)
	}
	if !strings.Contains(output, "issues detected") {
		t.Errorf("missing issue count (have %d findings):\n%s", len(suspicious.Findings), output)
	}
	if !strings.Contains(output, strings.Repeat("-", 50)) {
		t.Errorf("missing report separator:\n%s", output)
	}
}

func TestTextFormatterVerboseShowsExtraFields(t *testing.T) {
	report := cleanReport()
	report.Metadata["XMP_CreateDate"] = "2023-01-10T09:00:00Z"

	quiet := format(t, []shared.Report{report}, formatters.FormatterOptions{})
	if strings.Contains(quiet, "XMP_CreateDate") {
		t.Errorf("extra field shown without verbose:\n%s", quiet)
	}

	verbose := format(t, []shared.Report{report}, formatters.FormatterOptions{Verbose: true})
	if !strings.Contains(verbose, "XMP_CreateDate: 2023-01-10T09:00:00Z") {
		t.Errorf("extra field missing with verbose:\n%s", verbose)
	}
}

func TestTextFormatterMetadataOrder(t *testing.T) {
	output := format(t, []shared.Report{cleanReport()}, formatters.FormatterOptions{})

	authorPos := strings.Index(output, "Author:")
	producerPos := strings.Index(output, "Producer:")
	creationPos := strings.Index(output, "CreationDate:")
	if authorPos < 0 || producerPos < 0 || creationPos < 0 {
		t.Fatalf("metadata lines missing:\n%s", output)
	}
	if !(authorPos < producerPos && producerPos < creationPos) {
		t.Errorf("metadata out of display order:\n%s", output)
	}
}
