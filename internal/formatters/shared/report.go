// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"tamperscan/internal/analyzer"
)

// Report is the presentation shape of one document's analysis, consumed
// by every formatter and by the web UI. Field order inside the category
// buckets is detection order.
type Report struct {
	Filename      string                  `json:"filename" yaml:"filename"`
	Metadata      map[string]string       `json:"metadata" yaml:"metadata"`
	Findings      []analyzer.Finding      `json:"findings" yaml:"findings"`
	Categories    analyzer.CategoryGroups `json:"categorized_findings" yaml:"categorized_findings"`
	Suspicious    bool                    `json:"is_suspicious" yaml:"is_suspicious"`
	SeverityClass string                  `json:"severity_class" yaml:"severity_class"`
	AnalysisTime  string                  `json:"analysis_time" yaml:"analysis_time"`
}

// Response is the top-level structure for JSON/YAML output.
type Response struct {
	Results []Report `json:"results" yaml:"results"`
}

// FromResult converts an analyzer result into its presentation shape.
func FromResult(result *analyzer.Result) Report {
	return Report{
		Filename:      result.Filename,
		Metadata:      result.Metadata,
		Findings:      result.Findings,
		Categories:    result.ByCategory(),
		Suspicious:    result.Suspicious,
		SeverityClass: result.SeverityClass(),
		AnalysisTime:  result.AnalyzedAt.Format(time.RFC3339),
	}
}
