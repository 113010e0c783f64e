// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// checkSummary describes one heuristic check for the help output.
type checkSummary struct {
	name        string
	category    string
	description string
}

var checks = []checkSummary{
	{"date-order", "date", "Modification date earlier than creation date"},
	{"date-gap", "date", "Creation/modification gap beyond the configured day threshold"},
	{"future-date", "date", "Creation or modification date set in the future"},
	{"suspicious-software", "software", "Producer/Creator matches a known metadata-editing tool"},
	{"unknown-producer", "software", "Producer matches no known legitimate PDF software"},
	{"missing-field", "metadata", "An expected metadata field is absent or empty"},
	{"integrity", "integrity", "Structural anomalies reported by the PDF parser"},
}

// PrintUsage writes the CLI help text.
func PrintUsage(noColor bool) {
	if noColor {
		color.NoColor = true
	}

	title := color.New(color.FgWhite, color.Bold)
	subtitle := color.New(color.FgCyan, color.Bold)

	title.Println("tamperscan - PDF metadata tamper check")
	fmt.Println()
	fmt.Println("Inspects a PDF's metadata dictionary and flags heuristic indicators of")
	fmt.Println("tampering. Indicators are plausibility signals, not forensic proof.")
	fmt.Println()

	subtitle.Println("Usage:")
	fmt.Println("  tamperscan [flags] <file.pdf> [<file.pdf> ...]")
	fmt.Println("  tamperscan -web [-port 8080]")
	fmt.Println()

	subtitle.Println("Flags:")
	writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "  -format string\tOutput format: text, json, yaml (default: text)")
	fmt.Fprintln(writer, "  -output string\tWrite results to a file instead of stdout")
	fmt.Fprintln(writer, "  -config string\tPath to configuration file (YAML)")
	fmt.Fprintln(writer, "  -summary\tOnly show the per-file verdict line")
	fmt.Fprintln(writer, "  -verbose\tInclude the full metadata in the report")
	fmt.Fprintln(writer, "  -no-color\tDisable colored output")
	fmt.Fprintln(writer, "  -web\tStart web server mode instead of CLI scanning")
	fmt.Fprintln(writer, "  -port string\tPort for web server (default: 8080)")
	fmt.Fprintln(writer, "  -version\tShow version information")
	fmt.Fprintln(writer, "  -help\tShow this help")
	writer.Flush()
	fmt.Println()

	subtitle.Println("Checks:")
	writer = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, check := range checks {
		fmt.Fprintf(writer, "  %s\t[%s]\t%s\n", check.name, check.category, check.description)
	}
	writer.Flush()
	fmt.Println()

	fmt.Println("Exit codes: 0 clean, 1 tampering indicators found, 2 error.")
}
