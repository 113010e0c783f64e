// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"strings"
	"testing"

	"tamperscan/internal/formatters/shared"
)

type stubFormatter struct {
	name string
}

func (s *stubFormatter) Format(reports []shared.Report, options FormatterOptions) (string, error) {
	var names []string
	for _, report := range reports {
		names = append(names, report.Filename)
	}
	return strings.Join(names, ","), nil
}

func (s *stubFormatter) Name() string          { return s.name }
func (s *stubFormatter) Description() string   { return "stub" }
func (s *stubFormatter) FileExtension() string { return ".stub" }

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubFormatter{name: "stub"})

	if _, exists := registry.Get("stub"); !exists {
		t.Error("registered formatter not found")
	}
	if _, exists := registry.Get("absent"); exists {
		t.Error("unregistered formatter found")
	}
	if names := registry.List(); len(names) != 1 || names[0] != "stub" {
		t.Errorf("List() = %v", names)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export("no-such-format", nil, FormatterOptions{})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error = %v", err)
	}
}

func TestExportUsesRegisteredFormatter(t *testing.T) {
	Register(&stubFormatter{name: "test-stub"})

	output, err := Export("test-stub", []shared.Report{{Filename: "a.pdf"}, {Filename: "b.pdf"}}, FormatterOptions{})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if output != "a.pdf,b.pdf" {
		t.Errorf("output = %q", output)
	}
}
