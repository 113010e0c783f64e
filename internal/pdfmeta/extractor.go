// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdfmeta reads a PDF's document-information dictionary and turns
// it into a flat field mapping for analysis. It also collects structural
// anomaly signals that the analyzer relays as integrity findings.
package pdfmeta

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document holds everything extracted from one PDF file.
type Document struct {
	Filename  string
	FileSize  int64
	Version   string
	PageCount int
	Encrypted bool

	// Fields is the info-dictionary mapping handed to the analyzer.
	// ModDate is normalized to ModificationDate.
	Fields map[string]string

	// Signals are structural anomalies (validation failures, unreadable
	// pages) surfaced as integrity findings downstream.
	Signals []string
}

// ExtractionError reports that a file could not be read as a PDF at all.
// Analysis is skipped entirely when extraction fails.
type ExtractionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not read %s as a PDF: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("could not read %s as a PDF: %s", e.Path, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// maxProbePages caps the page-readability probe on very large documents.
const maxProbePages = 25

// Extract reads the PDF at path and returns its metadata document. A file
// that is missing, not a PDF, or encrypted yields an *ExtractionError;
// structural damage in an otherwise readable PDF is reported through
// Document.Signals instead.
func Extract(path string) (*Document, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: "file not accessible", Err: err}
	}
	if fileInfo.IsDir() {
		return nil, &ExtractionError{Path: path, Reason: "not a file"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: "error reading file", Err: err}
	}
	if !hasPDFHeader(data) {
		return nil, &ExtractionError{Path: path, Reason: "missing PDF header"}
	}

	doc := &Document{
		Filename: filepath.Base(path),
		FileSize: fileInfo.Size(),
		Version:  extractPDFVersion(data),
		Fields:   make(map[string]string),
	}

	if isEncrypted(data) {
		doc.Encrypted = true
		return nil, &ExtractionError{Path: path, Reason: "document is encrypted"}
	}

	// Structural validation via pdfcpu. A failure here is an integrity
	// signal, not a fatal error: the info dictionary is extracted from
	// the raw bytes regardless.
	if err := validateStructure(path); err != nil {
		doc.Signals = append(doc.Signals, fmt.Sprintf("PDF structure validation failed: %v", err))
	}

	extractInfoDictionary(data, doc.Fields)

	// Fall back to direct scans and XMP for fields some producers omit
	// from the info dictionary.
	if doc.Fields["Creator"] == "" {
		doc.Fields["Creator"] = extractDirectField(data, "Creator")
	}
	if doc.Fields["Producer"] == "" {
		doc.Fields["Producer"] = extractDirectField(data, "Producer")
	}
	extractXMPMetadata(data, doc.Fields)
	scrubMalformed(doc.Fields)

	doc.PageCount = countPages(data)
	doc.Signals = append(doc.Signals, probePages(path)...)

	if debugEnabled() {
		fmt.Fprintf(os.Stderr, "[DEBUG] pdfmeta: %s version=%s pages=%d fields=%d signals=%d\n",
			doc.Filename, doc.Version, doc.PageCount, len(doc.Fields), len(doc.Signals))
	}

	return doc, nil
}

// validateStructure runs pdfcpu's relaxed validation over the file.
func validateStructure(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.ValidateFile(path, conf)
}

// probePages opens the document with ledongthuc/pdf and attempts to touch
// each page. An unreadable page is a strong tamper indicator.
func probePages(path string) []string {
	f, r, err := pdf.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("File integrity check failed: %v", err)}
	}
	defer f.Close()

	total := r.NumPage()
	if total > maxProbePages {
		total = maxProbePages
	}

	var signals []string
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			signals = append(signals, fmt.Sprintf("Page %d appears corrupted or tampered with", i))
			break
		}
		if _, err := p.GetPlainText(nil); err != nil {
			signals = append(signals, fmt.Sprintf("Page %d appears corrupted or tampered with", i))
			break
		}
	}
	return signals
}

// scrubMalformed replaces values dominated by non-printable bytes, which
// show up when metadata streams are damaged or badly encoded.
func scrubMalformed(fields map[string]string) {
	for key, value := range fields {
		if containsNonPrintableChars(value) {
			fields[key] = "[Encrypted or malformed data]"
		}
	}
}

// containsNonPrintableChars reports whether more than 20% of a string is
// outside the printable ASCII range.
func containsNonPrintableChars(s string) bool {
	if s == "" {
		return false
	}
	nonPrintable := 0
	for _, r := range s {
		if r < 32 || r > 126 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(s)) > 0.2
}

func hasPDFHeader(data []byte) bool {
	limit := len(data)
	if limit > 1024 {
		limit = 1024
	}
	return strings.Contains(string(data[:limit]), "%PDF-")
}

func debugEnabled() bool {
	return os.Getenv("TAMPERSCAN_DEBUG") != ""
}
