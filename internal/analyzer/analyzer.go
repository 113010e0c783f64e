// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies a finding for presentation grouping.
type Category string

const (
	CategoryDate      Category = "date"
	CategorySoftware  Category = "software"
	CategoryMetadata  Category = "metadata"
	CategoryIntegrity Category = "integrity"
)

// Severity classes for presentation. The verdict is binary: any finding
// makes the document suspicious.
const (
	SeverityDanger  = "danger"
	SeveritySuccess = "success"
)

// Finding is one detected anomaly with its category tag and a literal,
// already-composed message. Findings are never mutated after production.
type Finding struct {
	Category Category `json:"category" yaml:"category"`
	Message  string   `json:"message" yaml:"message"`
}

// SoftwarePattern is a case-insensitive substring matched against the
// Producer and Creator fields. Label is what the finding reports; it
// defaults to the pattern itself.
type SoftwarePattern struct {
	Pattern string `yaml:"pattern"`
	Label   string `yaml:"label,omitempty"`
}

// Metadata is the extracted PDF info-dictionary field mapping. Keys are
// whatever the source document actually contains; the map may be empty.
type Metadata map[string]string

// Get returns a field value, treating ModificationDate and ModDate as
// aliases for each other.
func (m Metadata) Get(field string) string {
	if v, ok := m[field]; ok && v != "" {
		return v
	}
	switch field {
	case "ModificationDate":
		return m["ModDate"]
	case "ModDate":
		return m["ModificationDate"]
	}
	return ""
}

// Config holds the externally supplied rule configuration. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// Maximum plausible gap between creation and modification, in days.
	DateGapThresholdDays int

	// Fields that a legitimate document is expected to carry. Order
	// determines the order of missing-field findings.
	ExpectedFields []string

	// Known metadata-editing tools, matched as case-insensitive substrings.
	SuspiciousSoftware []SoftwarePattern

	// Known legitimate PDF producers. A non-empty Producer matching none
	// of these fragments is flagged as unknown.
	TrustedSoftware []string

	// Now supplies the reference time for the future-date check. Tests
	// inject a fixed value; when nil, time.Now is used.
	Now func() time.Time
}

// DefaultConfig returns the built-in rule set.
func DefaultConfig() Config {
	return Config{
		DateGapThresholdDays: 1825, // 5 years
		ExpectedFields: []string{
			"CreationDate", "ModificationDate", "Author", "Producer",
		},
		SuspiciousSoftware: []SoftwarePattern{
			{Pattern: "PDFEditorX"},
			{Pattern: "PDFEditPro"},
			{Pattern: "QuickPDFEdit"},
			{Pattern: "PDFmodify"},
			{Pattern: "PDFhack"},
			{Pattern: "PDFalter"},
			{Pattern: "FakePDFTool"},
			{Pattern: "PDFmodifier"},
			{Pattern: "EasyPDFEdit"},
			{Pattern: "PDFTamper"},
		},
		TrustedSoftware: []string{
			"Adobe", "Microsoft", "Apple", "LibreOffice", "OpenOffice", "Acrobat",
			"Word", "Google", "Chrome", "Safari", "pdfTeX", "LaTeX", "Quartz",
			"MacOS", "Windows", "Foxit", "ABBYY", "Nitro", "Scribus", "Ghostscript",
			"pdftk", "PDFCreator", "pdfFiller", "pdfforge", "PDF Architect",
		},
	}
}

// Result is the aggregate outcome of analyzing one document's metadata.
// It is owned by the caller and not mutated after construction.
type Result struct {
	Filename   string
	Metadata   Metadata
	Findings   []Finding
	Suspicious bool
	AnalyzedAt time.Time
}

// SeverityClass returns the binary presentation tag for the verdict.
func (r *Result) SeverityClass() string {
	if r.Suspicious {
		return SeverityDanger
	}
	return SeveritySuccess
}

// CategoryGroups holds findings bucketed by category, preserving
// detection order within each bucket.
type CategoryGroups struct {
	DateIssues      []Finding `json:"date_issues" yaml:"date_issues"`
	SoftwareIssues  []Finding `json:"software_issues" yaml:"software_issues"`
	MetadataIssues  []Finding `json:"metadata_issues" yaml:"metadata_issues"`
	IntegrityIssues []Finding `json:"integrity_issues" yaml:"integrity_issues"`
}

// ByCategory groups the findings into the four fixed presentation buckets.
func (r *Result) ByCategory() CategoryGroups {
	var groups CategoryGroups
	for _, f := range r.Findings {
		switch f.Category {
		case CategoryDate:
			groups.DateIssues = append(groups.DateIssues, f)
		case CategorySoftware:
			groups.SoftwareIssues = append(groups.SoftwareIssues, f)
		case CategoryMetadata:
			groups.MetadataIssues = append(groups.MetadataIssues, f)
		default:
			groups.IntegrityIssues = append(groups.IntegrityIssues, f)
		}
	}
	return groups
}

// Analyze runs the full check battery over one document's metadata and
// returns the aggregated result. It is a pure function: the same inputs
// always produce the same output, and it cannot fail — malformed field
// values degrade to "absent", never to an error. signals carries
// structural anomalies the extractor chose to pass through; each becomes
// one integrity finding verbatim.
func Analyze(filename string, meta Metadata, signals []string, cfg Config) *Result {
	now := time.Now()
	if cfg.Now != nil {
		now = cfg.Now()
	}

	run := checkRun{meta: meta, cfg: cfg, now: now}
	run.checkDateConsistency()
	run.checkSoftware()
	run.checkMissingFields()
	run.checkFutureDates()
	run.checkIntegrity(signals)

	return &Result{
		Filename:   filename,
		Metadata:   meta,
		Findings:   run.findings,
		Suspicious: len(run.findings) > 0,
		AnalyzedAt: now,
	}
}

// checkRun accumulates findings while the battery executes. It exists only
// for the duration of one Analyze call.
type checkRun struct {
	meta     Metadata
	cfg      Config
	now      time.Time
	findings []Finding
}

func (cr *checkRun) add(category Category, format string, args ...any) {
	cr.findings = append(cr.findings, Finding{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	})
}

// creationDate and modificationDate return the parsed dates; ok is false
// when the field is absent or unparseable.
func (cr *checkRun) creationDate() (time.Time, bool) {
	return ParseDate(cr.meta.Get("CreationDate"))
}

func (cr *checkRun) modificationDate() (time.Time, bool) {
	return ParseDate(cr.meta.Get("ModificationDate"))
}

// checkDateConsistency covers date ordering, implausible gaps, a missing
// modification date alongside a present creation date, and XMP/info-dict
// date disagreement.
func (cr *checkRun) checkDateConsistency() {
	creation, hasCreation := cr.creationDate()
	modification, hasModification := cr.modificationDate()

	if hasCreation && hasModification {
		if modification.Before(creation) {
			cr.add(CategoryDate, "Modification date (%s) is before creation date (%s)",
				formatDate(modification), formatDate(creation))
		}

		if gap := daysBetween(creation, modification); gap > cr.cfg.DateGapThresholdDays {
			cr.add(CategoryDate,
				"Document was modified %d days after creation, which exceeds the reasonable limit of %d days",
				gap, cr.cfg.DateGapThresholdDays)
		}
	}

	if hasCreation && !hasModification && cr.meta.Get("ModificationDate") == "" {
		cr.add(CategoryDate, "Modification date is missing while creation date exists")
	}

	// XMP dates, when present, should agree with the info dictionary to
	// within a minute; a larger disagreement suggests a partial edit.
	if xmpCreate, ok := ParseDate(cr.meta.Get("XMP_CreateDate")); ok && hasCreation {
		if drift(creation, xmpCreate) > time.Minute {
			cr.add(CategoryDate, "XMP creation date (%s) doesn't match PDF creation date (%s)",
				formatDate(xmpCreate), formatDate(creation))
		}
	}
	if xmpModify, ok := ParseDate(cr.meta.Get("XMP_ModifyDate")); ok && hasModification {
		if drift(modification, xmpModify) > time.Minute {
			cr.add(CategoryDate, "XMP modification date (%s) doesn't match PDF modification date (%s)",
				formatDate(xmpModify), formatDate(modification))
		}
	}
}

// checkSoftware inspects Producer and Creator for known editing tools and
// flags producers that match no trusted fragment.
func (cr *checkRun) checkSoftware() {
	producer := strings.TrimSpace(cr.meta.Get("Producer"))
	creator := strings.TrimSpace(cr.meta.Get("Creator"))

	if producer != "" {
		for _, p := range cr.cfg.SuspiciousSoftware {
			if containsFold(producer, p.Pattern) {
				cr.add(CategorySoftware, "Suspicious editing software detected in Producer: %s", p.DisplayLabel())
			}
		}
		if !matchesAnyFold(producer, cr.cfg.TrustedSoftware) {
			cr.add(CategorySoftware, "Unknown PDF producer software: %s", producer)
		}
	}

	if creator != "" {
		for _, p := range cr.cfg.SuspiciousSoftware {
			if containsFold(creator, p.Pattern) {
				cr.add(CategorySoftware, "Suspicious editing software detected in Creator: %s", p.DisplayLabel())
			}
		}
	}
}

// checkMissingFields emits one finding per expected field that is absent
// or empty. Findings are not merged so their count equals the count of
// missing fields.
func (cr *checkRun) checkMissingFields() {
	for _, field := range cr.cfg.ExpectedFields {
		if cr.meta.Get(field) == "" {
			cr.add(CategoryMetadata, "Required metadata field '%s' is missing", field)
		}
	}
}

// checkFutureDates flags any parsed date lying after the reference time.
func (cr *checkRun) checkFutureDates() {
	fields := []string{"CreationDate", "ModificationDate", "XMP_CreateDate", "XMP_ModifyDate"}
	for _, field := range fields {
		if t, ok := ParseDate(cr.meta.Get(field)); ok && t.After(cr.now) {
			cr.add(CategoryDate, "%s is set in the future: %s", field, formatDate(t))
		}
	}
}

// checkIntegrity relays extractor-reported structural signals. The
// analyzer does not parse PDF structure itself.
func (cr *checkRun) checkIntegrity(signals []string) {
	for _, signal := range signals {
		if signal = strings.TrimSpace(signal); signal != "" {
			cr.findings = append(cr.findings, Finding{Category: CategoryIntegrity, Message: signal})
		}
	}
}

// DisplayLabel returns the configured label, falling back to the pattern.
func (p SoftwarePattern) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Pattern
}

func containsFold(value, pattern string) bool {
	if pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func matchesAnyFold(value string, fragments []string) bool {
	for _, fragment := range fragments {
		if containsFold(value, fragment) {
			return true
		}
	}
	return false
}

// daysBetween returns whole days from a to b, negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func drift(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
