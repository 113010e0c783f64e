// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"strconv"
	"strings"
	"time"
)

// isoLayouts are tried in order when a value is not in the compact PDF
// date form. PDF producers are wildly inconsistent here.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a raw PDF date value (D:YYYYMMDDHHmmSSOHH'mm' or looser
// variants, with ISO-8601 as a fallback). ok is false when the value is
// empty or unparseable; an unparseable date is absent, never a zero date.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if strings.HasPrefix(s, "D:") {
		return parseCompactDate(strings.TrimPrefix(s, "D:"))
	}

	if t, ok := parseISODate(s); ok {
		return t, true
	}

	return parseCompactDate(s)
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Some producers write a bare Z on an otherwise zone-less timestamp.
	if trimmed := strings.TrimSuffix(s, "Z"); trimmed != s {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// parseCompactDate handles the PDF compact form. The year is mandatory;
// later components default per the PDF spec (month and day to 1, the
// time components to 0).
func parseCompactDate(s string) (time.Time, bool) {
	if len(s) < 4 {
		return time.Time{}, false
	}

	year, ok := digits(s, 0, 4)
	if !ok || year < 1 {
		return time.Time{}, false
	}

	month := digitsOr(s, 4, 2, 1)
	day := digitsOr(s, 6, 2, 1)
	hour := digitsOr(s, 8, 2, 0)
	minute := digitsOr(s, 10, 2, 0)
	second := digitsOr(s, 12, 2, 0)

	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 60 {
		return time.Time{}, false
	}

	loc := time.UTC
	if len(s) >= 15 && (s[14] == '+' || s[14] == '-') {
		tzHour := digitsOr(s, 15, 2, 0)
		tzMinute := digitsOr(s, 18, 2, 0)
		offset := tzHour*3600 + tzMinute*60
		if s[14] == '-' {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}

// digits parses an exact-width decimal component at the given offset.
func digits(s string, start, width int) (int, bool) {
	if start+width > len(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s[start : start+width])
	if err != nil {
		return 0, false
	}
	return v, true
}

// digitsOr is digits with a default for truncated date strings.
func digitsOr(s string, start, width, fallback int) int {
	if v, ok := digits(s, start, width); ok {
		return v
	}
	return fallback
}
