// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdfmeta

import (
	"regexp"
	"strconv"
	"strings"
)

// infoFields maps info-dictionary keys to the field names exposed to the
// analyzer. ModDate is normalized to ModificationDate.
var infoFields = map[string]string{
	"Title":        "Title",
	"Author":       "Author",
	"Subject":      "Subject",
	"Keywords":     "Keywords",
	"Creator":      "Creator",
	"Producer":     "Producer",
	"CreationDate": "CreationDate",
	"ModDate":      "ModificationDate",
	"Trapped":      "Trapped",
}

var (
	versionPattern    = regexp.MustCompile(`%PDF-(\d+\.\d+)`)
	infoRefPattern    = regexp.MustCompile(`/Info\s+(\d+)\s+\d+\s+R`)
	trailerPattern    = regexp.MustCompile(`(?s)trailer\s*<<(.*?)>>`)
	directDictPattern = regexp.MustCompile(`(?s)<<[^<]*?/(?:Creator|Producer|CreationDate)[^>]*>>`)
	encryptPattern    = regexp.MustCompile(`/Encrypt\s+\d+\s+\d+\s+R`)
	pageTypePattern   = regexp.MustCompile(`/Type\s*/Page[^s]`)
	pageCountPattern  = regexp.MustCompile(`/Count\s+(\d+)`)
)

// extractPDFVersion reads the version from the %PDF-1.x header.
func extractPDFVersion(data []byte) string {
	limit := len(data)
	if limit > 1024 {
		limit = 1024
	}
	if m := versionPattern.FindSubmatch(data[:limit]); len(m) >= 2 {
		return string(m[1])
	}
	return "Unknown"
}

// extractInfoDictionary locates the Info dictionary and copies its fields
// into the map. Three strategies, in order: the /Info object reference,
// the trailer's /Info reference, and a direct dictionary scan.
func extractInfoDictionary(data []byte, fields map[string]string) {
	dict := findInfoDictionary(data)
	if dict == "" {
		return
	}
	for key, name := range infoFields {
		if value := extractStringField(dict, key); value != "" {
			fields[name] = value
		}
	}
}

func findInfoDictionary(data []byte) string {
	if m := infoRefPattern.FindSubmatch(data); len(m) >= 2 {
		if dict := findObjectDict(data, string(m[1])); dict != "" {
			return dict
		}
	}

	if m := trailerPattern.FindSubmatch(data); len(m) >= 2 {
		if ref := infoRefPattern.FindStringSubmatch(string(m[1])); len(ref) >= 2 {
			if dict := findObjectDict(data, ref[1]); dict != "" {
				return dict
			}
		}
	}

	if m := directDictPattern.FindSubmatch(data); len(m) >= 1 {
		dict := string(m[0])
		dict = strings.TrimPrefix(dict, "<<")
		dict = strings.TrimSuffix(dict, ">>")
		return dict
	}

	return ""
}

func findObjectDict(data []byte, objNum string) string {
	objPattern := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(objNum) + `\s+\d+\s+obj\s*<<(.*?)>>`)
	if m := objPattern.FindSubmatch(data); len(m) >= 2 {
		return string(m[1])
	}
	return ""
}

// extractStringField pulls one field value out of a dictionary body,
// trying the literal, hex, name, and quoted string forms in turn.
func extractStringField(dictionary, fieldName string) string {
	literal := regexp.MustCompile(`/` + fieldName + `\s*\(((?:\\.|[^\\()])*)\)`)
	if m := literal.FindStringSubmatch(dictionary); len(m) >= 2 {
		return unescapePDFString(m[1])
	}

	hex := regexp.MustCompile(`/` + fieldName + `\s*<([0-9A-Fa-f]+)>`)
	if m := hex.FindStringSubmatch(dictionary); len(m) >= 2 {
		return decodeHexString(m[1])
	}

	name := regexp.MustCompile(`/` + fieldName + `\s*/([^/\s<>()\[\]]+)`)
	if m := name.FindStringSubmatch(dictionary); len(m) >= 2 {
		return m[1]
	}

	quoted := regexp.MustCompile(`/` + fieldName + `\s*"([^"]*)"`)
	if m := quoted.FindStringSubmatch(dictionary); len(m) >= 2 {
		return m[1]
	}

	return ""
}

// extractDirectField scans the whole file for a field that never made it
// into the info dictionary. Some generators write metadata inline.
func extractDirectField(data []byte, fieldName string) string {
	patterns := []string{
		`/` + fieldName + `\s*\(((?:\\.|[^\\()])*)\)`,
		`/` + fieldName + `\s*<([0-9A-Fa-f]+)>`,
		`/` + fieldName + `\s*/([^/\s<>()\[\]]+)`,
		`/` + fieldName + `\s*"([^"]*)"`,
	}
	for i, pattern := range patterns {
		re := regexp.MustCompile(pattern)
		if m := re.FindSubmatch(data); len(m) >= 2 {
			value := string(m[1])
			if i == 1 {
				return decodeHexString(value)
			}
			return unescapePDFString(value)
		}
	}
	return ""
}

// extractXMPMetadata fills Creator/Producer from the XMP packet when the
// info dictionary lacked them, and exposes the XMP dates for the
// cross-consistency check.
func extractXMPMetadata(data []byte, fields map[string]string) {
	xmpValues := map[string]*regexp.Regexp{
		"Creator":        regexp.MustCompile(`<xmp:CreatorTool>(.*?)</xmp:CreatorTool>`),
		"Producer":       regexp.MustCompile(`<pdf:Producer>(.*?)</pdf:Producer>`),
		"XMP_CreateDate": regexp.MustCompile(`<xmp:CreateDate>(.*?)</xmp:CreateDate>`),
		"XMP_ModifyDate": regexp.MustCompile(`<xmp:ModifyDate>(.*?)</xmp:ModifyDate>`),
	}
	for field, re := range xmpValues {
		if fields[field] != "" {
			continue
		}
		if m := re.FindSubmatch(data); len(m) >= 2 {
			if value := strings.TrimSpace(string(m[1])); value != "" {
				fields[field] = value
			}
		}
	}
}

// countPages counts /Type /Page entries, falling back to the page tree's
// /Count value.
func countPages(data []byte) int {
	if matches := pageTypePattern.FindAllSubmatch(data, -1); len(matches) > 0 {
		return len(matches)
	}
	if m := pageCountPattern.FindSubmatch(data); len(m) >= 2 {
		if count, err := strconv.Atoi(string(m[1])); err == nil {
			return count
		}
	}
	return 0
}

// isEncrypted looks for an /Encrypt dictionary reference.
func isEncrypted(data []byte) bool {
	return encryptPattern.Match(data)
}

func unescapePDFString(value string) string {
	value = strings.ReplaceAll(value, `\)`, ")")
	value = strings.ReplaceAll(value, `\(`, "(")
	value = strings.ReplaceAll(value, `\\`, `\`)
	return value
}

func decodeHexString(hexStr string) string {
	var result strings.Builder
	for i := 0; i+1 < len(hexStr); i += 2 {
		if byteVal, err := strconv.ParseUint(hexStr[i:i+2], 16, 8); err == nil {
			result.WriteByte(byte(byteVal))
		}
	}
	return result.String()
}
