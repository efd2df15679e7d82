package importer

import (
	"strings"
)

type Record struct {
	RowNumber int
	Values    map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Blank reports whether every cell of the row is empty.
func (r Record) Blank() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}

func normalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = normalizeHeader(header)
	}
	return normalized
}

// recordFromRow pads short rows so every header has a value.
func recordFromRow(headers, row []string, rowNumber int) Record {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(row) {
			values[header] = row[i]
		} else {
			values[header] = ""
		}
	}
	return Record{RowNumber: rowNumber, Values: values}
}
