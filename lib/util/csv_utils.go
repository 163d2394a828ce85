package util

import (
	"math"
	"strconv"
	"strings"
)

// EscapeCSVField quotes a value containing a comma, double quote or line break,
// doubling any embedded double quotes.
func EscapeCSVField(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// OptionalString renders an absent value as the empty string.
func OptionalString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// FormatCSVNumber renders finite numbers only; absent, NaN and infinite values are empty.
func FormatCSVNumber(value *float64) string {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

// FormatCSVLine escapes every field and joins them into a single newline-terminated record.
func FormatCSVLine(fields []string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		escaped[i] = EscapeCSVField(field)
	}
	return strings.Join(escaped, ",") + "\n"
}
