package charts

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// numericTypeMarkers are matched as substrings of a lower-cased type name.
// "interval" and "point" match "int"; that is accepted.
var numericTypeMarkers = []string{"int", "serial", "numeric", "decimal", "float", "double", "real"}

// IsNumericType reports whether a free-text column type name denotes a number.
func IsNumericType(typeName string) bool {
	if typeName == "" {
		return false
	}
	lower := strings.ToLower(typeName)
	for _, m := range numericTypeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Humanize turns a snake_case identifier into a display label:
// "get_customers_by_city" becomes "Get Customers By City".
func Humanize(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "_")
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		if size == 0 {
			continue
		}
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}
