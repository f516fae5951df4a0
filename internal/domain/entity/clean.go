package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanID normalizes a platform SKU / order code cell. Spreadsheet exports
// mangle long numeric codes into scientific notation ("1.23457e+13") and
// float-typed cells grow a ".0" tail; both forms must compare equal to the
// plain digit string.
func CleanID(val string) string {
	s := strings.TrimSpace(val)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			s = fmt.Sprintf("%.0f", f)
		}
	}
	return strings.ReplaceAll(s, ".0", "")
}

// ParseAmount parses a money cell, tolerating thousands separators and
// whitespace. Unparseable cells count as 0.
func ParseAmount(val string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatAmount renders a float the way the sheets expect: no exponent, no
// trailing zero noise.
func FormatAmount(f float64) string {
	return trimFloat(f)
}
