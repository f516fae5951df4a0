package usecase

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a product name for catalog matching: drop all
// whitespace (including full-width U+3000), fold full-width ASCII variants
// (comma, parentheses, brackets, letters, digits) to half-width, lowercase.
// Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		switch {
		case r >= 0xFF01 && r <= 0xFF5E:
			// ，（）［］ＡＢ１２ and friends
			r -= 0xFEE0
		case r == '【':
			r = '['
		case r == '】':
			r = ']'
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// CandidateName builds the catalog lookup name of a line item:
// "{name} [{option}]" when an option is present, else the bare name.
func CandidateName(productName, optionName string) string {
	productName = strings.TrimSpace(productName)
	optionName = strings.TrimSpace(optionName)
	if optionName == "" {
		return productName
	}
	return productName + " [" + optionName + "]"
}

// IsSpecial reports whether a product name matches any configured marker,
// flagging the line item as an ambiguous bundle/top-up product that needs
// manual reconciliation.
func IsSpecial(name string, markers []string) bool {
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
