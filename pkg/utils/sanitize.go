package utils

import (
	"html"
	"strings"
	"unicode"
)

// SanitizeString trims and HTML-escapes free-text input.
func SanitizeString(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// SanitizeEmail lowercases, trims and strips control characters from an
// email address.
func SanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	var result strings.Builder
	for _, r := range email {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// SanitizePhone keeps only characters meaningful in a phone number.
func SanitizePhone(phone string) string {
	var result strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		if unicode.IsDigit(r) || r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
