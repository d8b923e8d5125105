// Package checkout formats and validates the checkout panel's input fields.
package checkout

import (
	"regexp"
	"strings"
)

// maxCardNumberLen is 16 digits plus 3 group separators.
const maxCardNumberLen = 19

var (
	nonDigit    = regexp.MustCompile(`[^\d]`)
	everyFour   = regexp.MustCompile(`(.{4})`)
	whitespace  = regexp.MustCompile(`\s`)
	expiryShape = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvcShape    = regexp.MustCompile(`^\d{3,4}$`)
)

// FormatCardNumber masks card-number input as it is typed: digits only,
// grouped in blocks of four, at most 19 characters.
func FormatCardNumber(value string) string {
	digits := nonDigit.ReplaceAllString(value, "")
	out := strings.TrimSpace(everyFour.ReplaceAllString(digits, "$1 "))
	if len(out) > maxCardNumberLen {
		out = out[:maxCardNumberLen]
	}
	return out
}

// FormatExpiry masks expiry input as it is typed: once two digits are
// present they are followed by " / " and at most two more digits.
func FormatExpiry(value string) string {
	v := nonDigit.ReplaceAllString(value, "")
	if len(v) >= 2 {
		rest := v[2:]
		if len(rest) > 2 {
			rest = rest[:2]
		}
		v = v[:2] + " / " + rest
	}
	return v
}

// Field names accepted by Format.
const (
	FieldCardNumber = "cardNumber"
	FieldCardExpiry = "cardExpiry"
)

// Format applies the input mask for the named field. Unknown fields are
// returned unchanged.
func Format(field, value string) string {
	switch field {
	case FieldCardNumber:
		return FormatCardNumber(value)
	case FieldCardExpiry:
		return FormatExpiry(value)
	default:
		return value
	}
}
