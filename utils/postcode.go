package utils

import (
	"regexp"
	"strings"
)

// ukPostcodePattern matches a full UK postcode with a single separating space.
var ukPostcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9R][0-9A-Z]? [0-9][A-Z]{2}$`)

const (
	MsgPostcodeTooShort = "Postcode must be at least 3 characters."
	MsgPostcodeInvalid  = "Invalid UK postcode format."
)

// NormalizePostcode trims surrounding whitespace, collapses inner runs of
// whitespace and upper-cases the result.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), " "))
}

// ValidatePostcode returns the normalized postcode, or an empty string and the
// user-facing validation message when the input is not a UK postcode.
func ValidatePostcode(postcode string) (string, string) {
	normalized := NormalizePostcode(postcode)
	if len(normalized) < 3 {
		return "", MsgPostcodeTooShort
	}
	if !ukPostcodePattern.MatchString(normalized) {
		return "", MsgPostcodeInvalid
	}
	return normalized, ""
}

// IsValidPostcode reports whether postcode is a well-formed UK postcode.
func IsValidPostcode(postcode string) bool {
	_, msg := ValidatePostcode(postcode)
	return msg == ""
}
