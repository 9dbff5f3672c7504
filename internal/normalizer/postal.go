package normalizer

import (
	"regexp"
	"strings"

	"github.com/rep-lookup/app/models"
)

// Format hints surfaced to callers on validation failure and through the
// supported-jurisdictions accessor.
const (
	USZipFormatHint         = "5 digits (e.g., 90210) or 5+4 format (e.g., 90210-1234)"
	CanadianPostalFormatHint = "Letter-Digit-Letter Digit-Letter-Digit (e.g., K1A 0A6, M5H 2N2)"
)

var (
	nonDigits = regexp.MustCompile(`[^0-9]`)

	caPostalPattern = regexp.MustCompile(`^[A-Z][0-9][A-Z][0-9][A-Z][0-9]$`)

	// Canada Post never assigns these letters in the first position.
	caInvalidFirstLetters = "DFIOQUWZ"
	// Nor these in the third and fifth positions.
	caInvalidInnerLetters = "DFIOQU"
)

// NormalizeUSZip strips separators from a raw US ZIP code and validates
// the result. ZIP+4 input is accepted; the canonical form is the first
// five digits. "00000" is not an assigned ZIP and is rejected.
func NormalizeUSZip(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")

	if len(digits) < 5 {
		return "", &models.InvalidFormatError{Raw: raw, Expected: USZipFormatHint}
	}

	zip := digits[:5]
	if zip == "00000" {
		return "", &models.InvalidFormatError{Raw: raw, Expected: USZipFormatHint}
	}

	return zip, nil
}

// NormalizeCanadianPostal strips spaces and hyphens from a raw Canadian
// postal code, uppercases it, and validates the six-character
// letter/digit alternation along with the letters Canada Post never
// assigns in certain positions. Returns the compact form ("K1A0A6").
func NormalizeCanadianPostal(raw string) (string, error) {
	normalized := strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(raw))

	fail := func() (string, error) {
		return "", &models.InvalidFormatError{Raw: raw, Expected: CanadianPostalFormatHint}
	}

	if len(normalized) != 6 {
		return fail()
	}
	if !caPostalPattern.MatchString(normalized) {
		return fail()
	}
	if strings.ContainsRune(caInvalidFirstLetters, rune(normalized[0])) {
		return fail()
	}
	if strings.ContainsRune(caInvalidInnerLetters, rune(normalized[2])) ||
		strings.ContainsRune(caInvalidInnerLetters, rune(normalized[4])) {
		return fail()
	}

	return normalized, nil
}

// FormatCanadianPostal renders a compact postal code in the display form
// with the middle space ("K1A 0A6").
func FormatCanadianPostal(compact string) string {
	if len(compact) != 6 {
		return compact
	}
	return compact[:3] + " " + compact[3:]
}
