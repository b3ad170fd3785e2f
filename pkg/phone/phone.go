// Package phone canonicalizes free-form phone input into the digit
// string WhatsApp deep links expect.
package phone

import "strings"

// CountryCallingCode is prepended to local numbers missing their code.
const CountryCallingCode = "502"

const localNumberLen = 8

// Normalize converts a free-form phone string into a digits-only
// sequence with the country code present. It never fails: malformed
// input yields a best-effort string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	hasPlus := false
	var digits strings.Builder
	for i, r := range raw {
		if i == 0 && r == '+' {
			hasPlus = true
			continue
		}
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()

	// explicit international prefix: trust the caller
	if hasPlus {
		return cleaned
	}

	switch {
	case len(cleaned) == localNumberLen:
		return CountryCallingCode + cleaned
	case strings.HasPrefix(cleaned, CountryCallingCode) && len(cleaned) == localNumberLen+len(CountryCallingCode):
		return cleaned
	case len(cleaned) < 10:
		return CountryCallingCode + cleaned
	default:
		return cleaned
	}
}
