package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace
// runs into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeStopName is the canonical form stop names are stored and
// matched in: trimmed, whitespace-collapsed, lowercase.
func NormalizeStopName(name string) string {
	return strings.ToLower(TrimAndNormalize(name))
}

func NormalizeBusName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeBusNumber uppercases registration numbers so "wb-01" and
// "WB-01" collide on the uniqueness check.
func NormalizeBusNumber(number string) string {
	return strings.ToUpper(TrimAndNormalize(number))
}
