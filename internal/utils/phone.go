package utils

import "strings"

// NormalizePhone reduces a phone number to the bare 10-digit national form
// used as the document key everywhere: strip every non-digit, then drop a
// leading "91" country code iff exactly 12 digits remain. Idempotent, so it
// is safe to call at every boundary.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		cleaned = cleaned[2:]
	}

	return cleaned
}
