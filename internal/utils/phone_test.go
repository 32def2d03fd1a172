package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"e164 with country code", "+919876543210", "9876543210"},
		{"bare country code", "919876543210", "9876543210"},
		{"already normalized", "9876543210", "9876543210"},
		{"spaces and dashes", "+91 98765-43210", "9876543210"},
		{"parentheses", "(91) 98765 43210", "9876543210"},
		{"91 prefix kept when only 10 digits", "9198765432", "9198765432"},
		{"91 prefix kept when 11 digits", "91987654321", "91987654321"},
		{"empty", "", ""},
		{"letters only", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"+919876543210", "919876543210", "9876543210", "+91 98765-43210", ""}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), "normalize(normalize(%q))", in)
	}
}
