package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("admin@hospital.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.org"))
	assert.False(t, ValidateEmail("admin@hospital"))
	assert.False(t, ValidateEmail("no-at-sign.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("doctor"))
	assert.False(t, ValidatePassword("short"))
	assert.False(t, ValidatePassword("has space"))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+1 (555) 010-0100", "+15550100100", true},
		{"+44.20.7946.0958", "+442079460958", true},
		{"5550100100", "5550100100", false},
		{"+0123456789", "+0123456789", false},
		{"+1555abc0100", "+1555xxx0100", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizePhone(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestValidateOTPCode(t *testing.T) {
	assert.True(t, ValidateOTPCode("123456"))
	assert.False(t, ValidateOTPCode("12a456"))
	assert.False(t, ValidateOTPCode("123"))
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "Mary-Jane Watson", FormatName("  mary-jane   WATSON "))
	assert.Equal(t, "", FormatName(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "chest pain", SanitizeString(" chest pain\x00 "))
	assert.Equal(t, "a&b", SanitizeString("<a&b>"))
}
