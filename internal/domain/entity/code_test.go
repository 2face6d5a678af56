package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already normalized", "ABCD2345EFGH6789", "ABCD2345EFGH6789"},
		{"Dashed display form", "ABCD-2345-EFGH-6789", "ABCD2345EFGH6789"},
		{"Lowercase with spaces", "abcd 2345 efgh 6789", "ABCD2345EFGH6789"},
		{"Mixed separators", "ab-cd 23-45", "ABCD2345"},
		{"Referral code", "eco-ab12cd", "ECOAB12CD"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCode(tt.input))
		})
	}
}

func TestFormatGiftCardCode(t *testing.T) {
	assert.Equal(t, "ABCD-2345-EFGH-6789", FormatGiftCardCode("ABCD2345EFGH6789"))
	assert.Equal(t, "ABCD", FormatGiftCardCode("ABCD"))
	assert.Equal(t, "ABCD-23", FormatGiftCardCode("ABCD23"))
	assert.Equal(t, "", FormatGiftCardCode(""))
}

func TestFormatGiftCardCode_RoundTrip(t *testing.T) {
	code := "WXYZ7843PQRS2269"
	assert.Equal(t, code, NormalizeCode(FormatGiftCardCode(code)),
		"normalization must invert display formatting")
}
