package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePostcode(t *testing.T) {
	cases := []struct {
		in   string
		want string
		msg  string
	}{
		{"SW1A 1AA", "SW1A 1AA", ""},
		{"sw1a 1aa", "SW1A 1AA", ""},
		{"  M1   1AE ", "M1 1AE", ""},
		{"B33 8TH", "B33 8TH", ""},
		{"CR2 6XH", "CR2 6XH", ""},
		{"DN55 1PT", "DN55 1PT", ""},
		{"SW", "", MsgPostcodeTooShort},
		{"SW1A1AA", "", MsgPostcodeInvalid},
		{"12345", "", MsgPostcodeInvalid},
		{"SW1A 1A", "", MsgPostcodeInvalid},
	}

	for _, c := range cases {
		got, msg := ValidatePostcode(c.in)
		assert.Equal(t, c.want, got, "ValidatePostcode(%q)", c.in)
		assert.Equal(t, c.msg, msg, "ValidatePostcode(%q) message", c.in)
	}
}

func TestIsValidPostcode(t *testing.T) {
	assert.True(t, IsValidPostcode("EC1A 1BB"))
	assert.False(t, IsValidPostcode("not a postcode"))
}
