package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"85863-000", "85863000"},
		{" 85863 000 ", "85863000"},
		{"85.863-000", "85863000"},
		{"", ""},
		{"abc", ""},
		{"٣٤٥", ""},
		{"123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePostalCode(tt.raw))
		})
	}
}

func TestParsePostalCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    PostalCode
		message string
	}{
		{"formatted", "85863-000", "85863000", ""},
		{"digits only", "01001000", "01001000", ""},
		{"empty", "", "", MsgPostalCodeRequired},
		{"only separators", " - ", "", MsgPostalCodeRequired},
		{"too short", "123", "", MsgPostalCodeInvalid},
		{"too long", "858630001", "", MsgPostalCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := ParsePostalCode(tt.raw)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, code)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestPostalCodeFormatted(t *testing.T) {
	assert.Equal(t, "85863-000", PostalCode("85863000").Formatted())
	assert.Equal(t, "123", PostalCode("123").Formatted())
}
