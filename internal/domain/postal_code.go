package domain

import (
	"strings"
	"unicode"
)

// PostalCodeLength is the number of digits in a Brazilian CEP
const PostalCodeLength = 8

// PostalCode is a normalized CEP: exactly eight ASCII digits
type PostalCode string

// NormalizePostalCode strips every rune that is not an ASCII digit, so
// "85863-000" and " 85863 000 " both become "85863000".
func NormalizePostalCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePostalCode normalizes raw and validates its length
func ParsePostalCode(raw string) (PostalCode, error) {
	normalized := NormalizePostalCode(raw)
	switch {
	case normalized == "":
		return "", newInvalidInput(MsgPostalCodeRequired)
	case len(normalized) != PostalCodeLength:
		return "", newInvalidInput(MsgPostalCodeInvalid)
	}
	return PostalCode(normalized), nil
}

func (p PostalCode) String() string {
	return string(p)
}

// Formatted renders the code as NNNNN-NNN
func (p PostalCode) Formatted() string {
	if len(p) != PostalCodeLength {
		return string(p)
	}
	return string(p[:5]) + "-" + string(p[5:])
}
