package util

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const AccountNumberLength = 16

var ten = big.NewInt(10)

// NormalizeAccountNumber drops every character that is not an ASCII digit.
func NormalizeAccountNumber(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, c := range value {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func IsValidAccountNumber(value string) bool {
	return len(NormalizeAccountNumber(value)) == AccountNumberLength
}

// FormatAccountNumber groups digits in blocks of four: "1234 5678 9012 3456".
func FormatAccountNumber(value string) string {
	normalized := NormalizeAccountNumber(value)

	var b strings.Builder
	for i, c := range normalized {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func GenerateAccountNumber() (string, error) {
	digits := make([]byte, AccountNumberLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// MaskAccountNumber keeps the last four digits for logs.
func MaskAccountNumber(value string) string {
	normalized := NormalizeAccountNumber(value)
	if len(normalized) <= 4 {
		return "****"
	}
	return "****-" + normalized[len(normalized)-4:]
}
