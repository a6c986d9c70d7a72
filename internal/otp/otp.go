// Package otp generates short numeric login codes.
package otp

import (
	"crypto/rand"
	"fmt"
)

// DefaultLength is the number of digits issued when no length is configured.
const DefaultLength = 6

// Generate returns a code of length decimal digits. Each position is drawn
// uniformly from 0-9 using crypto/rand with rejection sampling, so no digit
// is favored by modulo bias.
func Generate(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("otp: invalid length %d", length)
	}

	code := make([]byte, 0, length)
	buf := make([]byte, 1)
	for len(code) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("otp: read random: %w", err)
		}
		// 250 is the largest multiple of 10 that fits in a byte.
		if buf[0] >= 250 {
			continue
		}
		code = append(code, '0'+buf[0]%10)
	}
	return string(code), nil
}
