// Package otp generates and checks numeric one-time codes sent by email.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"
	"time"
)

var (
	ErrMismatch = errors.New("otp mismatch")
	ErrExpired  = errors.New("otp expired")
)

// Generate returns a random numeric code of the digits.
//
// The first digit is never 0, so the code keeps its length as a number.
func Generate(digits int) (string, error) {
	if digits <= 0 {
		return "", errors.New("digits should be positive")
	}
	b := strings.Builder{}
	for i := 0; i < digits; i++ {
		lo, span := int64(0), int64(10)
		if i == 0 && 1 < digits {
			lo, span = 1, 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + lo + n.Int64()))
	}
	return b.String(), nil
}

// Check compares the given code with the stored one.
//
// The code is compared before the expiry, so a wrong code is reported as a mismatch
// even when the stored one is expired.
func Check(stored string, given string, expires *time.Time, now time.Time) error {
	given = strings.TrimSpace(given)
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(given)) != 1 {
		return ErrMismatch
	}
	if expires == nil || !now.Before(*expires) {
		return ErrExpired
	}
	return nil
}
