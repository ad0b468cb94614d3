package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// CouponCodeLength is the length of program coupon codes, e.g. "XR4K9MN2A".
const CouponCodeLength = 9

// GenerateCouponCode generates a random coupon code of uppercase letters
// and digits. Uniqueness is enforced by the caller against the patients
// collection.
func GenerateCouponCode() (string, error) {
	// 8 random bytes give us 13 base32 characters, more than enough
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	code = strings.ToUpper(code)
	code = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, code)

	if len(code) < CouponCodeLength {
		code = code + strings.Repeat("0", CouponCodeLength-len(code))
	}

	return code[:CouponCodeLength], nil
}
