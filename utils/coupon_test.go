package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCouponCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCouponCode()
		require.NoError(t, err)
		assert.Len(t, code, CouponCodeLength)
		for _, r := range code {
			valid := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			assert.True(t, valid, "unexpected character %q in coupon code %s", r, code)
		}
	}
}

func TestGenerateCouponCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCouponCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 8 random bytes per code; any collision in 50 draws would indicate
	// a broken generator
	assert.Len(t, seen, 50)
}
