package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotalDays(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Exact days", func(t *testing.T) {
		assert.Equal(t, int32(3), TotalDays(base, base.Add(72*time.Hour)))
		assert.Equal(t, int32(1), TotalDays(base, base.Add(24*time.Hour)))
	})

	t.Run("Partial day rounds up", func(t *testing.T) {
		assert.Equal(t, int32(3), TotalDays(base, base.Add(49*time.Hour)))
		assert.Equal(t, int32(2), TotalDays(base, base.Add(25*time.Hour)))
	})

	t.Run("Short window counts one day", func(t *testing.T) {
		assert.Equal(t, int32(1), TotalDays(base, base.Add(5*time.Hour)))
	})
}

func TestQuoteRental(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Three day quote", func(t *testing.T) {
		q := QuoteRental(10000, base, base.Add(72*time.Hour))
		assert.Equal(t, int32(3), q.TotalDays)
		assert.Equal(t, int32(30000), q.TotalPriceCents)
		assert.Equal(t, int32(9000), q.DepositCents)
	})

	t.Run("Deposit rounds half up", func(t *testing.T) {
		// 5 cents total, 30% = 1.5 cents, rounds to 2
		q := QuoteRental(5, base, base.Add(24*time.Hour))
		assert.Equal(t, int32(5), q.TotalPriceCents)
		assert.Equal(t, int32(2), q.DepositCents)

		// 1 cent total, 30% = 0.3 cents, rounds to 0
		q = QuoteRental(1, base, base.Add(24*time.Hour))
		assert.Equal(t, int32(0), q.DepositCents)
	})

	t.Run("Deposit never exceeds total", func(t *testing.T) {
		for _, daily := range []int32{1, 99, 10001, 123457} {
			q := QuoteRental(daily, base, base.Add(96*time.Hour))
			assert.LessOrEqual(t, q.DepositCents, q.TotalPriceCents)
			assert.GreaterOrEqual(t, q.DepositCents, int32(0))
		}
	})
}
