package utils

import "time"

// Deposit rate: 30% of the total price, paid up front to hold the booking.
const depositRateBasisPoints = 3000

const hoursPerDay = 24

// Quote is the priced breakdown for a candidate rental window. All amounts
// are integer cents; the snapshot written to the rental record comes from
// here and is never recomputed.
type Quote struct {
	TotalDays       int32
	TotalPriceCents int32
	DepositCents    int32
}

// TotalDays computes the billable day count for a half-open window [start,
// end): the ceiling of the UTC difference in days, minimum 1. The caller
// must already have validated end > start.
func TotalDays(start, end time.Time) int32 {
	diff := end.Sub(start)
	days := int32(diff / (hoursPerDay * time.Hour))
	if diff%(hoursPerDay*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// QuoteRental prices a window at the given daily rate. The deposit is 30% of
// the total, rounded half-up to the cent.
func QuoteRental(dailyPriceCents int32, start, end time.Time) Quote {
	days := TotalDays(start, end)
	total := dailyPriceCents * days
	return Quote{
		TotalDays:       days,
		TotalPriceCents: total,
		DepositCents:    roundBasisPoints(total, depositRateBasisPoints),
	}
}

// roundBasisPoints applies rate (in basis points) to an amount of cents,
// rounding half-up.
func roundBasisPoints(amountCents int32, rateBasisPoints int64) int32 {
	product := int64(amountCents) * rateBasisPoints
	return int32((product + 5000) / 10000)
}
