package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// ComputePrice returns hourlyRate × duration in hours.
// Fractional hours multiply linearly; the result is rounded to cents.
func ComputePrice(hourlyRate decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	if !end.After(start) {
		return decimal.Zero, ErrInvalidInterval
	}
	ms := decimal.NewFromInt(end.Sub(start).Milliseconds())
	return hourlyRate.Mul(ms).Div(millisPerHour).Round(PriceDecimalPlaces), nil
}
