package rollup

import (
	"time"

	"github.com/shopspring/decimal"
)

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// DurationHours converts the span between clockIn and clockOut to hours
// rounded to two decimals. A negative span yields a negative result; the
// caller decides whether that is an error.
func DurationHours(clockIn, clockOut time.Time) float64 {
	millis := decimal.NewFromInt(clockOut.Sub(clockIn).Milliseconds())
	return millis.Div(millisPerHour).Round(2).InexactFloat64()
}

// RoundHours rounds h to two decimals, half away from zero.
func RoundHours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}

// SumHours adds hour values without accumulating binary float error and
// rounds the result to two decimals.
func SumHours(values ...float64) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Round(2).InexactFloat64()
}
