package sensors

import "github.com/shopspring/decimal"

// GigabytesOf converts a byte count to (decimal) gigabytes, rounded half-to-even to
// the given number of decimal places. The division itself is exact.
func GigabytesOf(bytes int64, scale int32) decimal.Decimal {
	return decimal.New(bytes, -9).RoundBank(scale)
}
