// Package numeric parses locale-flexible decimal input from the data-entry grid.
// Operators type numbers with either comma or dot separators; parsing never
// panics and malformed input degrades to an empty derived value.
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a decimal string accepting both "70,5" and "70.5".
// The second return value is false when the input is not numeric.
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// BMI computes weight/height² rounded to 2 decimal places from raw grid input.
// It returns false (empty result) when either value fails to parse or when the
// height is not strictly positive. The function is total: it never errors on
// user input.
func BMI(weightRaw, heightRaw string) (decimal.Decimal, bool) {
	weight, ok := ParseDecimal(weightRaw)
	if !ok {
		return decimal.Zero, false
	}
	height, ok := ParseDecimal(heightRaw)
	if !ok || height.Sign() <= 0 {
		return decimal.Zero, false
	}
	return weight.Div(height.Mul(height)).Round(2), true
}

// BMIString is BMI formatted for grid display: "" when the inputs are invalid,
// otherwise the rounded value without trailing zeros ("24.49", "22.9").
func BMIString(weightRaw, heightRaw string) string {
	bmi, ok := BMI(weightRaw, heightRaw)
	if !ok {
		return ""
	}
	return bmi.String()
}
