// Package mathutil provides common mathematical utility functions.
package mathutil

import "github.com/iwvelando/capital-shares/pkg/constants"

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// PartsToPercent converts a numerator over constants.Denominator into a percentage.
func PartsToPercent(parts int) float64 {
	return CalculatePercentage(float64(parts), constants.Denominator)
}

// FloorDiv divides a by b rounding toward negative infinity, unlike Go's
// truncating integer division. b must not be zero.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// AbsInt returns the absolute value of an int.
func AbsInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
