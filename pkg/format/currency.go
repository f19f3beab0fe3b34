// Package format holds the string forms of shares and money used in reports.
package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/shopspring/decimal"
)

// Fraction renders a share as "<numerator>/1000".
func Fraction(numerator int) string {
	return FractionOver(numerator, constants.Denominator)
}

// FractionOver renders numerator/denominator.
func FractionOver(numerator, denominator int) string {
	return fmt.Sprintf("%d/%d", numerator, denominator)
}

// Amount returns a money amount with thousands separators and two
// decimals (e.g., "-1,234.56"). No currency symbol is added.
func Amount(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + formatPositiveAmount(amount.Abs())
}

// Percent renders a percentage with two decimals and a percent sign.
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

func formatPositiveAmount(value decimal.Decimal) string {
	formatted := value.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
