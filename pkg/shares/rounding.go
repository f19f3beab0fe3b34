package shares

import (
	"fmt"

	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/shopspring/decimal"
)

// Rounding selects how ties are broken when a ratio is turned into parts.
type Rounding int

const (
	// RoundHalfEven rounds x.5 to the nearest even integer.
	RoundHalfEven Rounding = iota
	// RoundHalfAwayFromZero rounds x.5 to the integer further from zero.
	RoundHalfAwayFromZero
)

// ParseRounding maps a configuration name onto a Rounding. An empty name
// selects the default.
func ParseRounding(name string) (Rounding, error) {
	switch name {
	case "", constants.RoundingHalfEven:
		return RoundHalfEven, nil
	case constants.RoundingHalfAwayFromZero:
		return RoundHalfAwayFromZero, nil
	default:
		return RoundHalfEven, fmt.Errorf("unknown rounding mode %q, expected %s or %s",
			name, constants.RoundingHalfEven, constants.RoundingHalfAwayFromZero)
	}
}

func (r Rounding) String() string {
	if r == RoundHalfAwayFromZero {
		return constants.RoundingHalfAwayFromZero
	}
	return constants.RoundingHalfEven
}

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// roundQuotient rounds num/den to an integer using r without going
// through a fixed division precision. num must be non-negative and den
// positive.
func (r Rounding) roundQuotient(num, den decimal.Decimal) int {
	q, rem := num.QuoRem(den, 0)
	switch cmp := rem.Mul(two).Cmp(den); {
	case cmp > 0:
		q = q.Add(one)
	case cmp == 0 && (r == RoundHalfAwayFromZero || q.IntPart()%2 != 0):
		q = q.Add(one)
	}
	return int(q.IntPart())
}

// ceilQuotient returns num/den rounded up, under the same conditions as
// roundQuotient.
func ceilQuotient(num, den decimal.Decimal) int {
	q, rem := num.QuoRem(den, 0)
	if rem.IsPositive() {
		q = q.Add(one)
	}
	return int(q.IntPart())
}

// roundToInt rounds d to an integer using r.
func (r Rounding) roundToInt(d decimal.Decimal) int {
	if r == RoundHalfAwayFromZero {
		return int(d.Round(0).IntPart())
	}
	return int(d.RoundBank(0).IntPart())
}

// half returns n/2 rounded with r.
func (r Rounding) half(n int) int {
	return r.roundToInt(decimal.NewFromInt(int64(n)).Div(two))
}
