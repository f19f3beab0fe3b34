// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/report"
	"github.com/iwvelando/capital-shares/pkg/shares"
	"github.com/shopspring/decimal"
)

// GridCosts are the apartment prices ExhaustiveInputs combines.
var GridCosts = []string{"1", "3", "7", "999.99", "2000000", "4375123.45", "999999999"}

// FindOwner finds an owner by name in the report.
// Returns a pointer to the owner if found, nil otherwise.
func FindOwner(r report.Report, name string) *report.Owner {
	for i := range r.Owners {
		if r.Owners[i].Name == name {
			return &r.Owners[i]
		}
	}
	return nil
}

// ExhaustiveInputs returns every combination of GridCosts, subsidies from
// 0% to 100% of the cost in 1% steps, 0 to MaxChildren children and one or
// two parents.
func ExhaustiveInputs() []shares.Input {
	var inputs []shares.Input
	hundred := decimal.NewFromInt(100)
	for _, c := range GridCosts {
		cost := decimal.RequireFromString(c)
		for pct := int64(0); pct <= 100; pct++ {
			subsidy := cost.Mul(decimal.NewFromInt(pct)).Div(hundred)
			for children := 0; children <= constants.MaxChildren; children++ {
				for _, second := range []bool{true, false} {
					inputs = append(inputs, shares.Input{
						ApartmentCost:   cost,
						SubsidyAmount:   subsidy,
						NumChildren:     children,
						HasSecondParent: second,
					})
				}
			}
		}
	}
	return inputs
}
