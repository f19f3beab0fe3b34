// Package report turns an allocation into the fraction strings and
// percentages shown to users.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/format"
	"github.com/iwvelando/capital-shares/pkg/mathutil"
	"github.com/iwvelando/capital-shares/pkg/shares"
)

// Fraction is a share over a fixed denominator. It marshals as "n/1000".
type Fraction struct {
	Numerator   int
	Denominator int
}

// NewFraction returns parts over constants.Denominator.
func NewFraction(parts int) Fraction {
	return Fraction{Numerator: parts, Denominator: constants.Denominator}
}

func (f Fraction) String() string {
	if f.Denominator == constants.Denominator {
		return format.Fraction(f.Numerator)
	}
	return format.FractionOver(f.Numerator, f.Denominator)
}

// MarshalText implements encoding.TextMarshaler.
func (f Fraction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fraction) UnmarshalText(text []byte) error {
	num, den, ok := strings.Cut(string(text), "/")
	if !ok {
		return fmt.Errorf("invalid fraction %q", text)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return fmt.Errorf("invalid fraction numerator %q: %w", num, err)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid fraction denominator %q", den)
	}
	f.Numerator, f.Denominator = n, d
	return nil
}

// Percent returns the fraction as a percentage.
func (f Fraction) Percent() float64 {
	if f.Denominator == constants.Denominator {
		return mathutil.PartsToPercent(f.Numerator)
	}
	return mathutil.CalculatePercentage(float64(f.Numerator), float64(f.Denominator))
}

// Owner is one co-owner's line in the report.
type Owner struct {
	Name string      `json:"name"`
	Role shares.Role `json:"role"`
	// ExcludingSubsidy is only set for parents.
	ExcludingSubsidy *Fraction `json:"excludingSubsidy,omitempty"`
	Total            Fraction  `json:"total"`
	Percent          float64   `json:"percent"`
}

// Slice is one labelled segment of a proportional chart.
type Slice struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// Report is the presentation of one allocation.
type Report struct {
	Language      Language `json:"language"`
	ApartmentCost string   `json:"apartmentCost"`
	SubsidyAmount string   `json:"subsidyAmount"`
	SubsidyShare  Fraction `json:"subsidyShare"`
	OwnFundsShare Fraction `json:"ownFundsShare"`
	Owners        []Owner  `json:"owners"`
	ChartTitle    string   `json:"chartTitle"`
	Chart         []Slice  `json:"chart"`
}

// Build assembles the report for res, labelling participants from in.
// Blank names are replaced with placeholders in lang.
func Build(in shares.Input, res shares.Result, lang Language) Report {
	named := in.WithDefaults(lang.Placeholder())

	r := Report{
		Language:      lang,
		ApartmentCost: format.Amount(in.ApartmentCost),
		SubsidyAmount: format.Amount(in.SubsidyAmount),
		SubsidyShare:  NewFraction(res.SubsidyShareParts),
		OwnFundsShare: NewFraction(res.NonSubsidyShareParts),
		ChartTitle:    lang.Printer().Sprintf(MsgChartTitle),
	}

	r.Owners = append(r.Owners, parentOwner(named.Parent1Name, res.Parent1Parts, res.ParentShareExcludingSubsidy(1)))
	if res.HasSecondParent {
		r.Owners = append(r.Owners, parentOwner(named.Parent2Name, res.Parent2Parts, res.ParentShareExcludingSubsidy(2)))
	}
	for _, name := range named.ChildNames {
		total := NewFraction(res.ChildShareParts)
		r.Owners = append(r.Owners, Owner{
			Name:    name,
			Role:    shares.RoleChild,
			Total:   total,
			Percent: total.Percent(),
		})
	}

	r.Chart = make([]Slice, 0, len(r.Owners))
	for _, owner := range r.Owners {
		r.Chart = append(r.Chart, Slice{Label: owner.Name, Percent: owner.Percent})
	}

	return r
}

func parentOwner(name string, total, excluding int) Owner {
	ex := NewFraction(excluding)
	t := NewFraction(total)
	return Owner{
		Name:             name,
		Role:             shares.RoleParent,
		ExcludingSubsidy: &ex,
		Total:            t,
		Percent:          t.Percent(),
	}
}

// Parents returns the parent lines of the report.
func (r Report) Parents() []Owner {
	return r.byRole(shares.RoleParent)
}

// Children returns the child lines of the report.
func (r Report) Children() []Owner {
	return r.byRole(shares.RoleChild)
}

func (r Report) byRole(role shares.Role) []Owner {
	var owners []Owner
	for _, owner := range r.Owners {
		if owner.Role == role {
			owners = append(owners, owner)
		}
	}
	return owners
}

// ChartTotal returns the sum of all chart percentages.
func (r Report) ChartTotal() float64 {
	total := 0.0
	for _, slice := range r.Chart {
		total += slice.Percent
	}
	return total
}
