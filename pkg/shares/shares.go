// Package shares allocates ownership of an apartment bought partly with
// maternal capital among the parents and children who co-own it.
//
// Every share is an integer numerator over constants.Denominator and a
// successful allocation always partitions the whole apartment exactly.
// Each child receives the same share, at least an equal fraction of the
// subsidized portion; parents split the rest.
package shares

import (
	"fmt"

	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Denominator is the fixed denominator of every share.
const Denominator = constants.Denominator

var denominator = decimal.NewFromInt(Denominator)

// Input holds the values of one calculation. It is treated as immutable;
// helpers return modified copies.
type Input struct {
	ApartmentCost   decimal.Decimal
	SubsidyAmount   decimal.Decimal
	NumChildren     int
	HasSecondParent bool
	Parent1Name     string
	Parent2Name     string
	ChildNames      []string
}

// NumParents returns 2 when the second parent participates and 1 otherwise.
func (in Input) NumParents() int {
	if in.HasSecondParent {
		return constants.MaxParents
	}
	return constants.MinParents
}

// Participants returns the number of co-owners.
func (in Input) Participants() int {
	return in.NumParents() + in.NumChildren
}

// Validate checks the range constraints on the monetary inputs and the
// number of children.
func (in Input) Validate() error {
	if !in.ApartmentCost.IsPositive() {
		return &InvalidInputError{Field: "apartment cost", Reason: "must be positive"}
	}
	if in.SubsidyAmount.IsNegative() || in.SubsidyAmount.GreaterThan(in.ApartmentCost) {
		return &InvalidInputError{
			Field:  "subsidy amount",
			Reason: fmt.Sprintf("must be between 0 and the apartment cost %s", in.ApartmentCost.StringFixed(2)),
		}
	}
	if in.NumChildren < 0 || in.NumChildren > constants.MaxChildren {
		return &InvalidInputError{
			Field:  "number of children",
			Reason: fmt.Sprintf("must be between 0 and %d", constants.MaxChildren),
		}
	}
	return nil
}

// Result is the allocation of one calculation.
type Result struct {
	SubsidyShareParts    int  `json:"subsidyShareParts"`
	NonSubsidyShareParts int  `json:"nonSubsidyShareParts"`
	Parent1Parts         int  `json:"parent1Parts"`
	Parent2Parts         int  `json:"parent2Parts"`
	ChildShareParts      int  `json:"childShareParts"`
	NumChildren          int  `json:"numChildren"`
	HasSecondParent      bool `json:"hasSecondParent"`
}

// TotalChildParts returns the parts held by all children together.
func (r Result) TotalChildParts() int {
	return r.ChildShareParts * r.NumChildren
}

// Sum returns the parts held by all participants together.
func (r Result) Sum() int {
	return r.Parent1Parts + r.Parent2Parts + r.TotalChildParts()
}

// ParentShareExcludingSubsidy returns the share of parent 1 or 2 net of the
// per-person subsidy minimum, floored at zero.
func (r Result) ParentShareExcludingSubsidy(parent int) int {
	total := r.Parent1Parts
	if parent == 2 {
		total = r.Parent2Parts
	}
	if v := total - r.ChildShareParts; v > 0 {
		return v
	}
	return 0
}

// Validate checks that the result partitions the whole apartment.
func (r Result) Validate() error {
	if r.SubsidyShareParts+r.NonSubsidyShareParts != Denominator {
		return fmt.Errorf("%w: subsidy split %d+%d does not equal %d",
			ErrAllocation, r.SubsidyShareParts, r.NonSubsidyShareParts, Denominator)
	}
	if sum := r.Sum(); sum != Denominator {
		return fmt.Errorf("%w: shares sum to %d, expected %d", ErrAllocation, sum, Denominator)
	}
	if r.Parent1Parts < 0 || r.Parent2Parts < 0 || r.ChildShareParts < 0 ||
		r.SubsidyShareParts < 0 || r.NonSubsidyShareParts < 0 {
		return fmt.Errorf("%w: negative share in %+v", ErrAllocation, r)
	}
	if !r.HasSecondParent && r.Parent2Parts != 0 {
		return fmt.Errorf("%w: absent second parent holds %d parts", ErrAllocation, r.Parent2Parts)
	}
	return nil
}

// Allocate computes the shares for in. It fails with an *InvalidInputError
// when the apartment cost is not positive, the subsidy lies outside
// [0, cost] or the number of children is out of range.
func Allocate(in Input, opts ...Option) (Result, error) {
	o := newOptions(opts)

	if err := in.Validate(); err != nil {
		o.logger.Debug("rejected allocation input",
			zap.String("op", "shares.Allocate"),
			zap.Error(err),
		)
		o.observer.ObserveAllocation(OutcomeInvalid, 0)
		return Result{}, err
	}

	res := Result{
		NumChildren:     in.NumChildren,
		HasSecondParent: in.HasSecondParent,
	}

	// Subsidy portion of the whole, in parts.
	scaledSubsidy := in.SubsidyAmount.Mul(denominator)
	res.SubsidyShareParts = o.rounding.roundQuotient(scaledSubsidy, in.ApartmentCost)
	res.NonSubsidyShareParts = Denominator - res.SubsidyShareParts

	// Every child gets the per-person subsidy ratio, rounded up.
	if in.NumChildren > 0 {
		perPerson := in.ApartmentCost.Mul(decimal.NewFromInt(int64(in.Participants())))
		res.ChildShareParts = ceilQuotient(scaledSubsidy, perPerson)
	}
	remainingSubsidy := res.SubsidyShareParts - res.TotalChildParts()

	if in.HasSecondParent {
		each := res.NonSubsidyShareParts/2 + o.rounding.half(remainingSubsidy)
		res.Parent1Parts = each
		res.Parent2Parts = each
	} else {
		res.Parent1Parts = res.NonSubsidyShareParts + remainingSubsidy
	}

	delta := reconcile(&res)

	if err := res.Validate(); err != nil {
		o.logger.Error("allocation invariant violated",
			zap.String("op", "shares.Allocate"),
			zap.Any("result", res),
			zap.Error(err),
		)
		o.observer.ObserveAllocation(OutcomeError, delta)
		return Result{}, err
	}
	o.observer.ObserveAllocation(OutcomeOK, delta)

	o.logger.Debug("computed allocation",
		zap.String("op", "shares.Allocate"),
		zap.Int("participants", in.Participants()),
		zap.Int("subsidyParts", res.SubsidyShareParts),
		zap.Int("childParts", res.ChildShareParts),
		zap.Int("parent1Parts", res.Parent1Parts),
		zap.Int("parent2Parts", res.Parent2Parts),
		zap.Int("delta", delta),
		zap.Stringer("rounding", o.rounding),
	)

	return res, nil
}

// reconcile moves the difference between Denominator and the current sum
// onto the participants and returns that difference. Exactness always
// wins over equal parent shares: an odd part goes to parent 1, leaving the
// parents at most one part apart. A deficit the parents cannot absorb
// without going negative is taken from the per-child share first.
func reconcile(res *Result) int {
	delta := Denominator - res.Sum()
	if delta == 0 {
		return 0
	}

	remaining := delta
	if remaining < 0 && res.NumChildren > 0 && res.Parent1Parts+res.Parent2Parts+remaining < 0 {
		perChild := mathutil.FloorDiv(remaining, res.NumChildren)
		if res.ChildShareParts+perChild < 0 {
			perChild = -res.ChildShareParts
		}
		res.ChildShareParts += perChild
		remaining -= perChild * res.NumChildren
	}

	if res.HasSecondParent {
		half := mathutil.FloorDiv(remaining, 2)
		res.Parent1Parts += half
		res.Parent2Parts += half
		res.Parent1Parts += remaining - 2*half
	} else {
		res.Parent1Parts += remaining
	}

	return delta
}
