// Package distribution implements percentage based allocation of income
// amounts to named buckets.
package distribution

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Bucket is a named share of a distribution scheme.
type Bucket struct {
	Name       string          `json:"name" example:"needs"`
	Percentage decimal.Decimal `json:"percentage" example:"50"`
}

// Scheme is a policy that maps bucket names to percentages.
// The bucket order is significant: rounding residuals are assigned
// to the last bucket.
type Scheme struct {
	Name    string   `json:"name" example:"50/30/20"`
	Buckets []Bucket `json:"buckets"`
}

var (
	ErrSchemeEmpty        = errors.New("a distribution scheme needs at least one bucket")
	ErrNegativePercentage = errors.New("bucket percentages must not be negative")
	ErrPercentageSum      = errors.New("bucket percentages must sum to exactly 100")
	ErrIncomeNotPositive  = errors.New("the income amount must be positive")
)

var hundred = decimal.NewFromInt(100)

// Presets returns the built-in distribution schemes.
func Presets() []Scheme {
	return []Scheme{
		{
			Name: "50/30/20",
			Buckets: []Bucket{
				{Name: "needs", Percentage: decimal.NewFromInt(50)},
				{Name: "wants", Percentage: decimal.NewFromInt(30)},
				{Name: "savings", Percentage: decimal.NewFromInt(20)},
			},
		},
		{
			Name: "60/20/20",
			Buckets: []Bucket{
				{Name: "needs", Percentage: decimal.NewFromInt(60)},
				{Name: "wants", Percentage: decimal.NewFromInt(20)},
				{Name: "savings", Percentage: decimal.NewFromInt(20)},
			},
		},
		{
			Name: "70/20/10",
			Buckets: []Bucket{
				{Name: "needs", Percentage: decimal.NewFromInt(70)},
				{Name: "savings", Percentage: decimal.NewFromInt(20)},
				{Name: "wants", Percentage: decimal.NewFromInt(10)},
			},
		},
	}
}

// Preset returns the preset with the given name.
func Preset(name string) (Scheme, bool) {
	for _, scheme := range Presets() {
		if scheme.Name == name {
			return scheme, true
		}
	}

	return Scheme{}, false
}

// Validate checks the scheme invariants and returns the specific one that
// is violated, if any.
func (s Scheme) Validate() error {
	if len(s.Buckets) == 0 {
		return ErrSchemeEmpty
	}

	sum := decimal.Zero
	for _, bucket := range s.Buckets {
		if bucket.Percentage.IsNegative() {
			return fmt.Errorf("%w: bucket %q has percentage %s", ErrNegativePercentage, bucket.Name, bucket.Percentage)
		}

		sum = sum.Add(bucket.Percentage)
	}

	if !sum.Equal(hundred) {
		return fmt.Errorf("%w: they sum to %s", ErrPercentageSum, sum)
	}

	return nil
}

// Allocation is the amount assigned to a single bucket.
type Allocation struct {
	Bucket string          `json:"bucket" example:"needs"`
	Amount decimal.Decimal `json:"amount" example:"50.00"`
}

// Allocate applies the scheme to an income amount.
//
// Every bucket amount is rounded to cents with bankers rounding. The residual
// that rounding leaves over is added to the last bucket so that the
// allocations always sum to exactly the income amount.
func Allocate(income decimal.Decimal, scheme Scheme) ([]Allocation, error) {
	if !income.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrIncomeNotPositive, income)
	}

	if err := scheme.Validate(); err != nil {
		return nil, err
	}

	allocations := make([]Allocation, 0, len(scheme.Buckets))
	allocated := decimal.Zero

	for _, bucket := range scheme.Buckets {
		amount := income.Mul(bucket.Percentage).Div(hundred).RoundBank(2)
		allocated = allocated.Add(amount)
		allocations = append(allocations, Allocation{Bucket: bucket.Name, Amount: amount})
	}

	// Assign the rounding drift to the last bucket
	residual := income.Sub(allocated)
	if !residual.IsZero() {
		last := len(allocations) - 1
		allocations[last].Amount = allocations[last].Amount.Add(residual)
	}

	return allocations, nil
}
