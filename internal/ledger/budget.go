package ledger

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// BudgetStatus compares what has been spent with the ceiling.
type BudgetStatus struct {
	Spent        decimal.Decimal
	Ceiling      decimal.Decimal
	WithinBudget bool
	// UsageRatio is Spent/Ceiling and may exceed 1.
	UsageRatio decimal.Decimal
	// Overage is Spent-Ceiling when over budget, zero otherwise.
	Overage   decimal.Decimal
	Remaining decimal.Decimal
}

func newBudgetStatus(spent, ceiling decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		Spent:        spent,
		Ceiling:      ceiling,
		WithinBudget: spent.LessThanOrEqual(ceiling),
		UsageRatio:   spent.Div(ceiling),
		Overage:      decimal.Zero,
		Remaining:    decimal.Zero,
	}
	if status.WithinBudget {
		status.Remaining = ceiling.Sub(spent)
	} else {
		status.Overage = spent.Sub(ceiling)
	}
	return status
}

// DisplayPercent is the usage as a percentage clamped to [0, 100].
func (s BudgetStatus) DisplayPercent() float64 {
	pct := s.UsageRatio.Mul(hundred)
	if pct.IsNegative() {
		return 0
	}
	if pct.GreaterThan(hundred) {
		return 100
	}
	return pct.InexactFloat64()
}
