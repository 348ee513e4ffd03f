// Payment allocation: pure decisions about what a confirmed sum means for
// the fee it pays down.
package service

import "github.com/shopspring/decimal"

type AllocationResult struct {
	Total       decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
	FullyPaid   bool
}

// Allocate compares confirmed payments against the fee total. Overpayment
// clamps outstanding to zero; a zero-total fee is never "fully paid" by
// zero payments.
func Allocate(total, confirmedSum decimal.Decimal) AllocationResult {
	out := total.Sub(confirmedSum)
	if out.IsNegative() {
		out = decimal.Zero
	}
	return AllocationResult{
		Total:       total,
		Paid:        confirmedSum,
		Outstanding: out,
		FullyPaid:   total.GreaterThan(decimal.Zero) && confirmedSum.GreaterThanOrEqual(total),
	}
}
