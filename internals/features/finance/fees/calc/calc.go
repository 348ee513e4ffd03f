// Package calc holds the annual-fee amount calculator. Pure functions only:
// no DB, no context, always returns a result.
package calc

import "github.com/shopspring/decimal"

// VAT is fixed by law (18% since December 2024). Deliberately not a config
// knob: when the rate changes the constant changes with a migration of open
// drafts.
const VATRatePercent = 18

// Default inflation adjustment applied when a calculation does not override it.
var DefaultInflationRate = decimal.NewFromInt(3)

var (
	hundred = decimal.NewFromInt(100)
	vatRate = decimal.NewFromInt(VATRatePercent).Div(hundred)
)

// Input is the full set of calculator inputs. Zero values are meaningful
// (no adjustment, no discount); defaults are the caller's job.
type Input struct {
	BaseAmount          decimal.Decimal
	ApplyInflationIndex bool
	InflationRate       decimal.Decimal
	RealAdjustment      decimal.Decimal
	DiscountPercentage  decimal.Decimal

	// Prior-year total including VAT; nil or zero disables the YoY delta.
	PreviousYearTotalWithVAT *decimal.Decimal
}

// Output carries every derived amount. Money values are rounded half-up to
// 2 decimal places (agorot) at each step; ChangePercent keeps 4 places for
// display.
type Output struct {
	InflationAdjustment decimal.Decimal
	AdjustedAmount      decimal.Decimal
	DiscountAmount      decimal.Decimal
	FinalAmount         decimal.Decimal
	VATAmount           decimal.Decimal
	TotalWithVAT        decimal.Decimal

	ChangeAmount  decimal.Decimal
	ChangePercent decimal.Decimal
}

// CalculateFeeAmounts runs the fixed adjustment pipeline:
// inflation → real adjustment → discount → VAT → year-over-year delta.
func CalculateFeeAmounts(in Input) Output {
	var out Output

	if in.ApplyInflationIndex {
		out.InflationAdjustment = in.BaseAmount.Mul(in.InflationRate).Div(hundred).Round(2)
	} else {
		out.InflationAdjustment = decimal.Zero
	}

	out.AdjustedAmount = in.BaseAmount.Add(out.InflationAdjustment).Add(in.RealAdjustment).Round(2)
	out.DiscountAmount = out.AdjustedAmount.Mul(in.DiscountPercentage).Div(hundred).Round(2)
	out.FinalAmount = out.AdjustedAmount.Sub(out.DiscountAmount).Round(2)
	out.VATAmount = out.FinalAmount.Mul(vatRate).Round(2)
	out.TotalWithVAT = out.FinalAmount.Add(out.VATAmount).Round(2)

	// YoY guard: absent or zero prior year means both deltas stay zero.
	if in.PreviousYearTotalWithVAT != nil && !in.PreviousYearTotalWithVAT.IsZero() {
		prev := *in.PreviousYearTotalWithVAT
		out.ChangeAmount = out.TotalWithVAT.Sub(prev).Round(2)
		out.ChangePercent = out.ChangeAmount.Div(prev).Mul(hundred).Round(4)
	} else {
		out.ChangeAmount = decimal.Zero
		out.ChangePercent = decimal.Zero
	}

	return out
}
